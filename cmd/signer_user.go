package cmd

import (
	"crypto/ecdsa"
	"fmt"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/TEENet-io/swapflow/common"
	"github.com/TEENet-io/swapflow/reporter"
	"github.com/TEENet-io/swapflow/swapflow"
)

type SignerUserConfig struct {
	ServerIp   string // swap flow server http ip
	ServerPort string // swap flow server http port
	SignerPriv string // hex private key that signs payloads
}

// SignerUser is the off-chain key holder: it signs pending payloads of a
// swap flow server and collects the resulting calldata.
type SignerUser struct {
	key    *ecdsa.PrivateKey
	reader *reporter.HttpReader
}

func NewSignerUser(suc *SignerUserConfig) (*SignerUser, error) {
	key, err := crypto.HexToECDSA(common.Trim0xPrefix(suc.SignerPriv))
	if err != nil {
		return nil, fmt.Errorf("invalid signer private key: %v", err)
	}
	return &SignerUser{
		key:    key,
		reader: reporter.NewHttpReader(suc.ServerIp, suc.ServerPort),
	}, nil
}

func (su *SignerUser) GetAddress() string {
	return crypto.PubkeyToAddress(su.key.PublicKey).Hex()
}

func (su *SignerUser) GetEventCount() (uint64, error) {
	return su.reader.GetEventCount()
}

// Sign signs the pending payload of globalTxID and returns the signature as
// 0x hex, r || s || v.
func (su *SignerUser) Sign(globalTxID string) (string, error) {
	hash, err := su.reader.GetSigningHash(globalTxID)
	if err != nil {
		return "", err
	}
	digest := ethcommon.FromHex(hash)
	if len(digest) != ethcommon.HashLength {
		return "", fmt.Errorf("unexpected signing hash %q", hash)
	}
	sig, err := crypto.Sign(digest, su.key)
	if err != nil {
		return "", err
	}
	return hexutil.Encode(sig), nil
}

// SignAndGetCallData is Sign followed by fetching the calldata with the
// signature.
func (su *SignerUser) SignAndGetCallData(globalTxID string) (*swapflow.CallData, error) {
	sig, err := su.Sign(globalTxID)
	if err != nil {
		return nil, err
	}
	return su.reader.GetCallData(globalTxID, sig)
}
