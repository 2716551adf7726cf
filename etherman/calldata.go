package etherman

import (
	"encoding/hex"
	"fmt"
	"math/big"

	"github.com/TEENet-io/swapflow/common"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// SignatureLength is r || s || v.
const SignatureLength = crypto.SignatureLength

// Tuple argument of executeSwap(). Field names follow the ABI components.
type executeSwapParams struct {
	GlobalTxId       [32]byte
	User             ethcommon.Address
	TokenAddress     ethcommon.Address
	Amount           *big.Int
	ReceivingAddress ethcommon.Address
}

// Tuple argument of finalizeSwap().
type finalizeSwapParams struct {
	GlobalTxId [32]byte
	User       ethcommon.Address
}

// ParseSignature parses a hex encoded recoverable signature, with or without
// 0x prefix.
func ParseSignature(sig string) ([]byte, error) {
	b, err := hex.DecodeString(common.Trim0xPrefix(sig))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSignatureParse, err)
	}
	if len(b) != SignatureLength {
		return nil, fmt.Errorf("%w: invalid signature length %d, expected %d", ErrSignatureParse, len(b), SignatureLength)
	}
	return b, nil
}

// EncodeExecuteSwap returns selector || abi.encode(payload, signature).
func EncodeExecuteSwap(p *ExecutePayload, sig []byte) ([]byte, error) {
	params := executeSwapParams{
		GlobalTxId:       p.GlobalTxId,
		User:             p.User.Eth(),
		TokenAddress:     p.TokenAddress.Eth(),
		Amount:           p.Amount.Big(),
		ReceivingAddress: p.ReceivingAddress.Eth(),
	}
	return swapFlowABI.Pack(ExecuteSwapMethodName, params, sig)
}

// EncodeFinalizeSwap returns selector || abi.encode(payload, signature).
func EncodeFinalizeSwap(p *FinalizePayload, sig []byte) ([]byte, error) {
	params := finalizeSwapParams{
		GlobalTxId: p.GlobalTxId,
		User:       p.User.Eth(),
	}
	return swapFlowABI.Pack(FinalizeSwapMethodName, params, sig)
}
