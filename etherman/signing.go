package etherman

import (
	"encoding/hex"
	"fmt"

	"github.com/ethereum/go-ethereum/crypto"
)

// SigningHash returns the keccak256 digest, as lowercase hex without prefix,
// that the relayer key signs before executeSwap() can be submitted.
//
// The preimage is assembled as a hex string: global tx id, user, token
// address, amount left-padded to 32 bytes, receiving address. Deployed
// signers depend on this exact layout.
func (p *ExecutePayload) SigningHash() (string, error) {
	data := bytesToHexString(p.GlobalTxId[:]) +
		p.User.Hex() +
		p.TokenAddress.Hex() +
		zeroPadString(p.Amount.Hex()) +
		p.ReceivingAddress.Hex()

	return keccakHexPreimage(data)
}

// SigningHash returns the digest signed before finalizeSwap() is submitted.
// Its preimage is the global tx id followed by the user.
func (p *FinalizePayload) SigningHash() (string, error) {
	data := bytesToHexString(p.GlobalTxId[:]) + p.User.Hex()

	return keccakHexPreimage(data)
}

// data carries the 0x prefix added by bytesToHexString.
func keccakHexPreimage(data string) (string, error) {
	decoded, err := hex.DecodeString(data[2:])
	if err != nil {
		return "", fmt.Errorf("invalid signing preimage: %v", err)
	}
	return hex.EncodeToString(crypto.Keccak256(decoded)), nil
}
