// Package normalizer converts fixed-width integers and addresses between the
// big-endian form found in chain logs and the representation kept in state.
package normalizer

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"
)

const (
	AmountLength  = 32
	AddressLength = ethcommon.AddressLength
)

var ErrConversion = errors.New("conversion error")

// Amount is a 256-bit unsigned integer stored little-endian.
type Amount [AmountLength]byte

// AmountFromWire takes a 32-byte big-endian word.
func AmountFromWire(b []byte) (Amount, error) {
	var a Amount
	if len(b) != AmountLength {
		return a, fmt.Errorf("%w: amount expects %d bytes, got %d", ErrConversion, AmountLength, len(b))
	}
	for i := 0; i < AmountLength; i++ {
		a[i] = b[AmountLength-1-i]
	}
	return a, nil
}

// Wire returns the big-endian word.
func (a Amount) Wire() [AmountLength]byte {
	var w [AmountLength]byte
	for i := 0; i < AmountLength; i++ {
		w[i] = a[AmountLength-1-i]
	}
	return w
}

func AmountFromUint256(v *uint256.Int) Amount {
	w := v.Bytes32()
	a, _ := AmountFromWire(w[:])
	return a
}

// AmountFromBig fails for negative values and values wider than 256 bits.
func AmountFromBig(v *big.Int) (Amount, error) {
	if v == nil || v.Sign() < 0 {
		return Amount{}, fmt.Errorf("%w: amount must be a non-negative integer", ErrConversion)
	}
	u, overflow := uint256.FromBig(v)
	if overflow {
		return Amount{}, fmt.Errorf("%w: amount exceeds 256 bits", ErrConversion)
	}
	return AmountFromUint256(u), nil
}

func (a Amount) Uint256() *uint256.Int {
	w := a.Wire()
	return new(uint256.Int).SetBytes32(w[:])
}

func (a Amount) Big() *big.Int {
	return a.Uint256().ToBig()
}

// Hex returns the lowercase hex digits without leading zeros ("0" for zero)
// and without prefix.
func (a Amount) Hex() string {
	return strings.TrimPrefix(a.Uint256().Hex(), "0x")
}

func (a Amount) String() string {
	return a.Uint256().Dec()
}

func (a Amount) MarshalText() ([]byte, error) {
	return []byte(hexutil.EncodeBig(a.Big())), nil
}

func (a *Amount) UnmarshalText(input []byte) error {
	v, err := hexutil.DecodeBig(string(input))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConversion, err)
	}
	conv, err := AmountFromBig(v)
	if err != nil {
		return err
	}
	*a = conv
	return nil
}

// Address is a 20-byte chain address. Conversion is a plain byte copy.
type Address [AddressLength]byte

func AddressFromWire(b []byte) (Address, error) {
	var a Address
	if len(b) != AddressLength {
		return a, fmt.Errorf("%w: address expects %d bytes, got %d", ErrConversion, AddressLength, len(b))
	}
	copy(a[:], b)
	return a, nil
}

func (a Address) Wire() [AddressLength]byte {
	return a
}

func AddressFromEth(addr ethcommon.Address) Address {
	return Address(addr)
}

func (a Address) Eth() ethcommon.Address {
	return ethcommon.Address(a)
}

// Hex returns all 40 lowercase hex digits, no prefix.
func (a Address) Hex() string {
	return ethcommon.Bytes2Hex(a[:])
}

func (a Address) String() string {
	return "0x" + a.Hex()
}

func (a Address) MarshalText() ([]byte, error) {
	return hexutil.Bytes(a[:]).MarshalText()
}

func (a *Address) UnmarshalText(input []byte) error {
	if err := hexutil.UnmarshalFixedText("Address", input, a[:]); err != nil {
		return fmt.Errorf("%w: %v", ErrConversion, err)
	}
	return nil
}
