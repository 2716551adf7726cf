package common

import (
	"math/big"
	"testing"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
)

func TestPrefix(t *testing.T) {
	assert.Equal(t, "ab", Trim0xPrefix("0xab"))
	assert.Equal(t, "ab", Trim0xPrefix("0Xab"))
	assert.Equal(t, "0xab", Prepend0xPrefix("ab"))
	assert.Equal(t, "0Xab", Prepend0xPrefix("0Xab"))
}

func TestHexStrToBytes32(t *testing.T) {
	b := HexStrToBytes32("0x01")
	assert.Equal(t, byte(1), b[31])
	assert.Equal(t, [31]byte{}, [31]byte(b[:31]))
}

func TestShorten(t *testing.T) {
	assert.Equal(t, "0x1234...cdef", Shorten("0x1234567890abcdef", 4))
	assert.Equal(t, "0x1234", Shorten("1234", 4))
}

func TestIsHexString(t *testing.T) {
	assert.True(t, IsHexString("0xdeadBEEF"))
	assert.True(t, IsHexString(""))
	assert.False(t, IsHexString("0xzz"))
}

func TestEncodePacked(t *testing.T) {
	addr := ethcommon.HexToAddress("0x00000000000000000000000000000000000000ff")
	out, err := EncodePacked([32]byte{1}, addr, big.NewInt(2), []byte{3})
	assert.NoError(t, err)
	assert.Len(t, out, 32+20+32+1)
	assert.Equal(t, byte(1), out[0])
	assert.Equal(t, byte(0xff), out[51])
	assert.Equal(t, byte(2), out[83])
	assert.Equal(t, byte(3), out[84])

	_, err = EncodePacked(big.NewInt(-1))
	assert.Error(t, err)
	_, err = EncodePacked(1.5)
	assert.Error(t, err)
}
