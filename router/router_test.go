package router

import (
	"strings"
	"testing"

	"github.com/TEENet-io/swapflow/common"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRoutes(t *testing.T) {
	r, err := New(DefaultConfig())
	require.NoError(t, err)

	alt := r.Route(ethcommon.HexToAddress(AltTokenAddress))
	assert.Equal(t, AltProvider, alt.Provider)
	assert.Equal(t, ethcommon.HexToAddress(AltContract), alt.Contract)

	// the match is on the full address, not on a prefix
	near := ethcommon.HexToAddress("0x853f409f60d477b5e4ecdff2f2094d4670afa0a2")
	def := r.Route(near)
	assert.Equal(t, DefaultProvider, def.Provider)
	assert.Equal(t, ethcommon.HexToAddress(DefaultContract), def.Contract)

	def = r.Route(common.RandEthAddress())
	assert.Equal(t, r.Default(), def)

	def = r.Route(ethcommon.HexToAddress(EthereumTokenAddress))
	assert.Equal(t, r.Default(), def)
}

func TestRouteCaseInsensitive(t *testing.T) {
	r, err := New(&Config{
		DefaultProvider: "http://default",
		DefaultContract: DefaultContract,
		Tokens: []TokenRoute{
			{Token: "0x" + strings.ToUpper(AltTokenAddress[2:]), Provider: "http://alt", Contract: AltContract},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "http://alt", r.Route(ethcommon.HexToAddress(AltTokenAddress)).Provider)
}

func TestBadConfig(t *testing.T) {
	_, err := New(&Config{DefaultContract: "0x1234"})
	assert.ErrorIs(t, err, ErrAddressParse)

	_, err = New(&Config{
		DefaultContract: DefaultContract,
		Tokens:          []TokenRoute{{Token: AltTokenAddress, Contract: "not an address"}},
	})
	assert.ErrorIs(t, err, ErrAddressParse)

	_, err = ParseAddress("0xc31beb2a223435a38141Ee15C157672A9fA2997D")
	assert.NoError(t, err)
}
