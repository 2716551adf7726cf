package router

import (
	"errors"
	"fmt"
	"strings"

	ethcommon "github.com/ethereum/go-ethereum/common"
)

const (
	DefaultProvider = "https://goerli.infura.io/v3/904a9154641d44348e7fab88570219e9"
	DefaultContract = "0xDa4140B906044aCFb1aF3b34C94A2803D90e96aA"

	// Optimism Goerli, used for the alt token below.
	AltTokenAddress = "0x853f409f60d477b5e4ecdff2f2094d4670afa0a1"
	AltProvider     = "https://optimism-goerli.infura.io/v3/904a9154641d44348e7fab88570219e9"
	AltContract     = "0x44436A43330122a61A4877E51bA54084D5BD0aC6"

	// Kept for reference, ethereum has no dedicated route.
	EthereumTokenAddress = "0x4603e703309cd6c0b8bada1e724312242ef36ecb"
)

var ErrAddressParse = errors.New("failed to parse address")

// Route is the chain a call has to be submitted to.
type Route struct {
	Provider string
	Contract ethcommon.Address
}

type TokenRoute struct {
	Token    string
	Provider string
	Contract string
}

type Config struct {
	DefaultProvider string
	DefaultContract string
	Tokens          []TokenRoute
}

// DefaultConfig routes the alt token to optimism and everything else to
// ethereum goerli.
func DefaultConfig() *Config {
	return &Config{
		DefaultProvider: DefaultProvider,
		DefaultContract: DefaultContract,
		Tokens: []TokenRoute{
			{Token: AltTokenAddress, Provider: AltProvider, Contract: AltContract},
		},
	}
}

type Router struct {
	fallback Route
	routes   map[string]Route
}

func New(cfg *Config) (*Router, error) {
	contract, err := ParseAddress(cfg.DefaultContract)
	if err != nil {
		return nil, err
	}

	r := &Router{
		fallback: Route{Provider: cfg.DefaultProvider, Contract: contract},
		routes:   make(map[string]Route, len(cfg.Tokens)),
	}

	for _, tr := range cfg.Tokens {
		token, err := ParseAddress(tr.Token)
		if err != nil {
			return nil, err
		}
		contract, err := ParseAddress(tr.Contract)
		if err != nil {
			return nil, err
		}
		r.routes[routeKey(token)] = Route{Provider: tr.Provider, Contract: contract}
	}

	return r, nil
}

// Route returns the route of token, or the default route when token has
// none.
func (r *Router) Route(token ethcommon.Address) Route {
	if route, ok := r.routes[routeKey(token)]; ok {
		return route
	}
	return r.fallback
}

func (r *Router) Default() Route {
	return r.fallback
}

func routeKey(addr ethcommon.Address) string {
	return strings.ToLower(addr.Hex())
}

// ParseAddress accepts a 20-byte hex address in any case, 0x prefix optional.
func ParseAddress(s string) (ethcommon.Address, error) {
	s = strings.TrimSpace(s)
	if !ethcommon.IsHexAddress(s) {
		return ethcommon.Address{}, fmt.Errorf("%w: %q", ErrAddressParse, s)
	}
	return ethcommon.HexToAddress(s), nil
}
