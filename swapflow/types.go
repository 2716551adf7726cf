package swapflow

import (
	"errors"

	"github.com/TEENet-io/swapflow/router"
	"github.com/TEENet-io/swapflow/state"
)

// DefaultRelayerAddress is the account that submits calls on both chains.
const DefaultRelayerAddress = "0xc31beb2a223435a38141Ee15C157672A9fA2997D"

var ErrUnknownGlobalTxID = errors.New("unknown global tx id")

type Config struct {
	// RelayerAddress is reported as the sender of every call.
	RelayerAddress string
	Router         *router.Config
}

func DefaultConfig() *Config {
	return &Config{
		RelayerAddress: DefaultRelayerAddress,
		Router:         router.DefaultConfig(),
	}
}

// CallData is everything a submitter needs to send a signed payload.
type CallData struct {
	InputData string `json:"input_data"`
	Provider  string `json:"provider"`
	To        string `json:"to"`
	From      string `json:"from"`
}

// Notification is published for every committed event.
type Notification struct {
	GlobalTxId string               `json:"global_tx_id"`
	Count      uint64               `json:"count"`
	Event      *state.EventRecord   `json:"event"`
	Payload    *state.PayloadRecord `json:"payload"`
}
