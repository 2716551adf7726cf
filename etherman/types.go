package etherman

import (
	"github.com/TEENet-io/swapflow/normalizer"
	ethcommon "github.com/ethereum/go-ethereum/common"
)

type EventType string

const (
	EventSwapInitiated EventType = SwapInitiatedEventName
	EventSwapExecuted  EventType = SwapExecutedEventName
)

// Event is a decoded swap log.
type Event interface {
	Type() EventType
	TxId() ethcommon.Hash
}

// Emitted on the source chain when a user locks tokens for a swap.
type SwapInitiatedEvent struct {
	GlobalTxId       ethcommon.Hash     `json:"global_tx_id"`
	InTokenAddress   normalizer.Address `json:"in_token_address"`
	InAmount         normalizer.Amount  `json:"in_amount"`
	SourceChain      string             `json:"source_chain"`
	DestinationChain string             `json:"destination_chain"`
	OutTokenAddress  normalizer.Address `json:"out_token_address"`
	OutAmountMin     normalizer.Amount  `json:"out_amount_min"`
	ReceivingAddress normalizer.Address `json:"receiving_address"`
}

func (ev *SwapInitiatedEvent) Type() EventType      { return EventSwapInitiated }
func (ev *SwapInitiatedEvent) TxId() ethcommon.Hash { return ev.GlobalTxId }

// Emitted on the destination chain once executeSwap went through. It records
// what happened and is never sent anywhere, unlike ExecutePayload.
type SwapExecutedEvent struct {
	GlobalTxId       ethcommon.Hash     `json:"global_tx_id"`
	User             normalizer.Address `json:"user"`
	TokenAddress     normalizer.Address `json:"token_address"`
	Amount           normalizer.Amount  `json:"amount"`
	ReceivingAddress normalizer.Address `json:"receiving_address"`
}

func (ev *SwapExecutedEvent) Type() EventType      { return EventSwapExecuted }
func (ev *SwapExecutedEvent) TxId() ethcommon.Hash { return ev.GlobalTxId }

// Params of executeSwap() on the destination chain, pending a signature.
type ExecutePayload struct {
	GlobalTxId       ethcommon.Hash     `json:"global_tx_id"`
	User             normalizer.Address `json:"user"`
	TokenAddress     normalizer.Address `json:"token_address"`
	Amount           normalizer.Amount  `json:"amount"`
	ReceivingAddress normalizer.Address `json:"receiving_address"`
}

// Params of finalizeSwap() on the source chain, pending a signature.
type FinalizePayload struct {
	GlobalTxId ethcommon.Hash     `json:"global_tx_id"`
	User       normalizer.Address `json:"user"`
}
