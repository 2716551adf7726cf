package state

import (
	"fmt"

	"github.com/TEENet-io/swapflow/etherman"
)

// DeriveExecutePayload turns a SwapInitiated event into the executeSwap()
// call awaited on the destination chain.
func DeriveExecutePayload(ev *etherman.SwapInitiatedEvent) *etherman.ExecutePayload {
	return &etherman.ExecutePayload{
		GlobalTxId:       ev.GlobalTxId,
		User:             ev.ReceivingAddress,
		TokenAddress:     ev.InTokenAddress,
		Amount:           ev.OutAmountMin,
		ReceivingAddress: ev.ReceivingAddress,
	}
}

// DeriveFinalizePayload turns a SwapExecuted event into the finalizeSwap()
// call awaited on the source chain.
func DeriveFinalizePayload(ev *etherman.SwapExecutedEvent) *etherman.FinalizePayload {
	return &etherman.FinalizePayload{
		GlobalTxId: ev.GlobalTxId,
		User:       ev.User,
	}
}

func DerivePayload(ev etherman.Event) (*PayloadRecord, error) {
	switch e := ev.(type) {
	case *etherman.SwapInitiatedEvent:
		return NewExecuteSwapRecord(DeriveExecutePayload(e)), nil
	case *etherman.SwapExecutedEvent:
		return NewFinalizeSwapRecord(DeriveFinalizePayload(e)), nil
	default:
		return nil, fmt.Errorf("%w: event %T", ErrInvalidRecord, ev)
	}
}
