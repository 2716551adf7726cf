package state

import (
	"fmt"

	"github.com/TEENet-io/swapflow/etherman"
)

type PayloadType string

const (
	PayloadExecuteSwap  PayloadType = "execute_swap"
	PayloadFinalizeSwap PayloadType = "finalize_swap"
)

// EventRecord is the stored form of a decoded event. Exactly one of the
// event fields is set, matching Type.
type EventRecord struct {
	Type          etherman.EventType           `json:"type"`
	SwapInitiated *etherman.SwapInitiatedEvent `json:"swap_initiated,omitempty"`
	SwapExecuted  *etherman.SwapExecutedEvent  `json:"swap_executed,omitempty"`
}

func NewEventRecord(ev etherman.Event) (*EventRecord, error) {
	switch e := ev.(type) {
	case *etherman.SwapInitiatedEvent:
		return &EventRecord{Type: etherman.EventSwapInitiated, SwapInitiated: e}, nil
	case *etherman.SwapExecutedEvent:
		return &EventRecord{Type: etherman.EventSwapExecuted, SwapExecuted: e}, nil
	default:
		return nil, fmt.Errorf("%w: event %T", ErrInvalidRecord, ev)
	}
}

func (r *EventRecord) Event() etherman.Event {
	switch r.Type {
	case etherman.EventSwapInitiated:
		return r.SwapInitiated
	case etherman.EventSwapExecuted:
		return r.SwapExecuted
	}
	return nil
}

func (r *EventRecord) validate() error {
	ok := false
	switch r.Type {
	case etherman.EventSwapInitiated:
		ok = r.SwapInitiated != nil && r.SwapExecuted == nil
	case etherman.EventSwapExecuted:
		ok = r.SwapExecuted != nil && r.SwapInitiated == nil
	}
	if !ok {
		return fmt.Errorf("%w: event record of type %q", ErrInvalidRecord, r.Type)
	}
	return nil
}

// PayloadRecord is the stored form of a pending payload. Exactly one of the
// payload fields is set, matching Type.
type PayloadRecord struct {
	Type         PayloadType               `json:"type"`
	ExecuteSwap  *etherman.ExecutePayload  `json:"execute_swap,omitempty"`
	FinalizeSwap *etherman.FinalizePayload `json:"finalize_swap,omitempty"`
}

func NewExecuteSwapRecord(p *etherman.ExecutePayload) *PayloadRecord {
	return &PayloadRecord{Type: PayloadExecuteSwap, ExecuteSwap: p}
}

func NewFinalizeSwapRecord(p *etherman.FinalizePayload) *PayloadRecord {
	return &PayloadRecord{Type: PayloadFinalizeSwap, FinalizeSwap: p}
}

func (r *PayloadRecord) validate() error {
	ok := false
	switch r.Type {
	case PayloadExecuteSwap:
		ok = r.ExecuteSwap != nil && r.FinalizeSwap == nil
	case PayloadFinalizeSwap:
		ok = r.FinalizeSwap != nil && r.ExecuteSwap == nil
	}
	if !ok {
		return fmt.Errorf("%w: payload record of type %q", ErrInvalidRecord, r.Type)
	}
	return nil
}
