package registry

import (
	"encoding/json"
	"fmt"
)

// EventSource describes one contract event a relayer is allowed to feed
// into a flow.
type EventSource struct {
	FlowContractAddress  string   `json:"flow_contract_address"`
	SourceID             string   `json:"source_id"`
	Chain                string   `json:"chain"`
	SourceType           string   `json:"source_type"`
	SmartContractAddress string   `json:"smart_contract_address"`
	EventType            string   `json:"event_type"`
	EventFilters         []string `json:"event_filters"`
}

type Operation string

const (
	OpCreate Operation = "Create"
	OpRemove Operation = "Remove"
)

func (op *Operation) UnmarshalText(text []byte) error {
	switch Operation(text) {
	case OpCreate, OpRemove:
		*op = Operation(text)
		return nil
	}
	return fmt.Errorf("unknown operation %q", string(text))
}

// EventSourceOp is one entry of the append-only registry log.
type EventSourceOp struct {
	EventSource EventSource `json:"event_source"`
	Op          Operation   `json:"op"`
}

// identity is used to pair a Remove with the Create it cancels.
func (s *EventSource) identity() string {
	b, _ := json.Marshal(s)
	return string(b)
}
