package etherman

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/TEENet-io/swapflow/normalizer"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
)

// Source ids accepted by DecodeLog.
const (
	SourceSwapInitiated uint64 = 0
	SourceSwapExecuted  uint64 = 1
)

// jsonLog is the subset of an eth_getLogs entry needed for decoding. Block
// and transaction metadata are optional.
type jsonLog struct {
	Address *ethcommon.Address `json:"address"`
	Topics  []ethcommon.Hash   `json:"topics"`
	Data    *hexutil.Bytes     `json:"data"`
}

// DecodeLog decodes a base64 wrapped JSON log emitted by one of the swap
// contracts. sourceID selects the expected event.
func DecodeLog(sourceID uint64, eventData string) (Event, error) {
	raw, err := base64.StdEncoding.DecodeString(eventData)
	if err != nil {
		return nil, decodeError("can't decode base64 event data: %v", err)
	}

	switch sourceID {
	case SourceSwapInitiated:
		vlog, err := parseLog(raw)
		if err != nil {
			return nil, err
		}
		ev, err := decodeSwapInitiated(vlog)
		if err != nil {
			return nil, err
		}
		return ev, nil
	case SourceSwapExecuted:
		vlog, err := parseLog(raw)
		if err != nil {
			return nil, err
		}
		ev, err := decodeSwapExecuted(vlog)
		if err != nil {
			return nil, err
		}
		return ev, nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownSourceID, sourceID)
	}
}

func parseLog(raw []byte) (*types.Log, error) {
	var jl jsonLog
	if err := json.Unmarshal(raw, &jl); err != nil {
		return nil, decodeError("invalid log: %v", err)
	}
	if jl.Address == nil {
		return nil, decodeError("missing required field 'address' for log")
	}
	if jl.Topics == nil {
		return nil, decodeError("missing required field 'topics' for log")
	}
	if jl.Data == nil {
		return nil, decodeError("missing required field 'data' for log")
	}

	return &types.Log{
		Address: *jl.Address,
		Topics:  jl.Topics,
		Data:    *jl.Data,
	}, nil
}

func checkTopics(vlog *types.Log, sig ethcommon.Hash, name string, indexed int) error {
	if len(vlog.Topics) == 0 || vlog.Topics[0] != sig {
		return decodeError("log is not a %s event", name)
	}
	if len(vlog.Topics) != indexed+1 {
		return decodeError("%s expects %d topics, got %d", name, indexed+1, len(vlog.Topics))
	}
	return nil
}

// indexed address topics are left padded to 32 bytes
func topicAddress(topic ethcommon.Hash) (normalizer.Address, error) {
	return normalizer.AddressFromWire(topic.Bytes()[ethcommon.HashLength-ethcommon.AddressLength:])
}

func decodeSwapInitiated(vlog *types.Log) (*SwapInitiatedEvent, error) {
	if err := checkTopics(vlog, SwapInitiatedSignatureHash, SwapInitiatedEventName, 2); err != nil {
		return nil, err
	}

	var out struct {
		InAmount         *big.Int
		SourceChain      string
		DestinationChain string
		OutTokenAddress  ethcommon.Address
		OutAmountMin     *big.Int
		ReceivingAddress ethcommon.Address
	}
	if err := swapFlowABI.UnpackIntoInterface(&out, SwapInitiatedEventName, vlog.Data); err != nil {
		return nil, decodeError("%v", err)
	}

	ev := &SwapInitiatedEvent{
		GlobalTxId:       vlog.Topics[1],
		SourceChain:      out.SourceChain,
		DestinationChain: out.DestinationChain,
	}

	var err error
	if ev.InTokenAddress, err = topicAddress(vlog.Topics[2]); err != nil {
		return nil, conversionError(err)
	}
	if ev.InAmount, err = normalizer.AmountFromBig(out.InAmount); err != nil {
		return nil, conversionError(err)
	}
	if ev.OutTokenAddress, err = normalizer.AddressFromWire(out.OutTokenAddress.Bytes()); err != nil {
		return nil, conversionError(err)
	}
	if ev.OutAmountMin, err = normalizer.AmountFromBig(out.OutAmountMin); err != nil {
		return nil, conversionError(err)
	}
	if ev.ReceivingAddress, err = normalizer.AddressFromWire(out.ReceivingAddress.Bytes()); err != nil {
		return nil, conversionError(err)
	}

	return ev, nil
}

func decodeSwapExecuted(vlog *types.Log) (*SwapExecutedEvent, error) {
	if err := checkTopics(vlog, SwapExecutedSignatureHash, SwapExecutedEventName, 1); err != nil {
		return nil, err
	}

	var out struct {
		User             ethcommon.Address
		TokenAddress     ethcommon.Address
		Amount           *big.Int
		ReceivingAddress ethcommon.Address
	}
	if err := swapFlowABI.UnpackIntoInterface(&out, SwapExecutedEventName, vlog.Data); err != nil {
		return nil, decodeError("%v", err)
	}

	ev := &SwapExecutedEvent{GlobalTxId: vlog.Topics[1]}

	var err error
	if ev.User, err = normalizer.AddressFromWire(out.User.Bytes()); err != nil {
		return nil, conversionError(err)
	}
	if ev.TokenAddress, err = normalizer.AddressFromWire(out.TokenAddress.Bytes()); err != nil {
		return nil, conversionError(err)
	}
	if ev.Amount, err = normalizer.AmountFromBig(out.Amount); err != nil {
		return nil, conversionError(err)
	}
	if ev.ReceivingAddress, err = normalizer.AddressFromWire(out.ReceivingAddress.Bytes()); err != nil {
		return nil, conversionError(err)
	}

	return ev, nil
}
