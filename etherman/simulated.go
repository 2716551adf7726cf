package etherman

import (
	"encoding/base64"
	"encoding/json"

	"github.com/TEENet-io/swapflow/common"
	"github.com/TEENet-io/swapflow/normalizer"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// EncodeSwapInitiatedLog produces the base64 payload a relayer forwards for a
// SwapInitiated log emitted by contract.
func EncodeSwapInitiatedLog(contract ethcommon.Address, ev *SwapInitiatedEvent) (string, error) {
	data, err := swapFlowABI.Events[SwapInitiatedEventName].Inputs.NonIndexed().Pack(
		ev.InAmount.Big(),
		ev.SourceChain,
		ev.DestinationChain,
		ev.OutTokenAddress.Eth(),
		ev.OutAmountMin.Big(),
		ev.ReceivingAddress.Eth(),
	)
	if err != nil {
		return "", err
	}

	topics := []ethcommon.Hash{
		SwapInitiatedSignatureHash,
		ev.GlobalTxId,
		ethcommon.BytesToHash(ev.InTokenAddress[:]),
	}
	return encodeLog(contract, topics, data)
}

// EncodeSwapExecutedLog produces the base64 payload for a SwapExecuted log.
func EncodeSwapExecutedLog(contract ethcommon.Address, ev *SwapExecutedEvent) (string, error) {
	data, err := swapFlowABI.Events[SwapExecutedEventName].Inputs.NonIndexed().Pack(
		ev.User.Eth(),
		ev.TokenAddress.Eth(),
		ev.Amount.Big(),
		ev.ReceivingAddress.Eth(),
	)
	if err != nil {
		return "", err
	}

	topics := []ethcommon.Hash{SwapExecutedSignatureHash, ev.GlobalTxId}
	return encodeLog(contract, topics, data)
}

func encodeLog(contract ethcommon.Address, topics []ethcommon.Hash, data []byte) (string, error) {
	vlog := types.Log{
		Address: contract,
		Topics:  topics,
		Data:    data,
		TxHash:  common.RandBytes32(),
	}
	raw, err := json.Marshal(vlog)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

func RandSwapInitiatedEvent() *SwapInitiatedEvent {
	inAmount, _ := normalizer.AmountFromBig(common.RandBigInt(16))
	outAmount, _ := normalizer.AmountFromBig(common.RandBigInt(16))
	return &SwapInitiatedEvent{
		GlobalTxId:       common.RandBytes32(),
		InTokenAddress:   normalizer.AddressFromEth(common.RandEthAddress()),
		InAmount:         inAmount,
		SourceChain:      "ethereum",
		DestinationChain: "optimism",
		OutTokenAddress:  normalizer.AddressFromEth(common.RandEthAddress()),
		OutAmountMin:     outAmount,
		ReceivingAddress: normalizer.AddressFromEth(common.RandEthAddress()),
	}
}

func RandSwapExecutedEvent() *SwapExecutedEvent {
	amount, _ := normalizer.AmountFromBig(common.RandBigInt(16))
	return &SwapExecutedEvent{
		GlobalTxId:       common.RandBytes32(),
		User:             normalizer.AddressFromEth(common.RandEthAddress()),
		TokenAddress:     normalizer.AddressFromEth(common.RandEthAddress()),
		Amount:           amount,
		ReceivingAddress: normalizer.AddressFromEth(common.RandEthAddress()),
	}
}
