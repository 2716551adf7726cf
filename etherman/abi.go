package etherman

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/crypto"
)

// SwapFlowABI declares the events emitted by the swap contracts on both
// chains and the entry points the relayer calls on them.
const SwapFlowABI = `[
	{
		"anonymous": false,
		"name": "SwapInitiated",
		"type": "event",
		"inputs": [
			{"indexed": true, "name": "globalTxId", "type": "bytes32"},
			{"indexed": true, "name": "inTokenAddress", "type": "address"},
			{"indexed": false, "name": "inAmount", "type": "uint256"},
			{"indexed": false, "name": "sourceChain", "type": "string"},
			{"indexed": false, "name": "destinationChain", "type": "string"},
			{"indexed": false, "name": "outTokenAddress", "type": "address"},
			{"indexed": false, "name": "outAmountMin", "type": "uint256"},
			{"indexed": false, "name": "receivingAddress", "type": "address"}
		]
	},
	{
		"anonymous": false,
		"name": "SwapExecuted",
		"type": "event",
		"inputs": [
			{"indexed": true, "name": "globalTxId", "type": "bytes32"},
			{"indexed": false, "name": "user", "type": "address"},
			{"indexed": false, "name": "tokenAddress", "type": "address"},
			{"indexed": false, "name": "amount", "type": "uint256"},
			{"indexed": false, "name": "receivingAddress", "type": "address"}
		]
	},
	{
		"name": "executeSwap",
		"type": "function",
		"stateMutability": "nonpayable",
		"inputs": [
			{
				"name": "payload",
				"type": "tuple",
				"components": [
					{"name": "globalTxId", "type": "bytes32"},
					{"name": "user", "type": "address"},
					{"name": "tokenAddress", "type": "address"},
					{"name": "amount", "type": "uint256"},
					{"name": "receivingAddress", "type": "address"}
				]
			},
			{"name": "signature", "type": "bytes"}
		],
		"outputs": []
	},
	{
		"name": "finalizeSwap",
		"type": "function",
		"stateMutability": "nonpayable",
		"inputs": [
			{
				"name": "payload",
				"type": "tuple",
				"components": [
					{"name": "globalTxId", "type": "bytes32"},
					{"name": "user", "type": "address"}
				]
			},
			{"name": "signature", "type": "bytes"}
		],
		"outputs": []
	}
]`

const (
	SwapInitiatedEventName = "SwapInitiated"
	SwapExecutedEventName  = "SwapExecuted"

	ExecuteSwapMethodName  = "executeSwap"
	FinalizeSwapMethodName = "finalizeSwap"
)

var (
	// Events
	SwapInitiatedSignatureHash = crypto.Keccak256Hash([]byte("SwapInitiated(bytes32,address,uint256,string,string,address,uint256,address)"))
	SwapExecutedSignatureHash  = crypto.Keccak256Hash([]byte("SwapExecuted(bytes32,address,address,uint256,address)"))

	// Function selectors
	ExecuteSwapSelector  = crypto.Keccak256([]byte("executeSwap((bytes32,address,address,uint256,address),bytes)"))[:4]
	FinalizeSwapSelector = crypto.Keccak256([]byte("finalizeSwap((bytes32,address),bytes)"))[:4]

	swapFlowABI = mustParseABI(SwapFlowABI)
)

func mustParseABI(def string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(def))
	if err != nil {
		panic(err)
	}
	return parsed
}
