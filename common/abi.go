package common

import (
	"bytes"
	"fmt"
	"math/big"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
)

// EncodePacked concatenates values the way solidity's abi.encodePacked does
// for the static types used by the swap contracts.
func EncodePacked(values ...interface{}) ([]byte, error) {
	var res [][]byte
	for i, value := range values {
		switch v := value.(type) {
		case []byte:
			res = append(res, v)
		case [32]byte:
			res = append(res, v[:])
		case ethcommon.Hash:
			res = append(res, v[:])
		case ethcommon.Address:
			res = append(res, v[:])
		case *big.Int:
			if v.Sign() < 0 || v.BitLen() > 256 {
				return nil, fmt.Errorf("value %d: integer out of uint256 range", i)
			}
			res = append(res, math.U256Bytes(new(big.Int).Set(v)))
		case string:
			res = append(res, []byte(v))
		default:
			return nil, fmt.Errorf("value %d: unsupported type %T", i, value)
		}
	}
	return bytes.Join(res, nil), nil
}
