// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package abi

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// This file lists the Go values accepted for each ABI kind. Decoding always
// produces the first (canonical) representation listed for a kind:
//
//   uint<N>, int<N>  *big.Int, big.Int, *uint256.Int, Go integer types
//   bool             bool
//   address          common.Address, *common.Address, [20]byte
//   bytes<N>         []byte, [4]byte, [20]byte, [32]byte, common.Hash
//   bytes            []byte
//   string           string
//   T[k], T[], (...) []any, or a slice of one of the canonical types above

func toBig(value any) (*big.Int, bool) {
	switch v := value.(type) {
	case *big.Int:
		if v == nil {
			return nil, false
		}
		return v, true
	case big.Int:
		return &v, true
	case *uint256.Int:
		if v == nil {
			return nil, false
		}
		return v.ToBig(), true
	case int:
		return big.NewInt(int64(v)), true
	case int8:
		return big.NewInt(int64(v)), true
	case int16:
		return big.NewInt(int64(v)), true
	case int32:
		return big.NewInt(int64(v)), true
	case int64:
		return big.NewInt(v), true
	case uint:
		return new(big.Int).SetUint64(uint64(v)), true
	case uint8:
		return new(big.Int).SetUint64(uint64(v)), true
	case uint16:
		return new(big.Int).SetUint64(uint64(v)), true
	case uint32:
		return new(big.Int).SetUint64(uint64(v)), true
	case uint64:
		return new(big.Int).SetUint64(v), true
	}
	return nil, false
}

func toAddress(value any) (common.Address, bool) {
	switch v := value.(type) {
	case common.Address:
		return v, true
	case *common.Address:
		if v == nil {
			return common.Address{}, false
		}
		return *v, true
	case [20]byte:
		return common.Address(v), true
	}
	return common.Address{}, false
}

func toFixedBytes(value any) ([]byte, bool) {
	switch v := value.(type) {
	case []byte:
		return v, true
	case [4]byte:
		return v[:], true
	case [20]byte:
		return v[:], true
	case [32]byte:
		return v[:], true
	case common.Hash:
		return v[:], true
	}
	return nil, false
}

func toList(value any) ([]any, bool) {
	switch v := value.(type) {
	case []any:
		return v, true
	case []*big.Int:
		return listOf(v), true
	case []*uint256.Int:
		return listOf(v), true
	case []int:
		return listOf(v), true
	case []int64:
		return listOf(v), true
	case []uint64:
		return listOf(v), true
	case []bool:
		return listOf(v), true
	case []common.Address:
		return listOf(v), true
	case []common.Hash:
		return listOf(v), true
	case []string:
		return listOf(v), true
	case [][]byte:
		return listOf(v), true
	}
	return nil, false
}

func listOf[T any](values []T) []any {
	res := make([]any, len(values))
	for i, v := range values {
		res[i] = v
	}
	return res
}

// fitsSigned reports whether v is within [-2^(bits-1), 2^(bits-1)).
func fitsSigned(v *big.Int, bits int) bool {
	if v.Sign() >= 0 {
		return v.BitLen() <= bits-1
	}
	magnitude := new(big.Int).Neg(v)
	magnitude.Sub(magnitude, big.NewInt(1))
	return magnitude.BitLen() <= bits-1
}
