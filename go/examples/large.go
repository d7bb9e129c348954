// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package examples

import (
	"github.com/ethereum/go-ethereum/core/vm"
	"github.com/ethereum/go-ethereum/params"
)

// GetLargeExample provides a contract of the maximum code size accepted for
// deployment. It returns its argument after jumping over a block of filler
// instructions.
func GetLargeExample() Example {
	return exampleSpec{
		Name: "Large",
		ABI: `[{"type":"function","name":"identity","stateMutability":"pure",
			"inputs":[{"name":"x","type":"uint256"}],"outputs":[{"name":"","type":"uint256"}]}]`,
		Code:      generateLargeCode(params.MaxCodeSize, []byte{byte(vm.JUMPDEST)}),
		Method:    "identity",
		reference: identity,
	}.build()
}

// generateLargeCode produces code of at most size bytes returning its
// argument, padded with copies of the given filler.
func generateLargeCode(size int, filler []byte) []byte {
	head := []byte{
		// Store the argument in memory[0].
		byte(vm.PUSH1), 4,
		byte(vm.CALLDATALOAD),
		byte(vm.PUSH1), 0,
		byte(vm.MSTORE),

		// Jump over the filler, the destination is set below.
		byte(vm.PUSH2), 0, 0,
		byte(vm.JUMP),
	}
	tail := []byte{
		byte(vm.JUMPDEST),
		byte(vm.PUSH1), 32,
		byte(vm.PUSH1), 0,
		byte(vm.RETURN),
	}

	copies := (size - len(head) - len(tail)) / len(filler)
	code := make([]byte, 0, size)
	code = append(code, head...)
	for i := 0; i < copies; i++ {
		code = append(code, filler...)
	}
	dest := len(code)
	code[7] = byte(dest >> 8)
	code[8] = byte(dest)
	return append(code, tail...)
}

func identity(x int) int {
	return x
}
