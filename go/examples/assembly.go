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
	"github.com/Fantom-foundation/solrunner/go/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/vm"
)

// entry is a method of a hand-assembled contract.
type entry struct {
	signature string
	body      []byte // must not contain jumps
}

// dispatch produces runtime code jumping to the body of the entry whose
// selector matches the first four bytes of the call data. Calls of unknown
// methods are reverted without data. Bodies start with the selector on the
// stack.
func dispatch(entries ...entry) []byte {
	code := []byte{
		// Extract the selector from the call data.
		byte(vm.PUSH1), 0,
		byte(vm.CALLDATALOAD),
		byte(vm.PUSH1), 0xe0,
		byte(vm.SHR),
	}
	const (
		headerSize   = 6
		checkSize    = 11
		fallbackSize = 4
	)
	dest := headerSize + checkSize*len(entries) + fallbackSize
	for _, e := range entries {
		selector := abi.Selector(e.signature)
		code = append(code,
			byte(vm.DUP1),
			byte(vm.PUSH4), selector[0], selector[1], selector[2], selector[3],
			byte(vm.EQ),
			byte(vm.PUSH2), byte(dest>>8), byte(dest),
			byte(vm.JUMPI),
		)
		dest += 1 + len(e.body)
	}
	code = append(code,
		byte(vm.PUSH1), 0,
		byte(vm.DUP1),
		byte(vm.REVERT),
	)
	for _, e := range entries {
		code = append(code, byte(vm.JUMPDEST))
		code = append(code, e.body...)
	}
	return code
}

// deployment produces creation code returning the given runtime code.
func deployment(runtime []byte) []byte {
	return withConstructor(nil, runtime)
}

// withConstructor produces creation code running the given constructor code
// before returning the runtime code. The constructor code must not contain
// jumps.
func withConstructor(constructor, runtime []byte) []byte {
	const copySize = 15
	offset := len(constructor) + copySize
	code := append([]byte{}, constructor...)
	code = append(code,
		// Copy the runtime code to memory[0] and return it.
		byte(vm.PUSH2), byte(len(runtime)>>8), byte(len(runtime)),
		byte(vm.PUSH2), byte(offset>>8), byte(offset),
		byte(vm.PUSH1), 0,
		byte(vm.CODECOPY),
		byte(vm.PUSH2), byte(len(runtime)>>8), byte(len(runtime)),
		byte(vm.PUSH1), 0,
		byte(vm.RETURN),
	)
	return append(code, runtime...)
}

// storeFirstArgument produces constructor code storing the first 32-byte
// constructor argument in storage slot 0. Constructor arguments are appended
// to the creation code, which ends after runtimeSize bytes of runtime code.
func storeFirstArgument(runtimeSize int) []byte {
	const constructorSize = 14
	const copySize = 15
	offset := constructorSize + copySize + runtimeSize
	return []byte{
		byte(vm.PUSH1), 32,
		byte(vm.PUSH2), byte(offset >> 8), byte(offset),
		byte(vm.PUSH1), 0,
		byte(vm.CODECOPY),
		byte(vm.PUSH1), 0,
		byte(vm.MLOAD),
		byte(vm.PUSH1), 0,
		byte(vm.SSTORE),
	}
}

// returnWord produces code returning the value on top of the stack.
func returnWord() []byte {
	return []byte{
		byte(vm.PUSH1), 0,
		byte(vm.MSTORE),
		byte(vm.PUSH1), 32,
		byte(vm.PUSH1), 0,
		byte(vm.RETURN),
	}
}

// revertWith produces code reverting with an Error(string) payload carrying
// the given message.
func revertWith(message string) []byte {
	payload, err := abi.EncodeCall(abi.Selector("Error(string)"), []any{message}, []abi.Type{abi.StringType})
	if err != nil {
		panic(err)
	}
	padded := common.RightPadBytes(payload, (len(payload)+31)/32*32)

	var code []byte
	for i := 0; i < len(padded); i += 32 {
		code = append(code, byte(vm.PUSH32))
		code = append(code, padded[i:i+32]...)
		code = append(code,
			byte(vm.PUSH2), byte(i>>8), byte(i),
			byte(vm.MSTORE),
		)
	}
	return append(code,
		byte(vm.PUSH2), byte(len(payload)>>8), byte(len(payload)),
		byte(vm.PUSH1), 0,
		byte(vm.REVERT),
	)
}
