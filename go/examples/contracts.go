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
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/vm"
	"golang.org/x/crypto/sha3"
)

// RevertMessage is the reason reported by the failing methods of the
// example contracts.
const RevertMessage = "example: always reverts"

// GetAdderExample provides a contract computing sums, equivalent to
//
//	function add(uint256 a, uint256 b) public pure returns (uint256) {
//		unchecked { return a + b; }
//	}
//	function fail() public pure { revert("example: always reverts"); }
func GetAdderExample() Example {
	add := []byte{
		byte(vm.PUSH1), 0x24,
		byte(vm.CALLDATALOAD),
		byte(vm.PUSH1), 0x04,
		byte(vm.CALLDATALOAD),
		byte(vm.ADD),
	}
	code := dispatch(
		entry{"add(uint256,uint256)", append(add, returnWord()...)},
		entry{"fail()", revertWith(RevertMessage)},
	)
	return exampleSpec{
		Name: "Adder",
		ABI: `[
			{"type":"function","name":"add","stateMutability":"pure",
			 "inputs":[{"name":"a","type":"uint256"},{"name":"b","type":"uint256"}],
			 "outputs":[{"name":"","type":"uint256"}]},
			{"type":"function","name":"fail","stateMutability":"pure","inputs":[],"outputs":[]}
		]`,
		Code: code,
	}.build()
}

// ChangedEvent is the signature of the event emitted by the counter example
// whenever its value is set.
const ChangedEvent = "Changed(uint256)"

// GetCounterExample provides a contract keeping a single value in storage,
// equivalent to
//
//	uint256 value;
//	event Changed(uint256 value);
//	constructor(uint256 start) { value = start; }
//	function get() public view returns (uint256) { return value; }
//	function set(uint256 v) public { value = v; emit Changed(v); }
//	function reset() public { revert("example: always reverts"); }
func GetCounterExample() Example {
	get := []byte{
		byte(vm.PUSH1), 0,
		byte(vm.SLOAD),
	}
	topic := eventTopic(ChangedEvent)
	set := []byte{
		byte(vm.PUSH1), 4,
		byte(vm.CALLDATALOAD),
		byte(vm.DUP1),
		byte(vm.PUSH1), 0,
		byte(vm.SSTORE),
		byte(vm.PUSH1), 0,
		byte(vm.MSTORE),
		byte(vm.PUSH32),
	}
	set = append(set, topic[:]...)
	set = append(set,
		byte(vm.PUSH1), 32,
		byte(vm.PUSH1), 0,
		byte(vm.LOG1),
		byte(vm.STOP),
	)
	code := dispatch(
		entry{"get()", append(get, returnWord()...)},
		entry{"set(uint256)", set},
		entry{"reset()", revertWith(RevertMessage)},
	)
	return exampleSpec{
		Name: "Counter",
		ABI: `[
			{"type":"constructor","stateMutability":"nonpayable","inputs":[{"name":"start","type":"uint256"}]},
			{"type":"function","name":"get","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
			{"type":"function","name":"set","stateMutability":"nonpayable","inputs":[{"name":"v","type":"uint256"}],"outputs":[]},
			{"type":"function","name":"reset","stateMutability":"nonpayable","inputs":[],"outputs":[]},
			{"type":"event","name":"Changed","anonymous":false,"inputs":[{"name":"value","type":"uint256","indexed":false}]}
		]`,
		Code:     code,
		InitCode: withConstructor(storeFirstArgument(len(code)), code),
	}.build()
}

// GetEchoExample provides a contract returning its arguments. Since argument
// and result tuples of the same types share their encoding, the contract
// returns the call data following the selector.
//
//	function echo(string s, uint256[] v) public pure returns (string, uint256[]) {
//		return (s, v);
//	}
func GetEchoExample() Example {
	echo := []byte{
		byte(vm.CALLDATASIZE),
		byte(vm.PUSH1), 4,
		byte(vm.SWAP1),
		byte(vm.SUB),
		byte(vm.DUP1),
		byte(vm.PUSH1), 4,
		byte(vm.PUSH1), 0,
		byte(vm.CALLDATACOPY),
		byte(vm.PUSH1), 0,
		byte(vm.RETURN),
	}
	code := dispatch(entry{"echo(string,uint256[])", echo})
	return exampleSpec{
		Name: "Echo",
		ABI: `[
			{"type":"function","name":"echo","stateMutability":"pure",
			 "inputs":[{"name":"s","type":"string"},{"name":"v","type":"uint256[]"}],
			 "outputs":[{"name":"","type":"string"},{"name":"","type":"uint256[]"}]}
		]`,
		Code: code,
	}.build()
}

// GetBrokenExample provides a contract whose constructor always reverts.
func GetBrokenExample() Example {
	return exampleSpec{
		Name:     "Broken",
		ABI:      `[{"type":"constructor","stateMutability":"nonpayable","inputs":[]}]`,
		InitCode: revertWith(RevertMessage),
	}.build()
}

func eventTopic(signature string) common.Hash {
	var topic common.Hash
	hasher := sha3.NewLegacyKeccak256()
	hasher.Write([]byte(signature))
	hasher.Sum(topic[0:0])
	return topic
}
