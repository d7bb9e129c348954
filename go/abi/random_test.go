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
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"pgregory.net/rand"
)

func randomType(rnd *rand.Rand, depth int) Type {
	choice := rnd.Intn(10)
	if depth <= 0 {
		choice = rnd.Intn(7)
	}
	switch choice {
	case 0:
		return Uint(8 * (1 + rnd.Intn(32)))
	case 1:
		return Int(8 * (1 + rnd.Intn(32)))
	case 2:
		return BoolType
	case 3:
		return AddressType
	case 4:
		return FixedBytes(1 + rnd.Intn(32))
	case 5:
		return BytesType
	case 6:
		return StringType
	case 7:
		return Array(randomType(rnd, depth-1), 1+rnd.Intn(3))
	case 8:
		return Slice(randomType(rnd, depth-1))
	}
	components := make([]Type, 1+rnd.Intn(3))
	for i := range components {
		components[i] = randomType(rnd, depth-1)
	}
	return Tuple(components...)
}

func randomValue(rnd *rand.Rand, t Type) any {
	switch t.Kind {
	case UintKind:
		v := new(big.Int).SetUint64(rnd.Uint64())
		v.Lsh(v, uint(t.Size))
		v.Rsh(v, 64)
		return v
	case IntKind:
		v := new(big.Int).SetUint64(rnd.Uint64())
		v.Lsh(v, uint(t.Size-1))
		v.Rsh(v, 64)
		if rnd.Intn(2) == 0 {
			v.Neg(v).Sub(v, big.NewInt(1))
		}
		return v
	case BoolKind:
		return rnd.Intn(2) == 1
	case AddressKind:
		var address common.Address
		rnd.Read(address[:])
		return address
	case FixedBytesKind:
		data := make([]byte, t.Size)
		rnd.Read(data)
		return data
	case BytesKind:
		data := make([]byte, rnd.Intn(80))
		rnd.Read(data)
		return data
	case StringKind:
		data := make([]byte, rnd.Intn(80))
		for i := range data {
			data[i] = byte('a' + rnd.Intn(26))
		}
		return string(data)
	case ArrayKind:
		res := make([]any, t.Length)
		for i := range res {
			res[i] = randomValue(rnd, *t.Elem)
		}
		return res
	case SliceKind:
		res := make([]any, rnd.Intn(4))
		for i := range res {
			res[i] = randomValue(rnd, *t.Elem)
		}
		return res
	case TupleKind:
		res := make([]any, len(t.Components))
		for i, c := range t.Components {
			res[i] = randomValue(rnd, c)
		}
		return res
	}
	return nil
}

func TestEncodeDecode_RandomValuesSurviveRoundTrip(t *testing.T) {
	rnd := rand.New(0)
	for i := 0; i < 1000; i++ {
		types := make([]Type, rnd.Intn(5))
		values := make([]any, len(types))
		for j := range types {
			types[j] = randomType(rnd, 3)
			values[j] = randomValue(rnd, types[j])
		}
		encoded, err := Encode(values, types)
		if err != nil {
			t.Fatalf("failed to encode %v as %v: %v", values, types, err)
		}
		if len(encoded)%32 != 0 {
			t.Fatalf("encoding of %v is not word aligned: %d bytes", types, len(encoded))
		}
		decoded, err := Decode(encoded, types)
		if err != nil {
			t.Fatalf("failed to decode %v: %v", types, err)
		}
		if !valuesEqual(values, decoded) {
			t.Fatalf("round trip of %v failed\nwanted %v\ngot    %v", types, values, decoded)
		}
	}
}

func TestDecode_RandomInputDoesNotPanic(t *testing.T) {
	rnd := rand.New(0)
	for i := 0; i < 1000; i++ {
		types := []Type{randomType(rnd, 3), randomType(rnd, 3)}
		data := make([]byte, 32*rnd.Intn(12))
		rnd.Read(data)
		// Small words make offsets and lengths hit the input more often.
		for pos := 0; pos < len(data); pos += 32 {
			if rnd.Intn(2) == 0 {
				copy(data[pos:pos+32], encodeLength(rnd.Intn(len(data)+1)))
			}
		}
		_, _ = Decode(data, types)
	}
}
