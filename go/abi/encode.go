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
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// Encode encodes the given values as the argument tuple described by types.
// The result is the argument section of a call, without method selector.
func Encode(values []any, types []Type) ([]byte, error) {
	if len(values) != len(types) {
		return nil, &ArityError{Want: len(types), Got: len(values)}
	}
	return encodeTuple(values, types, nil)
}

// EncodeCall prefixes the encoded arguments with the given method selector.
func EncodeCall(selector [4]byte, values []any, types []Type) ([]byte, error) {
	args, err := Encode(values, types)
	if err != nil {
		return nil, err
	}
	return append(selector[:], args...), nil
}

// encodeTuple lays out the values in a head section, holding static values
// inline and 32-byte offsets for dynamic values, followed by a tail section
// holding the dynamic values in order.
func encodeTuple(values []any, types []Type, path []int) ([]byte, error) {
	headSize := 0
	for _, t := range types {
		headSize += t.headSize()
	}
	head := make([]byte, 0, headSize)
	var tail []byte
	for i, t := range types {
		encoded, err := encodeValue(values[i], t, appendPath(path, i))
		if err != nil {
			return nil, err
		}
		if t.IsDynamic() {
			head = append(head, encodeLength(headSize+len(tail))...)
			tail = append(tail, encoded...)
		} else {
			head = append(head, encoded...)
		}
	}
	return append(head, tail...), nil
}

func encodeValue(value any, t Type, path []int) ([]byte, error) {
	if value == nil {
		return nil, newEncodingError(path, t, "missing value")
	}
	switch t.Kind {
	case UintKind, IntKind:
		return encodeInteger(value, t, path)

	case BoolKind:
		b, ok := value.(bool)
		if !ok {
			return nil, newEncodingError(path, t, "cannot use %T", value)
		}
		word := make([]byte, 32)
		if b {
			word[31] = 1
		}
		return word, nil

	case AddressKind:
		address, ok := toAddress(value)
		if !ok {
			return nil, newEncodingError(path, t, "cannot use %T", value)
		}
		return common.LeftPadBytes(address[:], 32), nil

	case FixedBytesKind:
		data, ok := toFixedBytes(value)
		if !ok {
			return nil, newEncodingError(path, t, "cannot use %T", value)
		}
		if len(data) != t.Size {
			return nil, newEncodingError(path, t, "expected %d bytes, got %d", t.Size, len(data))
		}
		return common.RightPadBytes(data, 32), nil

	case BytesKind:
		data, ok := value.([]byte)
		if !ok {
			return nil, newEncodingError(path, t, "cannot use %T", value)
		}
		return encodeBytes(data), nil

	case StringKind:
		s, ok := value.(string)
		if !ok {
			return nil, newEncodingError(path, t, "cannot use %T", value)
		}
		return encodeBytes([]byte(s)), nil

	case ArrayKind:
		list, ok := toList(value)
		if !ok {
			return nil, newEncodingError(path, t, "cannot use %T", value)
		}
		if len(list) != t.Length {
			return nil, newEncodingError(path, t, "expected %d elements, got %d", t.Length, len(list))
		}
		return encodeTuple(list, repeat(*t.Elem, t.Length), path)

	case SliceKind:
		list, ok := toList(value)
		if !ok {
			return nil, newEncodingError(path, t, "cannot use %T", value)
		}
		elements, err := encodeTuple(list, repeat(*t.Elem, len(list)), path)
		if err != nil {
			return nil, err
		}
		return append(encodeLength(len(list)), elements...), nil

	case TupleKind:
		list, ok := toList(value)
		if !ok {
			return nil, newEncodingError(path, t, "cannot use %T", value)
		}
		if len(list) != len(t.Components) {
			return nil, newEncodingError(path, t, "expected %d components, got %d", len(t.Components), len(list))
		}
		return encodeTuple(list, t.Components, path)
	}
	return nil, newEncodingError(path, t, "unsupported type")
}

func encodeInteger(value any, t Type, path []int) ([]byte, error) {
	v, ok := toBig(value)
	if !ok {
		return nil, newEncodingError(path, t, "cannot use %T", value)
	}
	if t.Kind == UintKind {
		if v.Sign() < 0 {
			return nil, newEncodingError(path, t, "negative value %v for unsigned type", v)
		}
		if v.BitLen() > t.Size {
			return nil, newEncodingError(path, t, "value %v exceeds %d bits", v, t.Size)
		}
	} else if !fitsSigned(v, t.Size) {
		return nil, newEncodingError(path, t, "value %v exceeds %d bits", v, t.Size)
	}
	// Negative values are converted into their two's complement.
	word, _ := uint256.FromBig(v)
	res := word.Bytes32()
	return res[:], nil
}

func encodeBytes(data []byte) []byte {
	padded := common.RightPadBytes(data, (len(data)+31)/32*32)
	return append(encodeLength(len(data)), padded...)
}

func encodeLength(length int) []byte {
	word := uint256.NewInt(uint64(length)).Bytes32()
	return word[:]
}

func repeat(t Type, n int) []Type {
	res := make([]Type, n)
	for i := range res {
		res[i] = t
	}
	return res
}
