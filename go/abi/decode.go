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

// maxElements bounds the element count of slices whose elements occupy no
// space in the head section, which can not be checked against the input size.
const maxElements = 1 << 16

// Decode decodes data holding an argument tuple of the given types, as
// produced by Encode or returned by a contract call. Values are produced in
// their canonical Go representation.
func Decode(data []byte, types []Type) ([]any, error) {
	return decodeTuple(data, types, nil)
}

// decodeTuple decodes a tuple starting at the beginning of data. Offsets of
// dynamic members are relative to that start.
func decodeTuple(data []byte, types []Type, path []int) ([]any, error) {
	res := make([]any, len(types))
	pos := 0
	for i, t := range types {
		p := appendPath(path, i)
		if pos > len(data) {
			return nil, newDecodingError(p, t, "input too short: value starts at byte %d of %d", pos, len(data))
		}
		if !t.IsDynamic() {
			value, err := decodeValue(data[pos:], t, p)
			if err != nil {
				return nil, err
			}
			res[i] = value
			pos += t.headSize()
			continue
		}
		offset, err := readSize(data, pos, t, p, "offset")
		if err != nil {
			return nil, err
		}
		if offset > len(data) {
			return nil, newDecodingError(p, t, "offset %d beyond input of %d bytes", offset, len(data))
		}
		value, err := decodeValue(data[offset:], t, p)
		if err != nil {
			return nil, err
		}
		res[i] = value
		pos += 32
	}
	return res, nil
}

func decodeValue(data []byte, t Type, path []int) (any, error) {
	switch t.Kind {
	case UintKind, IntKind, BoolKind, AddressKind, FixedBytesKind:
		if len(data) < 32 {
			return nil, newDecodingError(path, t, "input too short: need 32 bytes, have %d", len(data))
		}
		return decodeWord(data[:32], t, path)

	case BytesKind, StringKind:
		length, err := readSize(data, 0, t, path, "length")
		if err != nil {
			return nil, err
		}
		// Content is right-padded to a multiple of 32 bytes.
		if padded := (length + 31) / 32 * 32; padded > len(data)-32 {
			return nil, newDecodingError(path, t, "input too short: need %d bytes of content, have %d", padded, len(data)-32)
		}
		content := data[32 : 32+length]
		if t.Kind == StringKind {
			return string(content), nil
		}
		return common.CopyBytes(content), nil

	case ArrayKind:
		return decodeTuple(data, repeat(*t.Elem, t.Length), path)

	case SliceKind:
		length, err := readSize(data, 0, t, path, "length")
		if err != nil {
			return nil, err
		}
		content := data[32:]
		if size := t.Elem.headSize(); size > 0 {
			if length > len(content)/size {
				return nil, newDecodingError(path, t, "input too short: %d elements need %d bytes, have %d", length, length*size, len(content))
			}
		} else if length > maxElements {
			return nil, newDecodingError(path, t, "too many elements: %d", length)
		}
		return decodeTuple(content, repeat(*t.Elem, length), path)

	case TupleKind:
		return decodeTuple(data, t.Components, path)
	}
	return nil, newDecodingError(path, t, "unsupported type")
}

// decodeWord decodes a value of a static elementary type from a 32-byte word,
// rejecting words with non-canonical padding.
func decodeWord(word []byte, t Type, path []int) (any, error) {
	switch t.Kind {
	case UintKind:
		v := new(uint256.Int).SetBytes32(word)
		if v.BitLen() > t.Size {
			return nil, newDecodingError(path, t, "value 0x%x exceeds %d bits", word, t.Size)
		}
		return v.ToBig(), nil

	case IntKind:
		v := new(uint256.Int).SetBytes32(word)
		var res *big.Int
		if v.Sign() < 0 {
			res = new(big.Int).Neg(new(uint256.Int).Neg(v).ToBig())
		} else {
			res = v.ToBig()
		}
		if !fitsSigned(res, t.Size) {
			return nil, newDecodingError(path, t, "value 0x%x exceeds %d bits", word, t.Size)
		}
		return res, nil

	case BoolKind:
		if !isZero(word[:31]) || word[31] > 1 {
			return nil, newDecodingError(path, t, "invalid boolean word 0x%x", word)
		}
		return word[31] == 1, nil

	case AddressKind:
		if !isZero(word[:12]) {
			return nil, newDecodingError(path, t, "dirty address padding 0x%x", word[:12])
		}
		return common.BytesToAddress(word[12:]), nil

	case FixedBytesKind:
		if !isZero(word[t.Size:]) {
			return nil, newDecodingError(path, t, "dirty padding 0x%x", word[t.Size:])
		}
		return common.CopyBytes(word[:t.Size]), nil
	}
	return nil, newDecodingError(path, t, "not an elementary type")
}

// readSize reads an offset or length word at pos, which must fit into an int.
func readSize(data []byte, pos int, t Type, path []int, what string) (int, error) {
	if len(data)-pos < 32 {
		return 0, newDecodingError(path, t, "input too short: need 32 bytes for %s at byte %d, have %d", what, pos, len(data)-pos)
	}
	v := new(uint256.Int).SetBytes32(data[pos : pos+32])
	if !v.IsUint64() || v.Uint64() > uint64(len(data)) {
		return 0, newDecodingError(path, t, "%s %v beyond input of %d bytes", what, v, len(data))
	}
	return int(v.Uint64()), nil
}

func isZero(data []byte) bool {
	for _, b := range data {
		if b != 0 {
			return false
		}
	}
	return true
}
