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
	"fmt"
	"strconv"
	"strings"

	gethabi "github.com/ethereum/go-ethereum/accounts/abi"
)

// Kind enumerates the value kinds of the contract ABI supported by the codec.
type Kind int

const (
	UintKind Kind = iota
	IntKind
	BoolKind
	AddressKind
	FixedBytesKind
	BytesKind
	StringKind
	ArrayKind
	SliceKind
	TupleKind
	UnsupportedKind
)

func (k Kind) String() string {
	switch k {
	case UintKind:
		return "uint"
	case IntKind:
		return "int"
	case BoolKind:
		return "bool"
	case AddressKind:
		return "address"
	case FixedBytesKind:
		return "fixed_bytes"
	case BytesKind:
		return "bytes"
	case StringKind:
		return "string"
	case ArrayKind:
		return "array"
	case SliceKind:
		return "slice"
	case TupleKind:
		return "tuple"
	case UnsupportedKind:
		return "unsupported"
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// Type describes a single ABI type. Types are plain values and are never
// mutated after construction; the element type of arrays and slices is
// shared between copies.
type Type struct {
	Kind       Kind
	Size       int    // bit width of integers, byte width of fixed bytes
	Length     int    // number of elements of fixed-size arrays
	Elem       *Type  // element type of arrays and slices
	Components []Type // members of tuples
	name       string // original type name of unsupported types
}

var (
	BoolType    = Type{Kind: BoolKind}
	AddressType = Type{Kind: AddressKind}
	BytesType   = Type{Kind: BytesKind}
	StringType  = Type{Kind: StringKind}
)

// Uint returns the unsigned integer type of the given bit width.
func Uint(bits int) Type {
	return Type{Kind: UintKind, Size: bits}
}

// Int returns the signed integer type of the given bit width.
func Int(bits int) Type {
	return Type{Kind: IntKind, Size: bits}
}

// FixedBytes returns the bytes<size> type.
func FixedBytes(size int) Type {
	return Type{Kind: FixedBytesKind, Size: size}
}

// Array returns the type of fixed-size arrays T[length].
func Array(elem Type, length int) Type {
	return Type{Kind: ArrayKind, Elem: &elem, Length: length}
}

// Slice returns the type of dynamically sized arrays T[].
func Slice(elem Type) Type {
	return Type{Kind: SliceKind, Elem: &elem}
}

// Tuple returns the tuple type composed of the given components.
func Tuple(components ...Type) Type {
	return Type{Kind: TupleKind, Components: components}
}

// String returns the canonical type name as used in method signatures.
func (t Type) String() string {
	switch t.Kind {
	case UintKind:
		return fmt.Sprintf("uint%d", t.Size)
	case IntKind:
		return fmt.Sprintf("int%d", t.Size)
	case BoolKind:
		return "bool"
	case AddressKind:
		return "address"
	case FixedBytesKind:
		return fmt.Sprintf("bytes%d", t.Size)
	case BytesKind:
		return "bytes"
	case StringKind:
		return "string"
	case ArrayKind:
		return fmt.Sprintf("%v[%d]", t.Elem, t.Length)
	case SliceKind:
		return fmt.Sprintf("%v[]", t.Elem)
	case TupleKind:
		names := make([]string, 0, len(t.Components))
		for _, c := range t.Components {
			names = append(names, c.String())
		}
		return "(" + strings.Join(names, ",") + ")"
	case UnsupportedKind:
		return t.name
	}
	return t.Kind.String()
}

// IsDynamic reports whether values of this type are encoded out-of-line,
// referenced by an offset from the head of the enclosing tuple.
func (t Type) IsDynamic() bool {
	switch t.Kind {
	case BytesKind, StringKind, SliceKind:
		return true
	case ArrayKind:
		return t.Elem.IsDynamic()
	case TupleKind:
		for _, c := range t.Components {
			if c.IsDynamic() {
				return true
			}
		}
	}
	return false
}

// headSize is the number of bytes a value of this type occupies in the
// head section of an enclosing tuple.
func (t Type) headSize() int {
	if t.IsDynamic() {
		return 32
	}
	switch t.Kind {
	case ArrayKind:
		return t.Length * t.Elem.headSize()
	case TupleKind:
		size := 0
		for _, c := range t.Components {
			size += c.headSize()
		}
		return size
	}
	return 32
}

// ParseType parses a canonical type name like "uint256", "bytes32[]" or
// "(address,uint256)[2]". The aliases "uint", "int" and "byte" are accepted.
// Names outside the supported set but known to the ABI (function and
// fixed-point types) yield an UnsupportedKind type.
func ParseType(name string) (Type, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Type{}, fmt.Errorf("empty type name")
	}

	if strings.HasSuffix(name, "]") {
		open := strings.LastIndex(name, "[")
		if open <= 0 {
			return Type{}, fmt.Errorf("invalid array type %q", name)
		}
		elem, err := ParseType(name[:open])
		if err != nil {
			return Type{}, err
		}
		dim := name[open+1 : len(name)-1]
		if dim == "" {
			return Slice(elem), nil
		}
		length, err := strconv.Atoi(dim)
		if err != nil || length <= 0 {
			return Type{}, fmt.Errorf("invalid array length in %q", name)
		}
		return Array(elem, length), nil
	}

	if strings.HasPrefix(name, "(") {
		if !strings.HasSuffix(name, ")") {
			return Type{}, fmt.Errorf("unbalanced tuple type %q", name)
		}
		parts, err := splitComponents(name[1 : len(name)-1])
		if err != nil {
			return Type{}, fmt.Errorf("invalid tuple type %q: %w", name, err)
		}
		components := make([]Type, 0, len(parts))
		for _, part := range parts {
			component, err := ParseType(part)
			if err != nil {
				return Type{}, err
			}
			components = append(components, component)
		}
		return Tuple(components...), nil
	}

	return parseElementary(name)
}

func parseElementary(name string) (Type, error) {
	switch name {
	case "bool":
		return BoolType, nil
	case "address":
		return AddressType, nil
	case "bytes":
		return BytesType, nil
	case "string":
		return StringType, nil
	case "uint":
		return Uint(256), nil
	case "int":
		return Int(256), nil
	case "byte":
		return FixedBytes(1), nil
	case "function":
		return Type{Kind: UnsupportedKind, name: name}, nil
	}

	switch {
	case strings.HasPrefix(name, "uint"):
		bits, err := strconv.Atoi(name[len("uint"):])
		if err != nil || bits < 8 || bits > 256 || bits%8 != 0 {
			return Type{}, fmt.Errorf("invalid integer type %q", name)
		}
		return Uint(bits), nil
	case strings.HasPrefix(name, "int"):
		bits, err := strconv.Atoi(name[len("int"):])
		if err != nil || bits < 8 || bits > 256 || bits%8 != 0 {
			return Type{}, fmt.Errorf("invalid integer type %q", name)
		}
		return Int(bits), nil
	case strings.HasPrefix(name, "bytes"):
		size, err := strconv.Atoi(name[len("bytes"):])
		if err != nil || size < 1 || size > 32 {
			return Type{}, fmt.Errorf("invalid fixed bytes type %q", name)
		}
		return FixedBytes(size), nil
	case strings.HasPrefix(name, "fixed"), strings.HasPrefix(name, "ufixed"):
		return Type{Kind: UnsupportedKind, name: name}, nil
	}
	return Type{}, fmt.Errorf("unknown type %q", name)
}

// splitComponents splits a comma separated list at nesting depth zero.
func splitComponents(list string) ([]string, error) {
	if strings.TrimSpace(list) == "" {
		return nil, nil
	}
	var parts []string
	depth, start := 0, 0
	for i, c := range list {
		switch c {
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return nil, fmt.Errorf("unbalanced parentheses")
			}
		case ',':
			if depth == 0 {
				parts = append(parts, list[start:i])
				start = i + 1
			}
		}
	}
	if depth != 0 {
		return nil, fmt.Errorf("unbalanced parentheses")
	}
	return append(parts, list[start:]), nil
}

// FromABI converts a type parsed by go-ethereum's ABI JSON reader.
func FromABI(t gethabi.Type) Type {
	switch t.T {
	case gethabi.UintTy:
		return Uint(t.Size)
	case gethabi.IntTy:
		return Int(t.Size)
	case gethabi.BoolTy:
		return BoolType
	case gethabi.AddressTy:
		return AddressType
	case gethabi.StringTy:
		return StringType
	case gethabi.BytesTy:
		return BytesType
	case gethabi.FixedBytesTy:
		return FixedBytes(t.Size)
	case gethabi.HashTy:
		return FixedBytes(32)
	case gethabi.SliceTy:
		return Slice(FromABI(*t.Elem))
	case gethabi.ArrayTy:
		return Array(FromABI(*t.Elem), t.Size)
	case gethabi.TupleTy:
		components := make([]Type, 0, len(t.TupleElems))
		for _, elem := range t.TupleElems {
			components = append(components, FromABI(*elem))
		}
		return Tuple(components...)
	}
	return Type{Kind: UnsupportedKind, name: t.String()}
}

// FromABIArguments converts all argument types of a go-ethereum argument list.
func FromABIArguments(args gethabi.Arguments) []Type {
	res := make([]Type, 0, len(args))
	for _, arg := range args {
		res = append(res, FromABI(arg.Type))
	}
	return res
}
