// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package cliUtils

import (
	"encoding/json"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/Fantom-foundation/solrunner/go/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// ParseValues converts command line arguments into values of the given
// types. See ParseValue for the accepted formats.
func ParseValues(types []abi.Type, texts []string) ([]any, error) {
	if len(types) != len(texts) {
		return nil, &abi.ArityError{Want: len(types), Got: len(texts)}
	}
	res := make([]any, len(texts))
	for i, text := range texts {
		value, err := ParseValue(types[i], text)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		res[i] = value
	}
	return res, nil
}

// ParseValue converts the textual representation of a value into a value of
// the given type. Integers are decimal or 0x-prefixed hexadecimal, byte
// strings and addresses are hex encoded, and arrays and tuples are JSON
// lists of their elements, e.g. ["0x01", 2, [true]].
func ParseValue(t abi.Type, text string) (any, error) {
	switch t.Kind {
	case abi.UintKind, abi.IntKind:
		v, ok := new(big.Int).SetString(text, 0)
		if !ok {
			return nil, fmt.Errorf("invalid integer %q", text)
		}
		return v, nil
	case abi.BoolKind:
		return strconv.ParseBool(text)
	case abi.AddressKind:
		if !common.IsHexAddress(text) {
			return nil, fmt.Errorf("invalid address %q", text)
		}
		return common.HexToAddress(text), nil
	case abi.FixedBytesKind, abi.BytesKind:
		return hexutil.Decode(text)
	case abi.StringKind:
		return text, nil
	case abi.ArrayKind, abi.SliceKind, abi.TupleKind:
		var elements []json.RawMessage
		if err := json.Unmarshal([]byte(text), &elements); err != nil {
			return nil, fmt.Errorf("invalid list %q: %w", text, err)
		}
		types := t.Components
		if t.Kind != abi.TupleKind {
			types = make([]abi.Type, len(elements))
			for i := range types {
				types[i] = *t.Elem
			}
		}
		if len(types) != len(elements) {
			return nil, &abi.ArityError{Want: len(types), Got: len(elements)}
		}
		res := make([]any, len(elements))
		for i, element := range elements {
			value, err := ParseValue(types[i], unquote(element))
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			res[i] = value
		}
		return res, nil
	}
	return nil, fmt.Errorf("unsupported type %v", t)
}

// unquote returns the content of JSON strings and the text of any other
// JSON value.
func unquote(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(raw))
}

// FormatValue renders a decoded value the way ParseValue accepts it.
func FormatValue(value any) string {
	switch v := value.(type) {
	case []byte:
		return hexutil.Encode(v)
	case []any:
		parts := make([]string, len(v))
		for i, element := range v {
			parts[i] = strconv.Quote(FormatValue(element))
		}
		return "[" + strings.Join(parts, ",") + "]"
	}
	return fmt.Sprint(value)
}
