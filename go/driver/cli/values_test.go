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
	"math/big"
	"reflect"
	"testing"

	"github.com/Fantom-foundation/solrunner/go/abi"
	"github.com/ethereum/go-ethereum/common"
)

func mustParseType(t *testing.T, name string) abi.Type {
	t.Helper()
	res, err := abi.ParseType(name)
	if err != nil {
		t.Fatalf("failed to parse type %s: %v", name, err)
	}
	return res
}

func TestParseValue_AcceptsValidInput(t *testing.T) {
	address := common.HexToAddress("0x00000000000000000000000000000000000000ff")
	tests := map[string]struct {
		typ   string
		input string
		want  any
	}{
		"decimal":       {"uint256", "42", big.NewInt(42)},
		"hex":           {"uint8", "0xff", big.NewInt(255)},
		"negative":      {"int16", "-7", big.NewInt(-7)},
		"bool":          {"bool", "true", true},
		"address":       {"address", "0x00000000000000000000000000000000000000ff", address},
		"bytes":         {"bytes", "0x0102", []byte{1, 2}},
		"fixed bytes":   {"bytes2", "0x0102", []byte{1, 2}},
		"string":        {"string", "hello world", "hello world"},
		"slice":         {"uint8[]", `[1, "0x2"]`, []any{big.NewInt(1), big.NewInt(2)}},
		"string slice":  {"string[]", `["a", "b"]`, []any{"a", "b"}},
		"nested arrays": {"bool[1][]", `[[true], [false]]`, []any{[]any{true}, []any{false}}},
		"tuple":         {"(uint256,string)", `[1, "x"]`, []any{big.NewInt(1), "x"}},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := ParseValue(mustParseType(t, test.typ), test.input)
			if err != nil {
				t.Fatalf("failed to parse %q: %v", test.input, err)
			}
			if !reflect.DeepEqual(test.want, got) {
				t.Errorf("unexpected value, wanted %v, got %v", test.want, got)
			}
		})
	}
}

func TestParseValue_RejectsInvalidInput(t *testing.T) {
	tests := map[string]struct {
		typ   string
		input string
	}{
		"not a number":     {"uint256", "ten"},
		"not a bool":       {"bool", "yes"},
		"short address":    {"address", "0x01"},
		"missing 0x":       {"bytes", "0102"},
		"not a list":       {"uint256[]", "1,2"},
		"tuple arity":      {"(uint256,bool)", "[1]"},
		"invalid elements": {"uint256[]", `["a"]`},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseValue(mustParseType(t, test.typ), test.input); err == nil {
				t.Errorf("expected %q to be rejected", test.input)
			}
		})
	}
}

func TestParseValues_ChecksArity(t *testing.T) {
	types := []abi.Type{abi.Uint(256)}
	if _, err := ParseValues(types, []string{"1", "2"}); err == nil {
		t.Errorf("expected arity mismatch to be reported")
	}
}

func TestParsedValuesCanBeEncoded(t *testing.T) {
	types := []abi.Type{mustParseType(t, "(uint8,bytes)[]"), abi.StringType}
	values, err := ParseValues(types, []string{`[[1, "0xff"], [2, "0x"]]`, "x"})
	if err != nil {
		t.Fatalf("failed to parse values: %v", err)
	}
	if _, err := abi.Encode(values, types); err != nil {
		t.Errorf("failed to encode parsed values: %v", err)
	}
}

func TestFormatValue_RendersParsableText(t *testing.T) {
	tests := map[string]struct {
		value any
		want  string
	}{
		"integer": {big.NewInt(-3), "-3"},
		"bytes":   {[]byte{0xab}, "0xab"},
		"list":    {[]any{big.NewInt(1), []byte{2}}, `["1","0x02"]`},
		"bool":    {true, "true"},
	}
	for name, test := range tests {
		if got := FormatValue(test.value); test.want != got {
			t.Errorf("%s: wanted %s, got %s", name, test.want, got)
		}
	}
}
