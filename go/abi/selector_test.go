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
	"strings"
	"testing"

	gethabi "github.com/ethereum/go-ethereum/accounts/abi"
)

func TestSelector_MatchesKnownIdentifiers(t *testing.T) {
	tests := map[string]string{
		"transfer(address,uint256)": "a9059cbb",
		"balanceOf(address)":        "70a08231",
		"totalSupply()":             "18160ddd",
		"mint(address,uint256)":     "40c10f19",
		"baz(uint32,bool)":          "cdcd77c0",
		"sam(bytes,bool,uint256[])": "a5643bf2",
	}
	for signature, want := range tests {
		selector := Selector(signature)
		if got := fmt.Sprintf("%x", selector); got != want {
			t.Errorf("unexpected selector for %s, wanted %s, got %s", signature, want, got)
		}
		// A second lookup is served from the cache.
		if again := Selector(signature); again != selector {
			t.Errorf("cached selector differs for %s", signature)
		}
	}
}

func TestSignature_UsesCanonicalTypeNames(t *testing.T) {
	types := mustParse(t, "uint", "(int,bytes)[]", "byte")
	if want, got := "f(uint256,(int256,bytes)[],bytes1)", Signature("f", types); want != got {
		t.Errorf("unexpected signature, wanted %s, got %s", want, got)
	}
	if want, got := "g()", Signature("g", nil); want != got {
		t.Errorf("unexpected signature, wanted %s, got %s", want, got)
	}
}

func TestSelector_AgreesWithGoEthereumMethodIDs(t *testing.T) {
	const definition = `[
		{"type":"function","name":"swap","inputs":[
			{"name":"path","type":"address[]"},
			{"name":"order","type":"tuple","components":[
				{"name":"amount","type":"uint128"},
				{"name":"data","type":"bytes"}
			]}
		],"outputs":[]},
		{"type":"function","name":"ping","inputs":[],"outputs":[{"name":"","type":"bool"}]}
	]`
	parsed, err := gethabi.JSON(strings.NewReader(definition))
	if err != nil {
		t.Fatalf("failed to parse ABI: %v", err)
	}
	for name, method := range parsed.Methods {
		signature := Signature(method.RawName, FromABIArguments(method.Inputs))
		if signature != method.Sig {
			t.Errorf("%s: unexpected signature, wanted %s, got %s", name, method.Sig, signature)
		}
		selector := Selector(signature)
		if string(selector[:]) != string(method.ID) {
			t.Errorf("%s: unexpected selector, wanted %x, got %x", name, method.ID, selector)
		}
	}
}
