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
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/crypto/sha3"
)

// Signature returns the canonical signature of a method, e.g.
// "transfer(address,uint256)", from which its selector is derived.
func Signature(name string, inputs []Type) string {
	names := make([]string, 0, len(inputs))
	for _, t := range inputs {
		names = append(names, t.String())
	}
	return name + "(" + strings.Join(names, ",") + ")"
}

// Selector computes the 4-byte method identifier of the given signature, the
// leading bytes of its Keccak-256 hash.
func Selector(signature string) [4]byte {
	if selector, found := selectorCache.Get(signature); found {
		return selector
	}
	hasher := sha3.NewLegacyKeccak256()
	hasher.Write([]byte(signature))
	var hash [32]byte
	hasher.Sum(hash[0:0])

	var selector [4]byte
	copy(selector[:], hash[:4])
	selectorCache.Add(signature, selector)
	return selector
}

// selectorCache holds recently computed selectors. Test suites resolve the
// same handful of signatures for every call.
var selectorCache = newSelectorCache()

func newSelectorCache() *lru.Cache[string, [4]byte] {
	cache, err := lru.New[string, [4]byte](1 << 10)
	if err != nil {
		panic(err)
	}
	return cache
}
