// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package examples provides contracts for tests and benchmarks together with
// the metadata a build toolchain would produce for them.
package examples

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	gethabi "github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Example is a deployable contract with its interface description. Some
// examples provide a method with a (int)->int signature and a reference
// function computing the same result.
type Example struct {
	exampleSpec
}

// exampleSpec specifies a contract and optionally an entry point with a
// (int)->int signature.
type exampleSpec struct {
	Name     string
	ABI      string // JSON description of the contract interface
	Code     []byte // the runtime code, empty for contracts failing on creation
	InitCode []byte // the creation code, defaults to code deploying Code

	Method    string        // name of the (int)->int method, if any
	reference func(int) int // a reference function computing the same function
}

func (s exampleSpec) build() Example {
	if s.InitCode == nil {
		s.InitCode = deployment(s.Code)
	}
	return Example{exampleSpec: s}
}

// HasReference reports whether the example provides a reference function.
func (e Example) HasReference() bool {
	return e.reference != nil
}

// RunReference runs the reference function of this example to produce the
// expected result of its method.
func (e Example) RunReference(argument int) int {
	return e.reference(argument)
}

// Artifact produces the content of a Foundry artifact file for this example.
func (e Example) Artifact() ([]byte, error) {
	definition, err := gethabi.JSON(strings.NewReader(e.ABI))
	if err != nil {
		return nil, fmt.Errorf("invalid abi of example %s: %w", e.Name, err)
	}
	identifiers := map[string]string{}
	for _, method := range definition.Methods {
		identifiers[method.Sig] = fmt.Sprintf("%x", method.ID)
	}

	type bytecode struct {
		Object         string         `json:"object"`
		LinkReferences map[string]any `json:"linkReferences"`
	}
	return json.MarshalIndent(struct {
		ABI               json.RawMessage   `json:"abi"`
		Bytecode          bytecode          `json:"bytecode"`
		DeployedBytecode  bytecode          `json:"deployedBytecode"`
		MethodIdentifiers map[string]string `json:"methodIdentifiers"`
	}{
		ABI:               json.RawMessage(e.ABI),
		Bytecode:          bytecode{Object: hexutil.Encode(e.InitCode), LinkReferences: map[string]any{}},
		DeployedBytecode:  bytecode{Object: hexutil.Encode(e.Code), LinkReferences: map[string]any{}},
		MethodIdentifiers: identifiers,
	}, "", "  ")
}

// WriteFoundryOutput writes the artifacts of the given examples into dir,
// using the layout of Foundry's build output directory.
func WriteFoundryOutput(dir string, examples ...Example) error {
	for _, example := range examples {
		data, err := example.Artifact()
		if err != nil {
			return err
		}
		path := filepath.Join(dir, example.Name+".sol", example.Name+".json")
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return err
		}
	}
	return nil
}

// All returns all examples.
func All() []Example {
	return []Example{
		GetAdderExample(),
		GetCounterExample(),
		GetEchoExample(),
		GetBrokenExample(),
		GetArithmeticExample(),
		GetGasBurnerExample(),
		GetSha3Example(),
		GetStaticOverheadExample(),
		GetLargeExample(),
	}
}
