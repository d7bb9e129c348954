// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package artifact

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Fantom-foundation/solrunner/go/abi"
	gethabi "github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"golang.org/x/exp/slices"
)

// metadata covers the fields of Foundry and Hardhat artifact files needed
// to deploy and call a contract.
type metadata struct {
	ContractName string          `json:"contractName"`
	ABI          json.RawMessage `json:"abi"`
	// Bytecode is a hex string (Hardhat) or an object with the hex string
	// in its "object" field (Foundry).
	Bytecode json.RawMessage `json:"bytecode"`
	// MethodIdentifiers maps signatures to selectors as recorded by solc.
	MethodIdentifiers map[string]string `json:"methodIdentifiers"`
}

// Parse parses the content of the metadata file at the given path. The file
// name determines the contract name unless the metadata names the contract.
func Parse(file string, data []byte) (*Artifact, error) {
	res, err := parse(file, data)
	if err != nil {
		return nil, &ParseError{File: file, Err: err}
	}
	return res, nil
}

func parse(file string, data []byte) (*Artifact, error) {
	var meta metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	if len(meta.ABI) == 0 {
		return nil, errors.New("missing abi")
	}
	definition, err := gethabi.JSON(bytes.NewReader(meta.ABI))
	if err != nil {
		return nil, fmt.Errorf("invalid abi: %w", err)
	}

	name := meta.ContractName
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(file), ".json")
	}
	res := &Artifact{
		Name:    name,
		File:    file,
		methods: map[string]*Method{},
	}

	code, err := decodeBytecode(meta.Bytecode)
	if err != nil {
		return nil, err
	}
	if code == nil && isUnlinked(meta.Bytecode) {
		res.Unlinked = true
	}
	res.Bytecode = code

	constructor, err := newMethod(definition.Constructor, "constructor")
	if err != nil {
		return nil, err
	}
	res.Constructor = constructor

	occurrences := map[string]int{}
	for _, m := range definition.Methods {
		occurrences[m.RawName]++
	}
	for _, m := range definition.Methods {
		method, err := newMethod(m, m.RawName)
		if err != nil {
			return nil, err
		}
		if !bytes.Equal(method.Selector[:], m.ID) {
			return nil, fmt.Errorf("selector mismatch for %s: computed 0x%x, abi 0x%x", method.Signature, method.Selector, m.ID)
		}
		if recorded, found := meta.MethodIdentifiers[method.Signature]; found {
			if want := fmt.Sprintf("%x", method.Selector); !strings.EqualFold(recorded, want) {
				return nil, fmt.Errorf("selector mismatch for %s: computed 0x%s, compiler 0x%s", method.Signature, want, recorded)
			}
		}
		res.methods[method.Signature] = method
		res.signatures = append(res.signatures, method.Signature)
		if occurrences[m.RawName] == 1 {
			res.methods[m.RawName] = method
		}
	}
	slices.Sort(res.signatures)
	return res, nil
}

func newMethod(m gethabi.Method, name string) (*Method, error) {
	mutability, err := parseMutability(m.StateMutability, m.Constant, m.Payable)
	if err != nil {
		return nil, fmt.Errorf("method %s: %w", name, err)
	}
	inputs := abi.FromABIArguments(m.Inputs)
	signature := abi.Signature(name, inputs)
	res := &Method{
		Name:       name,
		Signature:  signature,
		Inputs:     inputs,
		Outputs:    abi.FromABIArguments(m.Outputs),
		Mutability: mutability,
	}
	if m.Type == gethabi.Function {
		res.Selector = abi.Selector(signature)
	}
	return res, nil
}

// decodeBytecode extracts the creation code from either bytecode layout.
// Code with unlinked library placeholders is reported as nil.
func decodeBytecode(raw json.RawMessage) ([]byte, error) {
	hex, err := bytecodeString(raw)
	if err != nil {
		return nil, err
	}
	if hex == "" || strings.Contains(hex, "__") {
		return nil, nil
	}
	if !strings.HasPrefix(hex, "0x") && !strings.HasPrefix(hex, "0X") {
		hex = "0x" + hex
	}
	code, err := hexutil.Decode(hex)
	if err != nil {
		return nil, fmt.Errorf("invalid bytecode: %w", err)
	}
	return code, nil
}

func isUnlinked(raw json.RawMessage) bool {
	hex, err := bytecodeString(raw)
	return err == nil && strings.Contains(hex, "__")
}

func bytecodeString(raw json.RawMessage) (string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", nil
	}
	var hex string
	if err := json.Unmarshal(raw, &hex); err == nil {
		return strings.TrimSpace(hex), nil
	}
	var object struct {
		Object string `json:"object"`
	}
	if err := json.Unmarshal(raw, &object); err != nil {
		return "", fmt.Errorf("invalid bytecode field: %w", err)
	}
	return strings.TrimSpace(object.Object), nil
}
