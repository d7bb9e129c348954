// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package artifact discovers and parses the contract metadata files produced
// by a contract build toolchain like Foundry or Hardhat.
package artifact

import (
	"fmt"

	"github.com/Fantom-foundation/solrunner/go/abi"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Artifact is the parsed metadata of a single compiled contract. Artifacts
// are immutable after parsing.
type Artifact struct {
	Name string
	File string // the metadata file the artifact was parsed from

	// Bytecode is the creation code of the contract. It is empty for
	// interfaces, abstract contracts and unlinked contracts.
	Bytecode []byte

	// Unlinked is set if the creation code contains library placeholders
	// which need to be resolved before the contract can be deployed.
	Unlinked bool

	// Constructor is never nil; contracts without explicit constructor get
	// one without inputs.
	Constructor *Method

	// methods maps method names and canonical signatures to methods.
	// Overloaded methods are only listed by signature.
	methods map[string]*Method
	// signatures lists the canonical signatures of all methods in order.
	signatures []string
}

// Method returns the method with the given name or canonical signature.
// Overloaded methods can only be looked up by signature.
func (a *Artifact) Method(name string) (*Method, bool) {
	method, found := a.methods[name]
	return method, found
}

// Methods returns all methods of the contract, sorted by signature.
func (a *Artifact) Methods() []*Method {
	res := make([]*Method, 0, len(a.signatures))
	for _, signature := range a.signatures {
		res = append(res, a.methods[signature])
	}
	return res
}

// Deployable reports whether the artifact carries creation code that can be
// sent to a backend as it is.
func (a *Artifact) Deployable() bool {
	return !a.Unlinked && len(a.Bytecode) > 0
}

// Method describes a callable function of a contract.
type Method struct {
	Name       string
	Signature  string // canonical signature, e.g. "transfer(address,uint256)"
	Selector   [4]byte
	Inputs     []abi.Type
	Outputs    []abi.Type
	Mutability Mutability
}

func (m *Method) String() string {
	return fmt.Sprintf("%s [0x%x, %v]", m.Signature, m.Selector, m.Mutability)
}

// Mutability is the state mutability declared for a method.
type Mutability byte

const (
	NonPayable Mutability = iota
	Payable
	View
	Pure
)

// ReadOnly reports whether methods of this mutability can not modify state
// and may thus be served by a static call.
func (m Mutability) ReadOnly() bool {
	return m == View || m == Pure
}

func (m Mutability) String() string {
	switch m {
	case NonPayable:
		return "nonpayable"
	case Payable:
		return "payable"
	case View:
		return "view"
	case Pure:
		return "pure"
	}
	return fmt.Sprintf("Mutability(%d)", m)
}

func parseMutability(s string, constant, payable bool) (Mutability, error) {
	switch s {
	case "nonpayable":
		return NonPayable, nil
	case "payable":
		return Payable, nil
	case "view":
		return View, nil
	case "pure":
		return Pure, nil
	case "":
		// Metadata of old compilers only carries the constant and payable flags.
		if constant {
			return View, nil
		}
		if payable {
			return Payable, nil
		}
		return NonPayable, nil
	}
	return NonPayable, fmt.Errorf("unknown state mutability %q", s)
}

// Set is a read-only collection of artifacts keyed by contract name. It is
// never modified after construction and may be read concurrently.
type Set struct {
	artifacts map[string]*Artifact
}

// Get returns the artifact of the contract with the given name.
func (s Set) Get(name string) (*Artifact, bool) {
	artifact, found := s.artifacts[name]
	return artifact, found
}

// Names returns the sorted list of contract names in this set.
func (s Set) Names() []string {
	names := maps.Keys(s.artifacts)
	slices.Sort(names)
	return names
}

// Len returns the number of artifacts in this set.
func (s Set) Len() int {
	return len(s.artifacts)
}
