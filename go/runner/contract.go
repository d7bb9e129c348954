// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package runner

import (
	"context"
	"fmt"

	"github.com/Fantom-foundation/solrunner/go/abi"
	"github.com/Fantom-foundation/solrunner/go/artifact"
	"github.com/Fantom-foundation/solrunner/go/session"
	"github.com/ethereum/go-ethereum/common"
)

// Contract is a deployed contract.
type Contract struct {
	artifact *artifact.Artifact
	address  common.Address
	session  *session.Session
}

// Address returns the address the contract was deployed to.
func (c *Contract) Address() common.Address {
	return c.address
}

// Artifact returns the metadata the contract was deployed from.
func (c *Contract) Artifact() *artifact.Artifact {
	return c.artifact
}

// Method looks up a method by name or canonical signature.
func (c *Contract) Method(name string) (*artifact.Method, bool) {
	return c.artifact.Method(name)
}

// Call invokes a method of the contract, identified by its name or its
// canonical signature, and returns its decoded results. View and pure
// methods are executed as static calls, all other methods as transactions.
// Reverted calls are reported as *session.CallRevertedError.
func (c *Contract) Call(ctx context.Context, method string, args ...any) ([]any, error) {
	m, found := c.artifact.Method(method)
	if !found {
		return nil, &UnknownMethodError{Contract: c.artifact.Name, Method: method}
	}
	input, err := abi.Encode(args, m.Inputs)
	if err != nil {
		return nil, fmt.Errorf("invalid arguments for %s: %w", m.Signature, err)
	}

	kind := session.Transaction
	if m.Mutability.ReadOnly() {
		kind = session.StaticCall
	}
	output, err := c.session.Call(ctx, c.address, m.Selector, input, kind)
	if err != nil {
		return nil, err
	}

	if len(m.Outputs) == 0 {
		return []any{}, nil
	}
	results, err := abi.Decode(output, m.Outputs)
	if err != nil {
		return nil, fmt.Errorf("invalid result of %s: %w", m.Signature, err)
	}
	return results, nil
}
