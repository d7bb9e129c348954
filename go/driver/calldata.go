// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package main

import (
	"fmt"
	"strings"

	"github.com/Fantom-foundation/solrunner/go/abi"
	cliUtils "github.com/Fantom-foundation/solrunner/go/driver/cli"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/urfave/cli/v2"
)

var CalldataCmd = cli.Command{
	Action:    doCalldata,
	Name:      "calldata",
	Usage:     "Encode the input of a method call",
	ArgsUsage: "<signature> [arguments...]",
}

func doCalldata(context *cli.Context) error {
	if context.NArg() < 1 {
		return fmt.Errorf("missing method signature, e.g. 'transfer(address,uint256)'")
	}
	signature, types, err := parseSignature(context.Args().First())
	if err != nil {
		return err
	}
	values, err := cliUtils.ParseValues(types, context.Args().Tail())
	if err != nil {
		return err
	}
	input, err := abi.EncodeCall(abi.Selector(signature), values, types)
	if err != nil {
		return err
	}
	fmt.Fprintln(context.App.Writer, hexutil.Encode(input))
	return nil
}

// parseSignature parses a method signature like "f(uint,(bool,bytes))" and
// returns its canonical form together with its input types.
func parseSignature(signature string) (string, []abi.Type, error) {
	open := strings.IndexByte(signature, '(')
	if open <= 0 {
		return "", nil, fmt.Errorf("invalid method signature %q", signature)
	}
	inputs, err := abi.ParseType(signature[open:])
	if err != nil {
		return "", nil, fmt.Errorf("invalid method signature %q: %w", signature, err)
	}
	if inputs.Kind != abi.TupleKind {
		return "", nil, fmt.Errorf("invalid method signature %q", signature)
	}
	name := strings.TrimSpace(signature[:open])
	return abi.Signature(name, inputs.Components), inputs.Components, nil
}
