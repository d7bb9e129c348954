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
	"time"

	cliUtils "github.com/Fantom-foundation/solrunner/go/driver/cli"
	"github.com/Fantom-foundation/solrunner/go/runner"
	"github.com/Fantom-foundation/solrunner/go/session"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

var constructorFlag = &cli.StringSliceFlag{
	Name:    "constructor",
	Aliases: []string{"c"},
	Usage:   "constructor argument of the contract, repeat for multiple arguments",
}

var CallCmd = cliUtils.AddCommonFlags(cli.Command{
	Action:    doCall,
	Name:      "call",
	Usage:     "Deploy a contract on a fresh backend and call one of its methods",
	ArgsUsage: "<contract> <method> [arguments...]",
	Flags: []cli.Flag{
		cliUtils.ProjectFlag,
		cliUtils.OutDirFlag,
		cliUtils.BackendFlag,
		cliUtils.URLFlag,
		cliUtils.TimeoutFlag,
		cliUtils.VerboseFlag,
		constructorFlag,
	},
})

func doCall(context *cli.Context) error {
	if context.NArg() < 2 {
		return fmt.Errorf("expected contract and method name")
	}
	args := context.Args().Slice()
	contractName, methodName := args[0], args[1]

	logger := zap.NewNop()
	if cliUtils.VerboseFlag.Fetch(context) {
		var err error
		if logger, err = zap.NewDevelopment(); err != nil {
			return err
		}
		defer logger.Sync()
	}

	r, err := runner.New(context.Context, runner.Config{
		ProjectRoot: cliUtils.ProjectFlag.Fetch(context),
		OutDir:      cliUtils.OutDirFlag.Fetch(context),
		Backend:     cliUtils.BackendFlag.Fetch(context),
		Session: session.Config{
			StartupTimeout: cliUtils.TimeoutFlag.Fetch(context),
			URL:            cliUtils.URLFlag.Fetch(context),
		},
		Logger: logger,
	})
	if err != nil {
		return err
	}
	defer r.Close()

	a, found := r.Contracts().Get(contractName)
	if !found {
		return &runner.UnknownContractError{Name: contractName, Known: r.Contracts().Names()}
	}
	constructorArgs, err := cliUtils.ParseValues(a.Constructor.Inputs, context.StringSlice(constructorFlag.Name))
	if err != nil {
		return fmt.Errorf("invalid constructor arguments: %w", err)
	}
	method, found := a.Method(methodName)
	if !found {
		return &runner.UnknownMethodError{Contract: contractName, Method: methodName}
	}
	methodArgs, err := cliUtils.ParseValues(method.Inputs, args[2:])
	if err != nil {
		return fmt.Errorf("invalid arguments of %s: %w", method.Signature, err)
	}

	contract, err := r.Deploy(context.Context, contractName, constructorArgs...)
	if err != nil {
		return err
	}
	start := time.Now()
	results, err := contract.Call(context.Context, method.Signature, methodArgs...)
	if err != nil {
		return err
	}
	duration := time.Since(start)

	out := context.App.Writer
	fmt.Fprintf(out, "%s deployed at %v\n", contractName, contract.Address())
	fmt.Fprintf(out, "%s returned in %v\n", method.Signature, duration.Round(time.Microsecond))
	for i, result := range results {
		fmt.Fprintf(out, "  %d: %s = %s\n", i, method.Outputs[i], cliUtils.FormatValue(result))
	}
	return nil
}
