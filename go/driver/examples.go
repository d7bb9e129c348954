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

	cliUtils "github.com/Fantom-foundation/solrunner/go/driver/cli"
	"github.com/Fantom-foundation/solrunner/go/examples"
	"github.com/urfave/cli/v2"
)

var ExamplesCmd = cli.Command{
	Action:    doExamples,
	Name:      "examples",
	Usage:     "Write the build output of the example contracts",
	ArgsUsage: "<directory>",
	Flags: []cli.Flag{
		cliUtils.FilterFlag,
	},
}

func doExamples(context *cli.Context) error {
	if context.NArg() != 1 {
		return fmt.Errorf("expected target directory")
	}
	filter, err := cliUtils.FilterFlag.Fetch(context)
	if err != nil {
		return err
	}
	var selected []examples.Example
	for _, example := range examples.All() {
		if filter.MatchString(example.Name) {
			selected = append(selected, example)
		}
	}
	dir := context.Args().First()
	if err := examples.WriteFoundryOutput(dir, selected...); err != nil {
		return err
	}
	fmt.Fprintf(context.App.Writer, "wrote %d contracts to %s\n", len(selected), dir)
	return nil
}
