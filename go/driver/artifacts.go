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

	"github.com/Fantom-foundation/solrunner/go/artifact"
	cliUtils "github.com/Fantom-foundation/solrunner/go/driver/cli"
	"github.com/Fantom-foundation/solrunner/go/runner"
	"github.com/dsnet/golib/unitconv"
	"github.com/urfave/cli/v2"
)

var ArtifactsCmd = cli.Command{
	Action: doArtifacts,
	Name:   "artifacts",
	Usage:  "List the contracts of a project with their methods and selectors",
	Flags: []cli.Flag{
		cliUtils.ProjectFlag,
		cliUtils.OutDirFlag,
		cliUtils.FilterFlag,
	},
}

func doArtifacts(context *cli.Context) error {
	filter, err := cliUtils.FilterFlag.Fetch(context)
	if err != nil {
		return err
	}
	contracts, err := locate(context)
	if err != nil {
		return err
	}

	out := context.App.Writer
	for _, name := range contracts.Names() {
		if !filter.MatchString(name) {
			continue
		}
		a, _ := contracts.Get(name)
		fmt.Fprintf(out, "%s (%s)\n", a.Name, a.File)
		switch {
		case a.Unlinked:
			fmt.Fprintf(out, "  code: unlinked\n")
		case len(a.Bytecode) == 0:
			fmt.Fprintf(out, "  code: none\n")
		default:
			fmt.Fprintf(out, "  code: %sB\n", unitconv.FormatPrefix(float64(len(a.Bytecode)), unitconv.SI, 1))
		}
		if len(a.Constructor.Inputs) > 0 {
			fmt.Fprintf(out, "  %s\n", a.Constructor)
		}
		for _, method := range a.Methods() {
			fmt.Fprintf(out, "  %s\n", method)
		}
	}
	return nil
}

// locate finds the artifacts of the project selected by the command line.
func locate(context *cli.Context) (artifact.Set, error) {
	return runner.Locate(cliUtils.ProjectFlag.Fetch(context), cliUtils.OutDirFlag.Fetch(context))
}
