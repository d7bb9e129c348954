// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package cliUtils

import (
	"fmt"
	"os"
	"regexp"
	"runtime/pprof"
	"time"

	"github.com/Fantom-foundation/solrunner/go/runner"
	"github.com/Fantom-foundation/solrunner/go/session"
	"github.com/urfave/cli/v2"
)

type filterFlagType struct {
	cli.StringFlag
}

var FilterFlag = &filterFlagType{
	cli.StringFlag{
		Name:    "filter",
		Aliases: []string{"f"},
		Usage:   "consider only contracts which name matches the given regex",
		Value:   "",
	},
}

func (f *filterFlagType) Fetch(context *cli.Context) (*regexp.Regexp, error) {
	return regexp.Compile(context.String(f.Name))
}

type projectFlagType struct {
	cli.StringFlag
}

var ProjectFlag = &projectFlagType{
	cli.StringFlag{
		Name:      "project",
		Aliases:   []string{"p"},
		Usage:     "root directory of the Solidity project",
		Value:     ".",
		TakesFile: true,
	},
}

func (f *projectFlagType) Fetch(context *cli.Context) string {
	return context.String(f.Name)
}

type outDirFlagType struct {
	cli.StringFlag
}

var OutDirFlag = &outDirFlagType{
	cli.StringFlag{
		Name:      "out",
		Aliases:   []string{"o"},
		Usage:     "build output directory, defaults to the out directory of foundry.toml or 'out'",
		TakesFile: true,
	},
}

func (f *outDirFlagType) Fetch(context *cli.Context) string {
	return context.String(f.Name)
}

type backendFlagType struct {
	cli.StringFlag
}

var BackendFlag = &backendFlagType{
	cli.StringFlag{
		Name:    "backend",
		Aliases: []string{"b"},
		Usage:   "execution backend contracts are deployed to",
		Value:   runner.DefaultBackend,
	},
}

func (f *backendFlagType) Fetch(context *cli.Context) string {
	return context.String(f.Name)
}

type urlFlagType struct {
	cli.StringFlag
}

var URLFlag = &urlFlagType{
	cli.StringFlag{
		Name:  "url",
		Usage: "JSON-RPC endpoint of the node backend",
	},
}

func (f *urlFlagType) Fetch(context *cli.Context) string {
	return context.String(f.Name)
}

type timeoutFlagType struct {
	cli.DurationFlag
}

var TimeoutFlag = &timeoutFlagType{
	cli.DurationFlag{
		Name:  "timeout",
		Usage: "time the backend may take to become ready",
		Value: session.DefaultStartupTimeout,
	},
}

func (f *timeoutFlagType) Fetch(context *cli.Context) time.Duration {
	return context.Duration(f.Name)
}

type verboseFlagType struct {
	cli.BoolFlag
}

var VerboseFlag = &verboseFlagType{
	cli.BoolFlag{
		Name:    "verbose",
		Aliases: []string{"v"},
		Usage:   "log every deployment and transaction",
	},
}

func (f *verboseFlagType) Fetch(context *cli.Context) bool {
	return context.Bool(f.Name)
}

var commonFlags = []cli.Flag{
	cpuProfileFlag,
}

var cpuProfileFlag = &cli.StringFlag{
	Name:      "cpuprofile",
	Usage:     "store CPU profile in the provided filename",
	TakesFile: true,
}

func AddCommonFlags(command cli.Command) cli.Command {
	command.Flags = append(command.Flags, commonFlags...)

	action := command.Action
	command.Action = func(ctx *cli.Context) (err error) {

		if cpuprofileFilename := ctx.String(cpuProfileFlag.Name); cpuprofileFilename != "" {
			f, err := os.Create(cpuprofileFilename)
			if err != nil {
				return fmt.Errorf("could not create CPU profile: %w", err)
			}
			if err := pprof.StartCPUProfile(f); err != nil {
				return fmt.Errorf("could not start CPU profile: %w", err)
			}
			defer pprof.StopCPUProfile()
		}

		return action(ctx)
	}
	return command
}
