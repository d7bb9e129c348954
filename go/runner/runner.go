// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package runner lets Go tests deploy and call the contracts of a Solidity
// project. A Runner locates the compiled contracts of the project and starts
// an execution backend; contracts are then deployed by name and called by
// method name with native Go values.
//
//	r, err := runner.New(ctx, runner.Config{ProjectRoot: ".."})
//	...
//	defer r.Close()
//	adder, err := r.Deploy(ctx, "Adder")
//	...
//	sum, err := adder.Call(ctx, "add", 2, 3)
package runner

import (
	"context"
	"fmt"

	"github.com/Fantom-foundation/solrunner/go/abi"
	"github.com/Fantom-foundation/solrunner/go/artifact"
	"github.com/Fantom-foundation/solrunner/go/session"
	"go.uber.org/zap"
)

// DefaultBackend is the backend started if the configuration names none.
const DefaultBackend = "simulated"

// Config summarizes the options of a Runner. Zero values select the
// documented defaults.
type Config struct {
	// ProjectRoot is the directory of the Solidity project. Defaults to the
	// parent of the working directory, which is the project root for tests
	// placed in a directory directly below it.
	ProjectRoot string

	// OutDir is the build output directory, relative to the project root
	// unless absolute. Defaults to the out directory of the default profile
	// in the project's foundry.toml, or DefaultOutDir.
	OutDir string

	// BuildCommand, if set, is run in the project root before locating the
	// build output, e.g. []string{"forge", "build"}.
	BuildCommand []string

	// Backend is the name of the execution backend. The backend's package
	// must be imported to be available. Defaults to DefaultBackend.
	Backend string

	// Session configures the session and its backend.
	Session session.Config

	// Logger defaults to a no-op logger. It is also used by the session
	// unless the session configuration has a logger of its own.
	Logger *zap.Logger
}

func (c Config) withDefaults() Config {
	if c.Backend == "" {
		c.Backend = DefaultBackend
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	if c.Session.Logger == nil {
		c.Session.Logger = c.Logger
	}
	return c
}

// Runner deploys the contracts of a project on a single session. A Runner
// may be shared by tests only with external synchronization, since the
// order of concurrent operations is undefined.
type Runner struct {
	contracts artifact.Set
	session   *session.Session
	log       *zap.Logger
}

// New locates the contracts of the configured project, building it first
// if a build command is configured, and starts a session on the configured
// backend.
func New(ctx context.Context, config Config) (*Runner, error) {
	config = config.withDefaults()
	root, err := resolveRoot(config.ProjectRoot)
	if err != nil {
		return nil, err
	}
	outDir, err := resolveOutDir(root, config.OutDir)
	if err != nil {
		return nil, err
	}
	if len(config.BuildCommand) > 0 {
		if err := build(ctx, root, config.BuildCommand, config.Logger); err != nil {
			return nil, err
		}
	}
	contracts, err := artifact.Locate(root, outDir)
	if err != nil {
		return nil, err
	}
	config.Logger.Info("contracts located",
		zap.String("root", root),
		zap.String("out", outDir),
		zap.Int("contracts", contracts.Len()),
	)

	s, err := session.Start(ctx, config.Backend, config.Session)
	if err != nil {
		return nil, err
	}
	return newRunner(contracts, s, config.Logger), nil
}

func newRunner(contracts artifact.Set, s *session.Session, log *zap.Logger) *Runner {
	return &Runner{contracts: contracts, session: s, log: log}
}

// Contracts returns the artifacts of all contracts of the project.
func (r *Runner) Contracts() artifact.Set {
	return r.contracts
}

// Deploy creates an instance of the named contract, passing the given
// constructor arguments. Arguments are checked against the constructor
// before anything is sent to the backend.
func (r *Runner) Deploy(ctx context.Context, name string, args ...any) (*Contract, error) {
	a, found := r.contracts.Get(name)
	if !found {
		return nil, &UnknownContractError{Name: name, Known: r.contracts.Names()}
	}
	encoded, err := abi.Encode(args, a.Constructor.Inputs)
	if err != nil {
		return nil, fmt.Errorf("invalid constructor arguments for %s: %w", name, err)
	}
	if !a.Deployable() {
		reason := "no creation code"
		if a.Unlinked {
			reason = "creation code references unlinked libraries"
		}
		return nil, &session.DeploymentError{Reason: fmt.Sprintf("%s: %s", name, reason)}
	}

	address, err := r.session.Deploy(ctx, a.Bytecode, encoded)
	if err != nil {
		return nil, err
	}
	r.log.Debug("contract ready", zap.String("contract", name), zap.Stringer("address", address))
	return &Contract{artifact: a, address: address, session: r.session}, nil
}

// Close shuts down the session and its backend.
func (r *Runner) Close() error {
	return r.session.Close()
}
