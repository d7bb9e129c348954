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
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/Fantom-foundation/solrunner/go/artifact"
	"go.uber.org/zap"
)

const (
	// DefaultOutDir is the build output directory used if neither the
	// configuration nor the project's foundry.toml name one.
	DefaultOutDir = "out"

	foundryConfigFile = "foundry.toml"
)

// resolveRoot returns the absolute project root. By default, tests are
// expected to live in a directory directly below the project root.
func resolveRoot(root string) (string, error) {
	if root != "" {
		return filepath.Abs(root)
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to obtain working directory: %w", err)
	}
	return filepath.Dir(wd), nil
}

// foundryConfig is the part of a foundry.toml file relevant for locating
// build outputs.
type foundryConfig struct {
	Profile map[string]struct {
		Out string `toml:"out"`
	} `toml:"profile"`
}

// resolveOutDir returns the build output directory of the project at root,
// taken from the configuration, the default profile of foundry.toml, or
// DefaultOutDir, in this order.
func resolveOutDir(root, outDir string) (string, error) {
	if outDir != "" {
		return outDir, nil
	}
	path := filepath.Join(root, foundryConfigFile)
	var config foundryConfig
	if _, err := toml.DecodeFile(path, &config); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return DefaultOutDir, nil
		}
		return "", fmt.Errorf("invalid project configuration %s: %w", path, err)
	}
	if out := config.Profile["default"].Out; out != "" {
		return out, nil
	}
	return DefaultOutDir, nil
}

// Locate finds the contracts of the project at root like New does, without
// building the project or starting a backend. An empty root selects the
// parent of the working directory, an empty outDir the directory named by
// foundry.toml.
func Locate(root, outDir string) (artifact.Set, error) {
	root, err := resolveRoot(root)
	if err != nil {
		return artifact.Set{}, err
	}
	outDir, err = resolveOutDir(root, outDir)
	if err != nil {
		return artifact.Set{}, err
	}
	return artifact.Locate(root, outDir)
}

// build runs the build command of the project in its root directory.
func build(ctx context.Context, root string, command []string, log *zap.Logger) error {
	log.Info("building project", zap.String("root", root), zap.Strings("command", command))
	cmd := exec.CommandContext(ctx, command[0], command[1:]...)
	cmd.Dir = root
	output, err := cmd.CombinedOutput()
	if err != nil {
		return &BuildError{Command: command, Output: output, Err: err}
	}
	return nil
}
