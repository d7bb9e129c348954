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
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Locate scans the build output directory outDir of the project at root for
// contract metadata files and parses them. An absolute outDir is used as it
// is. Compiler bookkeeping like build-info directories, Hardhat's debug
// files and Foundry's extra metadata output is skipped.
func Locate(root, outDir string) (Set, error) {
	dir := outDir
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(root, outDir)
	}
	info, err := os.Stat(dir)
	if err != nil {
		return Set{}, &DiscoveryError{Dir: dir, Reason: "build output not found, was the project built?", Err: err}
	}
	if !info.IsDir() {
		return Set{}, &DiscoveryError{Dir: dir, Reason: "not a directory"}
	}

	files, err := findMetadataFiles(dir)
	if err != nil {
		return Set{}, &DiscoveryError{Dir: dir, Reason: "failed to scan directory", Err: err}
	}

	artifacts := make(map[string]*Artifact, len(files))
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return Set{}, &ParseError{File: file, Err: err}
		}
		artifact, err := Parse(file, data)
		if err != nil {
			return Set{}, err
		}
		if previous, found := artifacts[artifact.Name]; found {
			return Set{}, &ConflictError{Name: artifact.Name, Files: [2]string{previous.File, file}}
		}
		artifacts[artifact.Name] = artifact
	}
	if len(artifacts) == 0 {
		return Set{}, &DiscoveryError{Dir: dir, Reason: "directory contains no contract metadata"}
	}
	return Set{artifacts: artifacts}, nil
}

// findMetadataFiles lists the metadata files below dir in lexical order.
func findMetadataFiles(dir string) ([]string, error) {
	var res []string
	err := filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := entry.Name()
		if entry.IsDir() {
			if name == "build-info" {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(name, ".json") && !isBookkeeping(name) {
			res = append(res, path)
		}
		return nil
	})
	return res, err
}

// isBookkeeping reports whether a JSON file next to contract artifacts holds
// compiler side output rather than an artifact.
func isBookkeeping(name string) bool {
	return strings.HasSuffix(name, ".dbg.json") || strings.HasSuffix(name, ".metadata.json")
}
