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

import "fmt"

// DiscoveryError is returned if the build output directory is missing or
// does not contain any contract artifacts. Usually the build step was not run.
type DiscoveryError struct {
	Dir    string
	Reason string
	Err    error
}

func (e *DiscoveryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("no artifacts in %s: %s: %v", e.Dir, e.Reason, e.Err)
	}
	return fmt.Sprintf("no artifacts in %s: %s", e.Dir, e.Reason)
}

func (e *DiscoveryError) Unwrap() error {
	return e.Err
}

// ParseError is returned for metadata files that can not be parsed.
type ParseError struct {
	File string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid artifact %s: %v", e.File, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ConflictError is returned if two metadata files describe contracts with
// the same name.
type ConflictError struct {
	Name  string
	Files [2]string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("contract %s defined by both %s and %s", e.Name, e.Files[0], e.Files[1])
}
