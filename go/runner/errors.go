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
	"fmt"
	"strings"
)

// UnknownContractError is returned when deploying a contract for which no
// artifact was found in the build output.
type UnknownContractError struct {
	Name  string
	Known []string // names of all available contracts
}

func (e *UnknownContractError) Error() string {
	return fmt.Sprintf("unknown contract %q, available: %s", e.Name, strings.Join(e.Known, ", "))
}

// UnknownMethodError is returned when calling a method a contract does not
// provide. Overloaded methods need to be called by their full signature.
type UnknownMethodError struct {
	Contract string
	Method   string
}

func (e *UnknownMethodError) Error() string {
	return fmt.Sprintf("contract %s has no method %q", e.Contract, e.Method)
}

// BuildError is returned if the build command of the project failed.
type BuildError struct {
	Command []string
	Output  []byte // combined standard output and error of the command
	Err     error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("build command %q failed: %v\n%s", strings.Join(e.Command, " "), e.Err, e.Output)
}

func (e *BuildError) Unwrap() error {
	return e.Err
}
