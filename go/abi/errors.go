// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package abi

import (
	"fmt"
	"strconv"
	"strings"
)

// ArityError is returned if the number of values does not match the number
// of types they are encoded with.
type ArityError struct {
	Want int
	Got  int
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("arity mismatch: expected %d values, got %d", e.Want, e.Got)
}

// EncodingError is returned if a value can not be represented by the type
// at its position.
type EncodingError struct {
	Position int    // index of the top-level argument
	Path     string // dot separated element path below the argument, empty for the argument itself
	Type     string // canonical name of the expected type
	Reason   string
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("cannot encode %s as %s: %s", location(e.Position, e.Path), e.Type, e.Reason)
}

// DecodingError is returned if the input bytes do not hold a valid encoding
// of the expected types, in particular if they are too short.
type DecodingError struct {
	Position int
	Path     string
	Type     string
	Reason   string
}

func (e *DecodingError) Error() string {
	return fmt.Sprintf("cannot decode %s as %s: %s", location(e.Position, e.Path), e.Type, e.Reason)
}

func location(position int, path string) string {
	if path == "" {
		return fmt.Sprintf("value %d", position)
	}
	return fmt.Sprintf("value %d (element %s)", position, path)
}

func newEncodingError(path []int, t Type, format string, args ...any) *EncodingError {
	position, sub := splitPath(path)
	return &EncodingError{
		Position: position,
		Path:     sub,
		Type:     t.String(),
		Reason:   fmt.Sprintf(format, args...),
	}
}

func newDecodingError(path []int, t Type, format string, args ...any) *DecodingError {
	position, sub := splitPath(path)
	return &DecodingError{
		Position: position,
		Path:     sub,
		Type:     t.String(),
		Reason:   fmt.Sprintf(format, args...),
	}
}

func splitPath(path []int) (int, string) {
	if len(path) == 0 {
		return 0, ""
	}
	parts := make([]string, 0, len(path)-1)
	for _, i := range path[1:] {
		parts = append(parts, strconv.Itoa(i))
	}
	return path[0], strings.Join(parts, ".")
}

// appendPath extends a path without aliasing the parent's backing array.
func appendPath(path []int, index int) []int {
	res := make([]int, len(path), len(path)+1)
	copy(res, path)
	return append(res, index)
}
