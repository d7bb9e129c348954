// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package session

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// ConstError is a error type that can be used to define immutable
// error constants.
type ConstError string

func (e ConstError) Error() string {
	return string(e)
}

const (
	// ErrSessionBroken is reported by every operation of a session after a
	// transport failure.
	ErrSessionBroken = ConstError("session broken by earlier transport failure")

	// ErrUnknownBackend is reported when starting a backend that was never
	// registered.
	ErrUnknownBackend = ConstError("unknown backend")

	// ErrClosed is reported by operations on a closed session.
	ErrClosed = ConstError("session closed")
)

// BackendUnavailableError is returned if a backend could not be started or
// did not become ready within the startup timeout.
type BackendUnavailableError struct {
	Backend string
	Err     error
}

func (e *BackendUnavailableError) Error() string {
	return fmt.Sprintf("backend %s unavailable: %v", e.Backend, e.Err)
}

func (e *BackendUnavailableError) Unwrap() error {
	return e.Err
}

// DeploymentError is returned if a contract could not be created. Data holds
// the revert payload reported by the backend, if any.
type DeploymentError struct {
	Reason string
	Data   []byte
}

func (e *DeploymentError) Error() string {
	if len(e.Data) > 0 {
		return fmt.Sprintf("deployment failed: %s (data 0x%x)", e.Reason, e.Data)
	}
	return fmt.Sprintf("deployment failed: %s", e.Reason)
}

// CallRevertedError is returned if a contract call was reverted or failed
// otherwise on the backend. Reason is decoded from Error(string) and
// Panic(uint256) payloads; Data holds the raw payload.
type CallRevertedError struct {
	Contract common.Address
	Data     []byte
	Reason   string
}

func (e *CallRevertedError) Error() string {
	if len(e.Data) > 0 {
		return fmt.Sprintf("call to %v reverted: %s (data 0x%x)", e.Contract, e.Reason, e.Data)
	}
	return fmt.Sprintf("call to %v reverted: %s", e.Contract, e.Reason)
}

// TransportError is returned if the backend could not be reached. The
// session is unusable afterwards.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: transport failure: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
