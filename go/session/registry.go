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
	"context"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/exp/maps"
)

// This file provides a registry for execution backends. For a backend to be
// available it needs to be registered, typically by the init code of the
// package providing it. Thus, by including the backend package, the backend
// becomes available to sessions started by name.

// BackendFactory is the type of a function starting a new backend. The
// context bounds the startup of the backend only.
type BackendFactory func(ctx context.Context, config Config) (Backend, error)

// NewBackend performs a lookup for the given name (case-insensitive) in the
// registry and starts a new backend using the given configuration.
func NewBackend(ctx context.Context, name string, config Config) (Backend, error) {
	factory := GetBackendFactory(name)
	if factory == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownBackend, name)
	}
	return factory(ctx, config)
}

// GetBackendFactory performs a lookup for the given name (case-insensitive)
// in the registry. The result is nil if no factory was registered under the
// given name.
func GetBackendFactory(name string) BackendFactory {
	backendRegistryLock.Lock()
	defer backendRegistryLock.Unlock()
	return backendRegistry[strings.ToLower(name)]
}

// GetAllRegisteredBackends obtains all registered backend factories.
func GetAllRegisteredBackends() map[string]BackendFactory {
	backendRegistryLock.Lock()
	defer backendRegistryLock.Unlock()
	return maps.Clone(backendRegistry)
}

// RegisterBackendFactory registers a new backend. The name is not
// case-sensitive. An error is returned if a factory was bound to the same
// name before, or the factory is nil.
func RegisterBackendFactory(name string, factory BackendFactory) error {
	key := strings.ToLower(name)
	if factory == nil {
		return fmt.Errorf("invalid initialization: cannot register nil-factory using `%s`", key)
	}
	backendRegistryLock.Lock()
	defer backendRegistryLock.Unlock()
	if _, found := backendRegistry[key]; found {
		return fmt.Errorf("invalid initialization: multiple factories registered for `%s`", key)
	}
	backendRegistry[key] = factory
	return nil
}

// backendRegistry is a global registry for backend factories.
var backendRegistry = map[string]BackendFactory{}

// backendRegistryLock to protect access to the registry.
var backendRegistryLock sync.Mutex
