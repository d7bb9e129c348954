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
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
)

var backendCounter atomic.Int32

// uniqueBackendName produces registry keys not used by any other test run.
func uniqueBackendName() string {
	return fmt.Sprintf("test-backend-%d", backendCounter.Add(1))
}

func TestBackendRegistry_RegisteredFactoriesCanBeRetrieved(t *testing.T) {
	name := uniqueBackendName()
	factory := func(context.Context, Config) (Backend, error) {
		return nil, nil
	}
	if err := RegisterBackendFactory(name, factory); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if GetBackendFactory(name) == nil {
		t.Errorf("registered factory not found")
	}
	if _, found := GetAllRegisteredBackends()[name]; !found {
		t.Errorf("registered factory not listed")
	}
}

func TestBackendRegistry_NamesAreCaseInsensitive(t *testing.T) {
	name := uniqueBackendName()
	factory := func(context.Context, Config) (Backend, error) {
		return nil, nil
	}
	if err := RegisterBackendFactory("Upper-"+name, factory); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if GetBackendFactory("UPPER-"+name) == nil {
		t.Errorf("lookup should ignore case")
	}
}

func TestBackendRegistry_MultipleRegistrationsCauseAnError(t *testing.T) {
	name := uniqueBackendName()
	factory := func(context.Context, Config) (Backend, error) {
		return nil, nil
	}
	if err := RegisterBackendFactory(name, factory); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := RegisterBackendFactory(name, factory); err == nil {
		t.Fatalf("expected error, got nil")
	}
}

func TestBackendRegistry_NilFactoriesAreRejected(t *testing.T) {
	if err := RegisterBackendFactory(uniqueBackendName(), nil); err == nil {
		t.Fatalf("expected error, got nil")
	}
}

func TestBackendRegistry_UnknownBackendsAreReported(t *testing.T) {
	_, err := NewBackend(context.Background(), "does-not-exist", Config{})
	if !errors.Is(err, ErrUnknownBackend) {
		t.Errorf("expected unknown backend error, got %v", err)
	}
}

func TestBackendRegistry_ModifyingListedFactoriesDoesNotAffectRegistry(t *testing.T) {
	all := GetAllRegisteredBackends()
	name := uniqueBackendName()
	all[name] = func(context.Context, Config) (Backend, error) {
		return nil, nil
	}
	if GetBackendFactory(name) != nil {
		t.Errorf("registry was modified through listing")
	}
}
