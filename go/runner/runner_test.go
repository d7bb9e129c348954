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
	"math/big"
	"path/filepath"
	"testing"

	"github.com/Fantom-foundation/solrunner/go/abi"
	"github.com/Fantom-foundation/solrunner/go/artifact"
	"github.com/Fantom-foundation/solrunner/go/examples"
	"github.com/Fantom-foundation/solrunner/go/session"
	_ "github.com/Fantom-foundation/solrunner/go/session/simulated"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// newExampleProject creates a project directory holding the build output of
// all example contracts.
func newExampleProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, examples.WriteFoundryOutput(filepath.Join(root, DefaultOutDir), examples.All()...))
	return root
}

func newTestRunner(t *testing.T) *Runner {
	t.Helper()
	r, err := New(context.Background(), Config{
		ProjectRoot: newExampleProject(t),
		Logger:      zaptest.NewLogger(t),
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, r.Close())
	})
	return r
}

func TestRunner_AddsNumbers(t *testing.T) {
	ctx := context.Background()
	r := newTestRunner(t)

	adder, err := r.Deploy(ctx, "Adder")
	require.NoError(t, err)
	require.NotZero(t, adder.Address())

	result, err := adder.Call(ctx, "add", 2, 3)
	require.NoError(t, err)
	require.Len(t, result, 1)
	require.Zero(t, big.NewInt(5).Cmp(result[0].(*big.Int)))
}

func TestRunner_MethodsCanBeCalledBySignature(t *testing.T) {
	ctx := context.Background()
	r := newTestRunner(t)

	adder, err := r.Deploy(ctx, "Adder")
	require.NoError(t, err)
	result, err := adder.Call(ctx, "add(uint256,uint256)", big.NewInt(40), uint8(2))
	require.NoError(t, err)
	require.Zero(t, big.NewInt(42).Cmp(result[0].(*big.Int)))
}

func TestRunner_RevertsCarryTheirMessage(t *testing.T) {
	ctx := context.Background()
	r := newTestRunner(t)

	adder, err := r.Deploy(ctx, "Adder")
	require.NoError(t, err)
	_, err = adder.Call(ctx, "fail")
	var reverted *session.CallRevertedError
	require.ErrorAs(t, err, &reverted)
	require.Equal(t, examples.RevertMessage, reverted.Reason)
	require.Equal(t, adder.Address(), reverted.Contract)

	counter, err := r.Deploy(ctx, "Counter", 1)
	require.NoError(t, err)
	_, err = counter.Call(ctx, "reset")
	require.ErrorAs(t, err, &reverted)
	require.Equal(t, examples.RevertMessage, reverted.Reason)
}

func TestRunner_StateChangingMethodsAreTransactions(t *testing.T) {
	ctx := context.Background()
	r := newTestRunner(t)

	counter, err := r.Deploy(ctx, "Counter", 42)
	require.NoError(t, err)

	result, err := counter.Call(ctx, "get")
	require.NoError(t, err)
	require.Zero(t, big.NewInt(42).Cmp(result[0].(*big.Int)))

	result, err = counter.Call(ctx, "set", 7)
	require.NoError(t, err)
	require.Empty(t, result)

	result, err = counter.Call(ctx, "get")
	require.NoError(t, err)
	require.Zero(t, big.NewInt(7).Cmp(result[0].(*big.Int)))
}

func TestRunner_DynamicValuesAreRoundTripped(t *testing.T) {
	ctx := context.Background()
	r := newTestRunner(t)

	echo, err := r.Deploy(ctx, "Echo")
	require.NoError(t, err)
	result, err := echo.Call(ctx, "echo", "hello", []int{1, 2, 3})
	require.NoError(t, err)
	require.Len(t, result, 2)
	require.Equal(t, "hello", result[0])
	require.Len(t, result[1], 3)
}

func TestRunner_ExamplesComputeReferenceResults(t *testing.T) {
	ctx := context.Background()
	r := newTestRunner(t)
	for _, example := range examples.All() {
		if !example.HasReference() {
			continue
		}
		t.Run(example.Name, func(t *testing.T) {
			contract, err := r.Deploy(ctx, example.Name)
			require.NoError(t, err)
			for _, x := range []int{1, 7} {
				result, err := contract.Call(ctx, example.Method, x)
				require.NoError(t, err)
				require.Zero(t, big.NewInt(int64(example.RunReference(x))).Cmp(result[0].(*big.Int)))
			}
		})
	}
}

func TestRunner_UnknownContractIsReported(t *testing.T) {
	r := newTestRunner(t)
	_, err := r.Deploy(context.Background(), "Missing")
	var unknown *UnknownContractError
	require.ErrorAs(t, err, &unknown)
	require.Equal(t, "Missing", unknown.Name)
	require.Contains(t, unknown.Known, "Adder")
}

func TestRunner_MissingConstructorArgumentsAreReported(t *testing.T) {
	r := newTestRunner(t)
	_, err := r.Deploy(context.Background(), "Counter")
	var arity *abi.ArityError
	require.ErrorAs(t, err, &arity)
	require.Equal(t, 1, arity.Want)
	require.Equal(t, 0, arity.Got)
}

func TestRunner_RevertingConstructorIsReported(t *testing.T) {
	r := newTestRunner(t)
	_, err := r.Deploy(context.Background(), "Broken")
	var failed *session.DeploymentError
	require.ErrorAs(t, err, &failed)
	require.Equal(t, examples.RevertMessage, failed.Reason)
}

func TestRunner_ContractsListsAllArtifacts(t *testing.T) {
	r := newTestRunner(t)
	require.Equal(t, len(examples.All()), r.Contracts().Len())
	_, found := r.Contracts().Get("Echo")
	require.True(t, found)
}

func TestRunner_MissingBuildOutputIsReported(t *testing.T) {
	_, err := New(context.Background(), Config{ProjectRoot: t.TempDir()})
	var discovery *artifact.DiscoveryError
	require.ErrorAs(t, err, &discovery)
}

func TestRunner_UnknownBackendIsReported(t *testing.T) {
	_, err := New(context.Background(), Config{
		ProjectRoot: newExampleProject(t),
		Backend:     "no-such-backend",
	})
	var unavailable *session.BackendUnavailableError
	require.ErrorAs(t, err, &unavailable)
	require.ErrorIs(t, err, session.ErrUnknownBackend)
}
