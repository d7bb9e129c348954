// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package simulated

import (
	"context"
	"math/big"
	"testing"

	"github.com/Fantom-foundation/solrunner/go/abi"
	"github.com/Fantom-foundation/solrunner/go/artifact"
	"github.com/Fantom-foundation/solrunner/go/examples"
	"github.com/Fantom-foundation/solrunner/go/session"
	"github.com/ethereum/go-ethereum/core/vm"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/params"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func startSession(t *testing.T) *session.Session {
	t.Helper()
	s, err := session.Start(context.Background(), Name, session.Config{Logger: zaptest.NewLogger(t)})
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, s.Close())
	})
	return s
}

func TestSimulated_IsRegistered(t *testing.T) {
	require.NotNil(t, session.GetBackendFactory(Name))
}

func TestSimulated_AccountIsFunded(t *testing.T) {
	backend, err := Start(context.Background(), session.Config{})
	require.NoError(t, err)
	defer backend.Close()

	client := backend.(*Backend).chain.Client()
	address := crypto.PubkeyToAddress(backend.Account().PublicKey)
	balance, err := client.BalanceAt(context.Background(), address, nil)
	require.NoError(t, err)
	require.Zero(t, balance.Cmp(InitialBalance))
}

func TestSimulated_EachBackendIsAFreshChain(t *testing.T) {
	first, err := Start(context.Background(), session.Config{})
	require.NoError(t, err)
	defer first.Close()
	second, err := Start(context.Background(), session.Config{})
	require.NoError(t, err)
	defer second.Close()

	require.NotEqual(t,
		crypto.PubkeyToAddress(first.Account().PublicKey),
		crypto.PubkeyToAddress(second.Account().PublicKey),
	)
}

func TestSimulated_DeployAndCallAdder(t *testing.T) {
	ctx := context.Background()
	s := startSession(t)

	address, err := s.Deploy(ctx, examples.GetAdderExample().InitCode, nil)
	require.NoError(t, err)

	uint256 := abi.Uint(256)
	args, err := abi.Encode([]any{2, 3}, []abi.Type{uint256, uint256})
	require.NoError(t, err)
	output, err := s.Call(ctx, address, abi.Selector("add(uint256,uint256)"), args, session.StaticCall)
	require.NoError(t, err)

	result, err := abi.Decode(output, []abi.Type{uint256})
	require.NoError(t, err)
	require.Zero(t, big.NewInt(5).Cmp(result[0].(*big.Int)))
}

func TestSimulated_RevertsCarryTheirReason(t *testing.T) {
	ctx := context.Background()
	s := startSession(t)

	address, err := s.Deploy(ctx, examples.GetAdderExample().InitCode, nil)
	require.NoError(t, err)

	for _, kind := range []session.Kind{session.StaticCall, session.Transaction} {
		_, err = s.Call(ctx, address, abi.Selector("fail()"), nil, kind)
		var reverted *session.CallRevertedError
		require.ErrorAs(t, err, &reverted)
		require.Equal(t, examples.RevertMessage, reverted.Reason)
		require.Equal(t, address, reverted.Contract)
		require.NotEmpty(t, reverted.Data)
	}

	// Reverted calls leave the session usable.
	_, err = s.Deploy(ctx, examples.GetAdderExample().InitCode, nil)
	require.NoError(t, err)
}

func TestSimulated_TransactionsChangeState(t *testing.T) {
	ctx := context.Background()
	s := startSession(t)
	uint256 := []abi.Type{abi.Uint(256)}

	start, err := abi.Encode([]any{42}, uint256)
	require.NoError(t, err)
	address, err := s.Deploy(ctx, examples.GetCounterExample().InitCode, start)
	require.NoError(t, err)

	get := func() *big.Int {
		output, err := s.Call(ctx, address, abi.Selector("get()"), nil, session.StaticCall)
		require.NoError(t, err)
		result, err := abi.Decode(output, uint256)
		require.NoError(t, err)
		return result[0].(*big.Int)
	}
	require.Zero(t, big.NewInt(42).Cmp(get()))

	args, err := abi.Encode([]any{7}, uint256)
	require.NoError(t, err)
	output, err := s.Call(ctx, address, abi.Selector("set(uint256)"), args, session.Transaction)
	require.NoError(t, err)
	require.Empty(t, output)
	require.Zero(t, big.NewInt(7).Cmp(get()))

	// A static call of a state changing method has no lasting effect.
	args, err = abi.Encode([]any{9}, uint256)
	require.NoError(t, err)
	_, err = s.Call(ctx, address, abi.Selector("set(uint256)"), args, session.StaticCall)
	require.NoError(t, err)
	require.Zero(t, big.NewInt(7).Cmp(get()))
}

func TestSimulated_RevertingConstructorIsADeploymentError(t *testing.T) {
	s := startSession(t)
	_, err := s.Deploy(context.Background(), examples.GetBrokenExample().InitCode, nil)
	var failed *session.DeploymentError
	require.ErrorAs(t, err, &failed)
	require.Equal(t, examples.RevertMessage, failed.Reason)
}

func TestSimulated_LargeContractsCanBeDeployed(t *testing.T) {
	ctx := context.Background()
	s := startSession(t)
	address, err := s.Deploy(ctx, examples.GetLargeExample().InitCode, nil)
	require.NoError(t, err)

	args, err := abi.Encode([]any{123}, []abi.Type{abi.Uint(256)})
	require.NoError(t, err)
	output, err := s.Call(ctx, address, abi.Selector("identity(uint256)"), args, session.StaticCall)
	require.NoError(t, err)
	require.Equal(t, args, output)
}

func TestSimulated_CodeSizeLimitIsEnforced(t *testing.T) {
	s := startSession(t)
	// PUSH3 size PUSH1 0 RETURN, returning zeroed memory as runtime code.
	size := params.MaxCodeSize + 1
	code := []byte{byte(vm.PUSH3), byte(size >> 16), byte(size >> 8), byte(size), byte(vm.PUSH1), 0, byte(vm.RETURN)}
	_, err := s.Deploy(context.Background(), code, nil)
	var failed *session.DeploymentError
	require.ErrorAs(t, err, &failed)
}

func TestSimulated_EchoRoundTripsDynamicValues(t *testing.T) {
	ctx := context.Background()
	s := startSession(t)
	address, err := s.Deploy(ctx, examples.GetEchoExample().InitCode, nil)
	require.NoError(t, err)

	types := []abi.Type{abi.StringType, abi.Slice(abi.Uint(256))}
	args, err := abi.Encode([]any{"hello", []any{1, 2, 3}}, types)
	require.NoError(t, err)
	output, err := s.Call(ctx, address, abi.Selector("echo(string,uint256[])"), args, session.Transaction)
	require.NoError(t, err)

	result, err := abi.Decode(output, types)
	require.NoError(t, err)
	require.Equal(t, "hello", result[0])
	require.Len(t, result[1], 3)
}

func TestSimulated_ExamplesComputeReferenceResults(t *testing.T) {
	ctx := context.Background()
	s := startSession(t)
	for _, example := range examples.All() {
		if !example.HasReference() {
			continue
		}
		t.Run(example.Name, func(t *testing.T) {
			address, err := s.Deploy(ctx, example.InitCode, nil)
			require.NoError(t, err)

			data, err := example.Artifact()
			require.NoError(t, err)
			parsed, err := artifact.Parse(example.Name+".json", data)
			require.NoError(t, err)
			method, found := parsed.Method(example.Method)
			require.True(t, found)
			for _, x := range []int{0, 3, 10} {
				args, err := abi.Encode([]any{x}, method.Inputs)
				require.NoError(t, err)
				output, err := s.Call(ctx, address, method.Selector, args, session.StaticCall)
				require.NoError(t, err)
				result, err := abi.Decode(output, method.Outputs)
				require.NoError(t, err)
				require.Zero(t, big.NewInt(int64(example.RunReference(x))).Cmp(result[0].(*big.Int)), "%s(%d)", example.Method, x)
			}
		})
	}
}
