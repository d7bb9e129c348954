// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package simulated provides an in-process execution backend based on
// go-ethereum's simulated chain. Importing the package registers the backend
// under the name "simulated".
package simulated

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"

	"github.com/Fantom-foundation/solrunner/go/session"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	sim "github.com/ethereum/go-ethereum/ethclient/simulated"
)

// Name is the name the backend is registered under.
const Name = "simulated"

func init() {
	if err := session.RegisterBackendFactory(Name, Start); err != nil {
		panic(err)
	}
}

// InitialBalance is the balance of the funded account in wei.
var InitialBalance = new(big.Int).Lsh(big.NewInt(1), 128)

// Backend is a fresh simulated chain with a single funded account. Submitted
// transactions are included in a block by Mine.
type Backend struct {
	chain *sim.Backend
	key   *ecdsa.PrivateKey
}

// Start creates a new simulated chain funding a freshly generated key.
func Start(_ context.Context, config session.Config) (session.Backend, error) {
	config = config.WithDefaults()
	key, err := crypto.GenerateKey()
	if err != nil {
		return nil, fmt.Errorf("failed to generate account key: %w", err)
	}
	alloc := types.GenesisAlloc{
		crypto.PubkeyToAddress(key.PublicKey): {Balance: new(big.Int).Set(InitialBalance)},
	}
	// The EIP-170 code size limit is fixed in go-ethereum's chain rules.
	chain := sim.NewBackend(alloc, sim.WithBlockGasLimit(config.BlockGasLimit))
	return &Backend{chain: chain, key: key}, nil
}

func (b *Backend) Client() session.Client {
	return b.chain.Client()
}

func (b *Backend) Account() *ecdsa.PrivateKey {
	return b.key
}

// Mine seals a block holding all pending transactions.
func (b *Backend) Mine(context.Context) error {
	b.chain.Commit()
	return nil
}

func (b *Backend) Close() error {
	return b.chain.Close()
}
