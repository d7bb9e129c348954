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

//go:generate mockgen -source backend.go -destination backend_mock.go -package session

import (
	"context"
	"crypto/ecdsa"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"
)

// Backend is an execution environment contracts can be deployed to. Every
// backend instance is a fresh, disposable chain or a connection to one.
type Backend interface {
	// Client returns the RPC client used to talk to the backend.
	Client() Client
	// Account returns the key of an account funded on the backend.
	Account() *ecdsa.PrivateKey
	// Mine makes sure submitted transactions get included in a block.
	// Backends mining on their own may do nothing.
	Mine(ctx context.Context) error
	// Close shuts the backend down and releases its resources.
	Close() error
}

// Client is the part of the Ethereum JSON-RPC API used by sessions. It is
// implemented by go-ethereum's ethclient.Client and the client of its
// simulated backend.
type Client interface {
	ChainID(ctx context.Context) (*big.Int, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	EstimateGas(ctx context.Context, call ethereum.CallMsg) (uint64, error)
	CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

// Config summarizes the options of sessions and their backends. Zero values
// select the documented defaults.
type Config struct {
	// StartupTimeout bounds the time a backend may take to become ready.
	// Defaults to DefaultStartupTimeout.
	StartupTimeout time.Duration

	// BlockGasLimit is the gas limit of blocks of simulated chains.
	// Defaults to DefaultBlockGasLimit.
	BlockGasLimit uint64

	// URL is the JSON-RPC endpoint of node backends.
	URL string
	// Command, if set, launches the node process before connecting to URL.
	// The process is killed when the backend is closed. Contracts beyond
	// the EIP-170 code size limit need a node started without it, e.g.
	// anvil --code-size-limit 1000000, since simulated chains enforce it.
	Command []string
	// PrivateKey is the hex encoded key of the funded account of node
	// backends.
	PrivateKey string

	// Logger receives a record of every deployment and transaction.
	// Defaults to a no-op logger.
	Logger *zap.Logger
}

const (
	DefaultStartupTimeout = 10 * time.Second
	DefaultBlockGasLimit  = 100_000_000
)

// WithDefaults returns a copy of the configuration with all unset fields
// replaced by their defaults.
func (c Config) WithDefaults() Config {
	if c.StartupTimeout <= 0 {
		c.StartupTimeout = DefaultStartupTimeout
	}
	if c.BlockGasLimit == 0 {
		c.BlockGasLimit = DefaultBlockGasLimit
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	return c
}
