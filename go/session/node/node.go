// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package node provides an execution backend attaching to a development node
// serving the Ethereum JSON-RPC API on a loopback address, e.g. anvil or the
// hardhat node. Importing the package registers the backend under the name
// "node".
package node

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/Fantom-foundation/solrunner/go/session"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"go.uber.org/zap"
)

// Name is the name the backend is registered under.
const Name = "node"

const (
	// DefaultURL is the endpoint of anvil and the hardhat node when started
	// with their default options.
	DefaultURL = "http://127.0.0.1:8545"

	// DefaultPrivateKey is the key of the first account funded by anvil and
	// the hardhat node.
	DefaultPrivateKey = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
)

// readyPollInterval is the time between two attempts to reach the node
// during startup.
const readyPollInterval = 100 * time.Millisecond

func init() {
	if err := session.RegisterBackendFactory(Name, Start); err != nil {
		panic(err)
	}
}

// Backend is a connection to a node, optionally owning the node process.
// Nodes are expected to mine submitted transactions on their own.
type Backend struct {
	client *ethclient.Client
	key    *ecdsa.PrivateKey

	process *exec.Cmd
	exited  chan struct{} // closed when the process has terminated
	waitErr error
	once    sync.Once
}

// Start launches the configured node command, if any, and waits until the
// node answers requests at the configured URL or the context expires.
func Start(ctx context.Context, config session.Config) (session.Backend, error) {
	config = config.WithDefaults()
	url := config.URL
	if url == "" {
		url = DefaultURL
	}
	encoded := config.PrivateKey
	if encoded == "" {
		encoded = DefaultPrivateKey
	}
	key, err := crypto.HexToECDSA(strings.TrimPrefix(encoded, "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}

	backend := &Backend{key: key}
	if len(config.Command) > 0 {
		if err := backend.launch(config.Command, config.Logger); err != nil {
			return nil, err
		}
	}

	client, err := backend.connect(ctx, url)
	if err != nil {
		return nil, errors.Join(err, backend.Close())
	}
	backend.client = client
	config.Logger.Debug("node ready", zap.String("url", url))
	return backend, nil
}

func (b *Backend) launch(command []string, log *zap.Logger) error {
	cmd := exec.Command(command[0], command[1:]...)
	cmd.Stdout = os.Stderr
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to launch node: %w", err)
	}
	log.Debug("node launched", zap.Strings("command", command), zap.Int("pid", cmd.Process.Pid))
	b.process = cmd
	b.exited = make(chan struct{})
	go func() {
		b.waitErr = cmd.Wait()
		close(b.exited)
	}()
	return nil
}

// connect polls the node until it reports its chain id.
func (b *Backend) connect(ctx context.Context, url string) (*ethclient.Client, error) {
	ticker := time.NewTicker(readyPollInterval)
	defer ticker.Stop()
	for {
		client, err := ethclient.DialContext(ctx, url)
		if err == nil {
			if _, err = client.ChainID(ctx); err == nil {
				return client, nil
			}
			client.Close()
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("node at %s not ready: %w", url, errors.Join(ctx.Err(), err))
		case <-b.exited:
			return nil, fmt.Errorf("node process terminated before being ready: %v", b.waitErr)
		case <-ticker.C:
		}
	}
}

func (b *Backend) Client() session.Client {
	return b.client
}

func (b *Backend) Account() *ecdsa.PrivateKey {
	return b.key
}

// Mine does nothing since nodes mine on their own.
func (b *Backend) Mine(context.Context) error {
	return nil
}

// Close disconnects from the node and kills the node process if it was
// launched by this backend.
func (b *Backend) Close() error {
	var err error
	b.once.Do(func() {
		if b.client != nil {
			b.client.Close()
		}
		if b.process == nil {
			return
		}
		select {
		case <-b.exited:
			return
		default:
		}
		if killErr := b.process.Process.Kill(); killErr != nil {
			err = fmt.Errorf("failed to stop node: %w", killErr)
		}
		<-b.exited
	})
	return err
}
