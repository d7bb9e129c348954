// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package session manages the connection to an execution backend on which
// contracts are deployed and called.
package session

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	gethabi "github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rpc"
	"go.uber.org/zap"
)

// Kind selects how a contract call is executed.
type Kind int

const (
	// StaticCall executes a call without persisting any state changes.
	StaticCall Kind = iota
	// Transaction executes a call as a signed transaction and waits for it
	// to be mined.
	Transaction
)

func (k Kind) String() string {
	switch k {
	case StaticCall:
		return "static call"
	case Transaction:
		return "transaction"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// receiptPollInterval is the time between two receipt lookups while waiting
// for a transaction to be mined.
const receiptPollInterval = 50 * time.Millisecond

// Session is a stateful connection to a backend, sending transactions from
// the single account funded by the backend. Operations are serialized; the
// order of operations issued concurrently is undefined.
type Session struct {
	backend Backend
	client  Client
	key     *ecdsa.PrivateKey
	sender  common.Address
	chainID *big.Int
	signer  types.Signer
	log     *zap.Logger

	mutex  sync.Mutex
	nonce  uint64
	broken bool
	closed bool
}

// Start starts the backend registered under the given name and opens a
// session on it. The backend has to become ready within the startup timeout
// of the configuration.
func Start(ctx context.Context, name string, config Config) (*Session, error) {
	config = config.WithDefaults()
	ctx, cancel := context.WithTimeout(ctx, config.StartupTimeout)
	defer cancel()

	backend, err := NewBackend(ctx, name, config)
	if err != nil {
		return nil, &BackendUnavailableError{Backend: name, Err: err}
	}
	session, err := New(ctx, backend, config.Logger.With(zap.String("backend", name)))
	if err != nil {
		return nil, &BackendUnavailableError{Backend: name, Err: errors.Join(err, backend.Close())}
	}
	return session, nil
}

// New opens a session on an already started backend. The session takes
// ownership of the backend and closes it when being closed itself.
func New(ctx context.Context, backend Backend, logger *zap.Logger) (*Session, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	client := backend.Client()
	key := backend.Account()
	if key == nil {
		return nil, errors.New("backend provides no funded account")
	}
	chainID, err := client.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to obtain chain id: %w", err)
	}
	sender := crypto.PubkeyToAddress(key.PublicKey)
	nonce, err := client.PendingNonceAt(ctx, sender)
	if err != nil {
		return nil, fmt.Errorf("failed to obtain nonce of %v: %w", sender, err)
	}
	logger.Debug("session started",
		zap.Stringer("chain", chainID),
		zap.Stringer("sender", sender),
		zap.Uint64("nonce", nonce),
	)
	return &Session{
		backend: backend,
		client:  client,
		key:     key,
		sender:  sender,
		chainID: chainID,
		signer:  types.LatestSignerForChainID(chainID),
		log:     logger,
		nonce:   nonce,
	}, nil
}

// Sender returns the address of the account sending all transactions.
func (s *Session) Sender() common.Address {
	return s.sender
}

// ChainID returns the chain id of the backend.
func (s *Session) ChainID() *big.Int {
	return new(big.Int).Set(s.chainID)
}

// Deploy creates a contract from the given creation code followed by the
// encoded constructor arguments and returns its address once the creation
// transaction is mined. Receipts are polled until ctx ends, also while the
// backend answers with JSON-RPC errors, so ctx should carry a deadline.
func (s *Session) Deploy(ctx context.Context, code []byte, args []byte) (common.Address, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if err := s.usable("deploy"); err != nil {
		return common.Address{}, err
	}
	if len(code) == 0 {
		return common.Address{}, &DeploymentError{Reason: "no creation code"}
	}

	data := append(common.CopyBytes(code), args...)
	receipt, err := s.transact(ctx, "deploy", nil, data)
	if err != nil {
		var r *rejection
		if errors.As(err, &r) {
			return common.Address{}, &DeploymentError{Reason: r.reason, Data: r.data}
		}
		return common.Address{}, err
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return common.Address{}, &DeploymentError{Reason: fmt.Sprintf("creation transaction %v failed", receipt.TxHash)}
	}
	s.log.Info("contract deployed",
		zap.Stringer("address", receipt.ContractAddress),
		zap.Uint64("gas", receipt.GasUsed),
		zap.Int("logs", len(receipt.Logs)),
	)
	return receipt.ContractAddress, nil
}

// Call invokes the method with the given selector of the contract at the
// given address. A static call returns the output of the method without
// changing state. A transaction is simulated first to obtain the output of
// the method, then sent and awaited like in Deploy.
func (s *Session) Call(ctx context.Context, to common.Address, selector [4]byte, args []byte, kind Kind) ([]byte, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	op := kind.String()
	if err := s.usable(op); err != nil {
		return nil, err
	}

	input := append(selector[:], args...)
	output, err := s.client.CallContract(ctx, ethereum.CallMsg{From: s.sender, To: &to, Data: input}, nil)
	if err != nil {
		return nil, s.callError(to, s.classify(op, err))
	}
	if kind == StaticCall {
		s.log.Debug("static call",
			zap.Stringer("contract", to),
			zap.String("selector", hexutil.Encode(selector[:])),
		)
		return output, nil
	}

	receipt, err := s.transact(ctx, op, &to, input)
	if err != nil {
		return nil, s.callError(to, err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, &CallRevertedError{Contract: to, Reason: fmt.Sprintf("transaction %v failed", receipt.TxHash)}
	}
	s.log.Info("transaction executed",
		zap.Stringer("contract", to),
		zap.String("selector", hexutil.Encode(selector[:])),
		zap.Uint64("gas", receipt.GasUsed),
		zap.Int("logs", len(receipt.Logs)),
	)
	return output, nil
}

// Close shuts down the backend of this session. Closing a session more than
// once has no effect.
func (s *Session) Close() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.backend.Close()
}

func (s *Session) usable(op string) error {
	if s.closed {
		return fmt.Errorf("%s: %w", op, ErrClosed)
	}
	if s.broken {
		return &TransportError{Op: op, Err: ErrSessionBroken}
	}
	return nil
}

// transact sends a transaction from the session's account and waits for its
// receipt. A nil recipient creates a contract.
func (s *Session) transact(ctx context.Context, op string, to *common.Address, data []byte) (*types.Receipt, error) {
	gas, err := s.client.EstimateGas(ctx, ethereum.CallMsg{From: s.sender, To: to, Data: data})
	if err != nil {
		return nil, s.classify(op, err)
	}
	price, err := s.client.SuggestGasPrice(ctx)
	if err != nil {
		return nil, s.classify(op, err)
	}
	tx, err := types.SignNewTx(s.key, s.signer, &types.LegacyTx{
		Nonce:    s.nonce,
		GasPrice: price,
		Gas:      gas,
		To:       to,
		Data:     data,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: failed to sign transaction: %w", op, err)
	}
	if err := s.client.SendTransaction(ctx, tx); err != nil {
		return nil, s.classify(op, err)
	}
	s.nonce++
	if err := s.backend.Mine(ctx); err != nil {
		return nil, s.classify(op, err)
	}
	return s.await(ctx, op, tx.Hash())
}

// await polls the receipt of the given transaction. Unknown transactions and
// JSON-RPC errors are retried until ctx ends.
func (s *Session) await(ctx context.Context, op string, hash common.Hash) (*types.Receipt, error) {
	ticker := time.NewTicker(receiptPollInterval)
	defer ticker.Stop()
	for {
		receipt, err := s.client.TransactionReceipt(ctx, hash)
		if err == nil {
			return receipt, nil
		}
		// Backends may report pending transactions as not found or with an
		// error while their transaction index is being updated.
		if !errors.Is(err, ethereum.NotFound) {
			if _, _, reported := rejectionOf(err); !reported {
				return nil, s.classify(op, err)
			}
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%s: waiting for receipt of %v: %w", op, hash, ctx.Err())
		case <-ticker.C:
		}
	}
}

// classify turns an error of the client into a rejection if it was reported
// by the backend. Any other failure except for a cancelled context breaks
// the session.
func (s *Session) classify(op string, err error) error {
	if reason, data, reported := rejectionOf(err); reported {
		return &rejection{reason: reason, data: data}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.broken = true
	s.log.Error("transport failure", zap.String("op", op), zap.Error(err))
	return &TransportError{Op: op, Err: err}
}

func (s *Session) callError(to common.Address, err error) error {
	var r *rejection
	if errors.As(err, &r) {
		return &CallRevertedError{Contract: to, Data: r.data, Reason: r.reason}
	}
	return err
}

// rejection is an error reported by the backend in response to a request,
// e.g. a reverted execution or a transaction running out of gas.
type rejection struct {
	reason string
	data   []byte
}

func (r *rejection) Error() string {
	return r.reason
}

// rejectionOf extracts reason and revert payload from errors reported by the
// backend through the JSON-RPC error object.
func rejectionOf(err error) (reason string, data []byte, reported bool) {
	var rpcErr rpc.Error
	if !errors.As(err, &rpcErr) {
		return "", nil, false
	}
	reason = rpcErr.Error()
	var dataErr rpc.DataError
	if errors.As(err, &dataErr) {
		if encoded, ok := dataErr.ErrorData().(string); ok {
			if decoded, err := hexutil.Decode(encoded); err == nil {
				data = decoded
			}
		}
	}
	if unpacked, err := gethabi.UnpackRevert(data); err == nil {
		reason = unpacked
	}
	return reason, data, true
}
