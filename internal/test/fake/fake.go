// Copyright (c) 2025 Behrad Moradi
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package fake is an internal helper for the use case test packages.
// It provides in-memory implementations of the repository interfaces
// with the same conditional-update (compare-and-set) semantics which
// the postgres adapter packages implement, so the use case logic can
// be exercised without a real DBMS server, including the concurrent
// scenarios in which two actors race for the same row.
package fake

import (
	"context"
	"sync"

	"github.com/bmoradi/fleetrent/pkg/core/repo"
)

// Pool is an in-memory repo.Pool. Its connections and transactions
// carry no state of their own; all shared state lives in the fake
// repository structs, guarded by their mutexes the same way row-level
// guards serialize the conditional updates in the real database.
type Pool struct{}

// Conn invokes the handler with a fake connection.
func (p Pool) Conn(ctx context.Context, h repo.ConnHandler) error {
	return h(ctx, Conn{})
}

// Close is a no-op: the fake pool holds no resources.
func (p Pool) Close() error {
	return nil
}

// Conn is an in-memory repo.Conn.
type Conn struct{}

// Tx invokes the handler with a fake transaction. There is no
// rollback support: writes which happened before the handler failed
// stay applied. Tests exercising transactional atomicity should
// assert on the guard checks which precede the writes instead.
func (c Conn) Tx(ctx context.Context, h repo.TxHandler) error {
	return h(ctx, Tx{})
}

// Exec is not supported by the fake connection.
func (c Conn) Exec(
	ctx context.Context, sql string, args ...any,
) (int64, error) {
	panic("fake.Conn does not execute raw SQL")
}

// Query is not supported by the fake connection.
func (c Conn) Query(
	ctx context.Context, sql string, args ...any,
) (repo.Rows, error) {
	panic("fake.Conn does not execute raw SQL")
}

// IsConn marks Conn as a repo.Conn implementation.
func (c Conn) IsConn() {}

// Tx is an in-memory repo.Tx.
type Tx struct{}

// Exec is not supported by the fake transaction.
func (t Tx) Exec(
	ctx context.Context, sql string, args ...any,
) (int64, error) {
	panic("fake.Tx does not execute raw SQL")
}

// Query is not supported by the fake transaction.
func (t Tx) Query(
	ctx context.Context, sql string, args ...any,
) (repo.Rows, error) {
	panic("fake.Tx does not execute raw SQL")
}

// IsTx marks Tx as a repo.Tx implementation.
func (t Tx) IsTx() {}

// locker serializes the state mutations of one fake repository, as
// the row-level locks of conditional updates do in the real database.
type locker struct {
	mu sync.Mutex
}

func (l *locker) lock() func() {
	l.mu.Lock()
	return l.mu.Unlock
}
