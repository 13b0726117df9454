// Copyright 2026 The CarWashing-System Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package dbaccess provides scoped, pooled access to the database.
//
// Callers hand a unit of work to WithReadOnlyAccess or WithTransaction
// and receive a cursor valid only for that unit of work. The accessor
// borrows a connection from the mode's pool, runs the work, commits on
// success (transactional mode only), and returns the connection to the
// pool. If the work or the commit fails, the connection is closed and
// permanently dropped from the pool rather than returned, so a failed
// unit of work can never poison a later borrower.
package dbaccess

import (
	"context"
	"log/slog"

	"github.com/ITACrashCourse/CarWashing-System/go/pgconn"
	"github.com/ITACrashCourse/CarWashing-System/go/pools/dbpool"
)

// Accessor wraps one connection pool with the scoped acquire/use/release
// protocol for a single access mode.
type Accessor struct {
	pool *dbpool.Pool[*pgconn.Conn]

	// transactional selects the commit-on-success behavior: the
	// read-write accessor opens a transaction before the unit of work
	// and commits it after; the read-only accessor does neither.
	transactional bool

	logger *slog.Logger
}

// NewAccessor builds an accessor over the given pool. transactional
// selects between plain cursors and transactional cursors.
func NewAccessor(pool *dbpool.Pool[*pgconn.Conn], transactional bool, logger *slog.Logger) *Accessor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Accessor{
		pool:          pool,
		transactional: transactional,
		logger:        logger,
	}
}

// Pool returns the accessor's underlying pool, mainly for stats.
func (a *Accessor) Pool() *dbpool.Pool[*pgconn.Conn] {
	return a.pool
}

// WithReadOnlyAccess runs work with a cursor on a pooled read-only
// connection. Any failure inside work surfaces as ErrInvalidQuery and
// costs the read-only pool the borrowed connection.
func WithReadOnlyAccess[T any](ctx context.Context, db *DB, work func(*pgconn.Cursor) (T, error)) (T, error) {
	return Run(ctx, db.RO, work)
}

// WithTransaction runs work with a cursor inside a transaction on a
// pooled read-write connection. The transaction commits when work returns
// without error; any failure in work or in the commit surfaces as
// ErrInvalidQuery, nothing is committed, and the read-write pool loses
// the borrowed connection.
func WithTransaction[T any](ctx context.Context, db *DB, work func(*pgconn.Cursor) (T, error)) (T, error) {
	return Run(ctx, db.RW, work)
}

// Run executes one unit of work through the accessor. The cursor handed
// to work is closed on every exit path. Acquisition errors (a failed
// connection attempt, ctx cancellation while waiting) propagate as-is;
// everything after acquisition is translated to the uniform
// ErrInvalidQuery kind.
func Run[T any](ctx context.Context, a *Accessor, work func(*pgconn.Cursor) (T, error)) (T, error) {
	var zero T

	conn, err := a.pool.Acquire(ctx)
	if err != nil {
		return zero, err
	}

	cursor := conn.Cursor()
	defer cursor.Close()

	if a.transactional {
		if err := conn.Begin(ctx); err != nil {
			a.fail(ctx, conn, "beginning transaction", err)
			return zero, invalidQuery(err)
		}
	}

	result, err := work(cursor)
	if err != nil {
		a.fail(ctx, conn, "executing unit of work", err)
		return zero, invalidQuery(err)
	}

	// Close the cursor before the connection can re-enter the pool so
	// no tracked rows ride along to the next borrower.
	_ = cursor.Close()

	if a.transactional {
		if err := conn.Commit(); err != nil {
			a.fail(ctx, conn, "committing transaction", err)
			return zero, invalidQuery(err)
		}
	}

	a.pool.Release(conn)
	return result, nil
}

// fail logs a failed unit of work and drops the connection from the
// pool. The connection is closed, never released, so whatever state the
// failure left behind cannot reach another borrower.
func (a *Accessor) fail(ctx context.Context, conn *pgconn.Conn, stage string, err error) {
	a.logger.ErrorContext(ctx, "issue during work with db",
		"stage", stage,
		"transactional", a.transactional,
		"err", err,
	)
	a.pool.Discard(conn)
}
