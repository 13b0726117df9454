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

// Package pgconn wraps a dedicated PostgreSQL connection behind the small
// surface the pool and the scoped accessors need: a cursor for executing
// statements, an optional transaction, and idempotent close.
package pgconn

import (
	"context"
	"database/sql"
	"fmt"
	"sync/atomic"
)

// Conn is a dedicated database connection. It is owned by exactly one
// borrower at a time and is not safe for concurrent use.
type Conn struct {
	// conn is the underlying dedicated connection.
	conn *sql.Conn

	// tx is the transaction opened by Begin, nil outside a transaction.
	tx *sql.Tx

	// closed tracks whether this connection has been closed.
	closed atomic.Bool
}

// NewConn wraps a dedicated *sql.Conn.
func NewConn(conn *sql.Conn) *Conn {
	return &Conn{conn: conn}
}

// Cursor returns a cursor bound to this connection. Statements executed
// through the cursor run inside the connection's transaction when one is
// open, and in autocommit mode otherwise.
func (c *Conn) Cursor() *Cursor {
	return &Cursor{conn: c}
}

// Begin opens a transaction on this connection. At most one transaction
// may be open at a time.
func (c *Conn) Begin(ctx context.Context) error {
	if c.closed.Load() {
		return fmt.Errorf("cannot begin transaction on closed connection")
	}
	if c.tx != nil {
		return fmt.Errorf("transaction already open")
	}
	tx, err := c.conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	c.tx = tx
	return nil
}

// Commit commits the open transaction. It is a no-op when no transaction
// is open.
func (c *Conn) Commit() error {
	if c.tx == nil {
		return nil
	}
	tx := c.tx
	c.tx = nil
	return tx.Commit()
}

// InTransaction returns true while a transaction opened by Begin has not
// yet been committed or rolled back.
func (c *Conn) InTransaction() bool {
	return c.tx != nil
}

// IsClosed returns true if this connection has been closed.
func (c *Conn) IsClosed() bool {
	return c.closed.Load()
}

// Close rolls back any open transaction and closes the underlying
// connection. Calling Close more than once is safe.
func (c *Conn) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil // Already closed
	}
	if c.tx != nil {
		// The borrower failed mid-transaction; nothing committed.
		_ = c.tx.Rollback()
		c.tx = nil
	}
	return c.conn.Close()
}
