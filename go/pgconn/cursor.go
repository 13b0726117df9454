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

package pgconn

import (
	"context"
	"database/sql"
	"fmt"
)

// Cursor executes statements on one borrowed connection. A cursor lives
// for a single unit of work and must be closed when the work ends; Close
// releases any row set still open from the last Query call.
//
// Like the connection it is bound to, a cursor is not safe for concurrent
// use.
type Cursor struct {
	conn *Conn

	// rows is the result set of the most recent Query, closed on the
	// next Query or on Close.
	rows *sql.Rows

	closed bool
}

// Exec executes a statement that returns no rows and reports the number
// of rows affected.
func (cu *Cursor) Exec(ctx context.Context, stmt string, args ...any) (int64, error) {
	if cu.closed {
		return 0, fmt.Errorf("cursor is closed")
	}
	var (
		res sql.Result
		err error
	)
	if tx := cu.conn.tx; tx != nil {
		res, err = tx.ExecContext(ctx, stmt, args...)
	} else {
		res, err = cu.conn.conn.ExecContext(ctx, stmt, args...)
	}
	if err != nil {
		return 0, err
	}
	// Not all statements report affected rows; treat that as zero.
	affected, _ := res.RowsAffected()
	return affected, nil
}

// Query executes a statement and returns its rows. The cursor keeps track
// of the result set and closes it on the next Query or on Close, so
// callers that consume the rows within the unit of work do not need to
// close them explicitly.
func (cu *Cursor) Query(ctx context.Context, stmt string, args ...any) (*sql.Rows, error) {
	if cu.closed {
		return nil, fmt.Errorf("cursor is closed")
	}
	if cu.rows != nil {
		_ = cu.rows.Close()
		cu.rows = nil
	}
	var (
		rows *sql.Rows
		err  error
	)
	if tx := cu.conn.tx; tx != nil {
		rows, err = tx.QueryContext(ctx, stmt, args...)
	} else {
		rows, err = cu.conn.conn.QueryContext(ctx, stmt, args...)
	}
	if err != nil {
		return nil, err
	}
	cu.rows = rows
	return rows, nil
}

// QueryRow executes a statement expected to return at most one row.
// Statement errors surface from the returned row's Scan.
func (cu *Cursor) QueryRow(ctx context.Context, stmt string, args ...any) (*sql.Row, error) {
	if cu.closed {
		return nil, fmt.Errorf("cursor is closed")
	}
	if tx := cu.conn.tx; tx != nil {
		return tx.QueryRowContext(ctx, stmt, args...), nil
	}
	return cu.conn.conn.QueryRowContext(ctx, stmt, args...), nil
}

// Close releases the cursor. It is safe to call multiple times and safe
// to call after the underlying connection has been closed.
func (cu *Cursor) Close() error {
	if cu.closed {
		return nil
	}
	cu.closed = true
	if cu.rows != nil {
		rows := cu.rows
		cu.rows = nil
		return rows.Close()
	}
	return nil
}
