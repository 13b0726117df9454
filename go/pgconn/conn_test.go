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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ITACrashCourse/CarWashing-System/go/fakepgdb"
)

func newTestFactory(t *testing.T) (*fakepgdb.DB, *Factory) {
	t.Helper()
	fake := fakepgdb.New(t)
	factory := NewFactoryFromDB(fake.OpenDB())
	t.Cleanup(func() { factory.Close() })
	return fake, factory
}

func TestCursorQueryRow(t *testing.T) {
	fake, factory := newTestFactory(t)
	fake.AddQuery("SELECT 1", &fakepgdb.ExpectedResult{
		Columns: []string{"?column?"},
		Rows:    [][]interface{}{{int64(1)}},
	})

	ctx := context.Background()
	conn, err := factory.Connect(ctx)
	require.NoError(t, err)
	defer conn.Close()

	cursor := conn.Cursor()
	defer cursor.Close()

	row, err := cursor.QueryRow(ctx, "SELECT 1")
	require.NoError(t, err)
	var n int
	require.NoError(t, row.Scan(&n))
	assert.Equal(t, 1, n)
	assert.Equal(t, 1, fake.GetQueryCalledNum("SELECT 1"))
}

func TestCursorQueryTracksRows(t *testing.T) {
	fake, factory := newTestFactory(t)
	fake.AddQuery("SELECT id FROM washes", &fakepgdb.ExpectedResult{
		Columns: []string{"id"},
		Rows:    [][]interface{}{{int64(1)}, {int64(2)}},
	})

	ctx := context.Background()
	conn, err := factory.Connect(ctx)
	require.NoError(t, err)
	defer conn.Close()

	cursor := conn.Cursor()
	rows, err := cursor.Query(ctx, "SELECT id FROM washes")
	require.NoError(t, err)

	var ids []int64
	for rows.Next() {
		var id int64
		require.NoError(t, rows.Scan(&id))
		ids = append(ids, id)
	}
	require.NoError(t, rows.Err())
	assert.Equal(t, []int64{1, 2}, ids)

	// Close releases the tracked row set even if the caller forgot to.
	require.NoError(t, cursor.Close())
	require.NoError(t, cursor.Close())
}

func TestCursorRejectsUseAfterClose(t *testing.T) {
	_, factory := newTestFactory(t)

	ctx := context.Background()
	conn, err := factory.Connect(ctx)
	require.NoError(t, err)
	defer conn.Close()

	cursor := conn.Cursor()
	require.NoError(t, cursor.Close())

	_, err = cursor.Exec(ctx, "SELECT 1")
	assert.Error(t, err)
	_, err = cursor.Query(ctx, "SELECT 1")
	assert.Error(t, err)
	_, err = cursor.QueryRow(ctx, "SELECT 1")
	assert.Error(t, err)
}

func TestConnBeginCommit(t *testing.T) {
	fake, factory := newTestFactory(t)
	fake.AddQuery("INSERT INTO washes (car) VALUES ($1)", &fakepgdb.ExpectedResult{})

	ctx := context.Background()
	conn, err := factory.Connect(ctx)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.Begin(ctx))
	assert.True(t, conn.InTransaction())

	cursor := conn.Cursor()
	_, err = cursor.Exec(ctx, "INSERT INTO washes (car) VALUES ($1)", "AB1234CD")
	require.NoError(t, err)
	require.NoError(t, cursor.Close())

	require.NoError(t, conn.Commit())
	assert.False(t, conn.InTransaction())
	assert.Equal(t, int64(1), fake.BeginCount())
	assert.Equal(t, int64(1), fake.CommitCount())
	assert.Equal(t, int64(0), fake.RollbackCount())
}

func TestConnCommitWithoutTransactionIsNoop(t *testing.T) {
	fake, factory := newTestFactory(t)

	conn, err := factory.Connect(context.Background())
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.Commit())
	assert.Equal(t, int64(0), fake.CommitCount())
}

func TestConnDoubleBegin(t *testing.T) {
	_, factory := newTestFactory(t)

	ctx := context.Background()
	conn, err := factory.Connect(ctx)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.Begin(ctx))
	assert.Error(t, conn.Begin(ctx))
}

func TestConnCloseRollsBackOpenTransaction(t *testing.T) {
	fake, factory := newTestFactory(t)

	ctx := context.Background()
	conn, err := factory.Connect(ctx)
	require.NoError(t, err)

	require.NoError(t, conn.Begin(ctx))
	require.NoError(t, conn.Close())

	assert.True(t, conn.IsClosed())
	assert.Equal(t, int64(1), fake.RollbackCount())
	assert.Equal(t, int64(0), fake.CommitCount())

	// Close is idempotent.
	require.NoError(t, conn.Close())
	assert.Equal(t, int64(1), fake.RollbackCount())
}

func TestConnCloseClosesDriverConnection(t *testing.T) {
	fake, factory := newTestFactory(t)

	conn, err := factory.Connect(context.Background())
	require.NoError(t, err)
	require.NoError(t, conn.Close())

	// The factory keeps no idle connections, so closing the dedicated
	// conn closes the physical one.
	assert.Equal(t, fake.ConnsOpened(), fake.ConnsClosed())
	assert.GreaterOrEqual(t, fake.ConnsClosed(), int64(1))
}

func TestConnBeginAfterClose(t *testing.T) {
	_, factory := newTestFactory(t)

	ctx := context.Background()
	conn, err := factory.Connect(ctx)
	require.NoError(t, err)
	require.NoError(t, conn.Close())

	assert.Error(t, conn.Begin(ctx))
}

func TestFactoryConnectError(t *testing.T) {
	fake := fakepgdb.New(t)
	db := fake.OpenDB()
	factory := NewFactoryFromDB(db)
	require.NoError(t, factory.Close())

	_, err := factory.Connect(context.Background())
	require.Error(t, err)
}

func TestConfigDSN(t *testing.T) {
	cfg := Config{
		Host:     "db.example.com",
		Port:     5433,
		User:     "carwash_ro",
		Password: "secret",
		Database: "carwash",
	}
	dsn := cfg.DSN()
	assert.Contains(t, dsn, "host=db.example.com")
	assert.Contains(t, dsn, "port=5433")
	assert.Contains(t, dsn, "user=carwash_ro")
	assert.Contains(t, dsn, "password=secret")
	assert.Contains(t, dsn, "dbname=carwash")
	assert.Contains(t, dsn, "sslmode=disable")

	// Port, password, and sslmode are omitted or defaulted.
	minimal := Config{Host: "localhost", User: "u", Database: "d", SSLMode: "require"}
	dsn = minimal.DSN()
	assert.NotContains(t, dsn, "port=")
	assert.NotContains(t, dsn, "password=")
	assert.Contains(t, dsn, "sslmode=require")
}
