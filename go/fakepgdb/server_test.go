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

package fakepgdb

import (
	"errors"
	"testing"
)

func TestBasicQuery(t *testing.T) {
	db := New(t)
	db.AddQuery("SELECT 1", &ExpectedResult{
		Columns: []string{"?column?"},
		Rows:    [][]interface{}{{int64(1)}},
	})

	sqlDB := db.OpenDB()
	defer sqlDB.Close()

	var result int
	err := sqlDB.QueryRow("SELECT 1").Scan(&result)
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}

	if result != 1 {
		t.Errorf("expected 1, got %d", result)
	}

	// Verify query was called
	if db.GetQueryCalledNum("SELECT 1") != 1 {
		t.Errorf("expected query to be called once, got %d", db.GetQueryCalledNum("SELECT 1"))
	}
}

func TestQueryPattern(t *testing.T) {
	db := New(t)
	db.AddQueryPattern("SELECT \\* FROM users WHERE id = .*", &ExpectedResult{
		Columns: []string{"id", "name"},
		Rows:    [][]interface{}{{int64(1), "John"}},
	})

	sqlDB := db.OpenDB()
	defer sqlDB.Close()

	var id int
	var name string
	err := sqlDB.QueryRow("SELECT * FROM users WHERE id = 1").Scan(&id, &name)
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}

	if id != 1 || name != "John" {
		t.Errorf("expected (1, 'John'), got (%d, '%s')", id, name)
	}
}

func TestRejectedQuery(t *testing.T) {
	db := New(t)
	wantErr := errors.New("access denied")
	db.AddRejectedQuery("SELECT * FROM forbidden", wantErr)

	sqlDB := db.OpenDB()
	defer sqlDB.Close()

	var result int
	err := sqlDB.QueryRow("SELECT * FROM forbidden").Scan(&result)
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	if !errors.Is(err, wantErr) {
		t.Errorf("expected 'access denied', got '%v'", err)
	}
}

func TestUnexpectedQuery(t *testing.T) {
	db := New(t)

	sqlDB := db.OpenDB()
	defer sqlDB.Close()

	var result int
	err := sqlDB.QueryRow("SELECT * FROM nowhere").Scan(&result)
	if err == nil {
		t.Fatal("expected error for unregistered query, got nil")
	}
}

func TestTransactionCounters(t *testing.T) {
	db := New(t)
	db.AddQuery("UPDATE t SET x = 1", &ExpectedResult{})

	sqlDB := db.OpenDB()
	defer sqlDB.Close()

	tx, err := sqlDB.Begin()
	if err != nil {
		t.Fatalf("begin failed: %v", err)
	}
	if _, err := tx.Exec("UPDATE t SET x = 1"); err != nil {
		t.Fatalf("exec failed: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("commit failed: %v", err)
	}

	if db.BeginCount() != 1 {
		t.Errorf("expected 1 begin, got %d", db.BeginCount())
	}
	if db.CommitCount() != 1 {
		t.Errorf("expected 1 commit, got %d", db.CommitCount())
	}
	if db.RollbackCount() != 0 {
		t.Errorf("expected 0 rollbacks, got %d", db.RollbackCount())
	}
}

func TestCommitError(t *testing.T) {
	db := New(t)
	wantErr := errors.New("deadlock detected")
	db.SetCommitError(wantErr)

	sqlDB := db.OpenDB()
	defer sqlDB.Close()

	tx, err := sqlDB.Begin()
	if err != nil {
		t.Fatalf("begin failed: %v", err)
	}
	if err := tx.Commit(); !errors.Is(err, wantErr) {
		t.Fatalf("expected 'deadlock detected', got '%v'", err)
	}

	if db.CommitCount() != 0 {
		t.Errorf("expected 0 commits, got %d", db.CommitCount())
	}
}
