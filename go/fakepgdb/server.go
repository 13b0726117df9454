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

// Package fakepgdb provides an in-memory database/sql driver for tests.
// A test registers expected queries with canned results (or canned
// errors) and opens a *sql.DB backed by the fake; the driver additionally
// counts connections, transactions, and per-query calls so tests can
// assert on pool and transaction behavior.
package fakepgdb

import (
	"database/sql"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
)

// driverIndex makes every OpenDB registration unique; sql.Register
// panics on duplicate names.
var driverIndex atomic.Int64

// ExpectedResult is the canned result for an expected query.
type ExpectedResult struct {
	Columns []string
	Rows    [][]interface{}
}

type queryPattern struct {
	pattern *regexp.Regexp
	result  *ExpectedResult
}

// DB is a fake database. All methods are safe for concurrent use.
type DB struct {
	t testing.TB

	mu          sync.Mutex
	queries     map[string]*ExpectedResult
	patterns    []queryPattern
	rejected    map[string]error
	queryCalled map[string]int
	commitErr   error

	connsOpened   atomic.Int64
	connsClosed   atomic.Int64
	beginCount    atomic.Int64
	commitCount   atomic.Int64
	rollbackCount atomic.Int64
}

// New creates a fake database for the given test.
func New(t testing.TB) *DB {
	return &DB{
		t:           t,
		queries:     make(map[string]*ExpectedResult),
		rejected:    make(map[string]error),
		queryCalled: make(map[string]int),
	}
}

// OpenDB registers the fake as a database/sql driver and opens a handle
// to it. Each call registers a fresh driver name, so multiple fakes can
// coexist within one test binary.
func (db *DB) OpenDB() *sql.DB {
	name := fmt.Sprintf("fakepgdb-%d", driverIndex.Add(1))
	sql.Register(name, &fakeDriver{db: db})
	sqlDB, err := sql.Open(name, "")
	if err != nil {
		db.t.Fatalf("fakepgdb: opening fake database: %v", err)
	}
	return sqlDB
}

// AddQuery registers an expected query with its result.
func (db *DB) AddQuery(query string, result *ExpectedResult) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.queries[normalizeQuery(query)] = result
}

// AddQueryPattern registers a regular expression matched against
// normalized queries, with the result to return on a match.
func (db *DB) AddQueryPattern(pattern string, result *ExpectedResult) {
	re, err := regexp.Compile("(?is)^" + pattern + "$")
	if err != nil {
		db.t.Fatalf("fakepgdb: invalid query pattern %q: %v", pattern, err)
	}
	db.mu.Lock()
	defer db.mu.Unlock()
	db.patterns = append(db.patterns, queryPattern{pattern: re, result: result})
}

// AddRejectedQuery registers a query that fails with the given error.
func (db *DB) AddRejectedQuery(query string, err error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.rejected[normalizeQuery(query)] = err
}

// SetCommitError makes every subsequent transaction commit fail with
// err. Pass nil to let commits succeed again.
func (db *DB) SetCommitError(err error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.commitErr = err
}

func (db *DB) commitError() error {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.commitErr
}

// GetQueryCalledNum returns how many times the given query was executed.
func (db *DB) GetQueryCalledNum(query string) int {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.queryCalled[normalizeQuery(query)]
}

// ConnsOpened returns the number of driver connections opened so far.
func (db *DB) ConnsOpened() int64 {
	return db.connsOpened.Load()
}

// ConnsClosed returns the number of driver connections closed so far.
func (db *DB) ConnsClosed() int64 {
	return db.connsClosed.Load()
}

// BeginCount returns the number of transactions begun.
func (db *DB) BeginCount() int64 {
	return db.beginCount.Load()
}

// CommitCount returns the number of transactions committed
// successfully; commits failed through SetCommitError do not count.
func (db *DB) CommitCount() int64 {
	return db.commitCount.Load()
}

// RollbackCount returns the number of transactions rolled back.
func (db *DB) RollbackCount() int64 {
	return db.rollbackCount.Load()
}

// handleQuery resolves a query against the registered expectations.
func (db *DB) handleQuery(query string) (*ExpectedResult, error) {
	key := normalizeQuery(query)

	db.mu.Lock()
	defer db.mu.Unlock()
	db.queryCalled[key]++

	if err, ok := db.rejected[key]; ok {
		return nil, err
	}
	if result, ok := db.queries[key]; ok {
		return result, nil
	}
	for _, p := range db.patterns {
		if p.pattern.MatchString(key) {
			return p.result, nil
		}
	}
	return nil, fmt.Errorf("fakepgdb: unexpected query: %s", query)
}

func normalizeQuery(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}
