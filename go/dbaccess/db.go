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

package dbaccess

import (
	"log/slog"

	"github.com/ITACrashCourse/CarWashing-System/go/dbconfig"
	"github.com/ITACrashCourse/CarWashing-System/go/pgconn"
	"github.com/ITACrashCourse/CarWashing-System/go/pools/dbpool"
)

// DB holds the two per-mode accessors for one database. Exactly one DB is
// expected to be constructed at process start and shared by all callers;
// there is no hidden singleton machinery.
type DB struct {
	// RO serves read-only units of work under the read-only principal.
	RO *Accessor

	// RW serves transactional units of work under the read-write
	// principal.
	RW *Accessor

	factories []*pgconn.Factory
}

// Open builds one connection pool per access mode from the configured
// credential sets. Connections are created lazily, so an unreachable
// server surfaces on first use rather than here.
func Open(cfg dbconfig.Config, logger *slog.Logger) (*DB, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	ro, roFactory, err := openMode(cfg.ReadOnly, false, logger.With("db_pool", "read_only"))
	if err != nil {
		return nil, err
	}
	rw, rwFactory, err := openMode(cfg.ReadWrite, true, logger.With("db_pool", "read_write"))
	if err != nil {
		roFactory.Close()
		return nil, err
	}

	return &DB{
		RO:        ro,
		RW:        rw,
		factories: []*pgconn.Factory{roFactory, rwFactory},
	}, nil
}

func openMode(creds dbconfig.Credentials, transactional bool, logger *slog.Logger) (*Accessor, *pgconn.Factory, error) {
	factory, err := pgconn.NewFactory(pgconn.Config{
		Host:     creds.Hostname,
		Port:     creds.Port,
		User:     creds.Username,
		Password: creds.Password,
		Database: creds.Database,
		SSLMode:  creds.SSLMode,
	})
	if err != nil {
		return nil, nil, err
	}

	pool := dbpool.NewPool(factory.Connect, dbpool.Config{
		Capacity: creds.PoolCapacity,
	}, logger)

	return NewAccessor(pool, transactional, logger), factory, nil
}

// Close releases the driver handles behind both pools. Units of work
// still in flight keep their borrowed connections until they finish.
func (db *DB) Close() error {
	var firstErr error
	for _, f := range db.factories {
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
