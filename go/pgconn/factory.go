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

	// Registers the "postgres" driver.
	_ "github.com/lib/pq"
)

// Config holds the parameters needed to reach one PostgreSQL database as
// one principal.
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string

	// SSLMode is passed through to the driver. If empty, "disable".
	SSLMode string
}

// DSN renders the config as a lib/pq connection string.
func (c Config) DSN() string {
	sslmode := c.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	dsn := fmt.Sprintf("host=%s dbname=%s user=%s sslmode=%s",
		c.Host, c.Database, c.User, sslmode)
	if c.Port != 0 {
		dsn = fmt.Sprintf("%s port=%d", dsn, c.Port)
	}
	if c.Password != "" {
		dsn = fmt.Sprintf("%s password=%s", dsn, c.Password)
	}
	return dsn
}

// Factory produces dedicated connections to one database as one
// principal. It satisfies the pool's factory signature via Connect.
type Factory struct {
	db *sql.DB
}

// NewFactory opens a factory for the given config. sql.Open does not
// dial, so an unreachable server surfaces on the first Connect, not here.
func NewFactory(cfg Config) (*Factory, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, err
	}
	return NewFactoryFromDB(db), nil
}

// NewFactoryFromDB builds a factory over an already opened *sql.DB. Used
// by tests to run against a fake driver.
func NewFactoryFromDB(db *sql.DB) *Factory {
	// Pooling happens above this layer: a connection handed back to
	// database/sql must actually close rather than linger idle.
	db.SetMaxIdleConns(0)
	db.SetConnMaxLifetime(0)
	return &Factory{db: db}
}

// Connect produces a new dedicated connection.
func (f *Factory) Connect(ctx context.Context) (*Conn, error) {
	conn, err := f.db.Conn(ctx)
	if err != nil {
		return nil, err
	}
	return NewConn(conn), nil
}

// Close releases the factory's database handle. Connections already
// handed out remain usable until closed individually.
func (f *Factory) Close() error {
	return f.db.Close()
}
