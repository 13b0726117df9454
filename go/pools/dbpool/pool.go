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

// Package dbpool provides a bounded, lazily filled connection pool.
//
// The pool never creates more than Capacity connections. Acquire blocks
// until a connection is idle or a new one may be created; Release returns
// a connection for reuse; Discard closes a connection that must not be
// reused. A discarded connection's capacity slot is not reclaimed, so a
// pool shrinks permanently whenever a borrower discards.
package dbpool

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// defaultWaitInterval is how long Acquire sleeps between attempts when the
// pool is exhausted.
const defaultWaitInterval = 100 * time.Millisecond

// Connection is the minimal surface the pool needs from a pooled resource.
// Implementations must tolerate Close being called more than once.
type Connection interface {
	// Close closes the connection and releases associated resources.
	Close() error

	// IsClosed returns true if the connection has been closed.
	IsClosed() bool
}

// Config holds configuration for a pool.
type Config struct {
	// Capacity is the maximum number of connections the pool will ever
	// create. Must be positive.
	Capacity int

	// WaitInterval is how long Acquire sleeps between attempts when the
	// pool is exhausted. If 0, defaults to 100ms.
	WaitInterval time.Duration
}

// Pool is a bounded connection pool. Idle connections are reused LIFO so
// the most recently released connection is handed out first.
type Pool[C Connection] struct {
	// mu protects idle and created.
	mu sync.Mutex

	// idle holds connections not currently lent to a borrower.
	idle []C

	// created counts connections created so far. It never exceeds
	// capacity and is never decremented, not even on Discard.
	created int

	// factory creates new connections.
	factory func(context.Context) (C, error)

	capacity     int
	waitInterval time.Duration
	logger       *slog.Logger
}

// NewPool creates a pool that obtains connections from factory. No
// connections are created up front; the pool fills lazily as borrowers
// arrive.
func NewPool[C Connection](factory func(context.Context) (C, error), cfg Config, logger *slog.Logger) *Pool[C] {
	if cfg.Capacity <= 0 {
		cfg.Capacity = 1
	}
	if cfg.WaitInterval <= 0 {
		cfg.WaitInterval = defaultWaitInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Pool[C]{
		idle:         make([]C, 0, cfg.Capacity),
		factory:      factory,
		capacity:     cfg.Capacity,
		waitInterval: cfg.WaitInterval,
		logger:       logger,
	}
}

// Acquire returns an idle connection, or creates one if the pool is under
// capacity. When the pool is exhausted it polls at the configured wait
// interval until a borrower releases; with a background context that wait
// is unbounded. The only error paths are a failed factory call and ctx
// cancellation while waiting; a failed creation does not consume a
// capacity slot.
func (p *Pool[C]) Acquire(ctx context.Context) (C, error) {
	var zero C
	for {
		p.mu.Lock()
		if n := len(p.idle); n > 0 {
			conn := p.idle[n-1]
			p.idle = p.idle[:n-1]
			p.mu.Unlock()
			return conn, nil
		}
		if p.created < p.capacity {
			// Reserve the slot before dialing so the capacity bound
			// holds even while creation runs outside the lock.
			p.created++
			p.mu.Unlock()
			conn, err := p.factory(ctx)
			if err != nil {
				p.mu.Lock()
				p.created--
				p.mu.Unlock()
				return zero, err
			}
			return conn, nil
		}
		p.mu.Unlock()

		p.logger.Debug("no idle connections available, waiting",
			"capacity", p.capacity,
			"wait_interval", p.waitInterval,
		)
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(p.waitInterval):
		}
	}
}

// Release returns a borrowed connection to the pool. The caller must not
// use the connection afterwards, must not release it twice, and must not
// release a connection it has discarded.
func (p *Pool[C]) Release(conn C) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.idle = append(p.idle, conn)
}

// Discard closes a borrowed connection and drops it from the pool's
// bookkeeping. The created count is not decremented, so the slot is lost
// for the remainder of the process: a pool only ever shrinks.
func (p *Pool[C]) Discard(conn C) {
	if !conn.IsClosed() {
		if err := conn.Close(); err != nil {
			p.logger.Warn("error closing discarded connection", "err", err)
		}
	}
}

// Stats returns a snapshot of the pool's accounting.
func (p *Pool[C]) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Stats{
		Capacity: p.capacity,
		Created:  p.created,
		Idle:     len(p.idle),
		Borrowed: p.created - len(p.idle),
	}
}

// Stats is a point-in-time snapshot of pool accounting. Borrowed includes
// discarded connections, since Discard never gives a slot back.
type Stats struct {
	Capacity int // maximum connections the pool will create
	Created  int // connections created so far
	Idle     int // connections available for borrowing
	Borrowed int // connections lent out (or lost to Discard)
}
