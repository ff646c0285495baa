// Package database is the persistence gateway over the SQLite store.
//
// A Gateway owns a single connection. Every call is bounded by the configured
// timeout, and a connection that stops answering pings is reopened on the next
// call. Lookups report absence as (zero, false, nil); failures are returned
// as *StorageError.
package database

import (
	"context"
	"errors"
	"sync"
	"time"

	"campus-events/pkg/db/sqlite"

	"github.com/jmoiron/sqlx"
	log "github.com/sirupsen/logrus"
)

// DefaultTimeout bounds a store call when no timeout is configured.
const DefaultTimeout = 5 * time.Second

var errNoDSN = errors.New("connection lost and no data source to reopen")

// Gateway is the handle the rules engine uses to reach the store.
type Gateway struct {
	mu      sync.Mutex
	db      *sqlx.DB
	path    string
	timeout time.Duration
}

// Open connects to the database at path (a file path or a full DSN), applies
// pending migrations and returns a gateway over the connection.
func Open(path string, timeout time.Duration) (*Gateway, error) {
	raw, err := sqlite.ConnectAndMigrate(path)
	if err != nil {
		return nil, &StorageError{Op: "open", Kind: ErrConnectivity, Err: err}
	}
	g := NewWithDB(sqlx.NewDb(raw, sqlite.DriverName), timeout)
	g.path = path
	return g, nil
}

// NewWithDB wraps an already open handle. A gateway built this way cannot
// reopen the connection once it is lost.
func NewWithDB(db *sqlx.DB, timeout time.Duration) *Gateway {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Gateway{db: db, timeout: timeout}
}

// Timeout is the per-call deadline applied to every operation.
func (g *Gateway) Timeout() time.Duration { return g.timeout }

// conn returns a live handle, reopening the store if the current one is gone.
func (g *Gateway) conn(ctx context.Context) (*sqlx.DB, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.db != nil {
		err := g.db.PingContext(ctx)
		if err == nil {
			return g.db, nil
		}
		if ctx.Err() != nil {
			return nil, err
		}
		log.WithError(err).Warn("Database connection lost, reconnecting")
		g.db.Close()
		g.db = nil
	}
	if g.path == "" {
		return nil, errNoDSN
	}

	raw, err := sqlite.ConnectAndMigrate(g.path)
	if err != nil {
		return nil, err
	}
	g.db = sqlx.NewDb(raw, sqlite.DriverName)
	return g.db, nil
}

// acquire starts a bounded call: it derives the deadline and obtains a handle.
// The returned cancel func must always be called.
func (g *Gateway) acquire(ctx context.Context, op string) (context.Context, *sqlx.DB, context.CancelFunc, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	db, err := g.conn(ctx)
	if err != nil {
		return ctx, nil, cancel, &StorageError{Op: op, Kind: ErrConnectivity, Err: err}
	}
	return ctx, db, cancel, nil
}

// Ping checks the store is reachable, reconnecting if needed.
func (g *Gateway) Ping(ctx context.Context) error {
	_, _, cancel, err := g.acquire(ctx, "ping")
	cancel()
	return err
}

// Close releases the connection. Calls made afterwards reopen it when the
// gateway knows its data source.
func (g *Gateway) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.db == nil {
		return nil
	}
	err := g.db.Close()
	g.db = nil
	return err
}
