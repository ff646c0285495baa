package database

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
)

// Error kinds carried by StorageError. Match them with errors.Is.
var (
	ErrConstraint   = errors.New("constraint violation")
	ErrConnectivity = errors.New("store unavailable")
	ErrStorage      = errors.New("storage failure")
)

// StorageError is returned by every failed gateway call.
type StorageError struct {
	Op   string
	Kind error
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
}

func (e *StorageError) Unwrap() []error { return []error{e.Kind, e.Err} }

func wrap(ctx context.Context, op string, err error) error {
	kind := classify(err)
	if ctx.Err() != nil {
		kind = ErrConnectivity
	}
	return &StorageError{Op: op, Kind: kind, Err: err}
}

func classify(err error) error {
	var se sqlite3.Error
	if errors.As(err, &se) {
		switch se.Code {
		case sqlite3.ErrConstraint:
			return ErrConstraint
		case sqlite3.ErrBusy, sqlite3.ErrLocked, sqlite3.ErrCantOpen:
			return ErrConnectivity
		}
		return ErrStorage
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled),
		errors.Is(err, driver.ErrBadConn),
		errors.Is(err, sql.ErrConnDone):
		return ErrConnectivity
	}
	return ErrStorage
}

// IsConstraint reports whether err is a store constraint violation.
func IsConstraint(err error) bool { return errors.Is(err, ErrConstraint) }

// IsConnectivity reports whether err means the store could not be reached in time.
func IsConnectivity(err error) bool { return errors.Is(err, ErrConnectivity) }
