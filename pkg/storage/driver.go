// Package storage defines the gateway promoworker uses to talk to its
// relational store. A Conn is a single connection with an implicit
// transaction: the first statement after Commit or Rollback opens a new one,
// and only the caller decides when it ends.
package storage

import (
	"context"
	"log/slog"
)

// Status collapses a statement's outcome into an HTTP-style code so callers
// can branch on it without handling driver errors.
type Status int

const (
	StatusOK     Status = 200
	StatusFailed Status = 500
)

// Fetch selects how many result rows Execute collects.
type Fetch int

const (
	// NoFetch runs a statement for its side effects only.
	NoFetch Fetch = iota

	// FetchOne returns the first row, or no row at all.
	FetchOne

	// FetchAll returns every row.
	FetchAll
)

// Dialect names the SQL flavour a Conn speaks.
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

// Row is a single result tuple in column order, holding driver-native values.
type Row []any

// Result is the outcome of one Execute call.
type Result struct {
	Status Status

	// Row is the first row for FetchOne (nil when nothing matched).
	Row Row

	// Rows holds every row for FetchAll.
	Rows []Row

	// RowsAffected is reported for NoFetch statements.
	RowsAffected int64

	// Err is the driver error behind a StatusFailed result.
	Err error
}

// OK reports whether the statement succeeded.
func (r Result) OK() bool {
	return r.Status == StatusOK
}

// Failed builds a StatusFailed result carrying err.
func Failed(err error) Result {
	return Result{Status: StatusFailed, Err: err}
}

// Conn is a single-owner connection plus its cursor.
type Conn interface {
	// Execute runs one parameterized statement inside the current transaction.
	// It never commits, never rolls back and never panics on driver errors:
	// every failure comes back as a StatusFailed result.
	Execute(ctx context.Context, statement string, args []any, fetch Fetch) Result

	// Commit ends the current transaction. It is a no-op when none is open.
	Commit(ctx context.Context) error

	// Rollback discards the current transaction. It is a no-op when none is open.
	Rollback(ctx context.Context) error

	// Dialect reports which statement flavour the connection expects.
	Dialect() Dialect

	// Close rolls back any open transaction and releases the connection.
	// Closing twice is a no-op.
	Close(ctx context.Context) error
}

// Close releases conn if there is one. A nil conn is ignored, and close
// errors are logged rather than returned so callers can defer it directly.
func Close(ctx context.Context, conn Conn, logger *slog.Logger) {
	if conn == nil {
		return
	}
	if err := conn.Close(ctx); err != nil {
		if logger != nil {
			logger.Error("failed to close connection", "error", err)
		}
		return
	}
	if logger != nil {
		logger.Debug("connection closed")
	}
}
