package storage

import "errors"

var (
	// ErrNoConnectionString is returned when no connection string was configured.
	ErrNoConnectionString = errors.New("no database connection string configured")

	// ErrClosed is returned for statements issued on a closed connection.
	ErrClosed = errors.New("connection is closed")
)
