// Package sqlite provides a SQLite gateway with the sqlite-vec extension
// loaded. It backs local runs and the test suites.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	sqlite_vec "github.com/asg017/sqlite-vec-go-bindings/cgo"
	_ "github.com/mattn/go-sqlite3"

	"github.com/Killi-Poyi/TheCredX/pkg/storage"
)

// Schema mirrors the production tables. Tags and categories are JSON
// arrays, and the embedding is a float32 blob produced by vec_f32.
const Schema = `
CREATE TABLE IF NOT EXISTS content_items (
	content_id  TEXT PRIMARY KEY,
	title       TEXT,
	description TEXT,
	tags        TEXT NOT NULL DEFAULT '[]',
	category    TEXT
);

CREATE TABLE IF NOT EXISTS promotions (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	article_id TEXT,
	budget     REAL,
	title      TEXT,
	summary    TEXT,
	tags       TEXT,
	categories TEXT,
	embedding  BLOB,
	active     BOOLEAN NOT NULL DEFAULT FALSE
);
`

// Conn implements storage.Conn using database/sql and go-sqlite3.
type Conn struct {
	db     *sql.DB
	tx     *sql.Tx
	logger *slog.Logger
}

var _ storage.Conn = (*Conn)(nil)

// Open opens the database at dbPath. Use ":memory:" for an in-memory database.
func Open(ctx context.Context, dbPath string) (*Conn, error) {
	// enable connection to have sqlite-vec extension
	sqlite_vec.Auto()

	if strings.TrimSpace(dbPath) == "" {
		return nil, storage.ErrNoConnectionString
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One physical connection, so ":memory:" databases survive between
	// statements and the lazy transaction always lands on the same handle.
	db.SetMaxOpenConns(1)

	var vecVersion string
	if err := db.QueryRowContext(ctx, "SELECT vec_version()").Scan(&vecVersion); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite-vec not available: %w", err)
	}

	return &Conn{db: db}, nil
}

// EnsureSchema creates the content_items and promotions tables when missing.
func (c *Conn) EnsureSchema(ctx context.Context) error {
	if c.db == nil {
		return storage.ErrClosed
	}
	if _, err := c.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

// Dialect implements storage.Conn.
func (c *Conn) Dialect() storage.Dialect {
	return storage.DialectSQLite
}

// WithLogger makes the connection log failed statements at debug level.
func (c *Conn) WithLogger(l *slog.Logger) *Conn {
	c.logger = l
	return c
}

// Execute implements storage.Conn.
func (c *Conn) Execute(ctx context.Context, statement string, args []any, fetch storage.Fetch) storage.Result {
	if c.db == nil {
		return c.failed(statement, storage.ErrClosed)
	}

	params, err := bindArgs(args)
	if err != nil {
		return c.failed(statement, err)
	}

	if c.tx == nil {
		tx, err := c.db.BeginTx(ctx, nil)
		if err != nil {
			return c.failed(statement, fmt.Errorf("beginning transaction: %w", err))
		}
		c.tx = tx
	}

	if fetch == storage.NoFetch {
		res, err := c.tx.ExecContext(ctx, statement, params...)
		if err != nil {
			return c.failed(statement, err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return c.failed(statement, err)
		}
		return storage.Result{Status: storage.StatusOK, RowsAffected: affected}
	}

	rows, err := c.tx.QueryContext(ctx, statement, params...)
	if err != nil {
		return c.failed(statement, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return c.failed(statement, err)
	}

	var out []storage.Row
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return c.failed(statement, fmt.Errorf("reading row: %w", err))
		}
		out = append(out, storage.Row(values))
		if fetch == storage.FetchOne {
			break
		}
	}
	if err := rows.Err(); err != nil {
		return c.failed(statement, err)
	}

	result := storage.Result{Status: storage.StatusOK}
	if fetch == storage.FetchOne {
		if len(out) > 0 {
			result.Row = out[0]
		}
		return result
	}
	result.Rows = out
	return result
}

func (c *Conn) failed(statement string, err error) storage.Result {
	if c.logger != nil {
		c.logger.Debug("statement failed", "dialect", c.Dialect(), "statement", statement, "error", err)
	}
	return storage.Failed(err)
}

// Commit implements storage.Conn.
func (c *Conn) Commit(_ context.Context) error {
	if c.tx == nil {
		return nil
	}
	tx := c.tx
	c.tx = nil
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Rollback implements storage.Conn.
func (c *Conn) Rollback(_ context.Context) error {
	if c.tx == nil {
		return nil
	}
	tx := c.tx
	c.tx = nil
	if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return fmt.Errorf("rolling back transaction: %w", err)
	}
	return nil
}

// Close implements storage.Conn.
func (c *Conn) Close(ctx context.Context) error {
	if c.db == nil {
		return nil
	}
	rbErr := c.Rollback(ctx)
	db := c.db
	c.db = nil
	return errors.Join(rbErr, db.Close())
}

// bindArgs converts values go-sqlite3 cannot bind natively. String slices
// become JSON arrays so they match the TEXT array columns.
func bindArgs(args []any) ([]any, error) {
	out := make([]any, len(args))
	for i, a := range args {
		switch v := a.(type) {
		case []string:
			if v == nil {
				v = []string{}
			}
			b, err := json.Marshal(v)
			if err != nil {
				return nil, fmt.Errorf("encoding argument %d: %w", i+1, err)
			}
			out[i] = string(b)
		default:
			out[i] = a
		}
	}
	return out, nil
}
