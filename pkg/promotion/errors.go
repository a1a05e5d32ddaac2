package promotion

import "errors"

var (
	// ErrContentNotFound marks a job whose article_id matches no content item.
	ErrContentNotFound = errors.New("content item not found")

	// ErrNoRowsUpdated is returned when the activation UPDATE matched nothing,
	// e.g. because the promotion was deleted mid-run.
	ErrNoRowsUpdated = errors.New("promotion update matched no rows")

	// ErrMalformedRow is returned when a result row has an unexpected shape.
	ErrMalformedRow = errors.New("malformed result row")

	// ErrUnsupportedDialect is returned for a connection whose dialect has no
	// statement set.
	ErrUnsupportedDialect = errors.New("unsupported SQL dialect")

	// ErrPanic wraps a value recovered from a panic.
	ErrPanic = errors.New("unexpected panic")

	// ErrNoEmbedding is returned by Similar when the article has no embedded
	// promotion to compare against.
	ErrNoEmbedding = errors.New("article has no embedded promotion")
)
