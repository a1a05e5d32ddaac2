// Package promotion turns pending promotions into embedded, active ones.
//
// A run discovers every promotion with no embedding that is not yet active,
// resolves the linked content item, embeds its text and writes the vector
// and metadata back, committing each job on its own.
package promotion

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Job is one pending promotion. Both identifiers keep the driver's native
// value so they bind back into statements unchanged.
type Job struct {
	ID        any
	ArticleID any
}

// ContentItem is the slice of content_items a job needs.
type ContentItem struct {
	Title       string
	Description string
	Tags        []string
	Category    string
}

// EmbeddingText builds the text fed to the embedder: the title, the
// description, then every tag in order, separated by single spaces.
func EmbeddingText(item ContentItem) string {
	parts := make([]string, 0, 2+len(item.Tags))
	parts = append(parts, item.Title, item.Description)
	parts = append(parts, item.Tags...)
	return strings.Join(parts, " ")
}

// FormatID renders a native identifier for logs and events.
func FormatID(id any) string {
	switch v := id.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case uuid.UUID:
		return v.String()
	case [16]byte:
		return uuid.UUID(v).String()
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}
