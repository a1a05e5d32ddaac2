package promotion

import (
	"fmt"

	"github.com/Killi-Poyi/TheCredX/pkg/storage"
)

// statements is the SQL a run issues, in one dialect.
type statements struct {
	discover      string
	discoverLimit string
	resolve       string
	update        string
	hasEmbedding  string
	similar       string
}

var postgresStatements = statements{
	discover: `SELECT id, article_id FROM promotions
		WHERE embedding IS NULL AND active = false
		ORDER BY id`,
	discoverLimit: `SELECT id, article_id FROM promotions
		WHERE embedding IS NULL AND active = false
		ORDER BY id LIMIT $1`,
	resolve: `SELECT title, description, tags, category FROM content_items
		WHERE content_id = $1`,
	update: `UPDATE promotions
		SET title = $1, summary = $2, tags = $3, categories = $4, embedding = $5::vector, active = true
		WHERE id = $6`,
	hasEmbedding: `SELECT id FROM promotions
		WHERE article_id::text = $1 AND embedding IS NOT NULL
		ORDER BY id LIMIT 1`,
	similar: `SELECT p.id, p.article_id, p.title, p.embedding <=> src.embedding AS distance
		FROM promotions p,
			(SELECT embedding FROM promotions WHERE id = $1) src
		WHERE p.active = true AND p.embedding IS NOT NULL AND p.id <> $1
		ORDER BY distance, p.id
		LIMIT $2`,
}

var sqliteStatements = statements{
	discover: `SELECT id, article_id FROM promotions
		WHERE embedding IS NULL AND active = FALSE
		ORDER BY id`,
	discoverLimit: `SELECT id, article_id FROM promotions
		WHERE embedding IS NULL AND active = FALSE
		ORDER BY id LIMIT ?`,
	resolve: `SELECT title, description, tags, category FROM content_items
		WHERE content_id = ?`,
	update: `UPDATE promotions
		SET title = ?, summary = ?, tags = ?, categories = ?, embedding = vec_f32(?), active = TRUE
		WHERE id = ?`,
	hasEmbedding: `SELECT id FROM promotions
		WHERE article_id = ? AND embedding IS NOT NULL
		ORDER BY id LIMIT 1`,
	similar: `SELECT p.id, p.article_id, p.title, vec_distance_cosine(p.embedding, src.embedding) AS distance
		FROM promotions p,
			(SELECT embedding FROM promotions WHERE id = ?1) src
		WHERE p.active = TRUE AND p.embedding IS NOT NULL AND p.id <> ?1
		ORDER BY distance, p.id
		LIMIT ?2`,
}

func statementsFor(d storage.Dialect) (statements, error) {
	switch d {
	case storage.DialectPostgres:
		return postgresStatements, nil
	case storage.DialectSQLite:
		return sqliteStatements, nil
	default:
		return statements{}, fmt.Errorf("%w: %q", ErrUnsupportedDialect, d)
	}
}
