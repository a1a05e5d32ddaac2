package promotion

import (
	"context"
	"fmt"

	"github.com/Killi-Poyi/TheCredX/pkg/storage"
)

// Match is one nearest-neighbour result.
type Match struct {
	PromotionID string
	ArticleID   string
	Title       string

	// Distance is the cosine distance to the source embedding (0 = same
	// direction, 2 = opposite).
	Distance float64
}

// Similar returns up to k active promotions closest to the embedding of
// articleID's promotion, nearest first. It only reads, and leaves no
// transaction open.
func Similar(ctx context.Context, conn storage.Conn, articleID any, k int) ([]Match, error) {
	if k <= 0 {
		return []Match{}, nil
	}

	stmts, err := statementsFor(conn.Dialect())
	if err != nil {
		return nil, err
	}
	defer conn.Rollback(ctx) //nolint:errcheck // read-only

	// article IDs arrive as text from the command line
	src := conn.Execute(ctx, stmts.hasEmbedding, []any{FormatID(articleID)}, storage.FetchOne)
	if !src.OK() {
		return nil, fmt.Errorf("looking up source promotion: %w", src.Err)
	}
	if len(src.Row) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoEmbedding, FormatID(articleID))
	}

	res := conn.Execute(ctx, stmts.similar, []any{src.Row[0], k}, storage.FetchAll)
	if !res.OK() {
		return nil, fmt.Errorf("querying similar promotions: %w", res.Err)
	}

	matches := make([]Match, 0, len(res.Rows))
	for _, row := range res.Rows {
		if len(row) < 4 {
			return nil, fmt.Errorf("%w: similarity row has %d columns", ErrMalformedRow, len(row))
		}
		dist, err := asFloat(row[3])
		if err != nil {
			return nil, err
		}
		matches = append(matches, Match{
			PromotionID: FormatID(row[0]),
			ArticleID:   FormatID(row[1]),
			Title:       asString(row[2]),
			Distance:    dist,
		})
	}
	return matches, nil
}
