package promotion

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/jackc/pgx/v5/pgtype"
)

// asString reads a nullable text column.
func asString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case []byte:
		return string(s)
	default:
		return FormatID(v)
	}
}

// asTags reads a tags column: a native array (Postgres), a JSON array
// (SQLite), or a Postgres array literal that arrived as text.
func asTags(v any) ([]string, error) {
	switch t := v.(type) {
	case nil:
		return []string{}, nil
	case []string:
		return append([]string{}, t...), nil
	case []any:
		out := make([]string, 0, len(t))
		for _, e := range t {
			if e == nil {
				continue
			}
			out = append(out, asString(e))
		}
		return out, nil
	case []byte:
		return parseTagText(string(t))
	case string:
		return parseTagText(t)
	default:
		return nil, fmt.Errorf("%w: tags of type %T", ErrMalformedRow, v)
	}
}

func parseTagText(s string) ([]string, error) {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return []string{}, nil
	case strings.HasPrefix(s, "["):
		var raw []any
		if err := json.Unmarshal([]byte(s), &raw); err != nil {
			return nil, fmt.Errorf("%w: tags: %v", ErrMalformedRow, err)
		}
		return asTags(raw)
	case strings.HasPrefix(s, "{"):
		return parseTextArray(s)
	default:
		return []string{s}, nil
	}
}

// parseTextArray decodes a Postgres text[] literal. NULL elements are
// dropped like they are for decoded arrays.
func parseTextArray(s string) ([]string, error) {
	var arr pgtype.FlatArray[pgtype.Text]
	if err := pgtype.NewMap().Scan(pgtype.TextArrayOID, pgtype.TextFormatCode, []byte(s), &arr); err != nil {
		return nil, fmt.Errorf("%w: tags: %v", ErrMalformedRow, err)
	}
	out := make([]string, 0, len(arr))
	for _, t := range arr {
		if t.Valid {
			out = append(out, t.String)
		}
	}
	return out, nil
}

// asFloat reads a numeric column such as a computed distance.
func asFloat(v any) (float64, error) {
	switch f := v.(type) {
	case float64:
		return f, nil
	case float32:
		return float64(f), nil
	case int64:
		return float64(f), nil
	case nil:
		return math.NaN(), nil
	default:
		return 0, fmt.Errorf("%w: numeric value of type %T", ErrMalformedRow, v)
	}
}
