// Package vector holds the float32 embedding helpers shared by the worker:
// the pgvector text literal, sqlite-vec blobs and the usual vector math.
package vector

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/pgvector/pgvector-go"
)

// Format renders v as a pgvector text literal: '[' + comma separated
// components + ']'. Every component keeps a decimal point so integral
// values read as floats ("1.0", not "1"), and the shortest representation
// that round-trips through float32 is used. An empty vector is "[]".
func Format(v []float32) string {
	var sb strings.Builder
	sb.Grow(len(v)*10 + 2)
	sb.WriteByte('[')
	for i, f := range v {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(formatComponent(f))
	}
	sb.WriteByte(']')
	return sb.String()
}

func formatComponent(f float32) string {
	s := strconv.FormatFloat(float64(f), 'f', -1, 32)
	if math.IsInf(float64(f), 0) || math.IsNaN(float64(f)) {
		return s
	}
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

// Parse reads a pgvector text literal back into its components.
func Parse(s string) ([]float32, error) {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "[") || !strings.HasSuffix(trimmed, "]") {
		return nil, fmt.Errorf("%w: %q", ErrMalformed, s)
	}
	if trimmed == "[]" {
		return []float32{}, nil
	}

	var v pgvector.Vector
	if err := v.Scan(trimmed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return v.Slice(), nil
}

// FromBlob decodes a sqlite-vec float32 blob (little-endian, 4 bytes per
// component).
func FromBlob(buf []byte) ([]float32, error) {
	if len(buf)%4 != 0 {
		return nil, fmt.Errorf("%w: blob size %d is not a multiple of 4", ErrMalformed, len(buf))
	}
	out := make([]float32, len(buf)/4)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:]))
	}
	return out, nil
}
