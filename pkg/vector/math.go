package vector

import "math"

// Norm returns the Euclidean length of v.
func Norm(v []float32) float64 {
	var sum float64
	for _, f := range v {
		sum += float64(f) * float64(f)
	}
	return math.Sqrt(sum)
}

// Normalize returns a unit-length copy of v. A zero vector is returned
// unchanged since it has no direction.
func Normalize(v []float32) []float32 {
	out := make([]float32, len(v))
	n := Norm(v)
	if n == 0 {
		copy(out, v)
		return out
	}
	for i, f := range v {
		out[i] = float32(float64(f) / n)
	}
	return out
}

// Basis returns the unit vector of length dims pointing along the first axis.
func Basis(dims int) []float32 {
	out := make([]float32, dims)
	if dims > 0 {
		out[0] = 1
	}
	return out
}
