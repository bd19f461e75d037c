package core

import "math"

// NormalizeVector scales v to unit length and returns the result as a new
// slice. A zero vector stays zero.
func NormalizeVector(v []float32) []float32 {
	if len(v) == 0 {
		return v
	}

	var sumSquares float64
	for _, val := range v {
		sumSquares += float64(val) * float64(val)
	}

	result := make([]float32, len(v))
	if sumSquares == 0 {
		return result
	}

	magnitude := math.Sqrt(sumSquares)
	for i, val := range v {
		result[i] = float32(float64(val) / magnitude)
	}
	return result
}
