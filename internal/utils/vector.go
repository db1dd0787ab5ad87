package utils

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// EncodeVector renders a vector in the textual form pgvector accepts:
// "[x1,x2,...]" with 8 decimal digits. That precision keeps nearest-neighbor
// rankings stable across an encode/store/decode round trip.
func EncodeVector(vec []float32) string {
	var b strings.Builder
	b.Grow(len(vec)*12 + 2)
	b.WriteByte('[')
	for i, x := range vec {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, "%.8f", x)
	}
	b.WriteByte(']')
	return b.String()
}

// DecodeVector parses the textual vector form back into floats.
func DecodeVector(s string) ([]float32, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "[") || !strings.HasSuffix(s, "]") {
		return nil, fmt.Errorf("not a vector literal: %q", s)
	}
	inner := strings.TrimSpace(s[1 : len(s)-1])
	if inner == "" {
		return []float32{}, nil
	}
	parts := strings.Split(inner, ",")
	vec := make([]float32, len(parts))
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return nil, fmt.Errorf("bad vector component %d: %w", i, err)
		}
		vec[i] = float32(f)
	}
	return vec, nil
}

// NormalizeL2 scales vec to unit L2 norm in place and returns it.
// A zero vector is returned unchanged.
func NormalizeL2(vec []float32) []float32 {
	var sum float64
	for _, x := range vec {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return vec
	}
	norm := math.Sqrt(sum)
	for i := range vec {
		vec[i] = float32(float64(vec[i]) / norm)
	}
	return vec
}

// CosineDistance returns 1 - cosine similarity: 0 is identical direction,
// 2 is opposite. Used by tests and by the exact fallback path.
func CosineDistance(a, b []float32) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 1
	}
	return 1 - dot/(math.Sqrt(na)*math.Sqrt(nb))
}
