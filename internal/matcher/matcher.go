// Package matcher resolves a query embedding to the closest enrolled identity.
package matcher

import (
	"math"

	"github.com/omran-mahr/Aspiro-AI/internal/domain"
)

// DefaultThreshold is the cosine distance below which a match is accepted.
const DefaultThreshold = 0.5

// CosineSimilarity returns the cosine of the angle between a and b.
// Vectors of different length, empty vectors and zero-norm vectors have
// similarity 0.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0.0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0.0
	}

	similarity := dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
	// Clamp to [-1, 1] to absorb floating point error
	if similarity > 1 {
		similarity = 1
	}
	if similarity < -1 {
		similarity = -1
	}
	return similarity
}

// CosineDistance is 1 - CosineSimilarity, in [0, 2].
func CosineDistance(a, b []float64) float64 {
	return 1 - CosineSimilarity(a, b)
}

// Normalize returns a unit-length copy of v. Zero vectors are returned unchanged.
func Normalize(v []float64) []float64 {
	var norm float64
	for _, x := range v {
		norm += x * x
	}
	if norm == 0 {
		return v
	}

	norm = math.Sqrt(norm)
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = x / norm
	}
	return out
}

// Match returns the identity whose closest embedding is nearest to query.
//
// Identities are visited in lexicographic order and each identity's
// embeddings in enrolment order; on ties the first minimum wins. When the
// minimum distance is not strictly below threshold the result is
// domain.Unknown, still carrying that distance. An empty gallery yields
// (Unknown, 1.0).
func Match(query []float64, gallery domain.Gallery, threshold float64) domain.Match {
	best := domain.Match{Name: domain.Unknown, Distance: 1.0}
	bestName := ""
	found := false

	for _, name := range gallery.Names() {
		for _, stored := range gallery[name] {
			d := CosineDistance(query, stored.Vector)
			if !found || d < best.Distance {
				best.Distance = d
				bestName = name
				found = true
			}
		}
	}

	if found && best.Distance < threshold {
		best.Name = bestName
	}
	return best
}
