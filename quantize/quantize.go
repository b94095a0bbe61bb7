// Package quantize reduces a list of pixel colours to a small set of
// representative colours.
package quantize

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// ErrInvalidColorCount is returned when the requested number of clusters is
// non-positive or larger than the data can support.
var ErrInvalidColorCount = errors.New("quantize: invalid color count")

// Clusterer groups pixel rows into k clusters.
type Clusterer interface {
	// Fit returns k centroids and, for every row of pixels, the index of
	// its nearest centroid.
	Fit(pixels *mat.Dense, k int) (*Result, error)
}

type Result struct {
	Centroids  *mat.Dense // k x channels
	Labels     []int      // one per pixel row, in [0, k)
	Inertia    float64    // sum of squared distances to assigned centroids
	Iterations int
}

// Validate checks k against the pixel list before any clustering work.
// k may not exceed the number of distinct colours.
func Validate(pixels *mat.Dense, k int) error {
	if pixels == nil || pixels.IsEmpty() {
		return fmt.Errorf("%w: no pixels", ErrInvalidColorCount)
	}
	n, _ := pixels.Dims()
	if k <= 0 {
		return fmt.Errorf("%w: %d must be positive", ErrInvalidColorCount, k)
	}
	if k > n {
		return fmt.Errorf("%w: %d exceeds pixel count %d", ErrInvalidColorCount, k, n)
	}
	if d := DistinctRows(pixels, k); d < k {
		return fmt.Errorf("%w: %d exceeds distinct color count %d", ErrInvalidColorCount, k, d)
	}
	return nil
}

// DistinctRows counts distinct rows, stopping once limit is reached.
// limit <= 0 counts all of them.
func DistinctRows(m *mat.Dense, limit int) int {
	n, c := m.Dims()
	seen := make(map[string]struct{})
	key := make([]byte, 0, c*8)
	for i := range n {
		key = key[:0]
		for _, v := range m.RawRowView(i) {
			bits := math.Float64bits(v)
			for s := 0; s < 64; s += 8 {
				key = append(key, byte(bits>>s))
			}
		}
		seen[string(key)] = struct{}{}
		if limit > 0 && len(seen) >= limit {
			break
		}
	}
	return len(seen)
}

// Nearest returns the index of the row of centroids closest to p and the
// squared distance to it. Ties go to the lower index.
func Nearest(centroids *mat.Dense, p []float64) (int, float64) {
	k, _ := centroids.Dims()
	best := 0
	bestD := math.MaxFloat64
	for j := range k {
		d := sqDist(p, centroids.RawRowView(j))
		if d < bestD {
			bestD = d
			best = j
		}
	}
	return best, bestD
}

func sqDist(a, b []float64) float64 {
	s := 0.0
	for i := range a {
		d := a[i] - b[i]
		s += d * d
	}
	return s
}

// Assign labels every pixel row with its nearest centroid and returns the
// resulting inertia.
func Assign(pixels, centroids *mat.Dense, labels []int) float64 {
	n, _ := pixels.Dims()
	inertia := 0.0
	for i := range n {
		j, d := Nearest(centroids, pixels.RawRowView(i))
		labels[i] = j
		inertia += d
	}
	return inertia
}
