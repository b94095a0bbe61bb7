package quantize

import (
	"fmt"
	"log"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

const (
	DefaultMaxIter   = 300
	DefaultTolerance = 1e-4
)

// KMeans is Lloyd's algorithm seeded with k-means++. For a fixed Seed, Init
// and input it always produces the same centroids and labels.
type KMeans struct {
	Seed uint64
	// Upper bound on Lloyd iterations. Zero means DefaultMaxIter.
	MaxIter int
	// Convergence threshold on the total squared centroid shift, relative to
	// the mean per-channel variance of the data. Zero means DefaultTolerance.
	Tolerance float64
	// Optional initial centroids, one per row. Rows beyond k are ignored and
	// missing rows are filled with k-means++ picks.
	Init *mat.Dense
	// Log inertia while iterating.
	Verbose bool
}

func NewKMeans(seed uint64) *KMeans {
	return &KMeans{Seed: seed, MaxIter: DefaultMaxIter, Tolerance: DefaultTolerance}
}

func (km *KMeans) Fit(pixels *mat.Dense, k int) (*Result, error) {
	if err := Validate(pixels, k); err != nil {
		return nil, err
	}
	n, c := pixels.Dims()
	maxIter := km.MaxIter
	if maxIter <= 0 {
		maxIter = DefaultMaxIter
	}
	tol := km.Tolerance
	if tol <= 0 {
		tol = DefaultTolerance
	}
	tol *= meanVariance(pixels)

	rng := rand.New(rand.NewPCG(km.Seed, km.Seed^0x9e3779b97f4a7c15))
	centers, err := km.seed(pixels, k, rng)
	if err != nil {
		return nil, err
	}

	labels := make([]int, n)
	sums := mat.NewDense(k, c, nil)
	counts := make([]int, k)
	dists := make([]float64, n)
	inertia := 0.0
	iter := 0
	for iter < maxIter {
		iter++
		inertia = 0
		for i := range n {
			j, d := Nearest(centers, pixels.RawRowView(i))
			labels[i] = j
			dists[i] = d
			inertia += d
		}

		sums.Zero()
		clear(counts)
		for i := range n {
			floats.Add(sums.RawRowView(labels[i]), pixels.RawRowView(i))
			counts[labels[i]]++
		}
		relocateEmpty(pixels, labels, dists, sums, counts)

		shift := 0.0
		for j := range k {
			row := sums.RawRowView(j)
			if counts[j] == 0 {
				copy(row, centers.RawRowView(j))
				continue
			}
			floats.Scale(1/float64(counts[j]), row)
			shift += sqDist(row, centers.RawRowView(j))
		}
		centers, sums = sums, centers

		if km.Verbose && (iter == 1 || iter%25 == 0) {
			log.Printf("   kmeans iter %d/%d inertia=%.6f shift=%.3g", iter, maxIter, inertia, shift)
		}
		if shift <= tol {
			break
		}
	}

	// Final assignment against the settled centroids so labels and
	// centroids always agree.
	inertia = Assign(pixels, centers, labels)
	if km.Verbose {
		log.Printf("   kmeans done after %d iterations inertia=%.6f", iter, inertia)
	}
	return &Result{
		Centroids:  centers,
		Labels:     labels,
		Inertia:    inertia,
		Iterations: iter,
	}, nil
}

// seed returns k initial centroids: the rows of Init first, then k-means++.
func (km *KMeans) seed(pixels *mat.Dense, k int, rng *rand.Rand) (*mat.Dense, error) {
	n, c := pixels.Dims()
	centers := mat.NewDense(k, c, nil)
	picked := 0
	if km.Init != nil {
		ir, ic := km.Init.Dims()
		if ic != c {
			return nil, fmt.Errorf("quantize: init centroids have %d channels, pixels have %d", ic, c)
		}
		for picked < min(ir, k) {
			centers.SetRow(picked, km.Init.RawRowView(picked))
			picked++
		}
	}

	if picked == 0 {
		centers.SetRow(0, pixels.RawRowView(rng.IntN(n)))
		picked = 1
	}

	// Squared distance of every pixel to its closest chosen center.
	closest := make([]float64, n)
	for i := range n {
		closest[i] = math.MaxFloat64
		for j := range picked {
			closest[i] = min(closest[i], sqDist(pixels.RawRowView(i), centers.RawRowView(j)))
		}
	}

	for picked < k {
		total := floats.Sum(closest)
		if total <= 0 {
			return nil, fmt.Errorf("%w: cannot seed %d distinct centroids", ErrInvalidColorCount, k)
		}
		target := rng.Float64() * total
		next := -1
		acc := 0.0
		for i, d := range closest {
			if d <= 0 {
				continue
			}
			next = i
			acc += d
			if acc >= target {
				break
			}
		}
		centers.SetRow(picked, pixels.RawRowView(next))
		for i := range n {
			closest[i] = min(closest[i], sqDist(pixels.RawRowView(i), centers.RawRowView(picked)))
		}
		picked++
	}
	return centers, nil
}

// relocateEmpty moves every empty cluster onto the pixel currently farthest
// from its centroid, taking that pixel out of its old cluster.
func relocateEmpty(pixels *mat.Dense, labels []int, dists []float64, sums *mat.Dense, counts []int) {
	for j := range counts {
		if counts[j] > 0 {
			continue
		}
		far := -1
		farD := -1.0
		for i, d := range dists {
			if counts[labels[i]] > 1 && d > farD {
				farD = d
				far = i
			}
		}
		if far < 0 {
			continue
		}
		p := pixels.RawRowView(far)
		old := labels[far]
		floats.Sub(sums.RawRowView(old), p)
		counts[old]--
		sums.SetRow(j, p)
		counts[j] = 1
		labels[far] = j
		dists[far] = 0
	}
}

func meanVariance(m *mat.Dense) float64 {
	n, c := m.Dims()
	total := 0.0
	col := make([]float64, n)
	for j := range c {
		mat.Col(col, j, m)
		mean := floats.Sum(col) / float64(n)
		v := 0.0
		for _, x := range col {
			v += (x - mean) * (x - mean)
		}
		total += v / float64(n)
	}
	return total / float64(c)
}
