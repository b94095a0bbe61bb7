package quantize

import (
	"fmt"

	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"
	"gonum.org/v1/gonum/mat"
)

// Partitioner clusters with github.com/muesli/kmeans. The library seeds its
// random starting centroids from the clock, so results vary between runs.
type Partitioner struct {
	// Stop once fewer than this fraction of points change cluster per round.
	// Zero keeps the library default.
	DeltaThreshold float64
}

func (p Partitioner) Fit(pixels *mat.Dense, k int) (*Result, error) {
	if err := Validate(pixels, k); err != nil {
		return nil, err
	}
	n, c := pixels.Dims()

	dataset := make(clusters.Observations, 0, n)
	for i := range n {
		row := make(clusters.Coordinates, c)
		copy(row, pixels.RawRowView(i))
		dataset = append(dataset, row)
	}

	km := kmeans.New()
	if p.DeltaThreshold > 0 {
		var err error
		km, err = kmeans.NewWithOptions(p.DeltaThreshold, nil)
		if err != nil {
			return nil, fmt.Errorf("quantize: %w", err)
		}
	}
	cc, err := km.Partition(dataset, k)
	if err != nil {
		return nil, fmt.Errorf("quantize: partition: %w", err)
	}
	if len(cc) != k {
		return nil, fmt.Errorf("quantize: partition returned %d clusters, want %d", len(cc), k)
	}

	centers := mat.NewDense(k, c, nil)
	for j, cl := range cc {
		if len(cl.Center) < c {
			return nil, fmt.Errorf("quantize: cluster %d has %d coordinates, want %d", j, len(cl.Center), c)
		}
		centers.SetRow(j, cl.Center[:c])
	}

	labels := make([]int, n)
	inertia := Assign(pixels, centers, labels)
	return &Result{
		Centroids: centers,
		Labels:    labels,
		Inertia:   inertia,
	}, nil
}
