package quantize_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/setanarut/watercolor/quantize"
)

func TestPartitioner(t *testing.T) {
	pixels := blobs(2, 20, []float64{0.9, 0.1, 0.1}, []float64{0.1, 0.1, 0.9})

	var c quantize.Clusterer = quantize.Partitioner{}
	res, err := c.Fit(pixels, 2)
	require.NoError(t, err)

	k, ch := res.Centroids.Dims()
	require.Equal(t, 2, k)
	require.Equal(t, 3, ch)
	require.Len(t, res.Labels, 40)
	for i, l := range res.Labels {
		want, _ := quantize.Nearest(res.Centroids, pixels.RawRowView(i))
		require.Equal(t, want, l, "pixel %d", i)
	}
}

func TestPartitionerInvalidColorCount(t *testing.T) {
	pixels := mat.NewDense(2, 3, []float64{0, 0, 0, 1, 1, 1})
	_, err := quantize.Partitioner{}.Fit(pixels, 3)
	require.ErrorIs(t, err, quantize.ErrInvalidColorCount)
	_, err = quantize.Partitioner{DeltaThreshold: 0.05}.Fit(pixels, 0)
	require.ErrorIs(t, err, quantize.ErrInvalidColorCount)
}
