package watercolor

import (
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/mat"
)

// ColorSpace selects the coordinates pixels are clustered in.
type ColorSpace int

const (
	// SpaceRGB clusters normalized sRGB values.
	SpaceRGB ColorSpace = iota
	// SpaceLab clusters CIE L*a*b*, which tracks perceived difference better.
	SpaceLab
)

func (s ColorSpace) String() string {
	switch s {
	case SpaceLab:
		return "lab"
	default:
		return "rgb"
	}
}

func ParseColorSpace(s string) (ColorSpace, error) {
	switch strings.ToLower(s) {
	case "", "rgb":
		return SpaceRGB, nil
	case "lab":
		return SpaceLab, nil
	}
	return SpaceRGB, fmt.Errorf("%w: unknown color space %q", ErrInvalidConfig, s)
}

// toSpace converts RGB pixel rows in place.
func (s ColorSpace) toSpace(m *mat.Dense) {
	if s != SpaceLab {
		return
	}
	n, _ := m.Dims()
	for i := range n {
		row := m.RawRowView(i)
		l, a, b := colorful.Color{R: row[0], G: row[1], B: row[2]}.Lab()
		row[0], row[1], row[2] = l, a, b
	}
}

// palette converts centroid rows back to clamped RGB colours.
func (s ColorSpace) palette(centroids *mat.Dense) []colorful.Color {
	k, _ := centroids.Dims()
	out := make([]colorful.Color, k)
	for j := range k {
		row := centroids.RawRowView(j)
		if s == SpaceLab {
			out[j] = colorful.Lab(row[0], row[1], row[2]).Clamped()
			continue
		}
		out[j] = colorful.Color{R: row[0], G: row[1], B: row[2]}.Clamped()
	}
	return out
}

// fromPalette builds initial centroid rows from palette colours.
func (s ColorSpace) fromPalette(palette []colorful.Color) *mat.Dense {
	if len(palette) == 0 {
		return nil
	}
	m := mat.NewDense(len(palette), 3, nil)
	for j, c := range palette {
		m.SetRow(j, []float64{c.R, c.G, c.B})
	}
	s.toSpace(m)
	return m
}
