package watercolor_test

import (
	"image"
	"image/color"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/setanarut/watercolor"
)

// blocksImage paints a w x h image with vertical stripes of the given colors.
func blocksImage(w, h int, cols ...color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.SetNRGBA(x, y, cols[x*len(cols)/w])
		}
	}
	return img
}

func distinct2x2() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.SetNRGBA(0, 0, color.NRGBA{R: 250, G: 10, B: 10, A: 255})
	img.SetNRGBA(1, 0, color.NRGBA{R: 240, G: 20, B: 0, A: 255})
	img.SetNRGBA(0, 1, color.NRGBA{R: 0, G: 10, B: 250, A: 255})
	img.SetNRGBA(1, 1, color.NRGBA{R: 10, G: 0, B: 240, A: 255})
	return img
}

func opts(n int) watercolor.Options {
	opt := watercolor.DefaultOptions()
	opt.NColors = n
	return opt
}

type PainterSuite struct {
	suite.Suite
}

// TestTwoByTwoIntoTwoColors: 4 distinct pixels, N=2 => 2 centroids, labels in {0,1}.
func (s *PainterSuite) TestTwoByTwoIntoTwoColors() {
	p := watercolor.NewPainter(distinct2x2())
	require.NoError(s.T(), p.Build(opts(2)))

	require.Len(s.T(), p.Palette, 2)
	require.Equal(s.T(), 2, p.Labels.W)
	require.Equal(s.T(), 2, p.Labels.H)
	for _, l := range p.Labels.Labels {
		require.Contains(s.T(), []int{0, 1}, l)
	}
	// The reds and the blues end up together.
	require.Equal(s.T(), p.Labels.At(0, 0), p.Labels.At(0, 1))
	require.Equal(s.T(), p.Labels.At(1, 0), p.Labels.At(1, 1))
	require.NotEqual(s.T(), p.Labels.At(0, 0), p.Labels.At(1, 0))

	for row := range 2 {
		for col := range 2 {
			c := p.Palette[p.Labels.At(row, col)]
			require.Equal(s.T(), []float64{c.R, c.G, c.B}, p.Output.At(row, col))
		}
	}
}

// TestExactPaletteAtDistinctCount: N == distinct colors => zero quantization error.
func (s *PainterSuite) TestExactPaletteAtDistinctCount() {
	cols := []color.NRGBA{
		{R: 200, G: 30, B: 30, A: 255},
		{R: 30, G: 200, B: 30, A: 255},
		{R: 30, G: 30, B: 200, A: 255},
		{R: 90, G: 90, B: 90, A: 255},
	}
	img := blocksImage(8, 3, cols...)
	p := watercolor.NewPainter(img)
	require.NoError(s.T(), p.Build(opts(len(cols))))

	require.InDelta(s.T(), 0.0, p.Inertia, 1e-12)
	for i, v := range p.Output.Pix {
		require.InDelta(s.T(), p.Grid.Pix[i], v, 1e-12)
	}
	out, err := p.Image()
	require.NoError(s.T(), err)
	require.Equal(s.T(), img.Pix, out.Pix)
}

func (s *PainterSuite) TestLabSpaceExactPalette() {
	img := blocksImage(6, 2,
		color.NRGBA{R: 255, G: 128, B: 0, A: 255},
		color.NRGBA{R: 0, G: 64, B: 128, A: 255},
		color.NRGBA{R: 20, G: 20, B: 20, A: 255},
	)
	opt := opts(3)
	opt.Space = watercolor.SpaceLab
	p := watercolor.NewPainter(img)
	require.NoError(s.T(), p.Build(opt))

	for i, v := range p.Output.Pix {
		require.InDelta(s.T(), p.Grid.Pix[i], v, 1e-6)
	}
	out, err := p.Image()
	require.NoError(s.T(), err)
	require.Equal(s.T(), img.Pix, out.Pix)
}

func (s *PainterSuite) TestDeterministic() {
	img := gradientImage(24, 16)
	opt := opts(5)
	opt.Seed = 42

	a := watercolor.NewPainter(img)
	require.NoError(s.T(), a.Build(opt))
	b := watercolor.NewPainter(img)
	require.NoError(s.T(), b.Build(opt))

	require.Equal(s.T(), a.Palette, b.Palette)
	require.Equal(s.T(), a.Labels, b.Labels)
	require.Equal(s.T(), a.Output, b.Output)
}

func (s *PainterSuite) TestInvalidColorCount() {
	p := watercolor.NewPainter(distinct2x2())
	require.ErrorIs(s.T(), p.Build(opts(5)), watercolor.ErrInvalidColorCount, "more clusters than pixels")
	require.ErrorIs(s.T(), p.Build(opts(0)), watercolor.ErrInvalidColorCount, "zero clusters")
	require.ErrorIs(s.T(), p.Build(opts(-3)), watercolor.ErrInvalidColorCount, "negative clusters")

	flat := watercolor.NewPainter(blocksImage(4, 4, color.NRGBA{R: 9, A: 255}, color.NRGBA{B: 9, A: 255}))
	require.ErrorIs(s.T(), flat.Build(opts(3)), watercolor.ErrInvalidColorCount, "more clusters than distinct colors")
}

func (s *PainterSuite) TestDominantInit() {
	img := blocksImage(32, 32,
		color.NRGBA{R: 220, G: 40, B: 40, A: 255},
		color.NRGBA{R: 40, G: 40, B: 220, A: 255},
	)
	opt := opts(2)
	opt.Init = watercolor.InitDominant
	p := watercolor.NewPainter(img)
	require.NoError(s.T(), p.Build(opt))

	require.Len(s.T(), p.Palette, 2)
	require.NotEqual(s.T(), p.Labels.At(0, 0), p.Labels.At(0, 31))
	require.InDelta(s.T(), 0.0, p.Inertia, 1e-9)
}

func (s *PainterSuite) TestPartitionMethod() {
	img := blocksImage(9, 3,
		color.NRGBA{R: 255, A: 255},
		color.NRGBA{G: 255, A: 255},
		color.NRGBA{B: 255, A: 255},
	)
	opt := opts(3)
	opt.Method = watercolor.MethodPartition
	p := watercolor.NewPainter(img)
	require.NoError(s.T(), p.Build(opt))

	require.Len(s.T(), p.Palette, 3)
	for _, l := range p.Labels.Labels {
		require.GreaterOrEqual(s.T(), l, 0)
		require.Less(s.T(), l, 3)
	}
}

func TestPainterSuite(t *testing.T) {
	suite.Run(t, new(PainterSuite))
}

func gradientImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 255 / w), G: uint8(y * 255 / h), B: 128, A: 255})
		}
	}
	return img
}

func TestReconstruct(t *testing.T) {
	palette := []colorful.Color{{R: 1}, {G: 0.5}, {B: 0.25}}
	labels, err := watercolor.UnflattenLabels([]int{2, 0, 1, 1, 0, 2}, 3, 2)
	require.NoError(t, err)

	g, err := watercolor.Reconstruct(labels, palette)
	require.NoError(t, err)
	require.Equal(t, 3, g.W)
	require.Equal(t, 2, g.H)
	require.Equal(t, 3, g.C)
	for row := range 2 {
		for col := range 3 {
			c := palette[labels.At(row, col)]
			require.Equal(t, []float64{c.R, c.G, c.B}, g.At(row, col), "cell (%d,%d)", row, col)
		}
	}
}

func TestReconstructInvalidLabel(t *testing.T) {
	palette := []colorful.Color{{R: 1}, {G: 1}}
	labels, err := watercolor.UnflattenLabels([]int{0, 2}, 2, 1)
	require.NoError(t, err)
	_, err = watercolor.Reconstruct(labels, palette)
	require.ErrorIs(t, err, watercolor.ErrInvalidLabel)

	labels.Labels[1] = -1
	_, err = watercolor.Reconstruct(labels, palette)
	require.ErrorIs(t, err, watercolor.ErrInvalidLabel)

	_, err = watercolor.Reconstruct(watercolor.LabelGrid{W: 3, H: 3, Labels: []int{0}}, palette)
	require.ErrorIs(t, err, watercolor.ErrShapeMismatch)
}

func TestParseEnums(t *testing.T) {
	for _, sp := range []watercolor.ColorSpace{watercolor.SpaceRGB, watercolor.SpaceLab} {
		got, err := watercolor.ParseColorSpace(sp.String())
		require.NoError(t, err)
		require.Equal(t, sp, got)
	}
	for _, m := range []watercolor.Method{watercolor.MethodKMeans, watercolor.MethodPartition} {
		got, err := watercolor.ParseMethod(m.String())
		require.NoError(t, err)
		require.Equal(t, m, got)
	}
	for _, m := range []watercolor.InitMethod{watercolor.InitKMeansPlusPlus, watercolor.InitDominant} {
		got, err := watercolor.ParseInitMethod(m.String())
		require.NoError(t, err)
		require.Equal(t, m, got)
	}
	_, err := watercolor.ParseColorSpace("hsv")
	require.ErrorIs(t, err, watercolor.ErrInvalidConfig)
	_, err = watercolor.ParseMethod("dbscan")
	require.ErrorIs(t, err, watercolor.ErrInvalidConfig)
	_, err = watercolor.ParseInitMethod("random")
	require.ErrorIs(t, err, watercolor.ErrInvalidConfig)
}
