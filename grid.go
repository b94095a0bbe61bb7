package watercolor

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"gonum.org/v1/gonum/mat"
)

// ErrShapeMismatch reports width/height/channel arguments that disagree with
// the data they describe.
var ErrShapeMismatch = errors.New("watercolor: shape mismatch")

// Grid is an image as interleaved row-major float channels in [0,1].
type Grid struct {
	W, H, C int
	Pix     []float64 // len = W*H*C
}

// LabelGrid holds one cluster index per pixel.
type LabelGrid struct {
	W, H   int
	Labels []int // len = W*H
}

func NewGrid(w, h, c int) Grid {
	return Grid{W: w, H: h, C: c, Pix: make([]float64, w*h*c)}
}

func (g Grid) offset(row, col int) int {
	return (row*g.W + col) * g.C
}

// At returns the channel values of the pixel at (row, col).
func (g Grid) At(row, col int) []float64 {
	off := g.offset(row, col)
	return g.Pix[off : off+g.C]
}

func (l LabelGrid) At(row, col int) int {
	return l.Labels[row*l.W+col]
}

// ============ COORDINATE NORMALIZATION ============

// GridFromImage maps image coordinates to a zero-based RGB grid: image y
// becomes the row, image x the column, and bounds.Min is shifted to (0, 0).
// This and Grid.Image are the only places that translate between the two
// conventions.
//
// Alpha is discarded and the straight (non-premultiplied) colour is kept, so
// a translucent pixel clusters with the colour it would have when opaque.
// Non-premultiplied sources keep the colour stored under zero alpha;
// premultiplied sources have none there and read as black.
func GridFromImage(img image.Image) Grid {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	g := NewGrid(w, h, 3)
	for y := range h {
		for x := range w {
			c := straight(img.At(bounds.Min.X+x, bounds.Min.Y+y))
			off := g.offset(y, x)
			g.Pix[off] = float64(c.R) / 65535.0
			g.Pix[off+1] = float64(c.G) / 65535.0
			g.Pix[off+2] = float64(c.B) / 65535.0
		}
	}
	return g
}

func straight(c color.Color) color.NRGBA64 {
	if n, ok := c.(color.NRGBA); ok {
		return color.NRGBA64{
			R: uint16(n.R) * 0x101,
			G: uint16(n.G) * 0x101,
			B: uint16(n.B) * 0x101,
			A: uint16(n.A) * 0x101,
		}
	}
	return color.NRGBA64Model.Convert(c).(color.NRGBA64)
}

// Image converts a 3-channel grid back into an opaque image anchored at the
// origin.
func (g Grid) Image() (*image.NRGBA, error) {
	if g.C != 3 || len(g.Pix) != g.W*g.H*g.C {
		return nil, fmt.Errorf("%w: cannot render %dx%dx%d grid holding %d values as RGB",
			ErrShapeMismatch, g.W, g.H, g.C, len(g.Pix))
	}
	img := image.NewNRGBA(image.Rect(0, 0, g.W, g.H))
	for y := range g.H {
		for x := range g.W {
			off := g.offset(y, x)
			img.SetNRGBA(x, y, color.NRGBA{
				R: to8(g.Pix[off]),
				G: to8(g.Pix[off+1]),
				B: to8(g.Pix[off+2]),
				A: 255,
			})
		}
	}
	return img, nil
}

func to8(v float64) uint8 {
	return uint8(max(0, min(255, v*255+0.5)))
}

// ============ FLATTEN / UNFLATTEN ============

// Flatten stacks the pixels of g into a (width*height) x channels matrix, one
// row per pixel in row-major order.
func Flatten(g Grid, width, height, channels int) (*mat.Dense, error) {
	if width != g.W || height != g.H || channels != g.C {
		return nil, fmt.Errorf("%w: flatten %dx%dx%d grid as %dx%dx%d",
			ErrShapeMismatch, g.W, g.H, g.C, width, height, channels)
	}
	if len(g.Pix) != width*height*channels {
		return nil, fmt.Errorf("%w: grid holds %d values, want %d",
			ErrShapeMismatch, len(g.Pix), width*height*channels)
	}
	if width*height == 0 || channels == 0 {
		return nil, fmt.Errorf("%w: empty grid %dx%dx%d", ErrShapeMismatch, width, height, channels)
	}
	data := make([]float64, len(g.Pix))
	copy(data, g.Pix)
	return mat.NewDense(width*height, channels, data), nil
}

// Unflatten is the inverse of Flatten.
func Unflatten(m *mat.Dense, width, height int) (Grid, error) {
	rows, cols := m.Dims()
	if rows != width*height {
		return Grid{}, fmt.Errorf("%w: %d pixel rows cannot fill %dx%d",
			ErrShapeMismatch, rows, width, height)
	}
	g := NewGrid(width, height, cols)
	for i := range rows {
		copy(g.Pix[i*cols:(i+1)*cols], m.RawRowView(i))
	}
	return g, nil
}

// UnflattenLabels reshapes per-pixel cluster indices into an assignment map.
func UnflattenLabels(labels []int, width, height int) (LabelGrid, error) {
	if len(labels) != width*height {
		return LabelGrid{}, fmt.Errorf("%w: %d labels cannot fill %dx%d",
			ErrShapeMismatch, len(labels), width, height)
	}
	out := make([]int, len(labels))
	copy(out, labels)
	return LabelGrid{W: width, H: height, Labels: out}, nil
}
