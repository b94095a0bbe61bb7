// Package watercolor recolours a photo with a small palette found by colour
// clustering.
package watercolor

import (
	"errors"
	"fmt"
	"image"
	"log"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/mat"

	"github.com/setanarut/watercolor/quantize"
	"github.com/setanarut/watercolor/utils"
)

var (
	ErrInputNotFound     = utils.ErrInputNotFound
	ErrInvalidColorCount = quantize.ErrInvalidColorCount
	// ErrInvalidLabel reports an assignment that does not index the palette.
	ErrInvalidLabel = errors.New("watercolor: label out of palette range")
)

// Method picks the clustering implementation.
type Method int

const (
	MethodKMeans Method = iota
	MethodPartition
)

func (m Method) String() string {
	switch m {
	case MethodPartition:
		return "partition"
	default:
		return "kmeans"
	}
}

func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(s) {
	case "", "kmeans":
		return MethodKMeans, nil
	case "partition":
		return MethodPartition, nil
	}
	return MethodKMeans, fmt.Errorf("%w: unknown method %q", ErrInvalidConfig, s)
}

// InitMethod picks how initial centroids are chosen.
type InitMethod int

const (
	InitKMeansPlusPlus InitMethod = iota
	InitDominant
)

func (m InitMethod) String() string {
	switch m {
	case InitDominant:
		return "dominant"
	default:
		return "kmeans++"
	}
}

func ParseInitMethod(s string) (InitMethod, error) {
	switch strings.ToLower(s) {
	case "", "kmeans++":
		return InitKMeansPlusPlus, nil
	case "dominant":
		return InitDominant, nil
	}
	return InitKMeansPlusPlus, fmt.Errorf("%w: unknown init method %q", ErrInvalidConfig, s)
}

type Options struct {
	// Number of palette colours. Must not exceed the number of distinct
	// colours in the image.
	NColors int
	// Seed for centroid initialisation. Same seed and image => same output.
	Seed uint64
	// Lloyd iteration cap. Zero uses quantize.DefaultMaxIter.
	MaxIter int
	// Relative convergence tolerance. Zero uses quantize.DefaultTolerance.
	Tolerance float64
	Space     ColorSpace
	Init      InitMethod
	Method    Method
	// Overrides Method when set.
	Clusterer quantize.Clusterer
	Verbose   bool
}

func DefaultOptions() Options {
	return Options{
		NColors:   20,
		MaxIter:   quantize.DefaultMaxIter,
		Tolerance: quantize.DefaultTolerance,
	}
}

// Painter runs the quantization pipeline on one image and keeps every stage's
// output for inspection.
type Painter struct {
	InputImage image.Image
	Grid       Grid
	Pixels     *mat.Dense
	Labels     LabelGrid
	Palette    []colorful.Color
	Output     Grid
	Inertia    float64
	Iterations int
}

func NewPainter(input image.Image) *Painter {
	return &Painter{InputImage: input}
}

// Build normalizes, flattens, clusters and reconstructs the input image.
func (p *Painter) Build(opt Options) error {
	p.Grid = GridFromImage(p.InputImage)
	pixels, err := Flatten(p.Grid, p.Grid.W, p.Grid.H, p.Grid.C)
	if err != nil {
		return err
	}
	p.Pixels = pixels
	opt.Space.toSpace(p.Pixels)

	res, err := p.clusterer(opt).Fit(p.Pixels, opt.NColors)
	if err != nil {
		return err
	}
	p.Palette = opt.Space.palette(res.Centroids)
	p.Inertia = res.Inertia
	p.Iterations = res.Iterations

	p.Labels, err = UnflattenLabels(res.Labels, p.Grid.W, p.Grid.H)
	if err != nil {
		return err
	}
	p.Output, err = Reconstruct(p.Labels, p.Palette)
	return err
}

func (p *Painter) clusterer(opt Options) quantize.Clusterer {
	if opt.Clusterer != nil {
		return opt.Clusterer
	}
	if opt.Method == MethodPartition {
		return quantize.Partitioner{}
	}
	km := &quantize.KMeans{
		Seed:      opt.Seed,
		MaxIter:   opt.MaxIter,
		Tolerance: opt.Tolerance,
		Verbose:   opt.Verbose,
	}
	if opt.Init == InitDominant {
		seeds := utils.ExtractDominantPalette(p.InputImage, opt.NColors)
		if len(seeds) == 0 {
			log.Println("init warning: no dominant colors found, falling back to kmeans++")
		}
		km.Init = opt.Space.fromPalette(seeds)
	}
	return km
}

// Image returns the reconstructed image.
func (p *Painter) Image() (*image.NRGBA, error) {
	return p.Output.Image()
}

// ============ RECONSTRUCT ============

// Reconstruct paints every cell of labels with its palette colour. Positions
// are bucketed per cluster in one pass, then each cluster fills its bucket.
func Reconstruct(labels LabelGrid, palette []colorful.Color) (Grid, error) {
	if len(labels.Labels) != labels.W*labels.H {
		return Grid{}, fmt.Errorf("%w: %d labels for %dx%d", ErrShapeMismatch, len(labels.Labels), labels.W, labels.H)
	}
	buckets := make([][]int, len(palette))
	for pos, l := range labels.Labels {
		if l < 0 || l >= len(palette) {
			return Grid{}, fmt.Errorf("%w: %d at pixel %d, palette has %d colors", ErrInvalidLabel, l, pos, len(palette))
		}
		buckets[l] = append(buckets[l], pos)
	}

	out := NewGrid(labels.W, labels.H, 3)
	for k, positions := range buckets {
		c := palette[k]
		for _, pos := range positions {
			off := pos * 3
			out.Pix[off] = c.R
			out.Pix[off+1] = c.G
			out.Pix[off+2] = c.B
		}
	}
	return out, nil
}
