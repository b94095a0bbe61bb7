package utils

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"slices"

	"github.com/cenkalti/dominantcolor"
	"github.com/lucasb-eyer/go-colorful"
)

type weightedColor struct {
	Col    colorful.Color
	Weight float64
}

// SortPaletteByBrightness orders colors from darkest to brightest by
// relative luminance.
func SortPaletteByBrightness(palette []colorful.Color) {
	slices.SortStableFunc(palette, func(a, b colorful.Color) int {
		ri, gi, bi := a.LinearRgb()
		rj, gj, bj := b.LinearRgb()
		yi := 0.2126*ri + 0.7152*gi + 0.0722*bi
		yj := 0.2126*rj + 0.7152*gj + 0.0722*bj
		if yi < yj {
			return -1
		}
		if yi > yj {
			return 1
		}
		return 0
	})
}

// ExtractDominantPalette picks up to k well separated colors among the
// image's dominant colors, strongest first.
func ExtractDominantPalette(img image.Image, k int) []colorful.Color {
	if k <= 0 {
		return nil
	}

	nCandidates := max(24, k*8)
	candidates := dominantcolor.FindWeight(img, nCandidates)
	if len(candidates) == 0 {
		return nil
	}

	weighted := make([]weightedColor, 0, len(candidates))
	for _, c := range candidates {
		col, _ := colorful.MakeColor(c.RGBA)
		weighted = append(weighted, weightedColor{Col: col.Clamped(), Weight: c.Weight})
	}
	return SelectDiverseWeightedColors(weighted, k)
}

// SelectDiverseWeightedColors greedily picks k colors, starting from the
// heaviest and then maximizing Lab distance to the picks so far scaled by
// weight.
func SelectDiverseWeightedColors(cands []weightedColor, k int) []colorful.Color {
	if k <= 0 || len(cands) == 0 {
		return nil
	}
	type item struct {
		col colorful.Color
		lab [3]float64
		w   float64
	}
	items := make([]item, 0, len(cands))
	maxW := 0.0
	for _, c := range cands {
		col := c.Col.Clamped()
		l, a, b := col.Lab()
		w := c.Weight
		if w <= 0 {
			w = 1e-6
		}
		maxW = max(maxW, w)
		items = append(items, item{col: col, lab: [3]float64{l, a, b}, w: w})
	}
	k = min(k, len(items))

	selectedIdx := make([]int, 0, k)
	selected := make([]bool, len(items))

	bestSeed := 0
	for i := 1; i < len(items); i++ {
		if items[i].w > items[bestSeed].w {
			bestSeed = i
		}
	}
	selectedIdx = append(selectedIdx, bestSeed)
	selected[bestSeed] = true

	for len(selectedIdx) < k {
		bestIdx := -1
		bestScore := 0.0
		for i := range items {
			if selected[i] {
				continue
			}
			minD2 := math.MaxFloat64
			for _, s := range selectedIdx {
				d0 := items[i].lab[0] - items[s].lab[0]
				d1 := items[i].lab[1] - items[s].lab[1]
				d2 := items[i].lab[2] - items[s].lab[2]
				minD2 = min(minD2, d0*d0+d1*d1+d2*d2)
			}
			score := math.Sqrt(minD2) * (0.55 + 0.45*math.Sqrt(items[i].w/maxW))
			// Identical colors add nothing as separate picks.
			if score > bestScore {
				bestScore = score
				bestIdx = i
			}
		}
		if bestIdx < 0 {
			break
		}
		selected[bestIdx] = true
		selectedIdx = append(selectedIdx, bestIdx)
	}

	out := make([]colorful.Color, 0, len(selectedIdx))
	for _, idx := range selectedIdx {
		out = append(out, items[idx].col)
	}
	return out
}

// PaletteImage lays the palette out as a row of square tiles.
func PaletteImage(palette []colorful.Color, tileSize int) (*image.RGBA, error) {
	if len(palette) == 0 {
		return nil, fmt.Errorf("empty palette")
	}
	if tileSize <= 0 {
		tileSize = 64
	}

	w := tileSize * len(palette)
	h := tileSize
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i, c := range palette {
		r, g, b := c.Clamped().RGB255()
		x0 := i * tileSize
		for y := range h {
			for x := x0; x < x0+tileSize; x++ {
				img.SetRGBA(x, y, color.RGBA{R: r, G: g, B: b, A: 255})
			}
		}
	}
	return img, nil
}

// SavePalette writes the palette swatch as a PNG.
func SavePalette(palette []colorful.Color, tileSize int, filename string, dpi int) error {
	img, err := PaletteImage(palette, tileSize)
	if err != nil {
		return err
	}
	return SaveImage(img, filename, dpi)
}
