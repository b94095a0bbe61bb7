package watercolor

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/setanarut/watercolor/utils"
)

type Result struct {
	OutputPath string
	SwatchPath string
	Palette    []colorful.Color
	Inertia    float64
	Iterations int
}

// Run loads cfg.ImagePath, recolours it and writes the result into
// cfg.OutputDir. Nothing is written unless every stage succeeds.
func Run(cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	opt, err := cfg.Options()
	if err != nil {
		return nil, err
	}

	img, err := utils.ReadImage(cfg.ImagePath)
	if err != nil {
		return nil, err
	}

	p := NewPainter(img)
	if err := p.Build(opt); err != nil {
		return nil, fmt.Errorf("watercolor %s: %w", cfg.ImagePath, err)
	}

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	n := 0
	if cfg.TagColors {
		n = cfg.NColors
	}
	res := &Result{
		OutputPath: filepath.Join(cfg.OutputDir, MakeName(cfg.ImagePath, n)),
		Palette:    p.Palette,
		Inertia:    p.Inertia,
		Iterations: p.Iterations,
	}
	out, err := p.Image()
	if err != nil {
		return nil, err
	}
	if err := utils.SaveImage(out, res.OutputPath, cfg.DPI); err != nil {
		return nil, err
	}

	if cfg.Swatch {
		res.SwatchPath = filepath.Join(cfg.OutputDir, SwatchName(cfg.ImagePath, n))
		swatch := make([]colorful.Color, len(p.Palette))
		copy(swatch, p.Palette)
		utils.SortPaletteByBrightness(swatch)
		if err := utils.SavePalette(swatch, cfg.SwatchTile, res.SwatchPath, cfg.DPI); err != nil {
			return nil, err
		}
	}
	return res, nil
}
