package watercolor

import (
	"errors"
	"fmt"

	"github.com/setanarut/watercolor/quantize"
)

var ErrInvalidConfig = errors.New("watercolor: invalid config")

// Config holds everything a single Run needs.
type Config struct {
	// Source image file.
	ImagePath string `json:"image_path"`
	// Destination folder for the recoloured image and swatch.
	OutputDir string `json:"output_dir"`
	// Palette size.
	NColors int `json:"n_colors"`
	// Resolution recorded in the output PNG.
	DPI int `json:"dpi"`

	Seed       uint64  `json:"seed"`
	MaxIter    int     `json:"max_iter"`
	Tolerance  float64 `json:"tolerance"`
	ColorSpace string  `json:"color_space"`
	Init       string  `json:"init"`
	Method     string  `json:"method"`

	// Also write a palette swatch next to the output.
	Swatch     bool `json:"swatch"`
	SwatchTile int  `json:"swatch_tile"`
	// Append "-{n}colors" to output names.
	TagColors bool `json:"tag_colors"`
	Verbose   bool `json:"verbose"`
}

func DefaultConfig() Config {
	opt := DefaultOptions()
	return Config{
		OutputDir:  ".",
		NColors:    opt.NColors,
		DPI:        96,
		MaxIter:    opt.MaxIter,
		Tolerance:  opt.Tolerance,
		ColorSpace: SpaceRGB.String(),
		Init:       InitKMeansPlusPlus.String(),
		Method:     MethodKMeans.String(),
		SwatchTile: 64,
		TagColors:  true,
	}
}

// Validate checks the fields that can be checked without reading the image.
func (c Config) Validate() error {
	if c.ImagePath == "" {
		return fmt.Errorf("%w: image_path is required", ErrInvalidConfig)
	}
	if c.NColors <= 0 {
		return fmt.Errorf("%w: n_colors %d must be positive", quantize.ErrInvalidColorCount, c.NColors)
	}
	if c.DPI <= 0 {
		return fmt.Errorf("%w: dpi %d must be positive", ErrInvalidConfig, c.DPI)
	}
	if c.MaxIter < 0 {
		return fmt.Errorf("%w: max_iter %d must not be negative", ErrInvalidConfig, c.MaxIter)
	}
	if c.Tolerance < 0 {
		return fmt.Errorf("%w: tolerance %g must not be negative", ErrInvalidConfig, c.Tolerance)
	}
	if c.Swatch && c.SwatchTile <= 0 {
		return fmt.Errorf("%w: swatch_tile %d must be positive", ErrInvalidConfig, c.SwatchTile)
	}
	_, err := c.Options()
	return err
}

// Options converts the clustering fields of c.
func (c Config) Options() (Options, error) {
	space, err := ParseColorSpace(c.ColorSpace)
	if err != nil {
		return Options{}, err
	}
	init, err := ParseInitMethod(c.Init)
	if err != nil {
		return Options{}, err
	}
	method, err := ParseMethod(c.Method)
	if err != nil {
		return Options{}, err
	}
	return Options{
		NColors:   c.NColors,
		Seed:      c.Seed,
		MaxIter:   c.MaxIter,
		Tolerance: c.Tolerance,
		Space:     space,
		Init:      init,
		Method:    method,
		Verbose:   c.Verbose,
	}, nil
}
