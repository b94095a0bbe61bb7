package main

import (
	"errors"
	"flag"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"github.com/setanarut/watercolor"
	"github.com/setanarut/watercolor/internal/config"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "JSON config file (default ~/.config/watercolor/config.json if present)")

	def := watercolor.DefaultConfig()
	in := flag.String("in", "", "input image path (jpg/png/gif/webp/bmp/tiff)")
	out := flag.String("out", def.OutputDir, "output directory")
	colors := flag.Int("colors", def.NColors, "number of palette colors")
	dpi := flag.Int("dpi", def.DPI, "resolution recorded in the output PNG")
	seed := flag.Uint64("seed", def.Seed, "random seed for centroid initialisation")
	space := flag.String("space", def.ColorSpace, "clustering color space: rgb|lab")
	initMethod := flag.String("init", def.Init, "centroid initialisation: kmeans++|dominant")
	method := flag.String("method", def.Method, "clustering method: kmeans|partition")
	swatch := flag.Bool("swatch", def.Swatch, "also write a palette swatch")
	verbose := flag.Bool("v", def.Verbose, "log clustering progress")
	flag.Parse()

	cfg := def
	path := configPath
	if path == "" {
		path = config.DefaultPath()
	}
	loaded, err := config.Load(path)
	switch {
	case err == nil:
		cfg = loaded
		log.Printf("using config %s", path)
	case configPath != "" || !errors.Is(err, fs.ErrNotExist):
		log.Fatal(err)
	}

	// Explicit flags win over the config file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "in":
			cfg.ImagePath = *in
		case "out":
			cfg.OutputDir = *out
		case "colors":
			cfg.NColors = *colors
		case "dpi":
			cfg.DPI = *dpi
		case "seed":
			cfg.Seed = *seed
		case "space":
			cfg.ColorSpace = *space
		case "init":
			cfg.Init = *initMethod
		case "method":
			cfg.Method = *method
		case "swatch":
			cfg.Swatch = *swatch
		case "v":
			cfg.Verbose = *verbose
		}
	})
	if cfg.ImagePath == "" {
		log.Fatalf("usage: %s -in photo.jpg [-out dir] [-colors 20] [-dpi 96] [-space rgb|lab] [-init kmeans++|dominant] [-method kmeans|partition] [-swatch]", filepath.Base(os.Args[0]))
	}

	res, err := watercolor.Run(cfg)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("palette (%d colors, inertia=%.4f, %d iterations)", len(res.Palette), res.Inertia, res.Iterations)
	for i, c := range res.Palette {
		log.Printf("  %2d %s", i, c.Hex())
	}
	log.Printf("wrote %s", res.OutputPath)
	if res.SwatchPath != "" {
		log.Printf("wrote %s", res.SwatchPath)
	}
}
