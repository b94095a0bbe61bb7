package utils

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrInputNotFound is returned when the source image is missing or cannot be
// decoded.
var ErrInputNotFound = errors.New("input image not found or unreadable")

// ReadImage opens an image file, applying any EXIF orientation.
func ReadImage(path string) (image.Image, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInputNotFound, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrInputNotFound, path)
	}

	if img, err := imaging.Open(path, imaging.AutoOrientation(true)); err == nil {
		return img, nil
	}

	// Fallback: explicit WebP decode, then whatever decoders are registered.
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInputNotFound, err)
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".webp") {
		if img, err := webp.Decode(f); err == nil {
			return img, nil
		}
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInputNotFound, err)
		}
	}
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: decode %s: %w", ErrInputNotFound, path, err)
	}
	return img, nil
}

// SaveImage writes img as a PNG tagged with dpi. The file is written under a
// temporary name and renamed into place, so a failed save leaves nothing
// behind.
func SaveImage(img image.Image, filename string, dpi int) error {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return fmt.Errorf("encode %s: %w", filename, err)
	}
	data, err := SetPNGDensity(buf.Bytes(), dpi)
	if err != nil {
		return fmt.Errorf("encode %s: %w", filename, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(filename), "."+filepath.Base(filename)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	// CreateTemp makes owner-only files; outputs are meant to be shared.
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", filename, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", filename, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write %s: %w", filename, err)
	}
	return os.Rename(tmp.Name(), filename)
}
