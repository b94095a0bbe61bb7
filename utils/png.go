package utils

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
	"math"
)

var pngSignature = []byte("\x89PNG\r\n\x1a\n")

const (
	metresPerInch = 0.0254
	maxChunkLen   = 1<<31 - 1
)

// SetPNGDensity inserts a pHYs chunk after IHDR recording dpi in both
// directions. dpi <= 0 returns the data unchanged.
func SetPNGDensity(data []byte, dpi int) ([]byte, error) {
	if dpi <= 0 {
		return data, nil
	}
	if !bytes.HasPrefix(data, pngSignature) {
		return nil, errors.New("png: bad signature")
	}
	// IHDR is always first: 4 length + 4 type + 13 data + 4 crc.
	ihdrEnd := len(pngSignature) + 25
	if len(data) < ihdrEnd || string(data[len(pngSignature)+4:len(pngSignature)+8]) != "IHDR" {
		return nil, errors.New("png: missing IHDR")
	}

	ppm := uint32(math.Round(float64(dpi) / metresPerInch))
	chunk := make([]byte, 0, 21)
	chunk = binary.BigEndian.AppendUint32(chunk, 9)
	chunk = append(chunk, "pHYs"...)
	chunk = binary.BigEndian.AppendUint32(chunk, ppm)
	chunk = binary.BigEndian.AppendUint32(chunk, ppm)
	chunk = append(chunk, 1) // unit: metre
	chunk = binary.BigEndian.AppendUint32(chunk, crc32.ChecksumIEEE(chunk[4:]))

	out := make([]byte, 0, len(data)+len(chunk))
	out = append(out, data[:ihdrEnd]...)
	out = append(out, chunk...)
	out = append(out, data[ihdrEnd:]...)
	return out, nil
}

// PNGDensity reads the horizontal resolution from a PNG's pHYs chunk.
// ok is false when the image carries no metre-based density.
func PNGDensity(r io.Reader) (dpi int, ok bool, err error) {
	sig := make([]byte, len(pngSignature))
	if _, err := io.ReadFull(r, sig); err != nil {
		return 0, false, err
	}
	if !bytes.Equal(sig, pngSignature) {
		return 0, false, errors.New("png: bad signature")
	}
	var head [8]byte
	for {
		if _, err := io.ReadFull(r, head[:]); err != nil {
			return 0, false, err
		}
		n := binary.BigEndian.Uint32(head[:4])
		if n > maxChunkLen {
			return 0, false, fmt.Errorf("png: chunk length %d exceeds %d", n, maxChunkLen)
		}
		switch string(head[4:]) {
		case "pHYs":
			if n != 9 {
				return 0, false, nil
			}
			var body [13]byte // data + crc
			if _, err := io.ReadFull(r, body[:]); err != nil {
				return 0, false, err
			}
			if body[8] != 1 {
				return 0, false, nil
			}
			ppm := binary.BigEndian.Uint32(body[:4])
			return int(math.Round(float64(ppm) * metresPerInch)), true, nil
		case "IDAT", "IEND":
			return 0, false, nil
		default:
			if _, err := io.CopyN(io.Discard, r, int64(n)+4); err != nil {
				return 0, false, err
			}
		}
	}
}
