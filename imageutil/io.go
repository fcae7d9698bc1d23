package imageutil

import (
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp" // Register WebP decoder
)

// DecodeImage decodes an image from r. Supports PNG, JPEG, GIF, BMP, TIFF
// and WebP. The format name is returned alongside the image.
func DecodeImage(r io.Reader) (image.Image, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}
	if img.Bounds().Empty() {
		return nil, format, ErrEmptySource
	}
	return img, format, nil
}

// DecodeImageBytes decodes an image held in memory.
func DecodeImageBytes(data []byte) (image.Image, error) {
	img, _, err := DecodeImage(bytes.NewReader(data))
	return img, err
}

// LoadImage loads an image from the specified path.
func LoadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, _, err := DecodeImage(f)
	return img, err
}

// SaveImage saves an image to the specified path.
// Format is determined by file extension (png, jpg/jpeg, gif, bmp,
// tif/tiff).
func SaveImage(img image.Image, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".jpg", ".jpeg":
		return jpeg.Encode(f, img, &jpeg.Options{Quality: 95})
	case ".gif":
		return gif.Encode(f, img, nil)
	case ".bmp":
		return bmp.Encode(f, img)
	case ".tif", ".tiff":
		return tiff.Encode(f, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return png.Encode(f, img)
	}
}

// SaveGrid saves a grid as an 8-bit grayscale image, clamping samples.
func SaveGrid(g Grid, path string) error {
	return SaveImage(g.ToGray(), path)
}
