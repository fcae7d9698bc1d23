package img2ascii

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// animationFile is the on-disk form of an Animation.
type animationFile struct {
	Cols   int           `json:"cols"`
	Rows   int           `json:"rows"`
	FPS    float64       `json:"fps,omitempty"`
	Frames []*AsciiFrame `json:"frames"`
}

// WriteAnimation encodes anim as JSON to w.
func WriteAnimation(w io.Writer, anim *Animation) error {
	enc := json.NewEncoder(w)
	return enc.Encode(animationFile{
		Cols:   anim.Cols,
		Rows:   anim.Rows,
		FPS:    anim.FPS,
		Frames: anim.Frames,
	})
}

// ReadAnimation decodes an animation written by WriteAnimation.
func ReadAnimation(r io.Reader) (*Animation, error) {
	var af animationFile
	if err := json.NewDecoder(r).Decode(&af); err != nil {
		return nil, fmt.Errorf("failed to decode animation: %w", err)
	}
	for i, f := range af.Frames {
		if f == nil {
			return nil, fmt.Errorf("animation frame %d is null", i)
		}
		if err := f.checkShape(af.Cols, af.Rows); err != nil {
			return nil, fmt.Errorf("animation frame %d: %w", i, err)
		}
	}
	return &Animation{Frames: af.Frames, Cols: af.Cols, Rows: af.Rows, FPS: af.FPS}, nil
}

// compressed reports whether path names a zstd compressed file.
func compressed(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), ".zst")
}

// SaveAnimation writes anim to path, compressed with zstd when the path
// ends in ".zst".
func SaveAnimation(anim *Animation, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	if !compressed(path) {
		if err := WriteAnimation(f, anim); err != nil {
			return err
		}
		return f.Close()
	}

	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	if err != nil {
		return err
	}
	if err := WriteAnimation(enc, anim); err != nil {
		enc.Close()
		return err
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to flush zstd stream: %w", err)
	}
	return f.Close()
}

// LoadAnimation reads an animation saved by SaveAnimation.
func LoadAnimation(path string) (*Animation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open animation: %w", err)
	}
	defer f.Close()

	if !compressed(path) {
		return ReadAnimation(f)
	}

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	return ReadAnimation(dec)
}
