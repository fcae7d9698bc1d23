package img2ascii

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidConfig is wrapped by every error returned from
// AsciiConfig.Validate.
var ErrInvalidConfig = errors.New("invalid config")

// EdgeMode selects the optional edge rendering variant.
type EdgeMode int

const (
	// EdgeNone maps plain luminance.
	EdgeNone EdgeMode = iota
	// EdgeDoG adds a difference-of-Gaussians term to the luminance grid
	// before mapping.
	EdgeDoG
	// EdgeSobel replaces cells on a thinned Sobel edge with a glyph
	// matching the edge direction.
	EdgeSobel
)

func (m EdgeMode) String() string {
	switch m {
	case EdgeDoG:
		return "dog"
	case EdgeSobel:
		return "sobel"
	default:
		return "none"
	}
}

// ParseEdgeMode maps "none", "dog" or "sobel" to an EdgeMode.
func ParseEdgeMode(s string) (EdgeMode, error) {
	switch strings.ToLower(s) {
	case "", "none":
		return EdgeNone, nil
	case "dog":
		return EdgeDoG, nil
	case "sobel":
		return EdgeSobel, nil
	}
	return EdgeNone, fmt.Errorf("unknown edge mode %q", s)
}

// EdgeConfig parameterises the edge rendering variants.
type EdgeConfig struct {
	Mode EdgeMode

	// Sigma1 and Sigma2 are the two blur radii of the DoG; KernelSize is
	// the shared Gaussian kernel size and must be odd.
	Sigma1     float64
	Sigma2     float64
	KernelSize int
	// Gain scales the DoG term added to luminance.
	Gain float64

	// Low and High are the hysteresis thresholds on the suppressed Sobel
	// magnitude.
	Low  float64
	High float64
	// Glyphs holds the edge glyph for each angle bin, indexed by
	// imageutil.BinHorizontal..BinFalling.
	Glyphs [4]rune
}

// DefaultEdgeConfig returns an EdgeConfig with Mode EdgeNone and usable
// parameters for the other modes.
func DefaultEdgeConfig() EdgeConfig {
	return EdgeConfig{
		Mode:       EdgeNone,
		Sigma1:     1.0,
		Sigma2:     1.6,
		KernelSize: 5,
		Gain:       1.0,
		Low:        100,
		High:       200,
		// The edge line runs perpendicular to the gradient.
		Glyphs: [4]rune{'|', '/', '-', '\\'},
	}
}

// AsciiConfig is the validated per-frame configuration of the renderer.
type AsciiConfig struct {
	Cols    int
	Rows    int
	Charset Charset
	// Contrast and Brightness are nominally in [-255, 255].
	Contrast   float64
	Brightness float64
	// Gamma defaults to 1 when zero.
	Gamma     float64
	ColorMode bool
	// Sharpen applies a mild sharpening kernel to the downsampled pixels
	// before luminance mapping. Cell colours keep the unsharpened values.
	Sharpen bool
	Edge    EdgeConfig
}

// DefaultConfig returns an 80x24 grayscale configuration using
// RampStandard.
func DefaultConfig() AsciiConfig {
	return AsciiConfig{
		Cols:    80,
		Rows:    24,
		Charset: NewCharset(RampStandard),
		Gamma:   1,
		Edge:    DefaultEdgeConfig(),
	}
}

// Validate reports the first problem that would prevent a frame from being
// rendered.
func (c AsciiConfig) Validate() error {
	if c.Cols < 1 || c.Rows < 1 {
		return fmt.Errorf("%w: dimensions %dx%d must be at least 1x1", ErrInvalidConfig, c.Cols, c.Rows)
	}
	if len(c.Charset) == 0 {
		return fmt.Errorf("%w: charset is empty", ErrInvalidConfig)
	}
	if c.Gamma < 0 {
		return fmt.Errorf("%w: gamma %v must be positive", ErrInvalidConfig, c.Gamma)
	}
	if c.Contrast <= -259 || c.Contrast >= 259 {
		return fmt.Errorf("%w: contrast %v outside (-259, 259)", ErrInvalidConfig, c.Contrast)
	}
	switch c.Edge.Mode {
	case EdgeNone:
	case EdgeDoG:
		if !(c.Edge.Sigma1 > 0) || !(c.Edge.Sigma2 > 0) {
			return fmt.Errorf("%w: DoG sigmas must be positive", ErrInvalidConfig)
		}
		if c.Edge.KernelSize < 1 || c.Edge.KernelSize%2 == 0 {
			return fmt.Errorf("%w: kernel size %d must be odd", ErrInvalidConfig, c.Edge.KernelSize)
		}
	case EdgeSobel:
		if c.Edge.Low > c.Edge.High {
			return fmt.Errorf("%w: edge low threshold above high threshold", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown edge mode %d", ErrInvalidConfig, c.Edge.Mode)
	}
	return nil
}

// gamma returns the effective gamma.
func (c AsciiConfig) gamma() float64 {
	if c.Gamma == 0 {
		return 1
	}
	return c.Gamma
}
