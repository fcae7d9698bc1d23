package img2ascii

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/wbrown/img2ascii/imageutil"
)

// Fields every studio config must carry, even if null.
var requiredStudioFields = []string{
	"charset",
	"contrastStart",
	"contrastEnd",
	"brightnessStart",
	"brightnessEnd",
	"colorMode",
	"font",
	"frames",
}

// DefaultCols is the grid width used when a studio config has no cols.
const DefaultCols = 80

// Upper bounds on the frame count and grid dimensions of a studio config.
const (
	MaxFrames   = 10000
	MaxGridSize = 4096
)

// ConfigSchemaError reports a studio config that is missing a required
// field or carries a field of the wrong shape. No frame is rendered for
// such a config.
type ConfigSchemaError struct {
	Field  string
	Reason string
}

func (e *ConfigSchemaError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("config: missing required field %q", e.Field)
	}
	return fmt.Sprintf("config: field %q: %s", e.Field, e.Reason)
}

// StudioConfig is the normalized animation configuration. Contrast and
// brightness run linearly from their Start to their End value across
// Frames frames.
type StudioConfig struct {
	Charset         Charset
	ContrastStart   float64
	ContrastEnd     float64
	BrightnessStart float64
	BrightnessEnd   float64
	ColorMode       bool
	// Font names the font whose cell aspect shapes the grid; empty selects
	// the embedded monospace font.
	Font   string
	Frames int

	// Cols defaults to DefaultCols. Rows of zero is derived from the image
	// and font aspect at animation time.
	Cols int
	Rows int
	// Gamma defaults to 1; a null gamma becomes 0, which the renderer
	// also treats as 1.
	Gamma float64
	// FPS is the suggested playback rate, 0 if unspecified.
	FPS     float64
	Sharpen bool
	Edge    EdgeConfig
}

// LoadStudioConfig reads and parses a studio config file.
func LoadStudioConfig(path string) (StudioConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return StudioConfig{}, fmt.Errorf("failed to read config: %w", err)
	}
	return ParseStudioConfig(data)
}

// ParseStudioConfig parses and normalizes a studio config. Every required
// field must be present; a missing one yields a *ConfigSchemaError. Null
// numeric fields become 0 and a null colorMode becomes false. colorMode
// may be a boolean or one of "color" and "grayscale".
func ParseStudioConfig(data []byte) (StudioConfig, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return StudioConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	for _, field := range requiredStudioFields {
		if _, ok := raw[field]; !ok {
			return StudioConfig{}, &ConfigSchemaError{Field: field}
		}
	}

	p := studioParser{raw: raw}
	cfg := StudioConfig{
		ContrastStart:   p.number("contrastStart", 0),
		ContrastEnd:     p.number("contrastEnd", 0),
		BrightnessStart: p.number("brightnessStart", 0),
		BrightnessEnd:   p.number("brightnessEnd", 0),
		ColorMode:       p.colorMode("colorMode"),
		Font:            p.str("font"),
		Frames:          p.integer("frames", 0),
		Cols:            p.integer("cols", DefaultCols),
		Rows:            p.integer("rows", 0),
		Gamma:           p.number("gamma", 1),
		FPS:             p.number("fps", 0),
		Sharpen:         p.boolean("sharpen"),
		Edge:            DefaultEdgeConfig(),
	}
	cfg.Charset = NewCharset(p.str("charset"))

	if mode := p.str("edgeMode"); mode != "" && p.err == nil {
		m, err := ParseEdgeMode(mode)
		if err != nil {
			p.fail("edgeMode", err.Error())
		}
		cfg.Edge.Mode = m
	}
	cfg.Edge.Sigma1 = p.number("sigma1", cfg.Edge.Sigma1)
	cfg.Edge.Sigma2 = p.number("sigma2", cfg.Edge.Sigma2)
	cfg.Edge.KernelSize = p.integer("kernelSize", cfg.Edge.KernelSize)
	cfg.Edge.Gain = p.number("edgeGain", cfg.Edge.Gain)
	cfg.Edge.Low = p.number("edgeLow", cfg.Edge.Low)
	cfg.Edge.High = p.number("edgeHigh", cfg.Edge.High)

	if p.err != nil {
		return StudioConfig{}, p.err
	}
	if cfg.Cols == 0 {
		cfg.Cols = DefaultCols
	}

	switch {
	case len(cfg.Charset) == 0:
		return StudioConfig{}, &ConfigSchemaError{Field: "charset", Reason: "must not be empty"}
	case cfg.Frames < 1:
		return StudioConfig{}, &ConfigSchemaError{Field: "frames", Reason: "must be at least 1"}
	case cfg.Frames > MaxFrames:
		return StudioConfig{}, &ConfigSchemaError{Field: "frames", Reason: fmt.Sprintf("must be at most %d", MaxFrames)}
	case cfg.Cols < 1:
		return StudioConfig{}, &ConfigSchemaError{Field: "cols", Reason: "must be at least 1"}
	case cfg.Cols > MaxGridSize:
		return StudioConfig{}, &ConfigSchemaError{Field: "cols", Reason: fmt.Sprintf("must be at most %d", MaxGridSize)}
	case cfg.Rows < 0:
		return StudioConfig{}, &ConfigSchemaError{Field: "rows", Reason: "must not be negative"}
	case cfg.Rows > MaxGridSize:
		return StudioConfig{}, &ConfigSchemaError{Field: "rows", Reason: fmt.Sprintf("must be at most %d", MaxGridSize)}
	case cfg.Gamma < 0 || math.IsNaN(cfg.Gamma):
		return StudioConfig{}, &ConfigSchemaError{Field: "gamma", Reason: "must be positive"}
	}
	return cfg, nil
}

// T returns the interpolation parameter of frame i: i/(Frames-1), or 0
// for a single frame.
func (s StudioConfig) T(i int) float64 {
	if s.Frames <= 1 {
		return 0
	}
	return float64(i) / float64(s.Frames-1)
}

// FrameConfig returns the renderer configuration of frame i with contrast
// and brightness interpolated between their start and end values.
func (s StudioConfig) FrameConfig(i int) AsciiConfig {
	t := s.T(i)
	return AsciiConfig{
		Cols:       s.Cols,
		Rows:       s.Rows,
		Charset:    s.Charset,
		Contrast:   imageutil.Interpolate(s.ContrastStart, s.ContrastEnd, t),
		Brightness: imageutil.Interpolate(s.BrightnessStart, s.BrightnessEnd, t),
		Gamma:      s.Gamma,
		ColorMode:  s.ColorMode,
		Sharpen:    s.Sharpen,
		Edge:       s.Edge,
	}
}

// studioParser decodes individual fields, remembering the first error.
// Absent fields yield the supplied default and null fields yield zero.
type studioParser struct {
	raw map[string]json.RawMessage
	err error
}

func (p *studioParser) fail(field, reason string) {
	if p.err == nil {
		p.err = &ConfigSchemaError{Field: field, Reason: reason}
	}
}

// value returns the raw field, or nil if it is absent or null.
func (p *studioParser) value(field string) json.RawMessage {
	v, ok := p.raw[field]
	if !ok || bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
		return nil
	}
	return v
}

func (p *studioParser) number(field string, def float64) float64 {
	v := p.value(field)
	if v == nil {
		if _, present := p.raw[field]; present {
			return 0
		}
		return def
	}
	var f float64
	if err := json.Unmarshal(v, &f); err != nil {
		p.fail(field, "must be a number")
		return def
	}
	return f
}

func (p *studioParser) integer(field string, def int) int {
	v := p.value(field)
	if v == nil {
		if _, present := p.raw[field]; present {
			return 0
		}
		return def
	}
	var f float64
	if err := json.Unmarshal(v, &f); err != nil || f != math.Trunc(f) {
		p.fail(field, "must be an integer")
		return def
	}
	if math.Abs(f) > math.MaxInt32 {
		p.fail(field, "out of range")
		return def
	}
	return int(f)
}

func (p *studioParser) str(field string) string {
	v := p.value(field)
	if v == nil {
		return ""
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		p.fail(field, "must be a string")
	}
	return s
}

func (p *studioParser) boolean(field string) bool {
	v := p.value(field)
	if v == nil {
		return false
	}
	var b bool
	if err := json.Unmarshal(v, &b); err != nil {
		p.fail(field, "must be a boolean")
	}
	return b
}

func (p *studioParser) colorMode(field string) bool {
	v := p.value(field)
	if v == nil {
		return false
	}
	var b bool
	if err := json.Unmarshal(v, &b); err == nil {
		return b
	}
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		switch strings.ToLower(s) {
		case "color", "colour":
			return true
		case "grayscale", "greyscale", "mono":
			return false
		}
	}
	p.fail(field, `must be a boolean, "color" or "grayscale"`)
	return false
}
