package img2ascii

import (
	"errors"
	"image"
	"math"
	"time"

	"github.com/wbrown/img2ascii/imageutil"
)

// ProgressFunc receives the fraction of rows completed, in [0, 1]. Values
// never decrease within one frame and the last call reports exactly 1.
type ProgressFunc func(value float64)

// progressSteps is the number of progress notifications per frame, not
// counting the final one.
const progressSteps = 10

// Renderer encapsulates the state for turning images into ASCII frames:
// the downsampler with its reusable scratch buffer, the clock used for
// frame timestamps, and statistics. A Renderer is not safe for concurrent
// use; give each goroutine its own.
type Renderer struct {
	Interpolation imageutil.Interpolation

	downsampler *imageutil.Downsampler
	now         func() time.Time

	// Stats (private)
	beginInitTime  time.Time
	framesRendered int
	renderTime     time.Duration
}

// RendererOption is a functional option for configuring a Renderer.
type RendererOption func(*Renderer)

// NewRenderer creates a new Renderer with the given options.
// Default values: Interpolation=InterpolationLinear, clock=time.Now.
func NewRenderer(opts ...RendererOption) *Renderer {
	r := &Renderer{
		Interpolation: imageutil.InterpolationLinear,
		now:           time.Now,
		beginInitTime: time.Now(),
	}

	for _, opt := range opts {
		opt(r)
	}

	r.downsampler = imageutil.NewDownsampler(r.Interpolation)
	return r
}

// WithInterpolation sets the resampling method of the downsampler.
func WithInterpolation(interp imageutil.Interpolation) RendererOption {
	return func(r *Renderer) {
		r.Interpolation = interp
	}
}

// WithClock sets the clock used to timestamp frames.
func WithClock(now func() time.Time) RendererOption {
	return func(r *Renderer) {
		r.now = now
	}
}

// Render renders a decoded image as frame 0 without progress reporting.
func (r *Renderer) Render(img image.Image, cfg AsciiConfig) (*AsciiFrame, error) {
	return r.RenderFrame(FromImage(img), cfg, 0, nil)
}

// RenderFrame renders one frame from src. The configuration is validated
// first; then the source is decoded, downsampled to cfg.Cols x cfg.Rows and
// released before any per-cell work starts. Errors are returned instead of
// a partial frame; a source that cannot be decoded yields an
// *ImageDecodeError.
func (r *Renderer) RenderFrame(src ImageSource, cfg AsciiConfig, index int, progress ProgressFunc) (*AsciiFrame, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	begin := time.Now()
	img, err := src.Decode()
	if err != nil {
		src.Release()
		var de *ImageDecodeError
		if !errors.As(err, &de) {
			err = &ImageDecodeError{Source: src.Name(), Err: err}
		}
		return nil, err
	}

	buf, err := r.downsampler.Scale(img, cfg.Cols, cfg.Rows)
	src.Release()
	if err != nil {
		if errors.Is(err, imageutil.ErrEmptySource) {
			return nil, &ImageDecodeError{Source: src.Name(), Err: err}
		}
		return nil, err
	}

	frame := r.RenderPixels(buf, cfg, index, progress)
	r.framesRendered++
	r.renderTime += time.Since(begin)
	return frame, nil
}

// RenderPixels maps an already downsampled buffer to a frame. The buffer
// dimensions define the grid; cfg.Cols and cfg.Rows are ignored.
func (r *Renderer) RenderPixels(buf *imageutil.RGBAImage, cfg AsciiConfig, index int, progress ProgressFunc) *AsciiFrame {
	// Colours come from the unsharpened pixels
	raw := buf
	if cfg.Sharpen {
		buf = imageutil.Sharpen(buf)
	}

	cols, rows := buf.Width(), buf.Height()
	gamma := cfg.gamma()
	edges := prepareEdges(buf, cfg)

	chars := make([][]rune, rows)
	var colors [][]string
	if cfg.ColorMode {
		colors = make([][]string, rows)
	}

	step := int(math.Ceil(float64(rows) / progressSteps))
	for y := 0; y < rows; y++ {
		chars[y] = make([]rune, cols)
		if colors != nil {
			colors[y] = make([]string, cols)
		}
		for x := 0; x < cols; x++ {
			c := buf.GetRGB(x, y)
			if glyph, ok := edges.glyphAt(x, y); ok {
				chars[y][x] = glyph
			} else {
				lum := edges.luminanceAt(x, y, c, gamma)
				lum = ApplyContrastBrightness(lum, cfg.Contrast, cfg.Brightness)
				chars[y][x] = MapToChar(lum, cfg.Charset)
			}
			if colors != nil {
				colors[y][x] = raw.GetRGB(x, y).Hex()
			}
		}
		if progress != nil && ((y+1)%step == 0 || y == rows-1) {
			progress(float64(y+1) / float64(rows))
		}
	}

	return &AsciiFrame{
		Index:     index,
		Chars:     chars,
		Colors:    colors,
		Timestamp: timestampOf(r.now()),
	}
}

// edgeLayer carries the optional per-frame edge data consulted by the
// per-cell loop.
type edgeLayer struct {
	// lum replaces the per-cell luminance when set (DoG mode).
	lum imageutil.Grid
	// mask and angle mark directional edge cells (Sobel mode).
	mask   [][]bool
	angle  imageutil.Grid
	glyphs [4]rune
}

func prepareEdges(buf *imageutil.RGBAImage, cfg AsciiConfig) edgeLayer {
	ec := cfg.Edge
	switch ec.Mode {
	case EdgeDoG:
		gray := imageutil.ToGrayscale(buf, cfg.gamma())
		dog := imageutil.DifferenceOfGaussians2D(gray, ec.Sigma1, ec.Sigma2, ec.KernelSize)
		gain := ec.Gain
		if gain == 0 {
			gain = 1
		}
		for y := range gray {
			for x := range gray[y] {
				gray[y][x] += gain * dog[y][x]
			}
		}
		return edgeLayer{lum: gray}
	case EdgeSobel:
		gray := imageutil.ToGrayscale(buf, cfg.gamma())
		field := imageutil.ApplySobel2D(gray)
		suppressed := imageutil.NonMaxSuppression(field)
		glyphs := ec.Glyphs
		if glyphs == ([4]rune{}) {
			glyphs = DefaultEdgeConfig().Glyphs
		}
		return edgeLayer{
			mask:   imageutil.Hysteresis(suppressed, ec.Low, ec.High),
			angle:  field.Angle,
			glyphs: glyphs,
		}
	}
	return edgeLayer{}
}

func (e edgeLayer) glyphAt(x, y int) (rune, bool) {
	if e.mask == nil || !e.mask[y][x] {
		return 0, false
	}
	return e.glyphs[imageutil.AngleBin(e.angle[y][x])], true
}

func (e edgeLayer) luminanceAt(x, y int, c imageutil.RGB, gamma float64) float64 {
	if e.lum != nil {
		return e.lum[y][x]
	}
	return c.Luminance(gamma)
}

// FramesRendered returns the number of frames produced since the last
// ResetStats.
func (r *Renderer) FramesRendered() int {
	return r.framesRendered
}

// RenderTime returns the cumulative time spent in RenderFrame.
func (r *Renderer) RenderTime() time.Duration {
	return r.renderTime
}

// Uptime returns the time since the renderer was created or its stats were
// last reset.
func (r *Renderer) Uptime() time.Duration {
	return time.Since(r.beginInitTime)
}

// ResetStats resets all statistics counters.
func (r *Renderer) ResetStats() {
	r.framesRendered = 0
	r.renderTime = 0
	r.beginInitTime = time.Now()
}
