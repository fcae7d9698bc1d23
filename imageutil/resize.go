package imageutil

import (
	"errors"
	"fmt"
	"image"

	"github.com/nfnt/resize"
	"golang.org/x/image/draw"
)

// Interpolation specifies the resampling method used by the downsampler.
type Interpolation int

const (
	// InterpolationLinear uses bilinear interpolation. This is the
	// default for the ASCII pipeline.
	InterpolationLinear Interpolation = iota

	// InterpolationApproxLinear is a faster, lower quality bilinear.
	InterpolationApproxLinear

	// InterpolationArea uses Catmull-Rom, the closest equivalent to
	// OpenCV's INTER_AREA for downscaling.
	InterpolationArea

	// InterpolationNearest uses nearest-neighbor interpolation.
	// Fastest but lowest quality.
	InterpolationNearest

	// InterpolationLanczos uses a Lanczos3 filter. Sharpest, and slowest
	// since it allocates a new image per call.
	InterpolationLanczos
)

// ErrEmptySource is returned when the source image has no pixels.
var ErrEmptySource = errors.New("imageutil: source image is empty")

// ParseInterpolation maps a name ("bilinear", "approx", "area",
// "nearest", "lanczos") to an Interpolation.
func ParseInterpolation(name string) (Interpolation, error) {
	switch name {
	case "", "bilinear", "linear":
		return InterpolationLinear, nil
	case "approx", "approxbilinear":
		return InterpolationApproxLinear, nil
	case "area", "catmullrom":
		return InterpolationArea, nil
	case "nearest":
		return InterpolationNearest, nil
	case "lanczos", "lanczos3":
		return InterpolationLanczos, nil
	}
	return 0, fmt.Errorf("unknown interpolation %q", name)
}

func (i Interpolation) scaler() draw.Scaler {
	switch i {
	case InterpolationApproxLinear:
		return draw.ApproxBiLinear
	case InterpolationArea:
		return draw.CatmullRom
	case InterpolationNearest:
		return draw.NearestNeighbor
	case InterpolationLanczos:
		return lanczosScaler{}
	default:
		return draw.BiLinear
	}
}

// lanczosScaler adapts nfnt/resize to the draw.Scaler interface.
type lanczosScaler struct{}

func (lanczosScaler) Scale(dst draw.Image, dr image.Rectangle, src image.Image, sr image.Rectangle, op draw.Op, _ *draw.Options) {
	if sr != src.Bounds() {
		if sub, ok := src.(interface {
			SubImage(image.Rectangle) image.Image
		}); ok {
			src = sub.SubImage(sr)
		}
	}
	scaled := resize.Resize(uint(dr.Dx()), uint(dr.Dy()), src, resize.Lanczos3)
	draw.Draw(dst, dr, scaled, scaled.Bounds().Min, op)
}

// Downsampler scales arbitrary images into a cols x rows pixel buffer.
// It owns a scratch buffer that is reused between calls while the target
// size stays the same, so a Downsampler must not be shared between
// goroutines.
type Downsampler struct {
	Interpolation Interpolation
	scratch       *RGBAImage
}

// NewDownsampler creates a Downsampler using the given interpolation.
func NewDownsampler(interp Interpolation) *Downsampler {
	return &Downsampler{Interpolation: interp}
}

// Scale draws src scaled into a cols x rows raster and returns it. The
// returned buffer is owned by the Downsampler and is only valid until the
// next call to Scale.
func (d *Downsampler) Scale(src image.Image, cols, rows int) (*RGBAImage, error) {
	if cols <= 0 || rows <= 0 {
		return nil, fmt.Errorf("invalid target size %dx%d", cols, rows)
	}
	if src == nil || src.Bounds().Empty() {
		return nil, ErrEmptySource
	}

	if d.scratch == nil || d.scratch.Width() != cols || d.scratch.Height() != rows {
		d.scratch = NewRGBAImage(cols, rows)
	}

	// draw.Src overwrites every destination pixel, so the scratch buffer
	// does not need clearing between frames.
	dstRect := image.Rect(0, 0, cols, rows)
	d.Interpolation.scaler().Scale(d.scratch.RGBA, dstRect, src, src.Bounds(), draw.Src, nil)
	return d.scratch, nil
}

// Resize resizes an RGBA image to the specified dimensions into a freshly
// allocated buffer.
func Resize(img *RGBAImage, width, height int, interp Interpolation) *RGBAImage {
	dst := NewRGBAImage(width, height)
	interp.scaler().Scale(dst.RGBA, dst.Bounds(), img.RGBA, img.Bounds(), draw.Src, nil)
	return dst
}

// RowsForWidth returns the number of rows that keeps the aspect ratio of a
// srcWidth x srcHeight image at the given column count, where cellAspect
// is the height/width ratio of one character cell. The result is at
// least 1.
func RowsForWidth(srcWidth, srcHeight, cols int, cellAspect float64) int {
	if srcWidth <= 0 || srcHeight <= 0 || cols <= 0 {
		return 1
	}
	if cellAspect <= 0 {
		cellAspect = 1
	}
	rows := int(float64(cols) * float64(srcHeight) / float64(srcWidth) / cellAspect)
	if rows < 1 {
		rows = 1
	}
	return rows
}
