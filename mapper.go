// Package img2ascii converts raster images into animated ASCII art: grids of
// characters whose glyph, and optionally colour, encode local luminance.
package img2ascii

import (
	"math"

	"github.com/wbrown/img2ascii/imageutil"
)

// Built-in charset ramps, ordered dark to light.
const (
	RampStandard = "@%#*+=-:. "
	RampDetailed = "$@B%8&WM#*oahkbdpqwmZO0QLCJUYXzcvunxrjft/\\|()1{}[]?-_+~<>i!lI;:,\"^`'. "
	RampBlocks   = "█▓▒░ "
)

// Charset is an ordered sequence of glyphs used as a luminance lookup
// table. The mapper never reorders it; callers choose whether the ramp runs
// dark to light or light to dark.
type Charset []rune

// NewCharset splits s into runes.
func NewCharset(s string) Charset {
	return Charset([]rune(s))
}

// String returns the charset as a string.
func (cs Charset) String() string {
	return string(cs)
}

// Reverse returns a new charset with the glyph order flipped.
func (cs Charset) Reverse() Charset {
	out := make(Charset, len(cs))
	for i, r := range cs {
		out[len(cs)-1-i] = r
	}
	return out
}

// ContrastFactor returns the contrast multiplier
// 259(c+255) / (255(259-c)). It is singular at c = 259.
func ContrastFactor(contrast float64) float64 {
	return 259 * (contrast + 255) / (255 * (259 - contrast))
}

// ApplyContrastBrightness stretches lum around mid grey by the contrast
// factor, shifts it by brightness and clamps the result to [0, 255].
func ApplyContrastBrightness(lum, contrast, brightness float64) float64 {
	return imageutil.Clamp(ContrastFactor(contrast)*(lum-128)+128+brightness, 0, 255)
}

// CharIndex quantizes lum into an index of a charset of length n. The
// result is always within [0, n-1].
func CharIndex(lum float64, n int) int {
	if n <= 1 || math.IsNaN(lum) {
		return 0
	}
	idx := int(math.Floor(lum / 255 * float64(n-1)))
	if idx < 0 {
		return 0
	}
	if idx > n-1 {
		return n - 1
	}
	return idx
}

// MapToChar returns the glyph of cs selected by lum. cs must not be empty.
func MapToChar(lum float64, cs Charset) rune {
	return cs[CharIndex(lum, len(cs))]
}
