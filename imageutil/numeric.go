package imageutil

import (
	"fmt"
	"math"
)

// BT.709 luma coefficients.
const (
	LumaR = 0.2126
	LumaG = 0.7152
	LumaB = 0.0722
)

// Clamp restricts v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Interpolate returns start + t*(end-start). t outside [0, 1]
// extrapolates.
func Interpolate(start, end, t float64) float64 {
	return start + t*(end-start)
}

// Luminance computes the BT.709 weighted sum of r, g and b. When gamma is
// not 1 the result is remapped as 255*(lum/255)^gamma. The result is not
// clamped; callers clamp downstream.
func Luminance(r, g, b, gamma float64) float64 {
	lum := LumaR*r + LumaG*g + LumaB*b
	if gamma != 1 {
		lum = 255 * math.Pow(lum/255, gamma)
	}
	return lum
}

// RGBToHex formats r, g, b as a lowercase "#rrggbb" string. Each channel
// must be in [0, 255]; out of range values are truncated to their low
// 8 bits.
func RGBToHex(r, g, b int) string {
	return fmt.Sprintf("#%02x%02x%02x", r&0xff, g&0xff, b&0xff)
}

// clampInt clamps an integer to the given range.
func clampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// clampUint8 clamps a float64 to [0, 255] and converts to uint8.
func clampUint8(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(math.Round(v))
}
