package imageutil

import (
	"math"
	"testing"
)

func TestClamp(t *testing.T) {
	t.Parallel()

	bounds := [][2]float64{{0, 255}, {-1, 1}, {5, 5}, {-300, -200}}
	values := []float64{-1e9, -256, -1, 0, 0.5, 5, 128, 255, 256, 1e9}

	for _, b := range bounds {
		for _, v := range values {
			got := Clamp(v, b[0], b[1])
			if got < b[0] || got > b[1] {
				t.Errorf("Clamp(%v, %v, %v) = %v, outside range", v, b[0], b[1], got)
			}
			if again := Clamp(got, b[0], b[1]); again != got {
				t.Errorf("Clamp not idempotent for %v in %v: %v then %v", v, b, got, again)
			}
		}
	}

	if got := Clamp(42, 0, 255); got != 42 {
		t.Errorf("In-range value should be unchanged, got %v", got)
	}
}

func TestInterpolate(t *testing.T) {
	t.Parallel()

	pairs := [][2]float64{{0, 10}, {-50, 50}, {255, -255}, {3.5, 3.5}}
	for _, p := range pairs {
		a, b := p[0], p[1]
		if got := Interpolate(a, b, 0); got != a {
			t.Errorf("Interpolate(%v, %v, 0) = %v, want %v", a, b, got, a)
		}
		if got := Interpolate(a, b, 1); got != b {
			t.Errorf("Interpolate(%v, %v, 1) = %v, want %v", a, b, got, b)
		}
		if got, want := Interpolate(a, b, 0.5), (a+b)/2; math.Abs(got-want) > 1e-12 {
			t.Errorf("Interpolate(%v, %v, 0.5) = %v, want %v", a, b, got, want)
		}
	}

	// Extrapolation is allowed
	if got := Interpolate(0, 10, 2); got != 20 {
		t.Errorf("Interpolate(0, 10, 2) = %v, want 20", got)
	}
}

func TestLuminance(t *testing.T) {
	t.Parallel()

	primaries := [][3]float64{{255, 0, 0}, {0, 255, 0}, {0, 0, 255}}
	for _, p := range primaries {
		for _, gamma := range []float64{1, 0.5, 2.2} {
			got := Luminance(p[0], p[1], p[2], gamma)
			if got < 0 || got > 255 {
				t.Errorf("Luminance(%v, gamma=%v) = %v, outside [0,255]", p, gamma, got)
			}
		}
	}

	if got := Luminance(0, 0, 0, 1); got != 0 {
		t.Errorf("Luminance of black = %v, want 0", got)
	}
	if got := Luminance(0, 0, 0, 2.2); got != 0 {
		t.Errorf("Luminance of black with gamma = %v, want 0", got)
	}
	if got := Luminance(255, 255, 255, 1); math.Abs(got-255) > 1e-9 {
		t.Errorf("Luminance of white = %v, want ~255", got)
	}
	if got := Luminance(255, 255, 255, 2.2); math.Abs(got-255) > 1e-9 {
		t.Errorf("Luminance of white with gamma = %v, want ~255", got)
	}

	// Green dominates BT.709
	if Luminance(0, 255, 0, 1) <= Luminance(255, 0, 0, 1) {
		t.Error("Green should be brighter than red")
	}

	// Gamma > 1 darkens mid tones, gamma < 1 brightens them
	mid := Luminance(128, 128, 128, 1)
	if Luminance(128, 128, 128, 2) >= mid {
		t.Error("Gamma 2 should darken mid gray")
	}
	if Luminance(128, 128, 128, 0.5) <= mid {
		t.Error("Gamma 0.5 should brighten mid gray")
	}
}

func TestRGBToHex(t *testing.T) {
	t.Parallel()

	tests := []struct {
		r, g, b int
		want    string
	}{
		{0, 0, 0, "#000000"},
		{255, 255, 255, "#ffffff"},
		{255, 0, 128, "#ff0080"},
		{1, 2, 3, "#010203"},
		{171, 205, 239, "#abcdef"},
	}
	for _, tt := range tests {
		got := RGBToHex(tt.r, tt.g, tt.b)
		if got != tt.want {
			t.Errorf("RGBToHex(%d, %d, %d) = %q, want %q", tt.r, tt.g, tt.b, got, tt.want)
		}
		if len(got) != 7 {
			t.Errorf("RGBToHex result %q should be 7 characters", got)
		}
	}

	if got := (RGB{R: 16, G: 32, B: 48}).Hex(); got != "#102030" {
		t.Errorf("RGB.Hex() = %q, want #102030", got)
	}
}
