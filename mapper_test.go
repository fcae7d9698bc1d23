package img2ascii

import (
	"math"
	"testing"
)

func TestApplyContrastBrightnessRange(t *testing.T) {
	t.Parallel()

	contrasts := []float64{-258.999, -255, -100, 0, 50, 200, 254.9, 255, 258.999}
	brightnesses := []float64{-1000, -255, -10, 0, 10, 255, 1000}
	for _, c := range contrasts {
		for _, b := range brightnesses {
			for lum := -50.0; lum <= 300; lum += 12.5 {
				got := ApplyContrastBrightness(lum, c, b)
				if got < 0 || got > 255 || math.IsNaN(got) {
					t.Fatalf("ApplyContrastBrightness(%v, %v, %v) = %v outside [0,255]", lum, c, b, got)
				}
			}
		}
	}
}

func TestApplyContrastBrightnessValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		lum, contrast, brightness float64
		want                      float64
	}{
		{100, 0, 0, 100},   // identity
		{128, 200, 0, 128}, // mid grey is the pivot
		{128, 50, 10, 138},
		{100, 0, 20, 120},
		{250, 0, 20, 255}, // clamped high
		{10, 0, -20, 0},   // clamped low
		{129, 255, 0, 255},
		{127, 255, 0, 0},
	}
	for _, tt := range tests {
		got := ApplyContrastBrightness(tt.lum, tt.contrast, tt.brightness)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("ApplyContrastBrightness(%v, %v, %v) = %v, want %v",
				tt.lum, tt.contrast, tt.brightness, got, tt.want)
		}
	}

	if f := ContrastFactor(0); f != 1 {
		t.Errorf("ContrastFactor(0) = %v, want 1", f)
	}
	if ContrastFactor(-255) != 0 {
		t.Errorf("ContrastFactor(-255) = %v, want 0", ContrastFactor(-255))
	}
	if ContrastFactor(255) < 100 {
		t.Errorf("ContrastFactor(255) = %v, expected a large factor", ContrastFactor(255))
	}
}

func TestMapToCharEndpoints(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"@", "@ ", RampStandard, RampDetailed, RampBlocks, "ab"} {
		cs := NewCharset(s)
		if got := MapToChar(0, cs); got != cs[0] {
			t.Errorf("%q: MapToChar(0) = %q, want %q", s, got, cs[0])
		}
		if got := MapToChar(255, cs); got != cs[len(cs)-1] {
			t.Errorf("%q: MapToChar(255) = %q, want %q", s, got, cs[len(cs)-1])
		}
	}
}

func TestMapToCharMembership(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"x", RampStandard, RampBlocks, "0123456789abcdef"} {
		cs := NewCharset(s)
		member := make(map[rune]bool)
		for _, r := range cs {
			member[r] = true
		}
		for lum := -20.0; lum <= 280; lum += 0.25 {
			if r := MapToChar(lum, cs); !member[r] {
				t.Fatalf("%q: MapToChar(%v) = %q not in charset", s, lum, r)
			}
		}
		if r := MapToChar(math.NaN(), cs); r != cs[0] {
			t.Errorf("%q: NaN should map to the first glyph, got %q", s, r)
		}
	}
}

func TestCharIndexQuantization(t *testing.T) {
	t.Parallel()

	// floor(lum/255 * (n-1)) with n = 10
	tests := []struct {
		lum  float64
		want int
	}{
		{0, 0},
		{28.3, 0},
		{28.34, 1},
		{127.5, 4},
		{138, 4},
		{226.7, 8},
		{226.67, 8},
		{254.9, 8},
		{255, 9},
		{1000, 9},
		{-1, 0},
	}
	for _, tt := range tests {
		if got := CharIndex(tt.lum, 10); got != tt.want {
			t.Errorf("CharIndex(%v, 10) = %d, want %d", tt.lum, got, tt.want)
		}
	}
}

func TestCharsetReverse(t *testing.T) {
	t.Parallel()

	cs := NewCharset("█▓▒░ ")
	rev := cs.Reverse()
	if rev.String() != " ░▒▓█" {
		t.Errorf("Reverse() = %q", rev.String())
	}
	if cs.String() != "█▓▒░ " {
		t.Error("Reverse should not modify the receiver")
	}
	if len(NewCharset(RampBlocks)) != 5 {
		t.Error("Charset should count runes, not bytes")
	}
}
