package img2ascii

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/wbrown/img2ascii/imageutil"
)

func testStudio(frames int) StudioConfig {
	return StudioConfig{
		Charset:         NewCharset(RampStandard),
		ContrastStart:   -100,
		ContrastEnd:     100,
		BrightnessStart: -60,
		BrightnessEnd:   60,
		Font:            DefaultFont,
		Frames:          frames,
		Cols:            20,
		Rows:            6,
		Gamma:           1,
		Edge:            DefaultEdgeConfig(),
	}
}

func TestAnimateFramesInOrder(t *testing.T) {
	t.Parallel()

	img := imageutil.CreateGradientImage(100, 60)
	src := &countingSource{img: img}
	anim, err := Animate(context.Background(), src, testStudio(6), NewPool(3), nil)
	if err != nil {
		t.Fatalf("Animate failed: %v", err)
	}
	if src.decodes != 1 || src.releases != 1 {
		t.Errorf("Source should be decoded and released once, got %d/%d", src.decodes, src.releases)
	}
	if len(anim.Frames) != 6 {
		t.Fatalf("Expected 6 frames, got %d", len(anim.Frames))
	}
	for i, f := range anim.Frames {
		if f.Index != i {
			t.Errorf("Frame %d has index %d", i, f.Index)
		}
		if f.Rows() != 6 || f.Cols() != 20 {
			t.Errorf("Frame %d is %dx%d", i, f.Cols(), f.Rows())
		}
	}

	// Brightness rises across the sequence, so the last frame is lighter.
	cs := NewCharset(RampStandard)
	darkness := func(f *AsciiFrame) int {
		n := 0
		for _, row := range f.Chars {
			for _, r := range row {
				n += len(cs) - 1 - strings.IndexRune(cs.String(), r)
			}
		}
		return n
	}
	if darkness(anim.Frames[0]) <= darkness(anim.Frames[5]) {
		t.Error("First frame should be darker than the last")
	}
}

func TestAnimateDerivesRows(t *testing.T) {
	t.Parallel()

	sc := testStudio(2)
	sc.Rows = 0
	sc.FPS = 25
	img := imageutil.CreateGradientImage(200, 100)
	anim, err := Animate(context.Background(), FromImage(img), sc, nil, nil)
	if err != nil {
		t.Fatalf("Animate failed: %v", err)
	}
	f, err := LoadFont(DefaultFont)
	if err != nil {
		t.Fatal(err)
	}
	want := imageutil.RowsForWidth(200, 100, sc.Cols, f.CellAspect())
	if anim.Rows != want || anim.Rows < 1 {
		t.Errorf("Expected %d derived rows, got %d", want, anim.Rows)
	}
	if anim.Frames[0].Rows() != anim.Rows {
		t.Errorf("Frames have %d rows, animation says %d", anim.Frames[0].Rows(), anim.Rows)
	}
	if anim.FrameDuration() != 40*time.Millisecond {
		t.Errorf("Expected 40ms per frame, got %v", anim.FrameDuration())
	}
}

func TestAnimateErrors(t *testing.T) {
	t.Parallel()

	_, err := Animate(context.Background(), FromBytes("junk", []byte("junk")), testStudio(2), nil, nil)
	var de *ImageDecodeError
	if !errors.As(err, &de) {
		t.Errorf("Expected *ImageDecodeError, got %v", err)
	}

	sc := testStudio(3)
	sc.ContrastEnd = 300
	_, err = Animate(context.Background(), FromImage(imageutil.CreateGradientImage(10, 10)), sc, nil, nil)
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig for out of range contrast, got %v", err)
	}

	for _, frames := range []int{0, MaxFrames + 1, 1 << 30} {
		sc := testStudio(1)
		sc.Frames = frames
		_, err := Animate(context.Background(), FromImage(imageutil.CreateGradientImage(10, 10)), sc, nil, nil)
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("Frames=%d: expected ErrInvalidConfig, got %v", frames, err)
		}
	}
}

func TestAnimationFrameDurationDefault(t *testing.T) {
	t.Parallel()

	a := &Animation{}
	if got, want := a.FrameDuration(), time.Second/DefaultFPS; got != want {
		t.Errorf("FrameDuration() = %v, want %v", got, want)
	}
}
