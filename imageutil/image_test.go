package imageutil

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"
)

func TestNewRGBAImage(t *testing.T) {
	img := NewRGBAImage(100, 50)
	if img.Width() != 100 {
		t.Errorf("Expected width 100, got %d", img.Width())
	}
	if img.Height() != 50 {
		t.Errorf("Expected height 50, got %d", img.Height())
	}
}

func TestRGBAImageGetSetRGB(t *testing.T) {
	img := NewRGBAImage(10, 10)
	c := RGB{R: 100, G: 150, B: 200}
	img.SetRGB(5, 5, c)

	got := img.GetRGB(5, 5)
	if got != c {
		t.Errorf("Expected %v, got %v", c, got)
	}
}

func TestRGBAImageClone(t *testing.T) {
	img := NewRGBAImage(10, 10)
	img.SetRGB(5, 5, RGB{R: 255, G: 0, B: 0})

	clone := img.Clone()
	if clone.GetRGB(5, 5) != img.GetRGB(5, 5) {
		t.Error("Clone should have same pixel values")
	}

	// Modify clone, original should be unchanged
	clone.SetRGB(5, 5, RGB{R: 0, G: 255, B: 0})
	if img.GetRGB(5, 5).G != 0 {
		t.Error("Modifying clone should not affect original")
	}
}

func TestRGBAImageFromOffsetImage(t *testing.T) {
	src := image.NewRGBA(image.Rect(10, 20, 14, 22))
	src.SetRGBA(10, 20, color.RGBA{R: 9, G: 8, B: 7, A: 255})

	img := RGBAImageFromImage(src)
	if img.Width() != 4 || img.Height() != 2 {
		t.Fatalf("Expected 4x2, got %dx%d", img.Width(), img.Height())
	}
	if got := img.GetRGB(0, 0); got != (RGB{R: 9, G: 8, B: 7}) {
		t.Errorf("Expected origin pixel to be rebased, got %v", got)
	}
}

func TestGridDimensions(t *testing.T) {
	g := NewGrid(3, 5)
	if g.Rows() != 3 || g.Cols() != 5 {
		t.Errorf("Expected 3x5 grid, got %dx%d", g.Rows(), g.Cols())
	}
	if !g.SameSize(NewGrid(3, 5)) {
		t.Error("Grids of equal dimensions should report SameSize")
	}
	if g.SameSize(NewGrid(5, 3)) {
		t.Error("Transposed grid should not report SameSize")
	}
	if (Grid{}).Cols() != 0 {
		t.Error("Empty grid should have zero columns")
	}
}

func TestGridCloneIsDeep(t *testing.T) {
	g := GridFrom([][]float64{{1, 2}, {3, 4}})
	c := g.Clone()
	c[0][0] = 99
	if g[0][0] != 1 {
		t.Error("Modifying clone should not affect original")
	}
}

func TestGridToGrayClamps(t *testing.T) {
	g := GridFrom([][]float64{{-10, 127.6, 300}})
	gray := g.ToGray()
	want := []uint8{0, 128, 255}
	for x, w := range want {
		if got := gray.GrayAt(x, 0).Y; got != w {
			t.Errorf("ToGray at %d: expected %d, got %d", x, w, got)
		}
	}
}

func TestToGrayscale(t *testing.T) {
	img := NewRGBAImage(1, 1)
	img.SetRGB(0, 0, RGB{R: 255, G: 255, B: 255})

	gray := ToGrayscale(img, 1)
	if v := gray[0][0]; v < 254.999 || v > 255 {
		t.Errorf("White pixel should convert to 255, got %f", v)
	}

	img.SetRGB(0, 0, RGB{R: 0, G: 0, B: 0})
	gray = ToGrayscale(img, 1)
	if v := gray[0][0]; v != 0 {
		t.Errorf("Black pixel should convert to 0, got %f", v)
	}

	// Red (0.2126 * 255 = 54.213)
	img.SetRGB(0, 0, RGB{R: 255, G: 0, B: 0})
	gray = ToGrayscale(img, 1)
	if v := gray[0][0]; v < 54 || v > 54.5 {
		t.Errorf("Red pixel should convert to ~54.2, got %f", v)
	}
}

func TestLoadSaveImage(t *testing.T) {
	tmpDir := t.TempDir()

	img := CreateColorBarsImage(64, 64)

	// Lossless formats round-trip exactly
	for _, ext := range []string{"png", "bmp", "tiff"} {
		path := filepath.Join(tmpDir, "test."+ext)
		if err := SaveImage(img.RGBA, path); err != nil {
			t.Fatalf("Failed to save %s: %v", ext, err)
		}

		loaded, err := LoadImage(path)
		if err != nil {
			t.Fatalf("Failed to load %s: %v", ext, err)
		}

		mse := CalculateMSE(img, RGBAImageFromImage(loaded))
		if mse > 0.01 {
			t.Errorf("%s should be lossless, MSE=%f", ext, mse)
		}
	}
}

func TestDecodeImageBytesRejectsGarbage(t *testing.T) {
	if _, err := DecodeImageBytes([]byte("definitely not an image")); err == nil {
		t.Error("Expected decode error for garbage input")
	}
}

func TestLoadImageMissingFile(t *testing.T) {
	if _, err := LoadImage(filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestSaveGrid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grid.png")
	g := CreateStepGrid(8, 8, 4, 255)
	if err := SaveGrid(g, path); err != nil {
		t.Fatalf("SaveGrid failed: %v", err)
	}
	loaded, err := LoadImage(path)
	if err != nil {
		t.Fatalf("Failed to reload grid image: %v", err)
	}
	back := ToGrayscale(RGBAImageFromImage(loaded), 1)
	if d := CalculateMaxGridDiff(g, back); d > 0.5 {
		t.Errorf("Round-tripped grid differs by %f", d)
	}
}

func TestCalculateJaccardIndex(t *testing.T) {
	mask := func() [][]bool {
		m := make([][]bool, 10)
		for y := range m {
			m[y] = make([]bool, 10)
		}
		return m
	}
	edges1, edges2 := mask(), mask()

	if j := CalculateJaccardIndex(edges1, edges2); j != 1.0 {
		t.Errorf("Empty masks should have Jaccard=1, got %f", j)
	}

	for x := 0; x < 5; x++ {
		edges1[5][x] = true
		edges2[5][x] = true
	}
	if j := CalculateJaccardIndex(edges1, edges2); j != 1.0 {
		t.Errorf("Identical masks should have Jaccard=1, got %f", j)
	}

	edges2 = mask()
	for x := 5; x < 10; x++ {
		edges2[5][x] = true
	}
	if j := CalculateJaccardIndex(edges1, edges2); j != 0.0 {
		t.Errorf("Non-overlapping masks should have Jaccard=0, got %f", j)
	}
}

// TestSaveTestImages saves test images to testdata directory for visual inspection.
// Run with: SAVE_TEST_IMAGES=1 go test -run TestSaveTestImages -v
func TestSaveTestImages(t *testing.T) {
	if os.Getenv("SAVE_TEST_IMAGES") != "1" {
		t.Skip("Set SAVE_TEST_IMAGES=1 to generate test images")
	}

	testdataDir := "../testdata"
	os.MkdirAll(testdataDir, 0755)

	SaveImage(CreateGradientImage(256, 256).RGBA, filepath.Join(testdataDir, "gradient.png"))
	SaveImage(CreateCheckerboardImage(256, 256, 32).RGBA, filepath.Join(testdataDir, "checkerboard.png"))
	SaveImage(CreateColorBarsImage(256, 256).RGBA, filepath.Join(testdataDir, "colorbars.png"))

	edges := CreateEdgeImage(256, 256)
	SaveImage(edges.RGBA, filepath.Join(testdataDir, "edges.png"))

	gray := ToGrayscale(edges, 1)
	SaveGrid(NonMaxSuppression(ApplySobel2D(gray)), filepath.Join(testdataDir, "edges_nms.png"))

	t.Log("Test images saved to testdata/")
}
