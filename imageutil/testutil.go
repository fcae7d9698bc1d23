package imageutil

import (
	"image/color"
	"math"
)

// CreateGradientImage creates a horizontal gradient test image.
func CreateGradientImage(width, height int) *RGBAImage {
	img := NewRGBAImage(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := uint8(255 * x / (width - 1))
			img.SetRGBA(x, y, color.RGBA{R: v, G: v, B: v, A: 255})
		}
	}
	return img
}

// CreateVerticalGradientImage creates a vertical gradient test image.
func CreateVerticalGradientImage(width, height int) *RGBAImage {
	img := NewRGBAImage(width, height)
	for y := 0; y < height; y++ {
		v := uint8(255 * y / (height - 1))
		for x := 0; x < width; x++ {
			img.SetRGBA(x, y, color.RGBA{R: v, G: v, B: v, A: 255})
		}
	}
	return img
}

// CreateCheckerboardImage creates a checkerboard pattern for edge testing.
func CreateCheckerboardImage(width, height, squareSize int) *RGBAImage {
	img := NewRGBAImage(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			isWhite := ((x/squareSize)+(y/squareSize))%2 == 0
			if isWhite {
				img.SetRGBA(x, y, color.RGBA{R: 255, G: 255, B: 255, A: 255})
			} else {
				img.SetRGBA(x, y, color.RGBA{R: 0, G: 0, B: 0, A: 255})
			}
		}
	}
	return img
}

// CreateSolidImage creates a solid color image.
func CreateSolidImage(width, height int, c RGB) *RGBAImage {
	img := NewRGBAImage(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetRGB(x, y, c)
		}
	}
	return img
}

// CreateColorBarsImage creates a color bars test pattern.
func CreateColorBarsImage(width, height int) *RGBAImage {
	img := NewRGBAImage(width, height)
	colors := []RGB{
		{255, 255, 255}, // White
		{255, 255, 0},   // Yellow
		{0, 255, 255},   // Cyan
		{0, 255, 0},     // Green
		{255, 0, 255},   // Magenta
		{255, 0, 0},     // Red
		{0, 0, 255},     // Blue
		{0, 0, 0},       // Black
	}

	barWidth := width / len(colors)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			colorIdx := x / barWidth
			if colorIdx >= len(colors) {
				colorIdx = len(colors) - 1
			}
			img.SetRGB(x, y, colors[colorIdx])
		}
	}
	return img
}

// CreateEdgeImage creates an image with sharp edges for testing edge detection:
// a white rectangle on gray with a black diagonal.
func CreateEdgeImage(width, height int) *RGBAImage {
	img := CreateSolidImage(width, height, RGB{R: 128, G: 128, B: 128})

	rx1, ry1 := width/4, height/4
	rx2, ry2 := 3*width/4, 3*height/4
	for y := ry1; y < ry2; y++ {
		for x := rx1; x < rx2; x++ {
			img.SetRGBA(x, y, color.RGBA{R: 255, G: 255, B: 255, A: 255})
		}
	}

	for i := 0; i < min(width, height)/2; i++ {
		img.SetRGBA(i, i, color.RGBA{R: 0, G: 0, B: 0, A: 255})
	}

	return img
}

// CreatePointGrid creates a rows x cols grid of zeros with a single sample
// of value v at (x, y).
func CreatePointGrid(rows, cols, x, y int, v float64) Grid {
	g := NewGrid(rows, cols)
	g[y][x] = v
	return g
}

// CreateStepGrid creates a grid that is 0 left of column edge and v from
// column edge onwards.
func CreateStepGrid(rows, cols, edge int, v float64) Grid {
	g := NewGrid(rows, cols)
	for y := 0; y < rows; y++ {
		for x := edge; x < cols; x++ {
			g[y][x] = v
		}
	}
	return g
}

// CalculateMSE calculates the Mean Squared Error between two RGBA images.
func CalculateMSE(img1, img2 *RGBAImage) float64 {
	if img1.Width() != img2.Width() || img1.Height() != img2.Height() {
		return math.MaxFloat64
	}

	width, height := img1.Width(), img1.Height()
	var sumSq float64
	count := float64(width * height * 3) // 3 channels

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c1 := img1.RGBAAt(x, y)
			c2 := img2.RGBAAt(x, y)
			dr := float64(c1.R) - float64(c2.R)
			dg := float64(c1.G) - float64(c2.G)
			db := float64(c1.B) - float64(c2.B)
			sumSq += dr*dr + dg*dg + db*db
		}
	}

	return sumSq / count
}

// CalculateGridMSE calculates the Mean Squared Error between two grids,
// optionally ignoring a border of the given width.
func CalculateGridMSE(g1, g2 Grid, border int) float64 {
	if !g1.SameSize(g2) {
		return math.MaxFloat64
	}

	var sumSq float64
	var count int
	for y := border; y < g1.Rows()-border; y++ {
		for x := border; x < g1.Cols()-border; x++ {
			d := g1[y][x] - g2[y][x]
			sumSq += d * d
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return sumSq / float64(count)
}

// CalculateMaxGridDiff returns the largest absolute difference between two
// grids of the same size.
func CalculateMaxGridDiff(g1, g2 Grid) float64 {
	if !g1.SameSize(g2) {
		return math.Inf(1)
	}
	var maxDiff float64
	for y := range g1 {
		for x := range g1[y] {
			if d := math.Abs(g1[y][x] - g2[y][x]); d > maxDiff {
				maxDiff = d
			}
		}
	}
	return maxDiff
}

// CalculateJaccardIndex calculates the Jaccard similarity between two
// binary edge masks. Returns a value between 0 (no overlap) and 1 (perfect
// overlap).
func CalculateJaccardIndex(edges1, edges2 [][]bool) float64 {
	if len(edges1) != len(edges2) {
		return 0
	}

	var intersection, union int
	for y := range edges1 {
		if len(edges1[y]) != len(edges2[y]) {
			return 0
		}
		for x := range edges1[y] {
			e1, e2 := edges1[y][x], edges2[y][x]
			if e1 && e2 {
				intersection++
			}
			if e1 || e2 {
				union++
			}
		}
	}

	if union == 0 {
		return 1.0 // Both empty
	}
	return float64(intersection) / float64(union)
}
