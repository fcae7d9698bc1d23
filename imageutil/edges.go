package imageutil

import "math"

// Angle bins used by non-maximum suppression and by edge glyph selection.
const (
	BinHorizontal = iota // [0, 22.5) and [157.5, 180]
	BinRising            // [22.5, 67.5)
	BinVertical          // [67.5, 112.5)
	BinFalling           // [112.5, 157.5)
)

// GradientField holds the Sobel gradient magnitude and direction of a
// grid. Angle is in degrees, folded into [0, 180).
type GradientField struct {
	Magnitude Grid
	Angle     Grid
}

// DifferenceOfGaussians2D blurs gray with two Gaussian kernels of the same
// size and returns blur(sigma1) - blur(sigma2).
func DifferenceOfGaussians2D(gray Grid, sigma1, sigma2 float64, size int) Grid {
	a := Convolve2D(gray, GaussianKernel2D(sigma1, size))
	b := Convolve2D(gray, GaussianKernel2D(sigma2, size))
	for y := range a {
		for x := range a[y] {
			a[y][x] -= b[y][x]
		}
	}
	return a
}

// ApplySobel2D computes the Sobel gradient of img. Only interior cells are
// evaluated; the one-cell border keeps zero magnitude and zero angle.
func ApplySobel2D(img Grid) GradientField {
	height, width := img.Rows(), img.Cols()
	field := GradientField{
		Magnitude: NewGrid(height, width),
		Angle:     NewGrid(height, width),
	}
	kx, ky := SobelKernelX(), SobelKernelY()

	for y := 1; y < height-1; y++ {
		for x := 1; x < width-1; x++ {
			var gx, gy float64
			for j := 0; j < 3; j++ {
				for i := 0; i < 3; i++ {
					v := img[y+j-1][x+i-1]
					gx += v * kx.Values[j][i]
					gy += v * ky.Values[j][i]
				}
			}

			field.Magnitude[y][x] = math.Sqrt(gx*gx + gy*gy)

			angle := math.Atan2(gy, gx) * 180 / math.Pi
			if angle < 0 {
				angle += 180
			}
			if angle >= 180 {
				angle -= 180
			}
			field.Angle[y][x] = angle
		}
	}

	return field
}

// AngleBin quantizes a gradient angle in degrees to one of the four
// suppression directions.
func AngleBin(angle float64) int {
	switch {
	case angle >= 22.5 && angle < 67.5:
		return BinRising
	case angle >= 67.5 && angle < 112.5:
		return BinVertical
	case angle >= 112.5 && angle < 157.5:
		return BinFalling
	default:
		return BinHorizontal
	}
}

// NonMaxSuppression thins the gradient magnitude, keeping a cell only if
// it is >= both neighbours along its quantized gradient direction.
// Border cells are always zero and no cell ever grows.
func NonMaxSuppression(field GradientField) Grid {
	magnitude, direction := field.Magnitude, field.Angle
	height, width := magnitude.Rows(), magnitude.Cols()
	suppressed := NewGrid(height, width)

	for y := 1; y < height-1; y++ {
		for x := 1; x < width-1; x++ {
			mag := magnitude[y][x]

			var q, r float64
			switch AngleBin(direction[y][x]) {
			case BinHorizontal:
				q = magnitude[y][x+1]
				r = magnitude[y][x-1]
			case BinRising:
				q = magnitude[y-1][x+1]
				r = magnitude[y+1][x-1]
			case BinVertical:
				q = magnitude[y+1][x]
				r = magnitude[y-1][x]
			case BinFalling:
				q = magnitude[y-1][x-1]
				r = magnitude[y+1][x+1]
			}

			// Ties survive so plateaus along thin edges stay connected
			if mag >= q && mag >= r {
				suppressed[y][x] = mag
			}
		}
	}

	return suppressed
}

// Hysteresis classifies suppressed magnitudes as strong (>= high) or weak
// (>= low) and keeps weak cells only when they are 8-connected to a strong
// one.
func Hysteresis(suppressed Grid, low, high float64) [][]bool {
	height, width := suppressed.Rows(), suppressed.Cols()
	edges := make([][]bool, height)
	weak := make([][]bool, height)

	for y := 0; y < height; y++ {
		edges[y] = make([]bool, width)
		weak[y] = make([]bool, width)
		for x := 0; x < width; x++ {
			val := suppressed[y][x]
			if val >= high {
				edges[y][x] = true
			} else if val >= low {
				weak[y][x] = true
			}
		}
	}

	// Grow edges into weak cells until nothing changes
	changed := true
	for changed {
		changed = false
		for y := 1; y < height-1; y++ {
			for x := 1; x < width-1; x++ {
				if !weak[y][x] || edges[y][x] {
					continue
				}
				if hasEdgeNeighbor(edges, x, y) {
					edges[y][x] = true
					changed = true
				}
			}
		}
	}

	return edges
}

func hasEdgeNeighbor(edges [][]bool, x, y int) bool {
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if edges[y+dy][x+dx] {
				return true
			}
		}
	}
	return false
}
