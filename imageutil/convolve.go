package imageutil

import (
	"fmt"
	"math"
)

// PreconditionError reports a programmer error in the arguments of a
// filter, such as a non-positive sigma or an even kernel size. Filters
// panic with a *PreconditionError rather than degrade silently.
type PreconditionError struct {
	Op  string
	Msg string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("imageutil: %s: %s", e.Op, e.Msg)
}

func precondition(op, format string, args ...interface{}) {
	panic(&PreconditionError{Op: op, Msg: fmt.Sprintf(format, args...)})
}

// Kernel represents a square, odd-sized convolution kernel.
type Kernel struct {
	Values [][]float64
	Size   int
}

// NewKernel creates a new kernel from a 2D slice. The slice must be
// square with an odd side length.
func NewKernel(values [][]float64) *Kernel {
	size := len(values)
	if size == 0 || size%2 == 0 {
		precondition("NewKernel", "kernel size must be odd and positive, got %d", size)
	}
	for i, row := range values {
		if len(row) != size {
			precondition("NewKernel", "kernel row %d has %d values, want %d", i, len(row), size)
		}
	}
	return &Kernel{
		Values: values,
		Size:   size,
	}
}

// Half returns the kernel radius.
func (k *Kernel) Half() int {
	return k.Size / 2
}

// Sum returns the sum of all weights.
func (k *Kernel) Sum() float64 {
	var sum float64
	for _, row := range k.Values {
		for _, v := range row {
			sum += v
		}
	}
	return sum
}

// IdentityKernel returns a size x size kernel with 1 at the centre.
func IdentityKernel(size int) *Kernel {
	values := make([][]float64, size)
	for i := range values {
		values[i] = make([]float64, size)
	}
	k := NewKernel(values)
	k.Values[k.Half()][k.Half()] = 1
	return k
}

// SobelKernelX returns the horizontal Sobel kernel.
func SobelKernelX() *Kernel {
	return NewKernel([][]float64{
		{-1, 0, 1},
		{-2, 0, 2},
		{-1, 0, 1},
	})
}

// SobelKernelY returns the vertical Sobel kernel.
func SobelKernelY() *Kernel {
	return NewKernel([][]float64{
		{-1, -2, -1},
		{0, 0, 0},
		{1, 2, 1},
	})
}

// SharpeningKernel returns the mild sharpening kernel applied by the
// renderer's optional sharpen step.
func SharpeningKernel() *Kernel {
	return NewKernel([][]float64{
		{0, -0.5, 0},
		{-0.5, 3, -0.5},
		{0, -0.5, 0},
	})
}

// GaussianKernel2D builds a size x size Gaussian kernel with standard
// deviation sigma, normalized so its weights sum to 1.
func GaussianKernel2D(sigma float64, size int) *Kernel {
	if !(sigma > 0) {
		precondition("GaussianKernel2D", "sigma must be > 0, got %v", sigma)
	}
	if size <= 0 || size%2 == 0 {
		precondition("GaussianKernel2D", "kernel size must be odd and positive, got %d", size)
	}

	half := size / 2
	twoSigmaSq := 2 * sigma * sigma
	values := make([][]float64, size)
	var sum float64
	for ky := 0; ky < size; ky++ {
		values[ky] = make([]float64, size)
		y := float64(ky - half)
		for kx := 0; kx < size; kx++ {
			x := float64(kx - half)
			w := math.Exp(-(x*x + y*y) / twoSigmaSq)
			values[ky][kx] = w
			sum += w
		}
	}
	for ky := range values {
		for kx := range values[ky] {
			values[ky][kx] /= sum
		}
	}
	return &Kernel{Values: values, Size: size}
}

// Convolve2D convolves a grid with a kernel. Samples outside the grid
// count as zero, so energy near the borders is underestimated. The
// output has the same dimensions as the input.
func Convolve2D(img Grid, kernel *Kernel) Grid {
	height, width := img.Rows(), img.Cols()
	dst := NewGrid(height, width)
	half := kernel.Half()

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var sum float64
			for ky := 0; ky < kernel.Size; ky++ {
				sy := y + ky - half
				if sy < 0 || sy >= height {
					continue
				}
				row := img[sy]
				for kx := 0; kx < kernel.Size; kx++ {
					sx := x + kx - half
					if sx < 0 || sx >= width {
						continue
					}
					sum += row[sx] * kernel.Values[ky][kx]
				}
			}
			dst[y][x] = sum
		}
	}

	return dst
}

// ConvolveRGBA applies a convolution kernel to an RGBA image.
// Border pixels are handled by replicating edge values and results are
// clamped to [0, 255].
func ConvolveRGBA(img *RGBAImage, kernel *Kernel) *RGBAImage {
	width, height := img.Width(), img.Height()
	dst := NewRGBAImage(width, height)
	half := kernel.Half()

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var sumR, sumG, sumB float64

			for ky := 0; ky < kernel.Size; ky++ {
				for kx := 0; kx < kernel.Size; kx++ {
					sx := clampInt(x+kx-half, 0, width-1)
					sy := clampInt(y+ky-half, 0, height-1)

					c := img.RGBAAt(sx, sy)
					k := kernel.Values[ky][kx]

					sumR += float64(c.R) * k
					sumG += float64(c.G) * k
					sumB += float64(c.B) * k
				}
			}

			dst.SetRGB(x, y, RGB{
				R: clampUint8(sumR),
				G: clampUint8(sumG),
				B: clampUint8(sumB),
			})
		}
	}

	return dst
}

// Sharpen applies the mild sharpening filter to an RGBA image.
func Sharpen(img *RGBAImage) *RGBAImage {
	return ConvolveRGBA(img, SharpeningKernel())
}
