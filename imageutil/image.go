// Package imageutil provides the pure Go image processing used by the
// ASCII pipeline: pixel buffers, grayscale grids, convolution, edge
// filters and downsampling.
package imageutil

import (
	"image"
	"image/color"
)

// RGB represents a color in the RGB color space with 8-bit channels.
type RGB struct {
	R, G, B uint8
}

// ToColor converts RGB to color.RGBA for use with standard library.
func (rgb RGB) ToColor() color.RGBA {
	return color.RGBA{R: rgb.R, G: rgb.G, B: rgb.B, A: 255}
}

// Hex formats the color as a lowercase #rrggbb string.
func (rgb RGB) Hex() string {
	return RGBToHex(int(rgb.R), int(rgb.G), int(rgb.B))
}

// Luminance returns the BT.709 luminance of the color with the given gamma.
func (rgb RGB) Luminance(gamma float64) float64 {
	return Luminance(float64(rgb.R), float64(rgb.G), float64(rgb.B), gamma)
}

// RGBFromColor converts a color.Color to RGB.
func RGBFromColor(c color.Color) RGB {
	r, g, b, _ := c.RGBA()
	return RGB{
		R: uint8(r >> 8),
		G: uint8(g >> 8),
		B: uint8(b >> 8),
	}
}

// RGBAImage is the pixel buffer handed from the downsampler to the frame
// assembler: a row-major grid of RGBA8 samples.
type RGBAImage struct {
	*image.RGBA
}

// NewRGBAImage creates a new RGBAImage with the specified dimensions.
func NewRGBAImage(width, height int) *RGBAImage {
	return &RGBAImage{
		RGBA: image.NewRGBA(image.Rect(0, 0, width, height)),
	}
}

// RGBAImageFromImage converts any image.Image to RGBAImage.
func RGBAImageFromImage(img image.Image) *RGBAImage {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Bounds().Min == (image.Point{}) {
		return &RGBAImage{RGBA: rgba}
	}
	bounds := img.Bounds()
	rgba := NewRGBAImage(bounds.Dx(), bounds.Dy())

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			rgba.Set(x-bounds.Min.X, y-bounds.Min.Y, img.At(x, y))
		}
	}
	return rgba
}

// Width returns the image width.
func (img *RGBAImage) Width() int {
	return img.Bounds().Dx()
}

// Height returns the image height.
func (img *RGBAImage) Height() int {
	return img.Bounds().Dy()
}

// GetRGB returns the RGB value at (x, y).
func (img *RGBAImage) GetRGB(x, y int) RGB {
	c := img.RGBAAt(x, y)
	return RGB{R: c.R, G: c.G, B: c.B}
}

// SetRGB sets the RGB value at (x, y).
func (img *RGBAImage) SetRGB(x, y int, c RGB) {
	img.SetRGBA(x, y, color.RGBA{R: c.R, G: c.G, B: c.B, A: 255})
}

// Clone creates a deep copy of the image.
func (img *RGBAImage) Clone() *RGBAImage {
	clone := NewRGBAImage(img.Width(), img.Height())
	copy(clone.Pix, img.Pix)
	return clone
}

// Grid is a rows x cols grid of real-valued samples, indexed Grid[y][x].
// Filters never modify their input; each returns a fresh Grid.
type Grid [][]float64

// NewGrid allocates a zeroed grid.
func NewGrid(rows, cols int) Grid {
	g := make(Grid, rows)
	for y := range g {
		g[y] = make([]float64, cols)
	}
	return g
}

// GridFrom builds a grid from literal rows, copying them.
func GridFrom(rows [][]float64) Grid {
	g := make(Grid, len(rows))
	for y, row := range rows {
		g[y] = append([]float64(nil), row...)
	}
	return g
}

// Rows returns the number of rows.
func (g Grid) Rows() int {
	return len(g)
}

// Cols returns the number of columns.
func (g Grid) Cols() int {
	if len(g) == 0 {
		return 0
	}
	return len(g[0])
}

// SameSize reports whether two grids have identical dimensions.
func (g Grid) SameSize(o Grid) bool {
	return g.Rows() == o.Rows() && g.Cols() == o.Cols()
}

// Clone creates a deep copy of the grid.
func (g Grid) Clone() Grid {
	return GridFrom(g)
}

// Max returns the largest sample, or 0 for an empty grid.
func (g Grid) Max() float64 {
	var m float64
	for y := range g {
		for _, v := range g[y] {
			if v > m {
				m = v
			}
		}
	}
	return m
}

// ToGray renders the grid to an 8-bit grayscale image, clamping samples
// into [0, 255]. Useful for dumping intermediate filter output.
func (g Grid) ToGray() *image.Gray {
	rows, cols := g.Rows(), g.Cols()
	gray := image.NewGray(image.Rect(0, 0, cols, rows))
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			gray.Pix[y*gray.Stride+x] = clampUint8(g[y][x])
		}
	}
	return gray
}
