package imageutil

// ToGrayscale converts an RGBA image to a luminance grid using the BT.709
// weights and the given gamma. Values are clamped into [0, 255].
func ToGrayscale(img *RGBAImage, gamma float64) Grid {
	width, height := img.Width(), img.Height()
	gray := NewGrid(height, width)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			gray[y][x] = Clamp(img.GetRGB(x, y).Luminance(gamma), 0, 255)
		}
	}

	return gray
}
