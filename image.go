package img2ascii

import (
	"fmt"
	"image"
	"image/draw"

	"github.com/wbrown/img2ascii/imageutil"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// PreviewImage paints a frame as a mosaic of cellWidth x cellHeight
// blocks. Colour frames use each cell's colour. Grayscale frames use the
// glyph's position in cs as a gray level, so a dark to light charset gives
// a dark to light preview; glyphs missing from cs are painted black.
func PreviewImage(f *AsciiFrame, cs Charset, cellWidth, cellHeight int) *imageutil.RGBAImage {
	if cellWidth < 1 {
		cellWidth = 1
	}
	if cellHeight < 1 {
		cellHeight = 1
	}
	img := imageutil.NewRGBAImage(f.Cols()*cellWidth, f.Rows()*cellHeight)

	levels := make(map[rune]uint8, len(cs))
	for i := len(cs) - 1; i >= 0; i-- {
		var v uint8
		if len(cs) > 1 {
			v = uint8(255 * i / (len(cs) - 1))
		}
		levels[cs[i]] = v
	}

	for y, row := range f.Chars {
		for x, r := range row {
			var c imageutil.RGB
			if f.Colors != nil {
				if hex, ok := f.colorAt(x, y); ok {
					c, _ = ParseHexColor(hex)
				}
			} else {
				v := levels[r]
				c = imageutil.RGB{R: v, G: v, B: v}
			}
			drawCell(img, x*cellWidth, y*cellHeight, cellWidth, cellHeight, c)
		}
	}
	return img
}

// drawCell fills one cell of the preview.
func drawCell(img *imageutil.RGBAImage, x, y, w, h int, c imageutil.RGB) {
	for dy := 0; dy < h; dy++ {
		for dx := 0; dx < w; dx++ {
			img.SetRGB(x+dx, y+dy, c)
		}
	}
}

// SavePreview writes PreviewImage of f to path. The format follows the
// file extension.
func SavePreview(f *AsciiFrame, cs Charset, cellWidth, cellHeight int, path string) error {
	if f.Rows() == 0 || f.Cols() == 0 {
		return fmt.Errorf("cannot preview empty frame %d", f.Index)
	}
	var img image.Image = PreviewImage(f, cs, cellWidth, cellHeight).RGBA
	return imageutil.SaveImage(img, path)
}

// GlyphImage draws the characters of a frame with face, one cell per
// character on a black background. Colour frames draw each glyph in its
// cell's colour, grayscale frames draw white. A nil face selects the
// built-in 7x13 bitmap font.
func GlyphImage(f *AsciiFrame, face font.Face) *imageutil.RGBAImage {
	if face == nil {
		face = basicfont.Face7x13
	}
	metrics := face.Metrics()
	adv, ok := face.GlyphAdvance('M')
	if !ok || adv <= 0 {
		adv = metrics.Height / 2
	}
	cellW, cellH := adv.Ceil(), metrics.Height.Ceil()

	img := imageutil.NewRGBAImage(f.Cols()*cellW, f.Rows()*cellH)
	draw.Draw(img.RGBA, img.Bounds(), image.Black, image.Point{}, draw.Src)

	d := &font.Drawer{Dst: img.RGBA, Src: image.White, Face: face}
	for y, row := range f.Chars {
		baseline := fixed.I(y*cellH) + metrics.Ascent
		for x, r := range row {
			if r == ' ' {
				continue
			}
			if f.Colors != nil {
				hex, ok := f.colorAt(x, y)
				if !ok {
					continue
				}
				c, err := ParseHexColor(hex)
				if err != nil {
					continue
				}
				d.Src = image.NewUniform(c.ToColor())
			}
			d.Dot = fixed.Point26_6{X: fixed.I(x * cellW), Y: baseline}
			d.DrawString(string(r))
		}
	}
	return img
}

// SaveGlyphImage writes GlyphImage of f to path.
func SaveGlyphImage(f *AsciiFrame, face font.Face, path string) error {
	if f.Rows() == 0 || f.Cols() == 0 {
		return fmt.Errorf("cannot draw empty frame %d", f.Index)
	}
	return imageutil.SaveImage(GlyphImage(f, face).RGBA, path)
}
