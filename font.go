package img2ascii

import (
	"fmt"
	"image"
	"os"
	"sort"
	"strings"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
)

// DefaultFont names the embedded Go Mono font.
const DefaultFont = "gomono"

// measureSize is the point size, at 72 DPI, glyphs are rasterized at for
// metrics and coverage.
const measureSize = 24

// Font holds a parsed TrueType font used to measure character cells.
type Font struct {
	name string
	ttf  *truetype.Font
}

// LoadFont loads a font by name. An empty name or DefaultFont selects the
// embedded Go Mono; anything else is read as a TTF file path.
func LoadFont(name string) (*Font, error) {
	var data []byte
	switch strings.ToLower(name) {
	case "", DefaultFont:
		name = DefaultFont
		data = gomono.TTF
	default:
		var err error
		data, err = os.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("failed to read font: %w", err)
		}
	}

	ttf, err := freetype.ParseFont(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font %s: %w", name, err)
	}
	return &Font{name: name, ttf: ttf}, nil
}

// Name returns the font name or path.
func (f *Font) Name() string {
	return f.name
}

// Face returns a face for drawing the font at the measuring size. The
// caller should Close it.
func (f *Font) Face() font.Face {
	return f.face()
}

func (f *Font) face() font.Face {
	return truetype.NewFace(f.ttf, &truetype.Options{
		Size:    measureSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

// CellSize returns the pixel size of one character cell at the measuring
// size: the advance of 'M' by the line height.
func (f *Font) CellSize() (width, height int) {
	face := f.face()
	defer face.Close()

	adv, ok := face.GlyphAdvance('M')
	if !ok || adv <= 0 {
		adv = face.Metrics().Height / 2
	}
	return adv.Ceil(), face.Metrics().Height.Ceil()
}

// CellAspect returns the height/width ratio of a character cell, the
// factor by which a grid must be squashed vertically to keep an image's
// proportions.
func (f *Font) CellAspect() float64 {
	w, h := f.CellSize()
	if w <= 0 || h <= 0 {
		return 2
	}
	return float64(h) / float64(w)
}

// Coverage returns the fraction of a character cell inked by r, in [0, 1].
func (f *Font) Coverage(r rune) float64 {
	w, h := f.CellSize()
	return f.coverage(r, w, h)
}

func (f *Font) coverage(r rune, w, h int) float64 {
	face := f.face()
	defer face.Close()

	// Alpha keeps the anti-aliased coverage of each pixel.
	img := image.NewAlpha(image.Rect(0, 0, w, h))

	ctx := freetype.NewContext()
	ctx.SetDPI(72)
	ctx.SetFont(f.ttf)
	ctx.SetFontSize(measureSize)
	ctx.SetClip(img.Bounds())
	ctx.SetDst(img)
	ctx.SetSrc(image.White)
	ctx.SetHinting(font.HintingFull)

	baseline := face.Metrics().Ascent.Ceil()
	if _, err := ctx.DrawString(string(r), freetype.Pt(0, baseline)); err != nil {
		return 0
	}

	var sum int
	for _, a := range img.Pix {
		sum += int(a)
	}
	return float64(sum) / float64(255*w*h)
}

// RankCharset returns the glyphs of cs ordered from most to least ink,
// i.e. a dark to light ramp on a light background. Duplicates are kept;
// glyphs with equal coverage keep their relative order.
func (f *Font) RankCharset(cs Charset) Charset {
	w, h := f.CellSize()
	type ranked struct {
		r   rune
		cov float64
	}
	glyphs := make([]ranked, len(cs))
	for i, r := range cs {
		glyphs[i] = ranked{r: r, cov: f.coverage(r, w, h)}
	}
	sort.SliceStable(glyphs, func(i, j int) bool {
		return glyphs[i].cov > glyphs[j].cov
	})

	out := make(Charset, len(glyphs))
	for i, g := range glyphs {
		out[i] = g.r
	}
	return out
}
