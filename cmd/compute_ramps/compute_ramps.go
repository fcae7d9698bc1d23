package main

import (
	"flag"
	"fmt"
	"image"
	"image/draw"
	"log"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"github.com/wbrown/img2ascii"
	"github.com/wbrown/img2ascii/imageutil"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
)

// specimenSize is the point size ramps are drawn at in specimen images.
const specimenSize = 32

// printableASCII returns the printable ASCII characters.
func printableASCII() string {
	var sb strings.Builder
	for r := rune(32); r <= rune(126); r++ {
		sb.WriteRune(r)
	}
	return sb.String()
}

// Unicode shade and block characters
const blockChars = " ▀▁▂▃▄▅▆▇█▌▍▎▏▐░▒▓▖▗▘▙▚▛▜▝▞▟"

// glyphCoverage pairs a glyph with its ink coverage.
type glyphCoverage struct {
	r   rune
	cov float64
}

// pickRamp selects n glyphs from ranked, which must be sorted from most to
// least ink, so that their coverage is spread as evenly as possible
// between the darkest and lightest glyph.
func pickRamp(ranked []glyphCoverage, n int) img2ascii.Charset {
	if n <= 0 || n >= len(ranked) {
		out := make(img2ascii.Charset, len(ranked))
		for i, g := range ranked {
			out[i] = g.r
		}
		return out
	}

	hi, lo := ranked[0].cov, ranked[len(ranked)-1].cov
	used := make([]bool, len(ranked))
	out := make(img2ascii.Charset, 0, n)
	for k := 0; k < n; k++ {
		target := hi
		if n > 1 {
			target = hi - float64(k)*(hi-lo)/float64(n-1)
		}
		best, bestDist := -1, math.Inf(1)
		for i, g := range ranked {
			if used[i] {
				continue
			}
			if d := math.Abs(g.cov - target); d < bestDist {
				best, bestDist = i, d
			}
		}
		used[best] = true
		out = append(out, ranked[best].r)
	}
	return out
}

// loadTTF returns the TrueType font for a font name as accepted by
// img2ascii.LoadFont.
func loadTTF(name string) (*truetype.Font, error) {
	data := gomono.TTF
	if name != "" && !strings.EqualFold(name, img2ascii.DefaultFont) {
		var err error
		data, err = os.ReadFile(name)
		if err != nil {
			return nil, err
		}
	}
	return freetype.ParseFont(data)
}

// renderSpecimen draws the ramp black on white so it can be checked by
// eye.
func renderSpecimen(ttf *truetype.Font, ramp img2ascii.Charset, path string) error {
	face := truetype.NewFace(ttf, &truetype.Options{
		Size:    specimenSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	defer face.Close()

	adv, ok := face.GlyphAdvance('M')
	if !ok {
		return fmt.Errorf("font has no 'M' glyph")
	}
	metrics := face.Metrics()
	width := adv.Ceil() * len(ramp)
	height := metrics.Height.Ceil()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	ctx := freetype.NewContext()
	ctx.SetDPI(72)
	ctx.SetFont(ttf)
	ctx.SetFontSize(specimenSize)
	ctx.SetClip(img.Bounds())
	ctx.SetDst(img)
	ctx.SetSrc(image.Black)
	ctx.SetHinting(font.HintingFull)

	pt := freetype.Pt(0, metrics.Ascent.Ceil())
	for _, r := range ramp {
		// Every glyph starts on its own cell
		if _, err := ctx.DrawString(string(r), pt); err != nil {
			return err
		}
		pt.X += adv
	}
	return imageutil.SaveImage(img, path)
}

func main() {
	inputFont := flag.String("font", img2ascii.DefaultFont,
		"Font to measure: 'gomono' (embedded) or path to TTF file")
	charset := flag.String("charset", "",
		"Candidate characters (default: printable ASCII)")
	blocks := flag.Bool("blocks", false,
		"Add Unicode shade and block characters to the candidates")
	levels := flag.Int("levels", 10,
		"Number of glyphs in the output ramp, 0 for all candidates")
	specimen := flag.String("specimen", "",
		"Path to save an image of the ramp")
	verbose := flag.Bool("v", false,
		"Print the coverage of every candidate")
	flag.Parse()

	candidates := *charset
	if candidates == "" {
		candidates = printableASCII()
	}
	if *blocks {
		candidates += blockChars
	}

	f, err := img2ascii.LoadFont(*inputFont)
	if err != nil {
		log.Fatalf("Failed to load font: %v", err)
	}
	w, h := f.CellSize()
	log.Printf("Measuring %d glyphs of %s (cell %dx%d, aspect %.2f)",
		len([]rune(candidates)), filepath.Base(f.Name()), w, h, f.CellAspect())

	// Drop duplicates, keeping the first occurrence
	seen := make(map[rune]bool)
	var unique img2ascii.Charset
	for _, r := range candidates {
		if !seen[r] {
			seen[r] = true
			unique = append(unique, r)
		}
	}

	ordered := f.RankCharset(unique)
	ranked := make([]glyphCoverage, len(ordered))
	for i, r := range ordered {
		ranked[i] = glyphCoverage{r: r, cov: f.Coverage(r)}
		if *verbose {
			log.Printf("%q %.4f", r, ranked[i].cov)
		}
	}

	ramp := pickRamp(ranked, *levels)
	fmt.Println(ramp.String())

	if *specimen != "" {
		ttf, err := loadTTF(*inputFont)
		if err != nil {
			log.Fatalf("Failed to load font: %v", err)
		}
		if err := renderSpecimen(ttf, ramp, *specimen); err != nil {
			log.Fatalf("Failed to save specimen: %v", err)
		}
		log.Printf("Saved specimen to %s", *specimen)
	}
}
