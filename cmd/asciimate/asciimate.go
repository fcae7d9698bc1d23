package main

import (
	"context"
	"flag"
	"fmt"
	"maps"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/wbrown/img2ascii"
	"github.com/wbrown/img2ascii/imageutil"
	"golang.org/x/term"
)

func main() {
	inputFile := flag.String("input", "",
		"Path to the input image, or a saved .json/.json.zst animation "+
			"(required unless -stdio)")
	outputFile := flag.String("output", "",
		"Path to save the output: .json or .json.zst animation, .txt, .ans "+
			"or an image extension for a preview (if not specified, prints to stdout)")
	glyphs := flag.Bool("glyphs", false,
		"Draw image previews with font glyphs instead of colour blocks")
	configFile := flag.String("config", "",
		"Path to a studio JSON config; flags set explicitly override it")
	cols := flag.Int("cols", 0,
		"Number of character columns (default: terminal width, or 80)")
	rows := flag.Int("rows", 0,
		"Number of character rows (0 derives rows from the image and font)")
	charset := flag.String("charset", img2ascii.RampStandard,
		"Characters from dark to light")
	contrast := flag.Float64("contrast", 0,
		"Contrast in (-259, 259); with -frames > 1 the end of a ramp from -contrast_start")
	contrastStart := flag.Float64("contrast_start", 0,
		"Contrast of the first frame of an animation")
	brightness := flag.Float64("brightness", 0,
		"Brightness offset; with -frames > 1 the end of a ramp from -brightness_start")
	brightnessStart := flag.Float64("brightness_start", 0,
		"Brightness of the first frame of an animation")
	gamma := flag.Float64("gamma", 1,
		"Gamma applied to luminance")
	colorMode := flag.Bool("color", false,
		"Emit per-cell colours")
	sharpen := flag.Bool("sharpen", false,
		"Sharpen the downsampled image before mapping")
	edgeMode := flag.String("edge", "none",
		"Edge mode: none, dog or sobel")
	fontPath := flag.String("font", img2ascii.DefaultFont,
		"Font used for cell proportions: 'gomono' (embedded) or path to TTF file")
	frames := flag.Int("frames", 1,
		"Number of animation frames")
	fps := flag.Float64("fps", img2ascii.DefaultFPS,
		"Playback rate for -play")
	interp := flag.String("interpolation", "bilinear",
		"Downsampling: nearest, approx, bilinear, area or lanczos")
	workers := flag.Int("workers", 0,
		"Number of render workers, 0 for one per CPU")
	play := flag.Bool("play", false,
		"Play the animation in the terminal")
	loop := flag.Bool("loop", false,
		"Repeat playback until interrupted")
	stdio := flag.Bool("stdio", false,
		"Serve JSON-lines frame requests on stdin/stdout")
	debug := flag.Bool("debug", false,
		"Enable debug logging")
	flag.Parse()

	SetDebug(*debug)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	interpolation, err := imageutil.ParseInterpolation(*interp)
	if err != nil {
		Fatal("%v", err)
	}
	opts := []img2ascii.RendererOption{img2ascii.WithInterpolation(interpolation)}

	if *stdio {
		Log(DEBUG, "serving frame requests on stdio")
		if err := img2ascii.Serve(ctx, os.Stdin, os.Stdout, opts...); err != nil {
			Fatal("serve: %v", err)
		}
		return
	}

	// Validate required flags
	if *inputFile == "" {
		fmt.Fprintln(os.Stderr, "Please provide the image using the -input flag")
		flag.PrintDefaults()
		os.Exit(2)
	}

	explicit := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) {
		explicit[f.Name] = true
	})

	var base *img2ascii.StudioConfig
	if *configFile != "" {
		sc, err := img2ascii.LoadStudioConfig(*configFile)
		if err != nil {
			Fatal("Error loading config: %v", err)
		}
		Log(DEBUG, "loaded %s: %d frames", *configFile, sc.Frames)
		base = &sc
	}

	sc, err := mergeFlags(base, explicit, flagValues{
		charset:         *charset,
		cols:            *cols,
		rows:            *rows,
		contrast:        *contrast,
		contrastStart:   *contrastStart,
		brightness:      *brightness,
		brightnessStart: *brightnessStart,
		gamma:           *gamma,
		color:           *colorMode,
		sharpen:         *sharpen,
		edge:            *edgeMode,
		font:            *fontPath,
		frames:          *frames,
		fps:             *fps,
		termCols:        terminalCols(),
	})
	if err != nil {
		Fatal("%v", err)
	}

	beginInit := time.Now()
	var anim *img2ascii.Animation
	if isAnimationFile(*inputFile) {
		anim, err = img2ascii.LoadAnimation(*inputFile)
		if err != nil {
			Fatal("Error loading animation: %v", err)
		}
		if explicit["fps"] {
			anim.FPS = *fps
		}
		Log(INFO, "Loaded %d frames of %dx%d", len(anim.Frames), anim.Cols, anim.Rows)
	} else {
		pool := img2ascii.NewPool(*workers, opts...)
		Log(DEBUG, "rendering %d frames of %d columns on %d workers",
			sc.Frames, sc.Cols, pool.Size())

		onEvent := func(e img2ascii.Event) {
			switch e.Type {
			case img2ascii.EventProgress:
				Log(DEBUG, "frame %d: %3.0f%%", e.FrameIndex, e.Value*100)
			case img2ascii.EventResult:
				Log(DEBUG, "frame %d: done", e.FrameIndex)
			}
		}
		anim, err = img2ascii.Animate(ctx, img2ascii.FromFile(*inputFile), sc, pool, onEvent)
		if err != nil {
			Fatal("Error processing image: %v", err)
		}
		Log(INFO, "Rendered %d frames of %dx%d in %v",
			len(anim.Frames), anim.Cols, anim.Rows, time.Since(beginInit))
	}

	switch {
	case *play:
		if err := playback(ctx, anim, *loop); err != nil {
			Fatal("playback: %v", err)
		}
	case *outputFile != "":
		if err := writeOutput(*outputFile, anim, sc, *glyphs); err != nil {
			Fatal("Error writing output: %v", err)
		}
		Log(INFO, "Output written to %s", *outputFile)
	default:
		for _, f := range anim.Frames {
			fmt.Print(img2ascii.RenderANSI(f))
		}
	}
}

// flagValues holds the parsed command line settings that shape a
// StudioConfig.
type flagValues struct {
	charset                     string
	cols, rows                  int
	contrast, contrastStart     float64
	brightness, brightnessStart float64
	gamma                       float64
	color, sharpen              bool
	edge                        string
	font                        string
	frames                      int
	fps                         float64
	termCols                    int
}

// mergeFlags builds the studio config for a run. Without a config file
// the flag values and their defaults are used as they are; with one, only
// flags named in explicit override it. -contrast and -brightness give the
// last frame's value, and the first frame's too for a single frame unless
// the matching _start flag is set.
func mergeFlags(base *img2ascii.StudioConfig, explicit map[string]bool, v flagValues) (img2ascii.StudioConfig, error) {
	var sc img2ascii.StudioConfig
	if base != nil {
		sc = *base
	} else {
		sc = img2ascii.StudioConfig{
			Charset:         img2ascii.NewCharset(v.charset),
			Font:            v.font,
			Frames:          v.frames,
			ContrastStart:   v.contrastStart,
			ContrastEnd:     v.contrast,
			BrightnessStart: v.brightnessStart,
			BrightnessEnd:   v.brightness,
			Cols:            v.termCols,
			Rows:            v.rows,
			Gamma:           v.gamma,
			ColorMode:       v.color,
			Sharpen:         v.sharpen,
			Edge:            img2ascii.DefaultEdgeConfig(),
		}
		set := map[string]bool{"edge": true}
		maps.Copy(set, explicit)
		explicit = set
	}

	if explicit["charset"] {
		sc.Charset = img2ascii.NewCharset(v.charset)
	}
	if explicit["cols"] {
		sc.Cols = v.cols
	}
	if explicit["rows"] {
		sc.Rows = v.rows
	}
	if explicit["gamma"] {
		sc.Gamma = v.gamma
	}
	if explicit["color"] {
		sc.ColorMode = v.color
	}
	if explicit["sharpen"] {
		sc.Sharpen = v.sharpen
	}
	if explicit["font"] {
		sc.Font = v.font
	}
	if explicit["frames"] {
		sc.Frames = v.frames
	}
	if explicit["fps"] || sc.FPS == 0 {
		sc.FPS = v.fps
	}

	// Contrast and brightness depend on the final frame count
	if explicit["contrast"] {
		sc.ContrastEnd = v.contrast
		if !explicit["contrast_start"] && sc.Frames <= 1 {
			sc.ContrastStart = v.contrast
		}
	}
	if explicit["contrast_start"] {
		sc.ContrastStart = v.contrastStart
	}
	if explicit["brightness"] {
		sc.BrightnessEnd = v.brightness
		if !explicit["brightness_start"] && sc.Frames <= 1 {
			sc.BrightnessStart = v.brightness
		}
	}
	if explicit["brightness_start"] {
		sc.BrightnessStart = v.brightnessStart
	}

	if explicit["edge"] {
		mode, err := img2ascii.ParseEdgeMode(v.edge)
		if err != nil {
			return img2ascii.StudioConfig{}, err
		}
		sc.Edge.Mode = mode
	}
	if sc.Cols == 0 {
		sc.Cols = img2ascii.DefaultCols
	}
	if sc.Frames < 1 || sc.Frames > img2ascii.MaxFrames {
		return img2ascii.StudioConfig{}, fmt.Errorf("frames must be between 1 and %d, got %d",
			img2ascii.MaxFrames, sc.Frames)
	}
	return sc, nil
}

// terminalCols returns the width of the terminal on stdout, or 0 when
// stdout is not a terminal.
func terminalCols() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return 0
	}
	width, _, err := term.GetSize(fd)
	if err != nil {
		Log(DEBUG, "terminal size: %v", err)
		return 0
	}
	return width
}

// playback draws the frames in place at the animation's frame rate.
func playback(ctx context.Context, anim *img2ascii.Animation, loop bool) error {
	if len(anim.Frames) == 0 {
		return fmt.Errorf("no frames to play")
	}
	fmt.Print(img2ascii.HideCursor + img2ascii.ClearScreen)
	defer fmt.Print(img2ascii.ResetStyle + img2ascii.ShowCursor)

	ticker := time.NewTicker(anim.FrameDuration())
	defer ticker.Stop()

	for {
		for _, f := range anim.Frames {
			fmt.Print(img2ascii.CursorHome + img2ascii.RenderANSI(f))
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
			}
		}
		if !loop {
			return nil
		}
	}
}

// isAnimationFile reports whether path names a saved animation.
func isAnimationFile(path string) bool {
	lower := strings.ToLower(path)
	return strings.HasSuffix(lower, ".json") || strings.HasSuffix(lower, ".json.zst")
}

// writeOutput saves the animation in the format given by the extension of
// path. Image previews write one file per frame when there is more than
// one frame.
func writeOutput(path string, anim *img2ascii.Animation, sc img2ascii.StudioConfig, glyphs bool) error {
	if isAnimationFile(path) {
		return img2ascii.SaveAnimation(anim, path)
	}

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".ans":
		var sb strings.Builder
		for _, f := range anim.Frames {
			sb.WriteString(img2ascii.RenderANSI(f))
		}
		return os.WriteFile(path, []byte(sb.String()), 0644)
	case ".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tiff", ".tif":
		font, err := img2ascii.LoadFont(sc.Font)
		if err != nil {
			return err
		}
		face := font.Face()
		defer face.Close()
		w, h := font.CellSize()
		cellW, cellH := max(w/2, 1), max(h/2, 1)
		for _, f := range anim.Frames {
			out := path
			if len(anim.Frames) > 1 {
				out = fmt.Sprintf("%s_%04d%s", strings.TrimSuffix(path, filepath.Ext(path)), f.Index, filepath.Ext(path))
			}
			if glyphs {
				err = img2ascii.SaveGlyphImage(f, face, out)
			} else {
				err = img2ascii.SavePreview(f, sc.Charset, cellW, cellH, out)
			}
			if err != nil {
				return err
			}
			Log(DEBUG, "preview %s", out)
		}
		return nil
	default:
		var sb strings.Builder
		for i, f := range anim.Frames {
			if i > 0 {
				sb.WriteString("\n")
			}
			sb.WriteString(f.Text())
			sb.WriteString("\n")
		}
		return os.WriteFile(path, []byte(sb.String()), 0644)
	}
}
