package img2ascii

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/wbrown/img2ascii/imageutil"
)

// ESC is the escape character that starts ANSI control sequences.
const ESC = "\u001b"

// Terminal control sequences used for playback.
const (
	CursorHome  = ESC + "[H"
	ClearScreen = ESC + "[2J"
	HideCursor  = ESC + "[?25l"
	ShowCursor  = ESC + "[?25h"
	ResetStyle  = ESC + "[0m"
)

// ParseHexColor parses a "#rrggbb" string.
func ParseHexColor(s string) (imageutil.RGB, error) {
	if len(s) != 7 || s[0] != '#' {
		return imageutil.RGB{}, fmt.Errorf("invalid colour %q", s)
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return imageutil.RGB{}, fmt.Errorf("invalid colour %q: %w", s, err)
	}
	return imageutil.RGB{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

// RenderANSI renders a frame for a terminal. Grayscale frames are plain
// text; colour frames get a 24-bit foreground escape per run of cells
// sharing a colour, and every line ends with a style reset. Cells whose
// colour cannot be parsed are written without a colour change.
func RenderANSI(f *AsciiFrame) string {
	if f.Colors == nil {
		return f.Text() + "\n"
	}

	var sb strings.Builder
	for y, row := range f.Chars {
		var currentFg string
		var run strings.Builder
		for x, r := range row {
			fg := currentFg
			if hex, ok := f.colorAt(x, y); ok {
				if c, err := ParseHexColor(hex); err == nil {
					fg = fmt.Sprintf("38;2;%d;%d;%d", c.R, c.G, c.B)
				}
			}
			// Flush the run whenever the colour changes
			if fg != currentFg {
				if run.Len() > 0 {
					sb.WriteString(formatANSICode(currentFg, run.String()))
					run.Reset()
				}
				currentFg = fg
			}
			run.WriteRune(r)
		}
		if run.Len() > 0 {
			sb.WriteString(formatANSICode(currentFg, run.String()))
		}
		sb.WriteString(ResetStyle)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// formatANSICode prefixes text with the SGR sequence for fg. An empty fg
// writes text unchanged.
func formatANSICode(fg, text string) string {
	if fg == "" {
		return text
	}
	var code strings.Builder
	code.WriteString(ESC)
	code.WriteByte('[')
	code.WriteString(fg)
	code.WriteByte('m')
	code.WriteString(text)
	return code.String()
}
