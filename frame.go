package img2ascii

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// AsciiFrame is one rendered frame: a rows x cols grid of glyphs and,
// in colour mode, a matching grid of "#rrggbb" colours. A frame is not
// modified after the renderer returns it.
type AsciiFrame struct {
	Index int
	Chars [][]rune
	// Colors is nil unless the frame was rendered in colour mode.
	Colors [][]string
	// Timestamp is the completion time in milliseconds since the Unix
	// epoch.
	Timestamp float64
}

// Rows returns the number of character rows.
func (f *AsciiFrame) Rows() int {
	return len(f.Chars)
}

// Cols returns the number of character columns.
func (f *AsciiFrame) Cols() int {
	if len(f.Chars) == 0 {
		return 0
	}
	return len(f.Chars[0])
}

// colorAt returns the colour of cell (x, y), or false when the frame has
// no colour for that cell.
func (f *AsciiFrame) colorAt(x, y int) (string, bool) {
	if y < 0 || y >= len(f.Colors) || x < 0 || x >= len(f.Colors[y]) {
		return "", false
	}
	return f.Colors[y][x], true
}

// checkShape reports an error unless every glyph row has cols cells and
// Colors is nil or matches the glyph grid row by row.
func (f *AsciiFrame) checkShape(cols, rows int) error {
	if len(f.Chars) != rows {
		return fmt.Errorf("%d rows, want %d", len(f.Chars), rows)
	}
	for y, row := range f.Chars {
		if len(row) != cols {
			return fmt.Errorf("row %d has %d cells, want %d", y, len(row), cols)
		}
	}
	if f.Colors == nil {
		return nil
	}
	if len(f.Colors) != rows {
		return fmt.Errorf("%d colour rows, want %d", len(f.Colors), rows)
	}
	for y, row := range f.Colors {
		if len(row) != cols {
			return fmt.Errorf("colour row %d has %d cells, want %d", y, len(row), cols)
		}
	}
	return nil
}

// Text returns the glyph grid as newline separated lines.
func (f *AsciiFrame) Text() string {
	var sb strings.Builder
	for y, row := range f.Chars {
		if y > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(string(row))
	}
	return sb.String()
}

// Lines returns each row of the glyph grid as a string.
func (f *AsciiFrame) Lines() []string {
	lines := make([]string, len(f.Chars))
	for y, row := range f.Chars {
		lines[y] = string(row)
	}
	return lines
}

// Time returns Timestamp as a time.Time.
func (f *AsciiFrame) Time() time.Time {
	return time.UnixMicro(int64(f.Timestamp * 1000))
}

// frameJSON is the wire form of a frame.
type frameJSON struct {
	Index     int        `json:"index"`
	Text      [][]string `json:"text"`
	Colors    [][]string `json:"colors,omitempty"`
	Timestamp float64    `json:"timestamp"`
}

// MarshalJSON encodes the frame as
// {"index":i,"text":[["c",...],...],"colors":[[...]],"timestamp":t}, with
// one single-character string per cell.
func (f *AsciiFrame) MarshalJSON() ([]byte, error) {
	text := make([][]string, len(f.Chars))
	for y, row := range f.Chars {
		text[y] = make([]string, len(row))
		for x, r := range row {
			text[y][x] = string(r)
		}
	}
	return json.Marshal(frameJSON{
		Index:     f.Index,
		Text:      text,
		Colors:    f.Colors,
		Timestamp: f.Timestamp,
	})
}

// UnmarshalJSON decodes the wire form produced by MarshalJSON. Cells that
// are not exactly one character become a space.
func (f *AsciiFrame) UnmarshalJSON(data []byte) error {
	var fj frameJSON
	if err := json.Unmarshal(data, &fj); err != nil {
		return err
	}
	chars := make([][]rune, len(fj.Text))
	for y, row := range fj.Text {
		chars[y] = make([]rune, len(row))
		for x, cell := range row {
			rs := []rune(cell)
			if len(rs) != 1 {
				chars[y][x] = ' '
				continue
			}
			chars[y][x] = rs[0]
		}
	}
	*f = AsciiFrame{
		Index:     fj.Index,
		Chars:     chars,
		Colors:    fj.Colors,
		Timestamp: fj.Timestamp,
	}
	return nil
}

// timestampOf converts t to milliseconds since the Unix epoch.
func timestampOf(t time.Time) float64 {
	return float64(t.UnixMicro()) / 1000
}
