package img2ascii

import (
	"path/filepath"
	"testing"
)

func TestLoadFontDefault(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"", "gomono", "GoMono"} {
		f, err := LoadFont(name)
		if err != nil {
			t.Fatalf("LoadFont(%q) failed: %v", name, err)
		}
		if f.Name() != DefaultFont {
			t.Errorf("LoadFont(%q).Name() = %q", name, f.Name())
		}
	}

	if _, err := LoadFont(filepath.Join(t.TempDir(), "missing.ttf")); err == nil {
		t.Error("Expected error for missing font file")
	}
}

func TestFontCellAspect(t *testing.T) {
	t.Parallel()

	f, err := LoadFont(DefaultFont)
	if err != nil {
		t.Fatal(err)
	}
	w, h := f.CellSize()
	if w <= 0 || h <= w {
		t.Errorf("Expected a tall cell, got %dx%d", w, h)
	}
	if a := f.CellAspect(); a < 1.2 || a > 3 {
		t.Errorf("Cell aspect %v outside the usual monospace range", a)
	}
}

func TestFontCoverage(t *testing.T) {
	t.Parallel()

	f, err := LoadFont(DefaultFont)
	if err != nil {
		t.Fatal(err)
	}
	space := f.Coverage(' ')
	dot := f.Coverage('.')
	at := f.Coverage('@')
	if space != 0 {
		t.Errorf("Space should have no ink, got %v", space)
	}
	if !(dot > space && at > dot) {
		t.Errorf("Expected ' ' < '.' < '@', got %v %v %v", space, dot, at)
	}
	if at > 1 {
		t.Errorf("Coverage above 1: %v", at)
	}
}

func TestFontRankCharset(t *testing.T) {
	t.Parallel()

	f, err := LoadFont(DefaultFont)
	if err != nil {
		t.Fatal(err)
	}
	ranked := f.RankCharset(NewCharset(" .@:"))
	if len(ranked) != 4 {
		t.Fatalf("Expected 4 glyphs, got %d", len(ranked))
	}
	if ranked[0] != '@' {
		t.Errorf("Densest glyph should be '@', got %q", ranked[0])
	}
	if ranked[len(ranked)-1] != ' ' {
		t.Errorf("Lightest glyph should be ' ', got %q", ranked[len(ranked)-1])
	}
}
