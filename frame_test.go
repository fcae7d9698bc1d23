package img2ascii

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
)

func sampleFrame() *AsciiFrame {
	return &AsciiFrame{
		Index: 7,
		Chars: [][]rune{
			[]rune("@#."),
			[]rune(" █-"),
		},
		Colors: [][]string{
			{"#000000", "#ff0080", "#ffffff"},
			{"#102030", "#abcdef", "#010203"},
		},
		Timestamp: 1700000000123.5,
	}
}

func TestFrameText(t *testing.T) {
	t.Parallel()

	f := sampleFrame()
	if got, want := f.Text(), "@#.\n █-"; got != want {
		t.Errorf("Text() = %q, want %q", got, want)
	}
	if got := f.Lines(); !reflect.DeepEqual(got, []string{"@#.", " █-"}) {
		t.Errorf("Lines() = %q", got)
	}
	if f.Rows() != 2 || f.Cols() != 3 {
		t.Errorf("Expected 3x2 frame, got %dx%d", f.Cols(), f.Rows())
	}
	if (&AsciiFrame{}).Cols() != 0 {
		t.Error("Empty frame should have zero columns")
	}
}

func TestFrameMarshalJSON(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(sampleFrame())
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var wire map[string]interface{}
	if err := json.Unmarshal(data, &wire); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	for _, key := range []string{"index", "text", "colors", "timestamp"} {
		if _, ok := wire[key]; !ok {
			t.Errorf("Missing key %q in %s", key, data)
		}
	}
	if _, ok := wire["type"]; ok {
		t.Error("Result messages carry no type field")
	}
	if !strings.Contains(string(data), `"text":[["@","#","."],[" ","█","-"]]`) {
		t.Errorf("Unexpected text encoding: %s", data)
	}

	var back AsciiFrame
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal into frame failed: %v", err)
	}
	if !reflect.DeepEqual(&back, sampleFrame()) {
		t.Errorf("Decoded frame differs: %+v", back)
	}
}

func TestFrameMarshalJSONOmitsColors(t *testing.T) {
	t.Parallel()

	f := sampleFrame()
	f.Colors = nil
	data, err := json.Marshal(f)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "colors") {
		t.Errorf("Grayscale frame should omit colors: %s", data)
	}
}
