package img2ascii

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
)

// maxMessageSize bounds a single JSON-lines request.
const maxMessageSize = 1 << 20

// RequestMessage is the wire form of a frame request:
//
//	{"type":"process","imageHandle":"path.png",
//	 "config":{"cols":80,"rows":24,"charset":"@%#*+=-:. ","contrast":0,
//	           "brightness":0,"gamma":1,"colorsEnabled":false},
//	 "frameIndex":0}
//
// The image handle is a file path.
type RequestMessage struct {
	Type        string        `json:"type"`
	ImageHandle string        `json:"imageHandle"`
	Config      ConfigMessage `json:"config"`
	FrameIndex  int           `json:"frameIndex"`
}

// ConfigMessage is the per-frame configuration carried by a RequestMessage.
// Gamma defaults to 1 and ColorsEnabled to false when absent; a gamma that
// is sent must be positive.
type ConfigMessage struct {
	Cols          int      `json:"cols"`
	Rows          int      `json:"rows"`
	Charset       string   `json:"charset"`
	Contrast      float64  `json:"contrast"`
	Brightness    float64  `json:"brightness"`
	Gamma         *float64 `json:"gamma,omitempty"`
	ColorsEnabled bool     `json:"colorsEnabled,omitempty"`

	EdgeMode   string   `json:"edgeMode,omitempty"`
	Sigma1     *float64 `json:"sigma1,omitempty"`
	Sigma2     *float64 `json:"sigma2,omitempty"`
	KernelSize *int     `json:"kernelSize,omitempty"`
}

// AsciiConfig converts the message into a renderer configuration. It does
// not validate ranges; the renderer does.
func (m ConfigMessage) AsciiConfig() (AsciiConfig, error) {
	cfg := AsciiConfig{
		Cols:       m.Cols,
		Rows:       m.Rows,
		Charset:    NewCharset(m.Charset),
		Contrast:   m.Contrast,
		Brightness: m.Brightness,
		Gamma:      1,
		ColorMode:  m.ColorsEnabled,
		Edge:       DefaultEdgeConfig(),
	}
	if m.Gamma != nil {
		if !(*m.Gamma > 0) {
			return cfg, fmt.Errorf("%w: gamma %v must be positive", ErrInvalidConfig, *m.Gamma)
		}
		cfg.Gamma = *m.Gamma
	}

	mode, err := ParseEdgeMode(m.EdgeMode)
	if err != nil {
		return cfg, err
	}
	cfg.Edge.Mode = mode
	if m.Sigma1 != nil {
		cfg.Edge.Sigma1 = *m.Sigma1
	}
	if m.Sigma2 != nil {
		cfg.Edge.Sigma2 = *m.Sigma2
	}
	if m.KernelSize != nil {
		cfg.Edge.KernelSize = *m.KernelSize
	}
	return cfg, nil
}

// DecodeRequest parses a RequestMessage and turns it into a Request.
func DecodeRequest(data []byte) (Request, error) {
	var msg RequestMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return Request{}, fmt.Errorf("failed to decode request: %w", err)
	}
	if msg.Type != "process" {
		return Request{}, fmt.Errorf("unsupported request type %q", msg.Type)
	}
	if msg.ImageHandle == "" {
		return Request{}, fmt.Errorf("request for frame %d has no image handle", msg.FrameIndex)
	}
	cfg, err := msg.Config.AsciiConfig()
	if err != nil {
		return Request{}, err
	}
	return Request{
		Source:     FromFile(msg.ImageHandle),
		Config:     cfg,
		FrameIndex: msg.FrameIndex,
	}, nil
}

// Serve reads one RequestMessage per line from r and writes the resulting
// events to w, one JSON object per line, until r is exhausted or ctx is
// cancelled. Malformed requests produce an error event and do not stop
// the loop.
func Serve(ctx context.Context, r io.Reader, w io.Writer, opts ...RendererOption) error {
	worker := NewWorker(opts...)
	enc := json.NewEncoder(w)

	var writeErr error
	emit := func(e Event) {
		if writeErr == nil {
			writeErr = enc.Encode(e)
		}
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxMessageSize)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		req, err := DecodeRequest(line)
		if err != nil {
			emit(Event{Type: EventError, Err: err})
		} else {
			worker.Handle(ctx, req, emit)
		}
		if writeErr != nil {
			return fmt.Errorf("failed to write event: %w", writeErr)
		}
	}
	return scanner.Err()
}
