package img2ascii

import (
	"context"
	"encoding/json"
	"fmt"
	"runtime"
	"slices"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// EventType distinguishes the events a worker emits for one request.
type EventType string

const (
	EventProgress EventType = "progress"
	EventResult   EventType = "result"
	EventError    EventType = "error"
)

// Request asks a worker to render one frame.
type Request struct {
	Source     ImageSource
	Config     AsciiConfig
	FrameIndex int
}

// Event is emitted by a worker while handling a Request: zero or more
// progress events followed by exactly one result or error.
type Event struct {
	Type       EventType
	FrameIndex int
	// Value is the progress fraction of a progress event.
	Value float64
	// Frame is set on result events.
	Frame *AsciiFrame
	// Err is set on error events.
	Err error
}

// MarshalJSON encodes the event in its wire form: progress events as
// {"type":"progress","value":v}, results as the frame itself and errors as
// {"type":"error","message":m}.
func (e Event) MarshalJSON() ([]byte, error) {
	switch e.Type {
	case EventProgress:
		return json.Marshal(struct {
			Type  EventType `json:"type"`
			Value float64   `json:"value"`
		}{e.Type, e.Value})
	case EventResult:
		if e.Frame == nil {
			return nil, fmt.Errorf("result event for frame %d has no frame", e.FrameIndex)
		}
		return e.Frame.MarshalJSON()
	case EventError:
		msg := "unknown error"
		if e.Err != nil {
			msg = e.Err.Error()
		}
		return json.Marshal(struct {
			Type    EventType `json:"type"`
			Message string    `json:"message"`
		}{e.Type, msg})
	}
	return nil, fmt.Errorf("unknown event type %q", e.Type)
}

// Worker renders frames with its own Renderer. The only state it keeps is
// the renderer's scratch buffer, so it can be dropped at any point between
// requests.
type Worker struct {
	mu       sync.Mutex
	renderer *Renderer
}

// NewWorker creates a Worker whose renderer is built with opts.
func NewWorker(opts ...RendererOption) *Worker {
	return &Worker{renderer: NewRenderer(opts...)}
}

// Process handles req in a new goroutine and returns its event stream. The
// channel is closed after the result or error event. It is buffered for a
// whole frame, so the worker never blocks on a slow reader.
func (w *Worker) Process(ctx context.Context, req Request) <-chan Event {
	events := make(chan Event, progressSteps+2)
	go func() {
		defer close(events)
		w.Handle(ctx, req, func(e Event) { events <- e })
	}()
	return events
}

// Handle renders req synchronously, passing every event to emit, and
// returns the frame or error that was also emitted last. A cancelled
// context is only checked before the frame starts.
func (w *Worker) Handle(ctx context.Context, req Request, emit func(Event)) (*AsciiFrame, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := ctx.Err(); err != nil {
		if req.Source != nil {
			req.Source.Release()
		}
		emit(Event{Type: EventError, FrameIndex: req.FrameIndex, Err: err})
		return nil, err
	}
	if req.Source == nil {
		err := fmt.Errorf("frame %d: no image source", req.FrameIndex)
		emit(Event{Type: EventError, FrameIndex: req.FrameIndex, Err: err})
		return nil, err
	}

	frame, err := w.renderer.RenderFrame(req.Source, req.Config, req.FrameIndex, func(v float64) {
		emit(Event{Type: EventProgress, FrameIndex: req.FrameIndex, Value: v})
	})
	if err != nil {
		emit(Event{Type: EventError, FrameIndex: req.FrameIndex, Err: err})
		return nil, err
	}
	emit(Event{Type: EventResult, FrameIndex: req.FrameIndex, Frame: frame})
	return frame, nil
}

// Pool renders independent frames on a fixed number of workers, each with
// its own Renderer, and reassembles the results by frame index.
type Pool struct {
	size int
	opts []RendererOption
}

// NewPool creates a pool of size workers. If size <= 0, uses GOMAXPROCS.
func NewPool(size int, opts ...RendererOption) *Pool {
	if size <= 0 {
		size = runtime.GOMAXPROCS(0)
	}
	return &Pool{size: size, opts: opts}
}

// Size returns the number of workers in the pool.
func (p *Pool) Size() int {
	return p.size
}

// Run renders every request and returns the frames sorted by frame index.
// onEvent, if not nil, receives every event of every worker; calls are
// serialized. The first failing frame cancels the remaining work and its
// error is returned. Cancelling ctx stops workers between frames.
func (p *Pool) Run(ctx context.Context, reqs []Request, onEvent func(Event)) ([]*AsciiFrame, error) {
	if len(reqs) == 0 {
		return nil, nil
	}

	var mu sync.Mutex
	emit := func(e Event) {
		if onEvent == nil {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		onEvent(e)
	}

	frames := make([]*AsciiFrame, len(reqs))
	g, gctx := errgroup.WithContext(ctx)
	var next atomic.Int64

	for n := min(p.size, len(reqs)); n > 0; n-- {
		g.Go(func() error {
			w := NewWorker(p.opts...)
			for {
				if err := gctx.Err(); err != nil {
					return err
				}
				i := int(next.Add(1)) - 1
				if i >= len(reqs) {
					return nil
				}
				frame, err := w.Handle(gctx, reqs[i], emit)
				if err != nil {
					return fmt.Errorf("frame %d: %w", reqs[i].FrameIndex, err)
				}
				frames[i] = frame
			}
		})
	}

	if err := g.Wait(); err != nil {
		// Sources that were never picked up still hold their handles.
		for _, req := range reqs {
			if req.Source != nil {
				req.Source.Release()
			}
		}
		return nil, err
	}

	slices.SortStableFunc(frames, func(a, b *AsciiFrame) int {
		return a.Index - b.Index
	})
	return frames, nil
}
