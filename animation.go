package img2ascii

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wbrown/img2ascii/imageutil"
)

// DefaultFPS is the playback rate of an animation whose config has none.
const DefaultFPS = 12

// Animation is a rendered frame sequence.
type Animation struct {
	Frames     []*AsciiFrame
	Cols, Rows int
	FPS        float64
}

// FrameDuration returns how long each frame is shown during playback.
func (a *Animation) FrameDuration() time.Duration {
	fps := a.FPS
	if fps <= 0 {
		fps = DefaultFPS
	}
	return time.Duration(float64(time.Second) / fps)
}

// Animate renders every frame of sc from src. The source is decoded once
// and each frame downsamples the shared, read-only image. When sc.Rows is
// zero the row count is derived from the image proportions and the cell
// aspect of sc.Font. Frames are rendered on pool, or on a GOMAXPROCS sized
// pool when pool is nil, and returned in index order.
func Animate(ctx context.Context, src ImageSource, sc StudioConfig, pool *Pool, onEvent func(Event)) (*Animation, error) {
	if sc.Frames < 1 || sc.Frames > MaxFrames {
		src.Release()
		return nil, fmt.Errorf("%w: frame count %d outside [1, %d]", ErrInvalidConfig, sc.Frames, MaxFrames)
	}
	img, err := src.Decode()
	src.Release()
	if err != nil {
		var de *ImageDecodeError
		if !errors.As(err, &de) {
			err = &ImageDecodeError{Source: src.Name(), Err: err}
		}
		return nil, err
	}

	rows := sc.Rows
	if rows == 0 {
		f, err := LoadFont(sc.Font)
		if err != nil {
			return nil, err
		}
		b := img.Bounds()
		rows = imageutil.RowsForWidth(b.Dx(), b.Dy(), sc.Cols, f.CellAspect())
	}

	reqs := make([]Request, sc.Frames)
	for i := range reqs {
		cfg := sc.FrameConfig(i)
		cfg.Rows = rows
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("frame %d: %w", i, err)
		}
		reqs[i] = Request{Source: FromImage(img), Config: cfg, FrameIndex: i}
	}

	if pool == nil {
		pool = NewPool(0)
	}
	frames, err := pool.Run(ctx, reqs, onEvent)
	if err != nil {
		return nil, err
	}
	return &Animation{Frames: frames, Cols: sc.Cols, Rows: rows, FPS: sc.FPS}, nil
}
