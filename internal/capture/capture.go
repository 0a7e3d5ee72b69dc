// Package capture implements the capture service: a screen frame pump with
// an optional microphone source, delivering timestamped samples to
// registered sinks until stopped.
package capture

import (
	"context"

	"github.com/screenrec/screenrec/internal/geometry"
	"github.com/screenrec/screenrec/internal/media"
)

// FrameConfig carries the per-session capture parameters.
type FrameConfig struct {
	FPS             int
	ShowCursor      bool
	AudioEnabled    bool
	AudioSampleRate int
}

// SinkFunc receives one sample from a pump goroutine. It must return
// quickly and never block; slow handling belongs behind a queue.
type SinkFunc func(media.Sample)

// Service starts capture streams.
type Service interface {
	// Start begins capturing the target with the resolved geometry.
	// On success the returned stream delivers samples until Stop.
	Start(ctx context.Context, target geometry.Target, geo geometry.Recording, cfg FrameConfig) (Stream, error)
}

// Stream is one live capture: a lazy, unbounded, non-restartable sample
// sequence.
type Stream interface {
	// AddSink registers the receiver for one sample kind. At most one
	// sink per kind; samples without a sink are discarded.
	AddSink(kind media.Kind, fn SinkFunc)

	// Stop ends capture and waits for the pumps to exit.
	Stop() error

	// Err yields at most one fatal stream failure. After a failure the
	// stream stops delivering samples but Stop must still be called.
	Err() <-chan error

	// Stats returns a point-in-time snapshot of capture counters.
	Stats() Stats
}

// Stats is a snapshot of capture-side counters.
type Stats struct {
	FramesCaptured int64
	GrabFailures   int64
	AudioChunks    int64
	// StaticRatio is the share of sampled frame pairs that were
	// perceptually identical, 0 when too few frames were sampled.
	StaticRatio float64
}
