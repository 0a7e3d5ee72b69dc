package recorder

import (
	"context"
	"sync"
	"time"

	"github.com/screenrec/screenrec/internal/trace"
)

// Snapshot is one progress observation.
type Snapshot struct {
	Elapsed      time.Duration
	Frames       int64
	AudioChunks  int64
	DroppedVideo int64
	DroppedAudio int64
	BytesWritten int64
	StaticRatio  float64
}

// Reporter periodically emits capture progress. Best effort only; it is
// never control-flow critical and stops with the session.
type Reporter struct {
	interval time.Duration
	collect  func() Snapshot
	render   func(Snapshot)

	stopCh   chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// NewReporter creates a reporter. render may be nil; collect must not be.
func NewReporter(interval time.Duration, collect func() Snapshot, render func(Snapshot)) *Reporter {
	if interval <= 0 {
		interval = DefaultProgressInterval
	}
	return &Reporter{
		interval: interval,
		collect:  collect,
		render:   render,
		stopCh:   make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the reporting loop.
func (r *Reporter) Start(ctx context.Context) {
	go r.loop(ctx)
}

// Stop ends the loop and waits for the final tick to drain. Idempotent.
func (r *Reporter) Stop() {
	r.stopOnce.Do(func() { close(r.stopCh) })
	<-r.done
}

func (r *Reporter) loop(ctx context.Context) {
	defer close(r.done)

	logger := trace.Logger(ctx)
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-r.stopCh:
			return
		case <-ticker.C:
			snap := r.collect()
			logger.Debug("progress",
				"elapsed", snap.Elapsed.Round(time.Millisecond),
				"frames", snap.Frames,
				"audioChunks", snap.AudioChunks,
				"droppedVideo", snap.DroppedVideo,
				"droppedAudio", snap.DroppedAudio,
				"bytes", snap.BytesWritten,
				"staticRatio", snap.StaticRatio,
			)
			if r.render != nil {
				r.render(snap)
			}
		}
	}
}
