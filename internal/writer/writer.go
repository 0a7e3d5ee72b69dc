// Package writer persists capture samples into a video container through
// an ffmpeg subprocess: raw RGBA frames over stdin, s16le audio over a
// loopback TCP relay. Appends go through bounded queues that reject when
// full, so sample-delivery contexts never block on the encoder.
package writer

import (
	"time"

	"github.com/screenrec/screenrec/internal/geometry"
	"github.com/screenrec/screenrec/internal/media"
)

// TrackSettings carries the encoding parameters of one track.
type TrackSettings struct {
	// Video fields.
	Codec     string
	BitRate   int
	PixelSize geometry.PixelSize
	FPS       int

	// Audio fields.
	SampleRate   int
	AudioBitRate int
	Channels     int
}

// Writer is the container writer contract. Append and Ready are safe to
// call from sample-delivery goroutines; everything else belongs to the
// session's control flow.
type Writer interface {
	// AddTrack declares a track before Begin.
	AddTrack(kind media.Kind, settings TrackSettings) error

	// Begin starts the underlying encoder. After Begin the declared
	// tracks accept appends.
	Begin() error

	// AnchorTimeline pins the recording's timeline zero. Called at most
	// once, with the timestamp of the first video sample.
	AnchorTimeline(at time.Time)

	// Append offers one buffer. It never blocks; false means the buffer
	// was rejected (not ready, finished, or queue full) and is dropped.
	Append(kind media.Kind, buf []byte, at time.Time) bool

	// Ready reports whether the track currently accepts appends.
	Ready(kind media.Kind) bool

	// MarkInputFinished declares that no more samples arrive for the
	// track. Queued buffers still flush.
	MarkInputFinished(kind media.Kind)

	// Finalize flushes and closes the container, then calls done exactly
	// once with the result. Latency is unbounded; callers enforce their
	// own timeout.
	Finalize(done func(error))

	// Cancel aborts the writer and removes the output file. For
	// zero-output failure paths before or during startup.
	Cancel() error

	// BytesWritten is the number of payload bytes handed to the encoder.
	BytesWritten() int64

	// Path returns the output destination.
	Path() string
}
