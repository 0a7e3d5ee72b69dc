// Package recorder runs one recording session end to end: it configures
// the container writer, counts down, starts capture, forwards samples,
// waits out the duration or an interrupt, and finalizes the output. The
// session advances through a validated state machine and ends in exactly
// one terminal Outcome.
package recorder

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/screenrec/screenrec/internal/capture"
	"github.com/screenrec/screenrec/internal/errdefs"
	"github.com/screenrec/screenrec/internal/media"
	"github.com/screenrec/screenrec/internal/session"
	"github.com/screenrec/screenrec/internal/syncx"
	"github.com/screenrec/screenrec/internal/trace"
	"github.com/screenrec/screenrec/internal/writer"
)

// Controller owns the session lifecycle. The Run goroutine performs every
// state transition and the stop sequence itself; concurrent stop triggers
// only trip the StopGuard and wake the wait loop, so capture stop and
// finalize each execute exactly once no matter how the session ends.
type Controller struct {
	// ProgressInterval and ProgressRender tune the progress reporter.
	// CountdownRender, when set, receives each remaining countdown
	// second; StartedRender fires once capture is live. All must be set
	// before Run.
	ProgressInterval time.Duration
	ProgressRender   func(Snapshot)
	CountdownRender  func(seconds int)
	StartedRender    func()

	cfg     session.Config
	capture capture.Service
	writer  writer.Writer

	guard  *StopGuard
	states *machine
	trail  *Trail

	anchor syncx.Latch[time.Time]

	videoForwarded atomic.Int64
	audioForwarded atomic.Int64
	droppedVideo   atomic.Int64
	droppedAudio   atomic.Int64
	discardedAudio atomic.Int64

	streamErr syncx.Latch[error]

	wake     chan struct{}
	wakeOnce sync.Once
	done     chan struct{}
	doneOnce sync.Once
}

// New creates a controller for one session. Controllers are single use.
func New(cfg session.Config, svc capture.Service, w writer.Writer) *Controller {
	trail := NewTrail(TrailMaxEvents)
	return &Controller{
		ProgressInterval: DefaultProgressInterval,
		cfg:              cfg,
		capture:          svc,
		writer:           w,
		guard:            &StopGuard{},
		states:           newMachine(trail),
		trail:            trail,
		wake:             make(chan struct{}),
		done:             make(chan struct{}),
	}
}

// RequestStop asks the session to stop for the given reason. The first
// request fixes the reason; later calls are no-ops. Never blocks: the run
// loop observes the guard and executes the actual stop sequence.
func (c *Controller) RequestStop(reason StopReason) {
	if reason == ReasonInterrupt {
		c.guard.MarkInterrupted()
	}
	if c.guard.Trip(reason) {
		c.trail.Record("stop requested: " + string(reason))
	}
	c.wakeOnce.Do(func() { close(c.wake) })
}

// Done closes when Run has produced its outcome.
func (c *Controller) Done() <-chan struct{} {
	return c.done
}

// Run executes the session and returns its terminal outcome. Blocks until
// the session ends one way or another.
func (c *Controller) Run(ctx context.Context) Outcome {
	defer c.doneOnce.Do(func() { close(c.done) })
	ctx, span := trace.StartSpan(ctx, "recording_session")
	defer span.End()
	span.SetAttr("target", c.cfg.Target.String())
	span.SetAttr("continuous", c.cfg.Continuous())
	logger := trace.Logger(ctx)

	c.setState(StateConfiguring)

	if err := c.configureWriter(); err != nil {
		return c.abort(logger, err)
	}

	if c.countdown(ctx, logger) {
		return c.abortClean(logger)
	}

	stream, err := c.capture.Start(ctx, c.cfg.Target, c.cfg.Geometry, capture.FrameConfig{
		FPS:             c.cfg.FPS,
		ShowCursor:      c.cfg.ShowCursor,
		AudioEnabled:    c.cfg.AudioEnabled,
		AudioSampleRate: c.cfg.AudioSampleRate,
	})
	if err != nil {
		return c.abort(logger, err)
	}

	c.setState(StateCapturing)
	stream.AddSink(media.Video, c.onVideo)
	if c.cfg.AudioEnabled {
		stream.AddSink(media.Audio, c.onAudio)
	}
	go c.watchStream(stream)

	captureStart := time.Now()
	reporter := NewReporter(c.ProgressInterval, c.snapshotFunc(stream, captureStart), c.ProgressRender)
	reporter.Start(ctx)

	logger.Info("recording",
		"target", c.cfg.Target.String(),
		"size", c.cfg.Geometry.PixelSize.String(),
		"fps", c.cfg.FPS,
		"output", c.writer.Path(),
		"continuous", c.cfg.Continuous(),
	)
	if c.StartedRender != nil {
		c.StartedRender()
	}

	var elapsed time.Duration
	if c.cfg.Continuous() {
		elapsed = c.blockUntilStop(ctx, captureStart)
	} else {
		elapsed, _ = NewTimekeeper().Wait(ctx, c.cfg.Duration, c.guard)
	}
	reporter.Stop()

	stopErr, finalizeErr := c.stopSequence(ctx, stream)
	return c.assembleOutcome(elapsed, stream, stopErr, finalizeErr)
}

func (c *Controller) configureWriter() error {
	if err := c.writer.AddTrack(media.Video, writer.TrackSettings{
		Codec:     c.cfg.VideoCodec,
		BitRate:   c.cfg.VideoBitRate,
		PixelSize: c.cfg.Geometry.PixelSize,
		FPS:       c.cfg.FPS,
	}); err != nil {
		return err
	}
	if c.cfg.AudioEnabled {
		if err := c.writer.AddTrack(media.Audio, writer.TrackSettings{
			SampleRate:   c.cfg.AudioSampleRate,
			AudioBitRate: c.cfg.AudioBitRate,
			Channels:     1,
		}); err != nil {
			return err
		}
	}
	return c.writer.Begin()
}

// countdown ticks once per second before any capture resource is acquired.
// Returns true when the wait was interrupted.
func (c *Controller) countdown(ctx context.Context, logger *slog.Logger) bool {
	for i := c.cfg.Countdown; i > 0; i-- {
		if c.guard.Interrupted() || ctx.Err() != nil {
			return true
		}
		logger.Info("starting in", "seconds", i)
		if c.CountdownRender != nil {
			c.CountdownRender(i)
		}
		select {
		case <-time.After(time.Second):
		case <-c.wake:
			return true
		case <-ctx.Done():
			return true
		}
	}
	return c.guard.Interrupted() || ctx.Err() != nil
}

// abort ends a session that failed before capture produced any output.
// The writer is cancelled so nothing partial is left on disk.
func (c *Controller) abort(logger *slog.Logger, err error) Outcome {
	if cancelErr := c.writer.Cancel(); cancelErr != nil {
		logger.Warn("writer cancel failed", "error", cancelErr)
	}
	c.trail.Record("aborted: " + err.Error())
	c.setState(StateFailed)
	logger.Error("session aborted", "error", err)

	return Outcome{
		State:          StateFailed,
		Classification: ClassError,
		Reason:         errdefs.CodeOf(err),
		Err:            err,
		Trail:          c.trail.Events(),
	}
}

// abortClean ends a session interrupted during the countdown. No capture
// resource was held and no output exists.
func (c *Controller) abortClean(logger *slog.Logger) Outcome {
	if err := c.writer.Cancel(); err != nil {
		logger.Warn("writer cancel failed", "error", err)
	}
	c.trail.Record("cancelled during countdown")
	c.setState(StateCompleted)
	logger.Info("cancelled before capture started")

	return Outcome{
		State:          StateCompleted,
		Classification: ClassInterrupted,
		Reason:         errdefs.CodeInterrupted,
		Trail:          c.trail.Events(),
	}
}

func (c *Controller) blockUntilStop(ctx context.Context, start time.Time) time.Duration {
	select {
	case <-c.wake:
	case <-ctx.Done():
		c.guard.MarkInterrupted()
		c.guard.Trip(ReasonInterrupt)
	}
	return time.Since(start)
}

// watchStream converts a fatal stream error into a stop request so the
// session still routes through Stopping and Finalizing.
func (c *Controller) watchStream(stream capture.Stream) {
	err, ok := <-stream.Err()
	if !ok || err == nil {
		return
	}
	c.streamErr.Trip(err)
	slog.Error("capture stream failed", "error", err)
	c.RequestStop(ReasonStreamFailure)
}

func (c *Controller) onVideo(s media.Sample) {
	if c.guard.Tripped() {
		return
	}
	if c.anchor.Trip(s.Time) {
		c.writer.AnchorTimeline(s.Time)
		c.trail.Record("timeline anchored")
	}
	if c.writer.Ready(media.Video) && c.writer.Append(media.Video, s.Data, s.Time) {
		c.videoForwarded.Add(1)
		return
	}
	c.noteDrop(media.Video, c.droppedVideo.Add(1))
}

func (c *Controller) onAudio(s media.Sample) {
	if c.guard.Tripped() {
		return
	}
	// Audio ahead of the first video frame has nothing to sync against.
	if !c.anchor.Tripped() {
		c.discardedAudio.Add(1)
		return
	}
	if c.writer.Ready(media.Audio) && c.writer.Append(media.Audio, s.Data, s.Time) {
		c.audioForwarded.Add(1)
		return
	}
	c.noteDrop(media.Audio, c.droppedAudio.Add(1))
}

func (c *Controller) noteDrop(kind media.Kind, total int64) {
	if total == 1 {
		c.trail.Record(kind.String() + " samples dropping")
	}
	if total == 1 || total%dropLogEvery == 0 {
		slog.Warn("sample dropped, writer not keeping up", "kind", kind.String(), "total", total)
	}
}

// stopSequence runs Stopping and Finalizing. A stop failure is reported
// but never skips finalize; bytes already written must reach the container.
func (c *Controller) stopSequence(ctx context.Context, stream capture.Stream) (stopErr, finalizeErr error) {
	ctx, span := trace.StartSpan(ctx, "stop_finalize")
	defer span.End()
	logger := trace.Logger(ctx)

	reason, _ := c.guard.Reason()
	span.SetAttr("reason", string(reason))
	c.setState(StateStopping)
	logger.Info("stopping", "reason", string(reason))

	if err := stream.Stop(); err != nil {
		stopErr = errdefs.Wrap(err, errdefs.CodeStopFailed, "stop capture stream")
		logger.Error("capture stop failed", "error", err)
	}

	c.setState(StateFinalizing)
	c.writer.MarkInputFinished(media.Video)
	if c.cfg.AudioEnabled {
		c.writer.MarkInputFinished(media.Audio)
	}

	timeout := c.cfg.FinalizeTimeout
	if timeout <= 0 {
		timeout = session.DefaultFinalizeTimeout
	}

	finalized := make(chan error, 1)
	c.writer.Finalize(func(err error) { finalized <- err })

	select {
	case err := <-finalized:
		finalizeErr = err
	case <-time.After(timeout):
		finalizeErr = errdefs.Newf(errdefs.CodeFinalizeTimeout,
			"finalize did not complete within %s", timeout).
			WithHint("the encoder may still finish in the background; check the output file before retrying")
	}
	return stopErr, finalizeErr
}

func (c *Controller) assembleOutcome(elapsed time.Duration, stream capture.Stream, stopErr, finalizeErr error) Outcome {
	stats := stream.Stats()
	reason, _ := c.guard.Reason()

	out := Outcome{
		Classification: classify(reason),
		Elapsed:        elapsed,
		BytesWritten:   c.writer.BytesWritten(),
		VideoFrames:    c.videoForwarded.Load(),
		AudioChunks:    c.audioForwarded.Load(),
		DroppedVideo:   c.droppedVideo.Load(),
		DroppedAudio:   c.droppedAudio.Load(),
		DiscardedAudio: c.discardedAudio.Load(),
		StaticRatio:    stats.StaticRatio,
	}

	// Failure precedence: finalize beats stop beats stream. A stop or
	// finalize problem makes the file suspect even when the capture
	// phase itself ended cleanly.
	switch {
	case finalizeErr != nil:
		out.Err = finalizeErr
	case stopErr != nil:
		out.Err = stopErr
	default:
		if err, tripped := c.streamErr.Value(); tripped {
			out.Err = err
		}
	}

	if out.Err != nil {
		out.State = StateFailed
		out.Classification = ClassError
		out.Reason = errdefs.CodeOf(out.Err)
	} else {
		out.State = StateCompleted
		if out.Classification == ClassInterrupted {
			out.Reason = errdefs.CodeInterrupted
		} else {
			out.Reason = errdefs.CodeOK
		}
	}
	c.setState(out.State)

	if out.BytesWritten > 0 {
		out.OutputPath = c.writer.Path()
	}
	out.Trail = c.trail.Events()
	return out
}

func (c *Controller) snapshotFunc(stream capture.Stream, start time.Time) func() Snapshot {
	return func() Snapshot {
		stats := stream.Stats()
		return Snapshot{
			Elapsed:      time.Since(start),
			Frames:       stats.FramesCaptured,
			AudioChunks:  stats.AudioChunks,
			DroppedVideo: c.droppedVideo.Load(),
			DroppedAudio: c.droppedAudio.Load(),
			BytesWritten: c.writer.BytesWritten(),
			StaticRatio:  stats.StaticRatio,
		}
	}
}

func (c *Controller) setState(to State) {
	if err := c.states.transition(to); err != nil {
		slog.Error("state machine", "error", err)
	}
}
