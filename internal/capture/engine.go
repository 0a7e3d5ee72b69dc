package capture

import (
	"context"
	"errors"
	"image"
	"image/draw"
	"log/slog"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gordonklaus/portaudio"
	"github.com/kbinani/screenshot"
	"github.com/nfnt/resize"

	"github.com/screenrec/screenrec/internal/errdefs"
	"github.com/screenrec/screenrec/internal/geometry"
	"github.com/screenrec/screenrec/internal/media"
	"github.com/screenrec/screenrec/internal/trace"
)

// Engine grabs frames via the platform screenshot backend and audio via
// portaudio. Implements Service.
type Engine struct {
	excludedAudioDevices []string
}

// NewEngine creates a capture engine. excludedAudioDevices are name
// fragments of input devices that must never be opened.
func NewEngine(excludedAudioDevices []string) *Engine {
	return &Engine{excludedAudioDevices: excludedAudioDevices}
}

// Start probes one grab, opens the audio source when requested, and spins
// up the sample pumps. Any failure leaves no resource behind.
func (e *Engine) Start(ctx context.Context, target geometry.Target, geo geometry.Recording, cfg FrameConfig) (Stream, error) {
	logger := trace.Logger(ctx)

	rect := grabRect(target, geo)
	if rect.Dx() < 1 || rect.Dy() < 1 {
		return nil, errdefs.Newf(errdefs.CodeCaptureStart, "grab rect %v is empty", rect)
	}
	if _, err := screenshot.CaptureRect(rect); err != nil {
		return nil, errdefs.Wrap(err, errdefs.CodeCaptureStart, "screen grab refused").
			WithHint("grant screen recording permission to your terminal and retry")
	}

	s := &stream{
		rect:  rect,
		size:  geo.PixelSize,
		fps:   cfg.FPS,
		errCh: make(chan error, 1),
	}

	if cfg.AudioEnabled {
		src, err := openAudioSource(cfg.AudioSampleRate, e.excludedAudioDevices)
		if err != nil {
			return nil, err
		}
		s.audio = src
	}

	pumpCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.wg.Add(1)
	go s.videoPump(pumpCtx)
	if s.audio != nil {
		s.wg.Add(1)
		go s.audioPump(pumpCtx)
	}

	logger.Info("capture started",
		"target", target.String(),
		"rect", rect.String(),
		"size", geo.PixelSize.String(),
		"fps", cfg.FPS,
		"audio", cfg.AudioEnabled)
	return s, nil
}

// grabRect maps the resolved logical source into the grabber's global
// coordinate space. Screen-relative sources (custom and centered areas)
// carry offsets from the screen origin; fullscreen and window sources are
// already global.
func grabRect(target geometry.Target, geo geometry.Recording) image.Rectangle {
	src := geo.LogicalSource
	if target.Kind == geometry.TargetScreen && src != target.Screen.LogicalFrame {
		src.X += target.Screen.LogicalFrame.X
		src.Y += target.Screen.LogicalFrame.Y
	}
	return image.Rect(
		int(math.Round(src.X)),
		int(math.Round(src.Y)),
		int(math.Round(src.X+src.W)),
		int(math.Round(src.Y+src.H)),
	)
}

type stream struct {
	rect image.Rectangle
	size geometry.PixelSize
	fps  int

	audio *audioSource

	mu        sync.RWMutex
	videoSink SinkFunc
	audioSink SinkFunc

	cancel   context.CancelFunc
	wg       sync.WaitGroup
	errCh    chan error
	failOnce sync.Once
	stopOnce sync.Once
	stopErr  error

	frames      atomic.Int64
	grabFails   atomic.Int64
	audioChunks atomic.Int64
	motion      motionSampler
}

func (s *stream) AddSink(kind media.Kind, fn SinkFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if kind == media.Video {
		s.videoSink = fn
	} else {
		s.audioSink = fn
	}
}

func (s *stream) sink(kind media.Kind) SinkFunc {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if kind == media.Video {
		return s.videoSink
	}
	return s.audioSink
}

func (s *stream) deliver(sample media.Sample) {
	if fn := s.sink(sample.Kind); fn != nil {
		fn(sample)
	}
}

func (s *stream) Err() <-chan error { return s.errCh }

func (s *stream) fail(err error) {
	s.failOnce.Do(func() { s.errCh <- err })
}

// Stop cancels the pumps, closes the audio source to unblock a pending
// read, and waits for both pumps to exit. Idempotent. Closing errCh after
// the pumps are down releases anyone watching Err on a clean stream.
func (s *stream) Stop() error {
	s.stopOnce.Do(func() {
		s.cancel()
		if s.audio != nil {
			s.stopErr = s.audio.close()
		}
		s.wg.Wait()
		close(s.errCh)
	})
	return s.stopErr
}

func (s *stream) Stats() Stats {
	return Stats{
		FramesCaptured: s.frames.Load(),
		GrabFailures:   s.grabFails.Load(),
		AudioChunks:    s.audioChunks.Load(),
		StaticRatio:    s.motion.StaticRatio(),
	}
}

func (s *stream) videoPump(ctx context.Context) {
	defer s.wg.Done()
	ticker := time.NewTicker(time.Second / time.Duration(s.fps))
	defer ticker.Stop()

	consecutive := 0
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		img, err := screenshot.CaptureRect(s.rect)
		if err != nil {
			s.grabFails.Add(1)
			consecutive++
			if consecutive >= maxConsecutiveGrabFailures {
				s.fail(errdefs.Wrapf(err, errdefs.CodeStreamFailed,
					"screen grab failed %d times in a row", consecutive))
				return
			}
			continue
		}
		consecutive = 0

		now := time.Now()
		s.frames.Add(1)
		s.motion.observe(img, now)
		s.deliver(media.Sample{Kind: media.Video, Data: frameBytes(img, s.size), Time: now})
	}
}

func (s *stream) audioPump(ctx context.Context) {
	defer s.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if err := s.audio.read(); err != nil {
			if ctx.Err() != nil {
				return
			}
			// Overflow happens when reads fall behind; the device keeps
			// running and the next read resynchronizes.
			if errors.Is(err, portaudio.InputOverflowed) {
				continue
			}
			slog.Warn("audio capture ended", "error", err)
			return
		}

		s.audioChunks.Add(1)
		s.deliver(media.Sample{
			Kind: media.Audio,
			Data: int16ToBytes(s.audio.buf),
			Time: time.Now(),
		})
	}
}

// frameBytes converts a grabbed frame to tightly-packed RGBA at exactly
// the configured pixel size. High-density grabbers may return a different
// extent than requested; those frames are rescaled.
func frameBytes(img *image.RGBA, want geometry.PixelSize) []byte {
	if img.Bounds().Dx() != want.W || img.Bounds().Dy() != want.H {
		img = toRGBA(resize.Resize(uint(want.W), uint(want.H), img, resize.Bilinear))
	}
	return packed(img)
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	out := image.NewRGBA(image.Rect(0, 0, img.Bounds().Dx(), img.Bounds().Dy()))
	draw.Draw(out, out.Bounds(), img, img.Bounds().Min, draw.Src)
	return out
}

// packed returns the pixel data with any stride padding removed.
func packed(img *image.RGBA) []byte {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	if img.Stride == 4*w {
		return img.Pix[: 4*w*h : 4*w*h]
	}
	out := make([]byte, 4*w*h)
	for y := 0; y < h; y++ {
		copy(out[y*4*w:(y+1)*4*w], img.Pix[y*img.Stride:])
	}
	return out
}
