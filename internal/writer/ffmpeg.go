package writer

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"net"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/screenrec/screenrec/internal/errdefs"
	"github.com/screenrec/screenrec/internal/media"
)

// FFmpeg writes a container file through an ffmpeg subprocess. Frame
// timestamps are positional: ffmpeg spaces stdin frames at the declared
// constant rate, so buffers must arrive in order.
type FFmpeg struct {
	outPath    string
	container  string
	ffmpegPath string

	video *track
	audio *track

	cmd      *exec.Cmd
	stdin    io.WriteCloser
	audioLn  net.Listener
	procDone chan error
	stderr   *tailBuffer

	began     atomic.Bool
	cancelled atomic.Bool
	written   atomic.Int64

	anchorOnce   sync.Once
	anchor       time.Time
	finalizeOnce sync.Once
	cancelOnce   sync.Once
	cancelErr    error
}

type track struct {
	settings TrackSettings
	queue    *queue
	finished atomic.Bool
}

// New creates a writer for the given destination. container must be one
// of mp4, mov, mkv. An empty ffmpegPath resolves "ffmpeg" from PATH.
func New(path, container, ffmpegPath string) *FFmpeg {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	return &FFmpeg{
		outPath:    path,
		container:  container,
		ffmpegPath: ffmpegPath,
		procDone:   make(chan error, 1),
		stderr:     &tailBuffer{limit: stderrTailBytes},
	}
}

func (w *FFmpeg) AddTrack(kind media.Kind, settings TrackSettings) error {
	if w.began.Load() {
		return errdefs.New(errdefs.CodeConfigInvalid, "track added after Begin")
	}
	switch kind {
	case media.Video:
		if w.video != nil {
			return errdefs.New(errdefs.CodeConfigInvalid, "video track already declared")
		}
		w.video = &track{settings: settings, queue: newQueue(videoQueueCapacity)}
	case media.Audio:
		if w.audio != nil {
			return errdefs.New(errdefs.CodeConfigInvalid, "audio track already declared")
		}
		w.audio = &track{settings: settings, queue: newQueue(audioQueueCapacity)}
	default:
		return errdefs.Newf(errdefs.CodeConfigInvalid, "unknown track kind %v", kind)
	}
	return nil
}

// Begin spawns ffmpeg with the declared tracks and starts the pumps.
func (w *FFmpeg) Begin() error {
	if w.began.Load() {
		return errdefs.New(errdefs.CodeConfigInvalid, "writer already began")
	}
	if w.video == nil {
		return errdefs.New(errdefs.CodeConfigInvalid, "a video track is required")
	}

	audioAddr := ""
	if w.audio != nil {
		ln, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			return errdefs.Wrap(err, errdefs.CodeConfigInvalid, "audio relay listener failed")
		}
		w.audioLn = ln
		audioAddr = "tcp://" + ln.Addr().String()
	}

	cmd := exec.Command(w.ffmpegPath, w.buildArgs(audioAddr)...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		w.closeListener()
		return errdefs.Wrap(err, errdefs.CodeConfigInvalid, "ffmpeg stdin pipe failed")
	}
	cmd.Stderr = w.stderr

	if err := cmd.Start(); err != nil {
		w.closeListener()
		return errdefs.Wrap(err, errdefs.CodeConfigInvalid, "cannot start ffmpeg").
			WithHint("install ffmpeg and make sure it is on PATH")
	}

	w.cmd = cmd
	w.stdin = stdin
	go func() { w.procDone <- cmd.Wait() }()
	go w.videoPump()
	if w.audio != nil {
		go w.audioRelay(w.audioLn)
	}
	w.began.Store(true)

	slog.Debug("container writer started",
		"path", w.outPath, "container", w.container, "audio", w.audio != nil)
	return nil
}

// buildArgs assembles the ffmpeg invocation: a rawvideo stdin input,
// optionally an s16le TCP input, muxed into one container output.
func (w *FFmpeg) buildArgs(audioAddr string) []string {
	v := w.video.settings

	args := []string{
		"-hide_banner",
		"-loglevel", "error",
		"-y",
		"-thread_queue_size", inputThreadQueue,
		"-f", "rawvideo",
		"-pix_fmt", "rgba",
		"-s", v.PixelSize.String(),
		"-r", strconv.Itoa(v.FPS),
		"-i", "pipe:0",
	}

	if w.audio != nil {
		a := w.audio.settings
		args = append(args,
			"-thread_queue_size", inputThreadQueue,
			"-f", "s16le",
			"-ar", strconv.Itoa(a.SampleRate),
			"-ac", strconv.Itoa(a.Channels),
			"-i", audioAddr,
			"-map", "0:v:0",
			"-map", "1:a:0",
		)
	} else {
		args = append(args, "-map", "0:v:0", "-an")
	}

	args = append(args,
		"-c:v", videoEncoder(v.Codec),
		"-preset", "ultrafast",
		"-b:v", strconv.Itoa(v.BitRate),
		"-pix_fmt", "yuv420p",
		"-vf", "scale=trunc(iw/2)*2:trunc(ih/2)*2",
	)
	if v.Codec == "hevc" && w.container != "mkv" {
		// QuickTime only recognizes hevc under the hvc1 tag.
		args = append(args, "-tag:v", "hvc1")
	}

	if w.audio != nil {
		args = append(args, "-c:a", "aac", "-b:a", strconv.Itoa(w.audio.settings.AudioBitRate))
	}

	if w.container == "mp4" || w.container == "mov" {
		args = append(args, "-movflags", "+faststart")
	}

	return append(args, "-f", muxerName(w.container), w.outPath)
}

func videoEncoder(codec string) string {
	if codec == "hevc" {
		return "libx265"
	}
	return "libx264"
}

func muxerName(container string) string {
	if container == "mkv" {
		return "matroska"
	}
	return container
}

func (w *FFmpeg) trackFor(kind media.Kind) *track {
	if kind == media.Video {
		return w.video
	}
	return w.audio
}

func (w *FFmpeg) AnchorTimeline(at time.Time) {
	w.anchorOnce.Do(func() {
		w.anchor = at
		slog.Debug("timeline anchored", "at", at)
	})
}

func (w *FFmpeg) Append(kind media.Kind, buf []byte, at time.Time) bool {
	t := w.trackFor(kind)
	if t == nil || !w.began.Load() || w.cancelled.Load() || t.finished.Load() {
		return false
	}
	return t.queue.tryEnqueue(buf)
}

func (w *FFmpeg) Ready(kind media.Kind) bool {
	t := w.trackFor(kind)
	return t != nil && w.began.Load() && !w.cancelled.Load() && !t.finished.Load()
}

func (w *FFmpeg) MarkInputFinished(kind media.Kind) {
	t := w.trackFor(kind)
	if t == nil {
		return
	}
	t.finished.Store(true)
	t.queue.close()
}

// Finalize closes both inputs so ffmpeg flushes the container, then waits
// for the subprocess and reports its exit. The caller bounds the wait;
// the subprocess may still complete in the background after a timeout.
func (w *FFmpeg) Finalize(done func(error)) {
	w.finalizeOnce.Do(func() {
		go func() {
			if w.video != nil {
				w.video.queue.close()
			}
			if w.audio != nil {
				w.audio.queue.close()
			}
			if !w.began.Load() {
				done(errdefs.New(errdefs.CodeFinalizeFailed, "writer never began"))
				return
			}

			err := <-w.procDone
			w.closeListener()
			if err != nil {
				done(errdefs.Wrap(err, errdefs.CodeFinalizeFailed, "ffmpeg exited with failure").
					WithMetadata("stderr", w.stderr.Tail()))
				return
			}
			done(nil)
		}()
	})
}

// Cancel kills the subprocess and removes the output file. For abort
// paths that must leave zero output behind.
func (w *FFmpeg) Cancel() error {
	w.cancelOnce.Do(func() {
		w.cancelled.Store(true)
		if w.video != nil {
			w.video.queue.close()
		}
		if w.audio != nil {
			w.audio.queue.close()
		}
		w.closeListener()

		if w.cmd != nil && w.cmd.Process != nil {
			if err := w.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
				w.cancelErr = err
			}
			<-w.procDone
		}
		if err := os.Remove(w.outPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			w.cancelErr = errors.Join(w.cancelErr, err)
		}
	})
	return w.cancelErr
}

func (w *FFmpeg) BytesWritten() int64 { return w.written.Load() }

func (w *FFmpeg) Path() string { return w.outPath }

func (w *FFmpeg) closeListener() {
	if w.audioLn != nil {
		_ = w.audioLn.Close()
	}
}

// videoPump feeds queued frames into stdin and closes it when the queue
// drains; the EOF tells ffmpeg to flush and write the trailer.
func (w *FFmpeg) videoPump() {
	defer w.stdin.Close()
	for buf := range w.video.queue.ch {
		n, err := w.stdin.Write(buf)
		w.written.Add(int64(n))
		if err != nil {
			return
		}
	}
}

// audioRelay accepts ffmpeg's single connection and feeds it queued
// chunks; closing the connection ends the audio input.
func (w *FFmpeg) audioRelay(ln net.Listener) {
	defer ln.Close()
	conn, err := ln.Accept()
	if err != nil {
		return
	}
	defer conn.Close()
	for buf := range w.audio.queue.ch {
		n, err := conn.Write(buf)
		w.written.Add(int64(n))
		if err != nil {
			return
		}
	}
}

// tailBuffer keeps the last bytes of ffmpeg stderr for error reports.
type tailBuffer struct {
	mu    sync.Mutex
	buf   bytes.Buffer
	limit int
}

func (b *tailBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	n, err := b.buf.Write(p)
	if b.buf.Len() > 4*b.limit {
		tail := append([]byte(nil), b.buf.Bytes()[b.buf.Len()-b.limit:]...)
		b.buf.Reset()
		b.buf.Write(tail)
	}
	return n, err
}

func (b *tailBuffer) Tail() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	s := strings.TrimSpace(b.buf.String())
	if s == "" {
		return "no ffmpeg stderr output"
	}
	if len(s) <= b.limit {
		return s
	}
	return s[len(s)-b.limit:]
}
