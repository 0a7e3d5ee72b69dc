// Package output renders user-facing terminal lines. Logging goes to slog
// on stderr; everything here is the stdout surface.
package output

import (
	"fmt"
	"io"
	"time"

	"github.com/screenrec/screenrec/internal/errdefs"
	"github.com/screenrec/screenrec/internal/recorder"
)

type Formatter struct {
	w io.Writer
}

func NewFormatter(w io.Writer) *Formatter {
	return &Formatter{w: w}
}

func (f *Formatter) Countdown(seconds int) {
	fmt.Fprintf(f.w, "🎬 Starting in %d...\n", seconds)
}

func (f *Formatter) RecordingStarted(target string, width, height, fps int, audio bool) {
	extra := ""
	if audio {
		extra = ", audio"
	}
	fmt.Fprintf(f.w, "🔴 Recording %s (%dx%d @ %dfps%s)\n", target, width, height, fps, extra)
}

// Progress rewrites a single live line. Only call on a terminal.
func (f *Formatter) Progress(s recorder.Snapshot) {
	line := fmt.Sprintf("⏺  %s | %d frames | %s | %.0f%% static",
		formatDuration(s.Elapsed), s.Frames, formatBytes(s.BytesWritten), s.StaticRatio*100)
	if dropped := s.DroppedVideo + s.DroppedAudio; dropped > 0 {
		line += fmt.Sprintf(" | %d dropped", dropped)
	}
	fmt.Fprintf(f.w, "\r%-70s", line)
}

// ProgressEnd terminates the live progress line.
func (f *Formatter) ProgressEnd() {
	fmt.Fprintf(f.w, "\n")
}

// Outcome prints the terminal summary for one recording session.
func (f *Formatter) Outcome(o recorder.Outcome, verbose bool) {
	switch {
	case o.Success() && o.Classification == recorder.ClassInterrupted:
		fmt.Fprintf(f.w, "⏹️  Recording stopped (%s)\n", formatDuration(o.Elapsed))
	case o.Success() && o.Classification == recorder.ClassSafetyStop:
		f.Warning(fmt.Sprintf("Recording stopped by safety timeout (%s)", formatDuration(o.Elapsed)))
	}

	switch {
	case o.Success() && o.OutputPath != "":
		fmt.Fprintf(f.w, "✅ Saved %s (%s, %s)\n", o.OutputPath, formatDuration(o.Elapsed), formatBytes(o.BytesWritten))
		f.stats(o)
	case o.Success():
		f.Info("nothing recorded, no output written")
	default:
		msg := string(o.Reason)
		if o.Err != nil {
			msg = o.Err.Error()
		}
		fmt.Fprintf(f.w, "❌ Recording failed: %s\n", msg)
		if hint := errdefs.HintOf(o.Err); hint != "" {
			fmt.Fprintf(f.w, "💡 %s\n", hint)
		}
		if o.OutputPath != "" {
			f.Warning(fmt.Sprintf("Partial file left at %s (may be incomplete)", o.OutputPath))
		}
	}

	if verbose && len(o.Trail) > 0 {
		fmt.Fprintf(f.w, "\nSession events:\n")
		for _, ev := range o.Trail {
			fmt.Fprintf(f.w, "  %s  %s\n", ev.At.Format("15:04:05.000"), ev.Text)
		}
	}
}

func (f *Formatter) stats(o recorder.Outcome) {
	if o.VideoFrames == 0 && o.AudioChunks == 0 {
		return
	}
	line := fmt.Sprintf("   %d frames", o.VideoFrames)
	if o.AudioChunks > 0 {
		line += fmt.Sprintf(", %d audio chunks", o.AudioChunks)
	}
	if o.DroppedVideo > 0 || o.DroppedAudio > 0 {
		line += fmt.Sprintf(" (%d video / %d audio dropped)", o.DroppedVideo, o.DroppedAudio)
	}
	line += fmt.Sprintf(", %.0f%% static", o.StaticRatio*100)
	fmt.Fprintf(f.w, "%s\n", line)
}

func (f *Formatter) Error(msg string) {
	fmt.Fprintf(f.w, "❌ %s\n", msg)
}

func (f *Formatter) Info(msg string) {
	fmt.Fprintf(f.w, "ℹ️  %s\n", msg)
}

func (f *Formatter) Success(msg string) {
	fmt.Fprintf(f.w, "✅ %s\n", msg)
}

func (f *Formatter) Warning(msg string) {
	fmt.Fprintf(f.w, "⚠️  %s\n", msg)
}

func (f *Formatter) ScreenListHeader() {
	fmt.Fprintf(f.w, "🖥️  Screens:\n\n")
}

func (f *Formatter) ScreenListItem(index, logicalW, logicalH, pixelW, pixelH int, scale float64, primary bool) {
	mark := ""
	if primary {
		mark = "  (primary)"
	}
	fmt.Fprintf(f.w, "  [%d] %dx%d logical, %dx%d pixels, %.1fx scale%s\n",
		index, logicalW, logicalH, pixelW, pixelH, scale, mark)
}

func (f *Formatter) WindowListHeader() {
	fmt.Fprintf(f.w, "🪟 Windows:\n\n")
}

func (f *Formatter) WindowListItem(app, title string, width, height int) {
	if title == "" {
		title = "(untitled)"
	}
	fmt.Fprintf(f.w, "  %-20s %5dx%-5d %s\n", app, width, height, title)
}

func (f *Formatter) SetupCheck(name string, ok bool, detail string) {
	if ok {
		fmt.Fprintf(f.w, "  ✅ %s: %s\n", name, detail)
	} else {
		fmt.Fprintf(f.w, "  ❌ %s: %s\n", name, detail)
	}
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	if m > 0 {
		return fmt.Sprintf("%dm%02ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGTPE"[exp])
}
