package output

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/screenrec/screenrec/internal/errdefs"
	"github.com/screenrec/screenrec/internal/recorder"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{5 * time.Second, "5s"},
		{90 * time.Second, "1m30s"},
		{3661 * time.Second, "1h01m01s"},
		{450 * time.Millisecond, "0s"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.d); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{512, "512 B"},
		{2048, "2.0 KB"},
		{5 << 20, "5.0 MB"},
		{3 << 30, "3.0 GB"},
	}
	for _, tt := range tests {
		if got := formatBytes(tt.n); got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestOutcomeSuccess(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(&buf)

	f.Outcome(recorder.Outcome{
		State:          recorder.StateCompleted,
		Classification: recorder.ClassOnTime,
		Reason:         errdefs.CodeOK,
		Elapsed:        10 * time.Second,
		OutputPath:     "/tmp/demo.mp4",
		BytesWritten:   4 << 20,
		VideoFrames:    300,
		AudioChunks:    150,
		StaticRatio:    0.5,
	}, false)

	out := buf.String()
	if !strings.Contains(out, "Saved /tmp/demo.mp4") {
		t.Errorf("output missing saved path: %q", out)
	}
	if !strings.Contains(out, "300 frames") {
		t.Errorf("output missing frame count: %q", out)
	}
	if !strings.Contains(out, "50% static") {
		t.Errorf("output missing static ratio: %q", out)
	}
}

func TestOutcomeInterrupted(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(&buf)

	f.Outcome(recorder.Outcome{
		State:          recorder.StateCompleted,
		Classification: recorder.ClassInterrupted,
		Reason:         errdefs.CodeInterrupted,
		Elapsed:        3 * time.Second,
		OutputPath:     "/tmp/demo.mp4",
		BytesWritten:   1024,
	}, false)

	out := buf.String()
	if !strings.Contains(out, "Recording stopped (3s)") {
		t.Errorf("output missing stopped line: %q", out)
	}
	if !strings.Contains(out, "Saved /tmp/demo.mp4") {
		t.Errorf("interrupted recording should still report the file: %q", out)
	}
}

func TestOutcomeCancelledBeforeCapture(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(&buf)

	f.Outcome(recorder.Outcome{
		State:          recorder.StateCompleted,
		Classification: recorder.ClassInterrupted,
		Reason:         errdefs.CodeInterrupted,
	}, false)

	out := buf.String()
	if !strings.Contains(out, "Recording stopped") {
		t.Errorf("output missing stopped line: %q", out)
	}
	if strings.Contains(out, "Saved") {
		t.Errorf("countdown cancel has no file to report: %q", out)
	}
}

func TestOutcomeFailure(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(&buf)

	err := errdefs.New(errdefs.CodeFinalizeTimeout, "finalize did not complete within 10s").
		WithHint("check the output file before retrying")
	f.Outcome(recorder.Outcome{
		State:          recorder.StateFailed,
		Classification: recorder.ClassError,
		Reason:         errdefs.CodeFinalizeTimeout,
		Elapsed:        10 * time.Second,
		OutputPath:     "/tmp/partial.mp4",
		BytesWritten:   2048,
		Err:            err,
	}, false)

	out := buf.String()
	if !strings.Contains(out, "Recording failed") {
		t.Errorf("output missing failure line: %q", out)
	}
	if !strings.Contains(out, "check the output file before retrying") {
		t.Errorf("output missing hint: %q", out)
	}
	if !strings.Contains(out, "Partial file left at /tmp/partial.mp4") {
		t.Errorf("output missing partial file warning: %q", out)
	}
}

func TestOutcomeVerboseTrail(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(&buf)

	f.Outcome(recorder.Outcome{
		State:          recorder.StateCompleted,
		Classification: recorder.ClassOnTime,
		Reason:         errdefs.CodeOK,
		OutputPath:     "/tmp/demo.mp4",
		BytesWritten:   1,
		Trail: []recorder.Event{
			{At: time.Now(), Text: "state: configuring"},
			{At: time.Now(), Text: "timeline anchored"},
		},
	}, true)

	out := buf.String()
	if !strings.Contains(out, "Session events:") {
		t.Errorf("verbose output missing trail header: %q", out)
	}
	if !strings.Contains(out, "timeline anchored") {
		t.Errorf("verbose output missing trail event: %q", out)
	}
}

func TestProgressLine(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(&buf)

	f.Progress(recorder.Snapshot{
		Elapsed:      12 * time.Second,
		Frames:       360,
		BytesWritten: 1 << 20,
		StaticRatio:  0.25,
	})

	out := buf.String()
	if !strings.HasPrefix(out, "\r") {
		t.Errorf("progress line should rewrite in place: %q", out)
	}
	if !strings.Contains(out, "360 frames") {
		t.Errorf("progress line missing frames: %q", out)
	}
	if strings.Contains(out, "dropped") {
		t.Errorf("progress line should omit dropped when zero: %q", out)
	}
}
