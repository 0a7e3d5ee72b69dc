// screenrec records a display, application window or pixel region to a
// video file through ffmpeg.
package main

import (
	"errors"
	"log/slog"
	"os"

	"github.com/screenrec/screenrec/internal/capture"
	"github.com/screenrec/screenrec/internal/cli"
	"github.com/screenrec/screenrec/internal/config"
	"github.com/screenrec/screenrec/internal/display"
	"github.com/screenrec/screenrec/internal/errdefs"
	"github.com/screenrec/screenrec/internal/output"
	"github.com/screenrec/screenrec/internal/session"
	"github.com/screenrec/screenrec/internal/writer"
)

func main() {
	cfg := config.Load()

	// User-facing lines go to stdout; logs stay on stderr.
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Level()}))
	slog.SetDefault(logger)

	deps := &cli.Dependencies{
		Config:  cfg,
		Enum:    display.NewService(cfg.ScaleOverride),
		Capture: capture.NewEngine(cfg.ExcludedAudioDevices),
		NewWriter: func(path string, container session.Container) writer.Writer {
			return writer.New(path, string(container), cfg.FFmpegPath)
		},
		ProbeAudio: func() (string, error) {
			return capture.ProbeAudio(cfg.ExcludedAudioDevices)
		},
		Out: os.Stdout,
	}

	if err := cli.NewRootCmd(deps).Execute(); err != nil {
		var status cli.StatusError
		if errors.As(err, &status) {
			os.Exit(status.Code)
		}
		f := output.NewFormatter(os.Stderr)
		f.Error(err.Error())
		if hint := errdefs.HintOf(err); hint != "" {
			f.Info(hint)
		}
		os.Exit(1)
	}
}
