package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/screenrec/screenrec/internal/geometry"
	"github.com/screenrec/screenrec/internal/output"
	"github.com/screenrec/screenrec/internal/recorder"
	"github.com/screenrec/screenrec/internal/session"
)

func NewRecordCmd(deps *Dependencies) *cobra.Command {
	var (
		screenIndex  int
		appName      string
		areaSpec     string
		duration     time.Duration
		fps          int
		quality      string
		audio        bool
		audioQuality string
		cursor       bool
		countdown    int
		outputPath   string
		overwrite    bool
		verbose      bool
	)

	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record a screen, window or region",
		Long: "Record a display, the frontmost window of an application, or an explicit\n" +
			"pixel region. Recording runs for --duration, or until Ctrl-C when the\n" +
			"duration is zero.",
		RunE: func(cmd *cobra.Command, args []string) error {
			f := output.NewFormatter(deps.Out)

			res, err := resolveTarget(deps, cmd.Flags().Changed("app"), appName, screenIndex, areaSpec)
			if err != nil {
				return err
			}
			for _, w := range res.Warnings {
				f.Warning(w)
			}

			if outputPath == "" {
				outputPath = defaultOutputPath(deps.Config.OutputDir)
			}

			live := onTerminal(deps.Out)
			var prompt session.PromptFunc
			if live {
				prompt = askYesNo(deps.Out)
			}

			cfg, err := session.Configure(session.Request{
				Duration:        duration,
				FPS:             fps,
				Quality:         quality,
				AudioEnabled:    audio,
				AudioQuality:    audioQuality,
				ShowCursor:      cursor,
				Countdown:       countdown,
				OutputPath:      outputPath,
				Overwrite:       overwrite,
				FinalizeTimeout: deps.Config.FinalizeTimeout(),
			}, res, prompt)
			if err != nil {
				return err
			}

			w := deps.NewWriter(cfg.OutputPath, cfg.Container)
			ctrl := recorder.New(cfg, deps.Capture, w)
			ctrl.CountdownRender = f.Countdown
			ctrl.StartedRender = func() {
				f.RecordingStarted(cfg.Target.String(),
					cfg.Geometry.PixelSize.W, cfg.Geometry.PixelSize.H, cfg.FPS, cfg.AudioEnabled)
				if cfg.Continuous() {
					f.Info("press Ctrl-C to stop")
				}
			}
			if live {
				ctrl.ProgressRender = f.Progress
			}

			coord := recorder.NewCoordinator()
			coord.Arm(ctrl)
			defer coord.Disarm()

			out := ctrl.Run(cmd.Context())
			if live && out.Elapsed > 0 {
				f.ProgressEnd()
			}
			f.Outcome(out, verbose)

			if code := out.ExitCode(); code != 0 {
				return StatusError{Code: code}
			}
			return nil
		},
	}

	cfg := deps.Config
	cmd.Flags().IntVar(&screenIndex, "screen", cfg.DefaultScreen, "screen index to record")
	cmd.Flags().StringVar(&appName, "app", "", "record the frontmost window of this application")
	cmd.Flags().StringVar(&areaSpec, "area", "", "pixel area: \"X:Y:W:H\" or \"center:W:H\" (default full screen)")
	cmd.Flags().DurationVar(&duration, "duration", 0, "stop after this long (0 records until Ctrl-C)")
	cmd.Flags().IntVar(&fps, "fps", cfg.DefaultFPS, "frames per second: 15, 30 or 60")
	cmd.Flags().StringVar(&quality, "quality", cfg.DefaultQuality, "video quality: low, medium, high or ultra")
	cmd.Flags().BoolVar(&audio, "audio", cfg.DefaultAudio, "capture microphone audio")
	cmd.Flags().StringVar(&audioQuality, "audio-quality", cfg.DefaultAudioQuality, "audio quality: low, medium or high")
	cmd.Flags().BoolVar(&cursor, "cursor", cfg.ShowCursor, "include the cursor in the capture")
	cmd.Flags().IntVar(&countdown, "countdown", cfg.DefaultCountdown, "seconds to count down before recording starts")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "output file (.mp4, .mov or .mkv)")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "overwrite the output file if it exists")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print the session event trail")

	cmd.MarkFlagsMutuallyExclusive("screen", "app")
	cmd.MarkFlagsMutuallyExclusive("app", "area")

	return cmd
}

func resolveTarget(deps *Dependencies, appMode bool, appName string, screenIndex int, areaSpec string) (geometry.Resolution, error) {
	resolver := geometry.NewResolver(deps.Enum)
	if appMode {
		return resolver.ResolveApp(appName)
	}
	area, err := geometry.ParseArea(areaSpec)
	if err != nil {
		return geometry.Resolution{}, err
	}
	return resolver.ResolveScreen(screenIndex, area)
}

func defaultOutputPath(dir string) string {
	name := fmt.Sprintf("screenrec-%s.mp4", time.Now().Format("2006-01-02-150405"))
	return filepath.Join(dir, name)
}

// onTerminal reports whether w is an interactive terminal, gating the live
// progress line and overwrite prompts.
func onTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}

func askYesNo(out io.Writer) session.PromptFunc {
	return func(question string) bool {
		fmt.Fprintf(out, "%s [y/N] ", question)
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil {
			return false
		}
		answer := strings.ToLower(strings.TrimSpace(line))
		return answer == "y" || answer == "yes"
	}
}
