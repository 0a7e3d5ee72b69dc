// Package cli wires the cobra command tree. Commands receive their services
// through Dependencies so tests can substitute fakes.
package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/screenrec/screenrec/internal/capture"
	"github.com/screenrec/screenrec/internal/config"
	"github.com/screenrec/screenrec/internal/geometry"
	"github.com/screenrec/screenrec/internal/session"
	"github.com/screenrec/screenrec/internal/version"
	"github.com/screenrec/screenrec/internal/writer"
)

type Dependencies struct {
	Config  *config.Config
	Enum    geometry.Enumerator
	Capture capture.Service

	// NewWriter builds the container writer for one resolved output path.
	NewWriter func(path string, container session.Container) writer.Writer

	// ProbeAudio reports the input device a recording would capture from.
	ProbeAudio func() (string, error)

	// Out is the user-facing stdout surface.
	Out io.Writer
}

// StatusError carries an exit status through cobra for commands that have
// already rendered their own output.
type StatusError struct {
	Code int
}

func (e StatusError) Error() string { return fmt.Sprintf("exit status %d", e.Code) }

func NewRootCmd(deps *Dependencies) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "screenrec",
		Short:         "Record a screen, window or pixel region to a video file",
		Long:          "screenrec captures a display, application window or pixel region to mp4/mov/mkv through ffmpeg, with optional microphone audio.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.Version = version.Version
	rootCmd.SetVersionTemplate(version.Full() + "\n")

	rootCmd.AddCommand(NewRecordCmd(deps))
	rootCmd.AddCommand(NewScreensCmd(deps))
	rootCmd.AddCommand(NewWindowsCmd(deps))
	rootCmd.AddCommand(NewDoctorCmd(deps))
	rootCmd.AddCommand(NewVersionCmd(deps))

	return rootCmd
}

func NewVersionCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(deps.Out, version.Full())
		},
	}
}
