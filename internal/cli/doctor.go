package cli

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"

	"github.com/screenrec/screenrec/internal/output"
)

func NewDoctorCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check recording prerequisites",
		RunE: func(cmd *cobra.Command, args []string) error {
			f := output.NewFormatter(deps.Out)
			ok := true

			if resolved, err := exec.LookPath(deps.Config.FFmpegPath); err != nil {
				f.SetupCheck("ffmpeg", false, fmt.Sprintf("%q not found on PATH", deps.Config.FFmpegPath))
				ok = false
			} else if ver, err := ffmpegVersion(resolved); err != nil {
				f.SetupCheck("ffmpeg", false, fmt.Sprintf("%s found but not runnable: %v", resolved, err))
				ok = false
			} else {
				f.SetupCheck("ffmpeg", true, ver)
			}

			if screens, err := deps.Enum.Screens(); err != nil {
				f.SetupCheck("Display access", false, err.Error())
				ok = false
			} else {
				f.SetupCheck("Display access", true, fmt.Sprintf("%d display(s)", len(screens)))
			}

			if device, err := deps.ProbeAudio(); err != nil {
				f.SetupCheck("Audio input", false, err.Error()+" (recording without --audio still works)")
				ok = false
			} else {
				f.SetupCheck("Audio input", true, device)
			}

			if err := checkWritable(deps.Config.OutputDir); err != nil {
				f.SetupCheck("Output directory", false, err.Error())
				ok = false
			} else {
				f.SetupCheck("Output directory", true, deps.Config.OutputDir)
			}

			if ok {
				f.Success("\nReady to record.")
			} else {
				f.Warning("\nSome checks failed.")
			}
			return nil
		},
	}
}

// ffmpegVersion runs "ffmpeg -version" and returns its first line.
func ffmpegVersion(path string) (string, error) {
	out, err := exec.Command(path, "-version").Output()
	if err != nil {
		return "", err
	}
	line, _, _ := strings.Cut(string(out), "\n")
	return strings.TrimSpace(line), nil
}

// checkWritable verifies dir accepts a new file, creating it if needed.
func checkWritable(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	probe, err := os.CreateTemp(dir, ".screenrec-doctor-*")
	if err != nil {
		return err
	}
	name := probe.Name()
	probe.Close()
	return os.Remove(name)
}
