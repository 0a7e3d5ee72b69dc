package cli

import (
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/screenrec/screenrec/internal/geometry"
	"github.com/screenrec/screenrec/internal/output"
)

func NewWindowsCmd(deps *Dependencies) *cobra.Command {
	var appFilter string

	cmd := &cobra.Command{
		Use:   "windows",
		Short: "List capturable on-screen windows",
		RunE: func(cmd *cobra.Command, args []string) error {
			windows, err := deps.Enum.Windows()
			if err != nil {
				return err
			}

			f := output.NewFormatter(deps.Out)
			listed := filterWindows(windows, appFilter)
			if len(listed) == 0 {
				f.Info("no matching on-screen windows")
				return nil
			}

			f.WindowListHeader()
			for _, w := range listed {
				f.WindowListItem(w.App, w.Title, int(w.Frame.W), int(w.Frame.H))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&appFilter, "app", "", "only windows of applications matching this name")
	return cmd
}

// filterWindows keeps on-screen windows, optionally narrowed to one
// application, sorted by application then title.
func filterWindows(windows []geometry.Window, appFilter string) []geometry.Window {
	filter := strings.ToLower(strings.TrimSpace(appFilter))
	var listed []geometry.Window
	for _, w := range windows {
		if !w.OnScreen {
			continue
		}
		if filter != "" && !strings.Contains(strings.ToLower(w.App), filter) {
			continue
		}
		listed = append(listed, w)
	}

	sort.SliceStable(listed, func(i, j int) bool {
		if listed[i].App != listed[j].App {
			return listed[i].App < listed[j].App
		}
		return listed[i].Title < listed[j].Title
	})
	return listed
}
