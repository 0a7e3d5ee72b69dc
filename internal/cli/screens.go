package cli

import (
	"github.com/spf13/cobra"

	"github.com/screenrec/screenrec/internal/output"
)

func NewScreensCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "screens",
		Short: "List attached displays",
		RunE: func(cmd *cobra.Command, args []string) error {
			screens, err := deps.Enum.Screens()
			if err != nil {
				return err
			}

			f := output.NewFormatter(deps.Out)
			f.ScreenListHeader()
			for _, s := range screens {
				bounds := s.PixelBounds()
				f.ScreenListItem(s.Index,
					int(s.LogicalFrame.W), int(s.LogicalFrame.H),
					bounds.W, bounds.H, s.Scale, s.Primary)
			}
			return nil
		},
	}
}
