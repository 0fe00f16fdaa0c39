package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/livedex/pkg/commands/options"
	"tableflip.dev/livedex/pkg/runner/show"
)

func addShow(topLevel *cobra.Command) {
	vo := &options.ViewOptions{}

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the boxes of the selected game.",
		Example: `
livedex show
livedex show --game swsh --uncaught
livedex show --section armor --json
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			_, t, err := openTracker(cmd.Context())
			if err != nil {
				return oo.HandleError(err)
			}
			s := show.Show{
				Tracker:  t,
				Uncaught: vo.Uncaught,
				Offline:  vo.Offline,
				Section:  vo.Section,
				Output:   oo.Format(),
			}
			err = s.Do(cmd.Context())
			return oo.HandleError(err)
		},
	}

	options.AddViewArgs(cmd, vo)

	topLevel.AddCommand(cmd)
}
