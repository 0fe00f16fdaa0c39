package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/livedex/pkg/commands/options"
	"tableflip.dev/livedex/pkg/runner/reset"
)

func addReset(topLevel *cobra.Command) {
	co := &options.ConfirmOptions{}
	var link string

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Clear every caught flag for the selected game.",
		Example: `
livedex reset
livedex reset --game swsh --yes
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			_, t, err := openTracker(cmd.Context())
			if err != nil {
				return oo.HandleError(err)
			}
			r := reset.Reset{
				Tracker: t,
				Yes:     co.Yes,
				Confirm: confirm,
				Link:    link,
			}
			err = r.Do(cmd.Context())
			return oo.HandleError(err)
		},
	}

	options.AddConfirmArgs(cmd, co)
	cmd.Flags().StringVar(&link, "link", "", "A page link to print back without its share fragment.")

	topLevel.AddCommand(cmd)
}
