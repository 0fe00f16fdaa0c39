package commands

import (
	"errors"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"tableflip.dev/livedex/pkg/commands/options"
	teaui "tableflip.dev/livedex/pkg/runner/tea"
)

func addBrowse(topLevel *cobra.Command) {
	vo := &options.ViewOptions{}

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse and toggle boxes in a full-screen view.",
		Example: `
livedex browse
livedex browse --game sv --offline
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			if !isatty.IsTerminal(os.Stdout.Fd()) {
				return errors.New("browse needs a terminal, try `livedex show`")
			}
			_, t, err := openTracker(cmd.Context())
			if err != nil {
				return err
			}
			return teaui.Run(t, vo.Offline)
		},
	}

	options.AddOfflineArg(cmd, vo)

	topLevel.AddCommand(cmd)
}
