package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/livedex/pkg/commands/options"
	"tableflip.dev/livedex/pkg/runner/search"
)

func addSearch(topLevel *cobra.Command) {
	vo := &options.ViewOptions{}
	var query string

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Find slots by number or species name.",
		Long: `Find slots by number or species name. A number, with or without a leading
'#', matches a slot, a species id, or a printed dex number. Anything else
matches part of a name, ignoring case.`,
		Example: `
livedex search pika
livedex search '#025'
livedex search 150 --game swsh
`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return fmt.Errorf("a query is required")
			}
			query = strings.Join(args, " ")
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			_, t, err := openTracker(cmd.Context())
			if err != nil {
				return oo.HandleError(err)
			}
			s := search.Search{
				Tracker: t,
				Query:   query,
				Offline: vo.Offline,
				Output:  oo.Format(),
			}
			err = s.Do(cmd.Context())
			return oo.HandleError(err)
		},
	}

	options.AddOfflineArg(cmd, vo)

	topLevel.AddCommand(cmd)
}
