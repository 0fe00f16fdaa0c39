package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/livedex/pkg/runner/names"
)

func addNames(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "names",
		Short: "Manage the cached species names.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	refresh := &cobra.Command{
		Use:   "refresh",
		Short: "Drop cached names and fetch them again.",
		Example: `
livedex names refresh --game swsh
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			_, t, err := openTracker(cmd.Context())
			if err != nil {
				return oo.HandleError(err)
			}
			r := names.Refresh{Tracker: t}
			err = r.Do(cmd.Context())
			return oo.HandleError(err)
		},
	}

	cmd.AddCommand(refresh)
	topLevel.AddCommand(cmd)
}

func addCache(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage cached remote data.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove cached dex lists, the species table, and names. Progress is kept.",
		Example: `
livedex cache clear --game swsh
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			_, t, err := openTracker(cmd.Context())
			if err != nil {
				return oo.HandleError(err)
			}
			c := names.ClearCache{Tracker: t}
			err = c.Do(cmd.Context())
			return oo.HandleError(err)
		},
	}

	cmd.AddCommand(clearCmd)
	topLevel.AddCommand(cmd)
}
