package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/livedex/pkg/runner/info"
)

func addInfo(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Details about stored progress and where it lives.",
		Example: `
livedex info
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			env, err := loadEnv()
			if err != nil {
				return oo.HandleError(err)
			}
			s := info.Info{
				Config:  cfg,
				Store:   env.Store,
				Catalog: env.Catalog,
			}
			err = s.Do(cmd.Context())
			return oo.HandleError(err)
		},
	}

	topLevel.AddCommand(cmd)
}
