package commands

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"tableflip.dev/livedex/pkg/runner/games"
)

func addGames(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "games",
		Short: "List the games that can be tracked.",
		Example: `
livedex games
livedex games --json
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			env, err := loadEnv()
			if err != nil {
				return oo.HandleError(err)
			}
			current := gg.Game
			if current == "" {
				current = viper.GetString("game")
			}
			g := games.Games{
				Catalog: env.Catalog,
				Current: current,
				Output:  oo.Format(),
			}
			err = g.Do(cmd.Context())
			return oo.HandleError(err)
		},
	}

	topLevel.AddCommand(cmd)
}
