package options

import (
	"github.com/spf13/cobra"
)

// GameOptions selects which game a command works on.
type GameOptions struct {
	Game        string
	Interactive bool
	Verbose     bool
}

func AddGameArgs(cmd *cobra.Command, o *GameOptions) {
	cmd.PersistentFlags().StringVarP(&o.Game, "game", "g", "",
		`Game to track, e.g. "home" or "swsh". Defaults to the configured game.`)
	cmd.PersistentFlags().BoolVarP(&o.Interactive, "interactive", "i", false,
		`Pick the game from a list.`)
	cmd.PersistentFlags().BoolVarP(&o.Verbose, "verbose", "v", false,
		`Log debug details to stderr.`)
}
