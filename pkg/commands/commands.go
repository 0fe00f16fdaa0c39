package commands

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/livedex/pkg/app"
	"tableflip.dev/livedex/pkg/commands/options"
	"tableflip.dev/livedex/pkg/kv"
	"tableflip.dev/livedex/pkg/logging"
	"tableflip.dev/livedex/pkg/snake"
)

var (
	oo = &options.OutputOptions{}
	gg = &options.GameOptions{}

	cfg kv.Config
)

func New() *cobra.Command {

	cmd := &cobra.Command{
		Use:   "livedex",
		Short: base.Wrap80("Track a living Pokédex, box by box, on the command line."),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if cfg, err = kv.LoadConfig(); err != nil {
				return err
			}
			level := viper.GetString("log.level")
			if gg.Verbose {
				level = "debug"
			}
			logging.Setup(cmd.ErrOrStderr(), level)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	options.AddGameArgs(cmd, gg)
	options.AddOutputArg(cmd, oo)

	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addShow(topLevel)
	addBrowse(topLevel)
	addToggle(topLevel)
	addBox(topLevel)
	addProgress(topLevel)
	addShare(topLevel)
	addImport(topLevel)
	addReset(topLevel)
	addSegments(topLevel)
	addSearch(topLevel)
	addGames(topLevel)
	addNames(topLevel)
	addCache(topLevel)
	addInfo(topLevel)
	addMCP(topLevel)
	addVersion(topLevel)
	addCompletions(topLevel)
}

// loadEnv builds the environment from the configuration read in
// PersistentPreRunE.
func loadEnv() (*app.Env, error) {
	return app.Load(cfg)
}

// openTracker loads the environment and opens the selected game, asking
// for it first with --interactive.
func openTracker(ctx context.Context) (*app.Env, *app.Tracker, error) {
	env, err := loadEnv()
	if err != nil {
		return nil, nil, err
	}
	id := gg.Game
	if gg.Interactive {
		if id, err = snake.SelectGame(os.Stdin, os.Stdout, env.Catalog); err != nil {
			return nil, nil, err
		}
	}
	t, err := env.Tracker(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return env, t, nil
}

func confirm(label string) (bool, error) {
	return snake.Confirm(os.Stdin, os.Stdout, label)
}
