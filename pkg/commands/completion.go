package commands

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/livedex/pkg/dex"
)

func addCompletions(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "completion",
		Short: "Generates bash completion scripts",
		Long: `To load completion run

. <(livedex completion)

To configure your bash shell to load completions for each session add to your bashrc

# ~/.bashrc or ~/.profile
. <(livedex completion)
`,
		Run: func(cmd *cobra.Command, args []string) {
			_ = topLevel.GenBashCompletion(os.Stdout)
		},
	}

	_ = topLevel.RegisterFlagCompletionFunc("game", func(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return gameCompletions(toComplete), cobra.ShellCompDirectiveNoFileComp
	})

	topLevel.AddCommand(cmd)
}

func gameCompletions(toComplete string) []string {
	c, err := dex.Builtin()
	if err != nil {
		return nil
	}
	ids := make([]string, 0, len(c.Games))
	for _, id := range c.IDs() {
		if strings.HasPrefix(id, toComplete) {
			ids = append(ids, id)
		}
	}
	return ids
}
