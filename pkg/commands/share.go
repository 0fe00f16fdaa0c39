package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"tableflip.dev/livedex/pkg/commands/options"
	"tableflip.dev/livedex/pkg/runner/share"
)

func addShare(topLevel *cobra.Command) {
	var baseURL string

	cmd := &cobra.Command{
		Use:   "share",
		Short: "Print a link that carries the game's caught flags.",
		Long: `Print a link with a #s= fragment. Anyone opening or importing the link gets
a copy of the progress at the time it was made.`,
		Example: `
livedex share
livedex share --base-url https://example.com/dex/
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			_, t, err := openTracker(cmd.Context())
			if err != nil {
				return oo.HandleError(err)
			}
			if baseURL == "" {
				baseURL = viper.GetString("share.base_url")
			}
			e := share.Export{
				Tracker: t,
				BaseURL: baseURL,
				Output:  oo.Format(),
			}
			err = e.Do(cmd.Context())
			return oo.HandleError(err)
		},
	}

	cmd.Flags().StringVar(&baseURL, "base-url", "", "Page to attach the share fragment to. Defaults to share.base_url.")

	topLevel.AddCommand(cmd)
}

func addImport(topLevel *cobra.Command) {
	co := &options.ConfirmOptions{}
	var link string

	cmd := &cobra.Command{
		Use:   "import <link|hash>",
		Short: "Replace the game's progress with a shared link.",
		Long: `Replace the game's progress with the caught flags in a shared link. Your
current progress is overwritten, so you are asked first unless --yes is set.`,
		Example: `
livedex import 'https://example.com/dex/#s=<token>'
livedex import '#s=<token>' --yes
`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("a share link or hash is required")
			}
			link = strings.TrimSpace(args[0])
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			_, t, err := openTracker(cmd.Context())
			if err != nil {
				return oo.HandleError(err)
			}
			i := share.Import{
				Tracker: t,
				Link:    link,
				Yes:     co.Yes || oo.JSON,
				Confirm: confirm,
				Output:  oo.Format(),
			}
			err = i.Do(cmd.Context())
			return oo.HandleError(err)
		},
	}

	options.AddConfirmArgs(cmd, co)

	topLevel.AddCommand(cmd)
}
