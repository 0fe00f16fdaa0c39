package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"tableflip.dev/livedex/pkg/commands/options"
	"tableflip.dev/livedex/pkg/runner/toggle"
)

func addBox(topLevel *cobra.Command) {
	mo := &options.MarkOptions{}
	var number int

	cmd := &cobra.Command{
		Use:   "box <n>",
		Short: "Catch or clear every slot in a box of 30.",
		Long: `Without --catch or --clear the box is filled when any slot in it is
missing, and emptied when it is already complete.`,
		Example: `
livedex box 1
livedex box 3 --clear
`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("exactly one box number is required")
			}
			n, err := parseNumbers(args)
			if err != nil {
				return err
			}
			if len(n) != 1 {
				return fmt.Errorf("exactly one box number is required")
			}
			number = n[0]
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			mode, err := mo.Mode()
			if err != nil {
				return oo.HandleError(err)
			}
			_, t, err := openTracker(cmd.Context())
			if err != nil {
				return oo.HandleError(err)
			}
			b := toggle.Box{
				Tracker: t,
				Number:  number,
				Mode:    mode,
				Output:  oo.Format(),
			}
			err = b.Do(cmd.Context())
			return oo.HandleError(err)
		},
	}

	options.AddMarkArgs(cmd, mo)

	topLevel.AddCommand(cmd)
}
