package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"tableflip.dev/livedex/pkg/runner/segments"
)

func addSegments(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "segments",
		Short: "List a game's segments and which are included.",
		Long: `List a game's segments. Optional segments, such as DLC dexes or regional
forms, can be enabled or disabled. Slots after a changed segment are
renumbered, and caught flags stay with their slot numbers.`,
		Example: `
livedex segments --game swsh
livedex segments enable armor --game swsh
livedex segments disable forms --game swsh
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			_, t, err := openTracker(cmd.Context())
			if err != nil {
				return oo.HandleError(err)
			}
			s := segments.Segments{
				Tracker: t,
				Output:  oo.Format(),
			}
			err = s.Do(cmd.Context())
			return oo.HandleError(err)
		},
	}

	addSegmentSwitch(cmd, "enable", true)
	addSegmentSwitch(cmd, "disable", false)

	topLevel.AddCommand(cmd)
}

func addSegmentSwitch(parent *cobra.Command, verb string, on bool) {
	var key string

	cmd := &cobra.Command{
		Use:   verb + " <key>",
		Short: fmt.Sprintf("%s an optional segment.", map[bool]string{true: "Include", false: "Exclude"}[on]),
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("a segment key is required")
			}
			key = args[0]
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			_, t, err := openTracker(cmd.Context())
			if err != nil {
				return oo.HandleError(err)
			}
			s := segments.Segments{
				Tracker: t,
				Key:     key,
				Enable:  on,
				Output:  oo.Format(),
			}
			err = s.Do(cmd.Context())
			return oo.HandleError(err)
		},
	}

	parent.AddCommand(cmd)
}
