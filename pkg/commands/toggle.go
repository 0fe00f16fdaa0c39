package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/livedex/pkg/commands/options"
	"tableflip.dev/livedex/pkg/runner/toggle"
)

func addToggle(topLevel *cobra.Command) {
	mo := &options.MarkOptions{}
	var slots []int

	cmd := &cobra.Command{
		Use:   "toggle <slot...>",
		Short: "Flip the caught flag of one or more slots.",
		Example: `
livedex toggle 25
livedex toggle 1 4 7 --catch
livedex toggle '#152' --clear
`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return fmt.Errorf("at least one slot is required")
			}
			var err error
			slots, err = parseNumbers(args)
			return err
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
			r := toggle.Toggle{
				Tracker: t,
				Slots:   slots,
				Mode:    mode,
				Output:  oo.Format(),
			}
			err = r.Do(cmd.Context())
			return oo.HandleError(err)
		},
	}

	options.AddMarkArgs(cmd, mo)

	topLevel.AddCommand(cmd)
}

// parseNumbers reads slot or box numbers, allowing a leading '#'.
func parseNumbers(args []string) ([]int, error) {
	out := make([]int, 0, len(args))
	for _, a := range args {
		for _, part := range strings.Split(a, ",") {
			part = strings.TrimPrefix(strings.TrimSpace(part), "#")
			if part == "" {
				continue
			}
			n, err := strconv.Atoi(part)
			if err != nil || n < 1 {
				return nil, fmt.Errorf("%q is not a slot number", part)
			}
			out = append(out, n)
		}
	}
	return out, nil
}
