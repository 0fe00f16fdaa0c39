package commands

import (
	"errors"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"tableflip.dev/livedex/pkg/kv"
	"tableflip.dev/livedex/pkg/runner/progress"
)

func addProgress(topLevel *cobra.Command) {
	var (
		boxes bool
		watch bool
	)

	cmd := &cobra.Command{
		Use:   "progress",
		Short: "Report caught counts overall and per section.",
		Example: `
livedex progress
livedex progress --boxes
livedex progress --watch
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			env, t, err := openTracker(cmd.Context())
			if err != nil {
				return oo.HandleError(err)
			}
			p := progress.Progress{
				Tracker: t,
				Boxes:   boxes,
				Output:  oo.Format(),
			}
			ctx := cmd.Context()
			if watch {
				disk, ok := env.Store.(*kv.Disk)
				if !ok {
					return oo.HandleError(errors.New("--watch needs the disk storage engine"))
				}
				p.Watcher = disk
				var stop func()
				ctx, stop = signal.NotifyContext(ctx, os.Interrupt)
				defer stop()
			}
			err = p.Do(ctx)
			return oo.HandleError(err)
		},
	}

	cmd.Flags().BoolVarP(&boxes, "boxes", "b", false, "Include one row per box.")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Keep reporting as progress changes.")

	topLevel.AddCommand(cmd)
}
