package options

import (
	"errors"

	"github.com/spf13/cobra"

	"tableflip.dev/livedex/pkg/runner/toggle"
)

// MarkOptions forces slots caught or uncaught instead of flipping them.
type MarkOptions struct {
	Catch bool
	Clear bool
}

func AddMarkArgs(cmd *cobra.Command, o *MarkOptions) {
	cmd.Flags().BoolVar(&o.Catch, "catch", false,
		"Mark as caught.")
	cmd.Flags().BoolVar(&o.Clear, "clear", false,
		"Mark as not caught.")
}

// Mode reports the toggle mode for the flags given.
func (o *MarkOptions) Mode() (toggle.Mode, error) {
	switch {
	case o.Catch && o.Clear:
		return "", errors.New("--catch and --clear are mutually exclusive")
	case o.Catch:
		return toggle.ModeCatch, nil
	case o.Clear:
		return toggle.ModeClear, nil
	}
	return toggle.ModeToggle, nil
}
