package options

import (
	"github.com/spf13/cobra"
)

// ViewOptions
type ViewOptions struct {
	Uncaught bool
	Offline  bool
	Section  string
}

func AddViewArgs(cmd *cobra.Command, o *ViewOptions) {
	cmd.Flags().BoolVarP(&o.Uncaught, "uncaught", "u", false,
		"Only show slots still missing.")
	cmd.Flags().StringVarP(&o.Section, "section", "s", "",
		"Only show one section, by key.")
	AddOfflineArg(cmd, o)
}

func AddOfflineArg(cmd *cobra.Command, o *ViewOptions) {
	cmd.Flags().BoolVar(&o.Offline, "offline", false,
		"Use cached names only, never fetch.")
}
