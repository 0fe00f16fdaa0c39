package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/livedex/pkg/commands/options"
	"tableflip.dev/livedex/pkg/runner/mcp"
)

func addMCP(topLevel *cobra.Command) {
	mo := &options.MCPOptions{}

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve games, slots, progress and share links over the Model Context Protocol.",
		Long: `Open the selected game and serve it to MCP clients. Tools that name no
game act on the one chosen with --game. Over stdio nothing but protocol
frames is written to stdout.`,
		Example: `
livedex mcp
livedex mcp -g swsh --addr 127.0.0.1:0
livedex mcp --transport stdio
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			if err := mo.Normalize(); err != nil {
				return err
			}
			env, err := loadEnv()
			if err != nil {
				return err
			}
			r := mcp.Runner{
				Env:       env,
				Game:      gg.Game,
				Version:   version,
				Transport: mcp.Transport(mo.Transport),
				Addr:      mo.Addr,
				Path:      mo.Path,
				CertFile:  mo.CertFile,
				KeyFile:   mo.KeyFile,
			}
			if r.Transport == mcp.TransportHTTP {
				r.Out = cmd.OutOrStdout()
			}
			return r.Do(cmd.Context())
		},
	}

	options.AddMCPArgs(cmd, mo)
	topLevel.AddCommand(cmd)
}
