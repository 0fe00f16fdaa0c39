package options

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// MCPOptions configures how `livedex mcp` is exposed.
type MCPOptions struct {
	Transport string
	Addr      string
	Path      string
	CertFile  string
	KeyFile   string
}

func AddMCPArgs(cmd *cobra.Command, o *MCPOptions) {
	cmd.Flags().StringVar(&o.Transport, "transport", "http",
		"Transport to serve on: http or stdio.")
	cmd.Flags().StringVar(&o.Addr, "addr", "127.0.0.1:8080",
		"host:port to listen on for http. Use port 0 for a random port.")
	cmd.Flags().StringVar(&o.Path, "path", "/mcp",
		"HTTP endpoint path.")
	cmd.Flags().StringVar(&o.CertFile, "tls-cert", "",
		"TLS certificate file, serves https together with --tls-key.")
	cmd.Flags().StringVar(&o.KeyFile, "tls-key", "",
		"TLS private key file.")
}

// Normalize trims the flags and checks the transport and path.
func (o *MCPOptions) Normalize() error {
	o.Transport = strings.ToLower(strings.TrimSpace(o.Transport))
	switch o.Transport {
	case "":
		o.Transport = "http"
	case "http", "stdio":
	default:
		return fmt.Errorf("unsupported transport %q (expected http or stdio)", o.Transport)
	}
	o.Addr = strings.TrimSpace(o.Addr)
	o.Path = strings.TrimSpace(o.Path)
	if o.Path == "" {
		o.Path = "/mcp"
	}
	if !strings.HasPrefix(o.Path, "/") {
		o.Path = "/" + o.Path
	}
	o.CertFile = strings.TrimSpace(o.CertFile)
	o.KeyFile = strings.TrimSpace(o.KeyFile)
	return nil
}
