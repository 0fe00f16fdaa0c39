package mcp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"

	"tableflip.dev/livedex/pkg/app"
)

// Transport selects the mechanism used to expose the MCP server.
type Transport string

const (
	TransportHTTP  Transport = "http"
	TransportStdio Transport = "stdio"
)

// Runner serves one livedex environment over MCP. The Game tracker is
// opened before serving so a misconfigured game fails at startup, and tool
// calls that name no game use it.
type Runner struct {
	Env     *app.Env
	Game    string
	Version string

	Transport Transport
	Addr      string
	Path      string
	CertFile  string
	KeyFile   string

	// Out receives the HTTP listening banner. Stdio never writes to it.
	Out io.Writer
}

// Do opens the default game and serves until ctx is done or the transport
// closes.
func (r Runner) Do(ctx context.Context) error {
	if r.Env == nil {
		return ErrNoEnv
	}
	if (r.CertFile == "") != (r.KeyFile == "") {
		return errors.New("mcp: both tls cert and key must be provided")
	}

	svc := NewService(r.Env)
	svc.Default = r.Game
	t, err := svc.Tracker(ctx, r.Game)
	if err != nil {
		return fmt.Errorf("mcp: open %q: %w", r.Game, err)
	}
	log.Debug().Str("game", t.Game.ID).Int("slots", t.Layout().SlotCount()).Msg("mcp: default game ready")

	srv := newServer(svc, t, r.Version)

	switch r.Transport {
	case "", TransportHTTP:
		return r.serveHTTP(ctx, srv, t)
	case TransportStdio:
		return server.ServeStdio(srv)
	default:
		return fmt.Errorf("mcp: unknown transport %q, expected http or stdio", r.Transport)
	}
}

func newServer(svc *Service, t *app.Tracker, version string) *server.MCPServer {
	if version == "" {
		version = "dev"
	}
	srv := server.NewMCPServer(
		"livedex MCP",
		version,
		server.WithResourceCapabilities(false, false),
		server.WithToolCapabilities(false),
		server.WithInstructions(fmt.Sprintf(
			"Track living dex progress. Calls without a game use %s (%q, %s). "+
				"Slot and box numbers start at 1. import_share only previews unless confirm is true.",
			t.Game.Title, t.Game.ID, t.Progress())),
		server.WithResourceRecovery(),
		server.WithRecovery(),
	)
	registerResources(srv, svc)
	registerTools(srv, svc)
	return srv
}

func (r Runner) serveHTTP(ctx context.Context, srv *server.MCPServer, t *app.Tracker) error {
	path := r.Path
	if path == "" {
		path = "/mcp"
	}
	addr := r.Addr
	if addr == "" {
		addr = "127.0.0.1:8080"
	}

	mux := http.NewServeMux()
	mux.Handle(path, server.NewStreamableHTTPServer(srv))
	httpSrv := &http.Server{Handler: mux}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("mcp: listen %s: %w", addr, err)
	}
	tls := r.CertFile != ""
	if r.Out != nil {
		_, _ = fmt.Fprintf(r.Out, "livedex MCP serving %s (%s) at %s\n", t.Game.Title, t.Game.ID, endpointURL(ln.Addr(), tls, path))
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(shutdownCtx)
	}()

	if tls {
		err = httpSrv.ServeTLS(ln, r.CertFile, r.KeyFile)
	} else {
		err = httpSrv.Serve(ln)
	}
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// endpointURL is the address clients should connect to. Wildcard listens
// are reported on loopback.
func endpointURL(a net.Addr, tls bool, path string) string {
	scheme := "http"
	if tls {
		scheme = "https"
	}
	host := a.String()
	if tcp, ok := a.(*net.TCPAddr); ok {
		ip := tcp.IP
		if ip == nil || ip.IsUnspecified() {
			ip = net.IPv4(127, 0, 0, 1)
		}
		host = net.JoinHostPort(ip.String(), strconv.Itoa(tcp.Port))
	}
	return scheme + "://" + host + path
}
