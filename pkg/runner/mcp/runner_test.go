package mcp

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"
)

// lineWriter hands each write to the test goroutine.
type lineWriter chan string

func (w lineWriter) Write(p []byte) (int, error) {
	w <- string(p)
	return len(p), nil
}

func TestRunnerServesDefaultGameOverHTTP(t *testing.T) {
	svc, _ := newTestService(t, 3)
	banner := make(lineWriter, 1)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- Runner{Env: svc.Env, Game: "home", Version: "test", Addr: "127.0.0.1:0", Path: "rpc", Out: banner}.Do(ctx)
	}()

	var line string
	select {
	case line = <-banner:
	case err := <-done:
		t.Fatalf("runner exited early: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("no listening banner")
	}
	if !strings.Contains(line, "(home) at http://127.0.0.1:") {
		t.Fatalf("banner = %q", line)
	}
	url := strings.TrimSpace(line[strings.Index(line, "http://"):])

	body := `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2025-03-26","capabilities":{},"clientInfo":{"name":"test","version":"0"}}}`
	req, _ := http.NewRequest(http.MethodPost, url, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json, text/event-stream")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	got, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if !strings.Contains(string(got), "livedex MCP") || !strings.Contains(string(got), `\"home\"`) {
		t.Fatalf("initialize response = %s", got)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("shutdown: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("runner did not stop")
	}
}

func TestRunnerFailsBeforeServing(t *testing.T) {
	svc, _ := newTestService(t, 1)
	ctx := context.Background()

	if err := (Runner{}).Do(ctx); !errors.Is(err, ErrNoEnv) {
		t.Fatalf("err = %v", err)
	}
	if err := (Runner{Env: svc.Env, Game: "nope"}).Do(ctx); err == nil || !strings.Contains(err.Error(), "nope") {
		t.Fatalf("unknown game err = %v", err)
	}
	if err := (Runner{Env: svc.Env, CertFile: "cert.pem"}).Do(ctx); err == nil {
		t.Fatal("cert without key should fail")
	}
	if err := (Runner{Env: svc.Env, Transport: "carrier-pigeon"}).Do(ctx); err == nil {
		t.Fatal("unknown transport should fail")
	}
}

func TestEndpointURL(t *testing.T) {
	tests := []struct {
		addr net.Addr
		tls  bool
		want string
	}{
		{&net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 8080}, false, "http://127.0.0.1:8080/mcp"},
		{&net.TCPAddr{IP: net.IPv4zero, Port: 9000}, true, "https://127.0.0.1:9000/mcp"},
		{&net.TCPAddr{IP: net.ParseIP("::1"), Port: 80}, false, "http://[::1]:80/mcp"},
	}
	for _, tc := range tests {
		if got := endpointURL(tc.addr, tc.tls, "/mcp"); got != tc.want {
			t.Errorf("endpointURL(%v) = %q, want %q", tc.addr, got, tc.want)
		}
	}
}

func TestServiceDefaultGame(t *testing.T) {
	svc, store := newTestService(t, 3)
	svc.Default = "home"
	if _, err := svc.ToggleSlot(context.Background(), "", 1, "catch"); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := store.Get("home-caught-v1"); !ok {
		t.Fatal("empty game did not use the default")
	}
}
