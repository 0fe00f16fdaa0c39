package kv

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

type testConfig struct {
	path   string
	engine string
}

func (t testConfig) BasePath() string { return t.path }
func (t testConfig) Engine() string   { return t.engine }

func TestDiskRoundTrip(t *testing.T) {
	base := t.TempDir()
	s, err := NewDisk(base)
	if err != nil {
		t.Fatalf("new disk: %v", err)
	}

	if _, ok, err := s.Get("swsh-caught-v1"); err != nil || ok {
		t.Fatalf("missing key: ok=%v err=%v", ok, err)
	}
	if err := s.Set("swsh-caught-v1", `{"4":true}`); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, ok, err := s.Get("swsh-caught-v1")
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if got != `{"4":true}` {
		t.Fatalf("got %q", got)
	}

	if _, err := os.Stat(filepath.Join(base, "swsh", "caught", "v1")); err != nil {
		t.Fatalf("expected key to be split into directories: %v", err)
	}

	if err := s.Remove("swsh-caught-v1"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := s.Remove("swsh-caught-v1"); err != nil {
		t.Fatalf("removing a missing key should be a no-op: %v", err)
	}
}

func TestDiskKeys(t *testing.T) {
	s, err := NewDisk(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{"swsh-pokedex-27-v2", "swsh-segments-v1", "home-caught-v1"} {
		if err := s.Set(k, "x"); err != nil {
			t.Fatal(err)
		}
	}
	keys, err := s.Keys("swsh-")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"swsh-pokedex-27-v2", "swsh-segments-v1"}
	if !reflect.DeepEqual(keys, want) {
		t.Fatalf("keys %v, want %v", keys, want)
	}
}

func TestOpenByEngine(t *testing.T) {
	base := t.TempDir()
	s, err := Open(testConfig{path: base, engine: "disk"})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := s.(*Disk); !ok {
		t.Fatalf("disk engine returned %T", s)
	}
	s, err = Open(testConfig{engine: "memory"})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := s.(*Memory); !ok {
		t.Fatalf("memory engine returned %T", s)
	}
	if _, err := Open(testConfig{path: base, engine: "bogus"}); err == nil {
		t.Fatal("expected an error for an unknown engine")
	}
}

func TestDiskWatchEmitsKeyChanges(t *testing.T) {
	base := t.TempDir()
	s, err := NewDisk(base)
	if err != nil {
		t.Fatal(err)
	}
	// Pre-create the namespace directories so the watcher covers them.
	if err := s.Set("swsh-caught-v1", "{}"); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := s.Watch(ctx)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	time.Sleep(50 * time.Millisecond)

	if err := s.Set("swsh-caught-v1", `{"1":true}`); err != nil {
		t.Fatal(err)
	}

	deadline := time.After(2 * time.Second)
	for {
		select {
		case evt := <-ch:
			if evt.Key == "" || evt.Key == "swsh-caught-v1" {
				return
			}
		case <-deadline:
			t.Fatal("timed out waiting for key change event")
		}
	}
}
