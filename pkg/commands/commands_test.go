package commands

import (
	"reflect"
	"testing"

	"tableflip.dev/livedex/pkg/commands/options"
	"tableflip.dev/livedex/pkg/runner/toggle"
)

func TestParseNumbers(t *testing.T) {
	got, err := parseNumbers([]string{"1", "#25", "3,4", " 7 "})
	if err != nil {
		t.Fatal(err)
	}
	if want := []int{1, 25, 3, 4, 7}; !reflect.DeepEqual(got, want) {
		t.Fatalf("parseNumbers = %v, want %v", got, want)
	}
	for _, bad := range []string{"abc", "0", "-2"} {
		if _, err := parseNumbers([]string{bad}); err == nil {
			t.Errorf("%q should not parse", bad)
		}
	}
}

func TestMarkMode(t *testing.T) {
	tests := []struct {
		opts    options.MarkOptions
		want    toggle.Mode
		wantErr bool
	}{
		{opts: options.MarkOptions{}, want: toggle.ModeToggle},
		{opts: options.MarkOptions{Catch: true}, want: toggle.ModeCatch},
		{opts: options.MarkOptions{Clear: true}, want: toggle.ModeClear},
		{opts: options.MarkOptions{Catch: true, Clear: true}, wantErr: true},
	}
	for _, tt := range tests {
		got, err := tt.opts.Mode()
		if (err != nil) != tt.wantErr {
			t.Fatalf("%+v: err = %v", tt.opts, err)
		}
		if got != tt.want {
			t.Errorf("%+v: mode = %q, want %q", tt.opts, got, tt.want)
		}
	}
}

func TestCommandTree(t *testing.T) {
	root := New()
	for _, path := range [][]string{
		{"show"}, {"toggle"}, {"box"}, {"progress"}, {"share"}, {"import"},
		{"reset"}, {"segments", "enable"}, {"segments", "disable"}, {"search"},
		{"games"}, {"names", "refresh"}, {"cache", "clear"}, {"info"},
		{"mcp"}, {"version"}, {"browse"},
	} {
		cmd, _, err := root.Find(path)
		if err != nil || cmd == root {
			t.Errorf("command %v not registered", path)
		}
	}
	for _, flag := range []string{"game", "json", "verbose", "interactive"} {
		if root.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("missing global flag --%s", flag)
		}
	}
}

func TestGameCompletions(t *testing.T) {
	got := gameCompletions("sw")
	if len(got) != 1 || got[0] != "swsh" {
		t.Fatalf("completions = %v", got)
	}
}
