package kv

import (
	"errors"
	"reflect"
	"testing"
)

func TestKey(t *testing.T) {
	tests := []struct {
		namespace string
		purpose   string
		version   int
		want      string
	}{
		{"swsh", "caught", 1, "swsh-caught-v1"},
		{"home", "pokedex-1", 2, "home-pokedex-1-v2"},
		{"pla", "species-names-meta", 1, "pla-species-names-meta-v1"},
	}
	for _, tt := range tests {
		if got := Key(tt.namespace, tt.purpose, tt.version); got != tt.want {
			t.Errorf("Key(%q, %q, %d) = %q, want %q", tt.namespace, tt.purpose, tt.version, got, tt.want)
		}
	}
}

func TestMemoryQuota(t *testing.T) {
	m := NewMemory()
	m.Quota = 32

	if err := m.Set("a-b-v1", "0123456789"); err != nil {
		t.Fatalf("set within quota: %v", err)
	}
	err := m.Set("a-c-v1", "0123456789012345678901234567890")
	if !errors.Is(err, ErrQuotaExceeded) {
		t.Fatalf("expected ErrQuotaExceeded, got %v", err)
	}
	// Overwriting an existing key only counts the new value.
	if err := m.Set("a-b-v1", "01234567890123456789"); err != nil {
		t.Fatalf("overwrite within quota: %v", err)
	}
	if _, ok, _ := m.Get("a-c-v1"); ok {
		t.Fatal("rejected write must not be stored")
	}
}

func TestMemoryRejectsInvalidKeys(t *testing.T) {
	m := NewMemory()
	for _, key := range []string{"", "-lead", "trail-", "a--b", "a/b-v1"} {
		if err := m.Set(key, "x"); !errors.Is(err, ErrInvalidKey) {
			t.Errorf("Set(%q) = %v, want ErrInvalidKey", key, err)
		}
	}
}

func TestRemovePrefix(t *testing.T) {
	m := NewMemory()
	for _, k := range []string{"swsh-pokedex-27-v2", "swsh-pokedex-28-v2", "swsh-caught-v1", "home-pokedex-1-v2"} {
		if err := m.Set(k, "[]"); err != nil {
			t.Fatal(err)
		}
	}
	n, err := RemovePrefix(m, "swsh-pokedex-")
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Fatalf("removed %d keys, want 2", n)
	}
	keys, _ := m.Keys("")
	want := []string{"home-pokedex-1-v2", "swsh-caught-v1"}
	if !reflect.DeepEqual(keys, want) {
		t.Fatalf("remaining keys %v, want %v", keys, want)
	}
}
