package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func TestSetupLevel(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	var buf bytes.Buffer
	Setup(&buf, "warn")
	log.Info().Msg("hidden")
	log.Warn().Str("key", "swsh-caught-v1").Msg("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info should be filtered at warn level: %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "swsh-caught-v1") {
		t.Fatalf("warn line missing: %q", out)
	}
}

func TestSetupUnknownLevelFallsBackToInfo(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	var buf bytes.Buffer
	Setup(&buf, "chatty")
	if zerolog.GlobalLevel() != zerolog.InfoLevel {
		t.Fatalf("level = %v, want info", zerolog.GlobalLevel())
	}
}
