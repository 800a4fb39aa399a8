package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func TestSetup_JSON(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.TraceLevel)

	var buf bytes.Buffer
	if err := setup(&buf, "warn", false); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	log.Info().Msg("dropped")
	log.Warn().Str("postID", "1").Msg("kept")

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("expected a single JSON line, got %q: %v", buf.String(), err)
	}
	if entry["message"] != "kept" {
		t.Errorf("message = %v, want kept", entry["message"])
	}
	if entry["postID"] != "1" {
		t.Errorf("postID = %v, want 1", entry["postID"])
	}
}

func TestSetup_InvalidLevel(t *testing.T) {
	if err := Setup("loud", false); err == nil {
		t.Error("Setup should reject unknown level")
	}
}
