package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"trace":   zerolog.TraceLevel,
		" DEBUG ": zerolog.DebugLevel,
		"warning": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"":        zerolog.InfoLevel,
		"verbose": zerolog.InfoLevel,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestForEnv(t *testing.T) {
	if !ForEnv("development", "debug").Pretty {
		t.Fatal("expected console output in development")
	}
	if ForEnv("production", "info").Pretty {
		t.Fatal("expected JSON output in production")
	}
}

func TestNew_JSONCarriesService(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Level: "info", Service: "decree-portal", Output: &buf})

	log.Debug().Msg("hidden")
	log.Info().Str("numero", "D1").Msg("imported")

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("expected a single JSON line, got %q: %v", buf.String(), err)
	}
	if entry["service"] != "decree-portal" || entry["numero"] != "D1" || entry["message"] != "imported" {
		t.Fatalf("unexpected entry %+v", entry)
	}
}

func TestInitIsSingleton(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	var first, second bytes.Buffer
	Init(Options{Output: &first})
	Init(Options{Output: &second})

	Get().Info().Msg("hello")
	if first.Len() == 0 || second.Len() != 0 {
		t.Fatal("expected only the first Init to take effect")
	}
}

func TestGetBeforeInitPanics(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic")
		}
	}()
	Get()
}
