package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestInitWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "debug", Format: "json", Output: &buf})
	t.Cleanup(func() { Init(Config{Level: "info"}) })

	Info().Str("key", "value").Msg("test message")

	output := buf.String()
	if !strings.Contains(output, "test message") {
		t.Fatalf("expected message in output, got: %s", output)
	}
	if !strings.Contains(output, `"key":"value"`) {
		t.Fatalf("expected field in output, got: %s", output)
	}
}

func TestComponentAddsField(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "info", Output: &buf})
	t.Cleanup(func() { Init(Config{Level: "info"}) })

	Component("tmdb").Info().Msg("hello")

	if !strings.Contains(buf.String(), `"component":"tmdb"`) {
		t.Fatalf("expected component field, got: %s", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"":        zerolog.InfoLevel,
		"debug":   zerolog.DebugLevel,
		"WARN":    zerolog.WarnLevel,
		"warning": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"bogus":   zerolog.InfoLevel,
	}
	for input, expect := range tests {
		if got := parseLevel(input); got != expect {
			t.Fatalf("parseLevel(%q) = %v, want %v", input, got, expect)
		}
	}
}

func TestInitWithFileRotation(t *testing.T) {
	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "app.log")
	Init(Config{Level: "info", Output: &buf, File: path, MaxSizeMB: 1})
	t.Cleanup(func() {
		_ = Close()
		Init(Config{Level: "info"})
	})

	Info().Msg("to file")
	if err := Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "to file") {
		t.Fatalf("expected message in log file, got: %s", data)
	}
}
