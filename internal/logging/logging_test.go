package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"INFO", zerolog.InfoLevel},
		{" warning ", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"off", zerolog.Disabled},
		{"", zerolog.WarnLevel},
		{"chatty", zerolog.WarnLevel},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseLevel(tt.in); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestNew_ConsoleRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: "info", Console: &buf})

	logger.Debug().Msg("hidden")
	logger.Info().Str("city", "London").Msg("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug message leaked at info level:\n%s", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "London") {
		t.Errorf("info message missing:\n%s", out)
	}
}

func TestNew_FileWritesJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "test.log")
	logger := New(Config{Level: "debug", FilePath: path, MaxSize: 1})

	logger.Debug().Str("event", "fallback").Msg("estimated isha")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}

	var entry map[string]interface{}
	if err := json.Unmarshal(bytes.TrimSpace(data), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v\n%s", err, data)
	}
	if entry["message"] != "estimated isha" {
		t.Errorf("message = %v, want %q", entry["message"], "estimated isha")
	}
	if entry["level"] != "debug" {
		t.Errorf("level = %v, want debug", entry["level"])
	}
}

func TestNew_NoWriters(t *testing.T) {
	logger := New(Config{Level: "debug"})
	// Must not panic or write anywhere.
	logger.Info().Msg("nowhere")
}

func TestContextRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	ctx := WithLogger(context.Background(), logger)
	fromCtx := FromContext(ctx)
	fromCtx.Info().Msg("from context")

	if !strings.Contains(buf.String(), "from context") {
		t.Errorf("logger from context did not write: %q", buf.String())
	}
}

func TestFromContext_Missing(t *testing.T) {
	logger := FromContext(context.Background())
	if logger.GetLevel() != zerolog.Disabled {
		t.Errorf("expected a no-op logger, got level %v", logger.GetLevel())
	}
}

func TestLogRequest(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)

	LogRequest(logger, "aladhan", "/timings", 20*time.Millisecond, nil)
	LogRequest(logger, "ip-api", "/json", time.Second, errors.New("timeout"))

	out := buf.String()
	if !strings.Contains(out, "request completed") {
		t.Errorf("missing success line:\n%s", out)
	}
	if !strings.Contains(out, "request failed") || !strings.Contains(out, "timeout") {
		t.Errorf("missing failure line:\n%s", out)
	}
}
