package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog/log"
)

func TestInitWithFile(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "logs", "yt-queue.log")

	if err := Init(Config{File: logFile}); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	log.Info().Str("op", "test").Msg("hello file")

	data, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("log file was not written: %v", err)
	}
	if !strings.Contains(string(data), "hello file") {
		t.Errorf("log file does not contain message: %s", data)
	}
}

func TestGetAddsComponent(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)

	l := Get("coordinator")
	l.Info().Msg("dispatched")

	out := buf.String()
	if !strings.Contains(out, "coordinator") || !strings.Contains(out, "dispatched") {
		t.Errorf("unexpected log output: %q", out)
	}
}

func TestWithDefault(t *testing.T) {
	if withDefault(0, 5) != 5 {
		t.Error("zero should fall back to default")
	}
	if withDefault(7, 5) != 7 {
		t.Error("explicit value should be kept")
	}
}
