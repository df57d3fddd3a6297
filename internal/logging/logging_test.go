package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"trace":   LevelTrace,
		"DEBUG":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"Error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
		"":        slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestHandler_Format(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(NewHandler(&buf, slog.LevelInfo))
	l.Info("pin released", "line", 515, "driver", "periph")

	line := strings.TrimRight(buf.String(), "\n")
	if !strings.Contains(line, " [INFO] pin released | line=515, driver=periph") {
		t.Errorf("unexpected line %q", line)
	}
	if !strings.HasSuffix(strings.Split(line, " [")[0], "Z") {
		t.Errorf("expected UTC timestamp, got %q", line)
	}
}

func TestHandler_NoAttrs(t *testing.T) {
	var buf bytes.Buffer
	slog.New(NewHandler(&buf, slog.LevelInfo)).Warn("no attrs")
	if strings.Contains(buf.String(), "|") {
		t.Errorf("expected no attribute separator, got %q", buf.String())
	}
	if !strings.Contains(buf.String(), "[WARN] no attrs") {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestHandler_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(NewHandler(&buf, slog.LevelWarn))
	l.Info("hidden")
	l.Debug("hidden")
	Trace(l, "hidden")
	l.Error("shown")
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("filtered records leaked: %q", out)
	}
	if !strings.Contains(out, "[ERROR] shown") {
		t.Errorf("expected error record, got %q", out)
	}
}

func TestHandler_TraceName(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(NewHandler(&buf, LevelTrace))
	Trace(l, "sample", "level", 1)
	if !strings.Contains(buf.String(), "[TRACE] sample | level=1") {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestHandler_WithAttrsAndGroup(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(NewHandler(&buf, slog.LevelInfo)).With("program", "temperature").WithGroup("lcd")
	l.Info("color", "rgb", "#ff6622")
	if !strings.Contains(buf.String(), "| lcd.program=temperature, lcd.rgb=#ff6622") {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestNew_ConsoleOnly(t *testing.T) {
	var buf bytes.Buffer
	l, closer := New(Config{Level: "debug"}, &buf)
	l.Debug("hello")
	if err := closer.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if !strings.Contains(buf.String(), "[DEBUG] hello") {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestNew_File(t *testing.T) {
	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "events.log")
	l, closer := New(Config{Level: "info", File: path}, &buf)
	l.Info("closing down nicely")
	if err := closer.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if !strings.Contains(string(data), "[INFO] closing down nicely") {
		t.Errorf("file missing record: %q", data)
	}
	if !strings.Contains(buf.String(), "closing down nicely") {
		t.Errorf("console missing record: %q", buf.String())
	}
}
