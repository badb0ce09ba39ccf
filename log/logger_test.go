package log

import (
	"bytes"
	"log"
	"strings"
	"testing"
)

func TestLoggerLevel(t *testing.T) {
	buf := new(bytes.Buffer)
	l := NewLogger(log.New(buf, "", 0), LevelWarning)

	l.Info("hidden")
	l.Debugf("hidden %d", 1)
	if buf.Len() != 0 {
		t.Fatalf("want nothing, got %q", buf.String())
	}

	l.Warningf("source %q finished", "a")
	l.Error("boom")
	out := buf.String()
	if !strings.Contains(out, "[WARN] ") || !strings.Contains(out, `source "a" finished`) {
		t.Errorf("warning line missing: %q", out)
	}
	if !strings.Contains(out, "[ERRO] ") || !strings.Contains(out, "boom") {
		t.Errorf("error line missing: %q", out)
	}

	l.SetLevel(LevelDebug)
	buf.Reset()
	l.Debug("now visible")
	if !strings.Contains(buf.String(), "[DBUG] ") {
		t.Errorf("debug line missing: %q", buf.String())
	}
}

func TestPublicCallerPrefix(t *testing.T) {
	buf := new(bytes.Buffer)
	old := Plg
	Plg = NewLogger(log.New(buf, "", 0), LevelInfo)
	defer func() { Plg = old }()

	Info("hello")
	if !strings.Contains(buf.String(), "logger_test.go:") {
		t.Errorf("caller prefix missing: %q", buf.String())
	}
}
