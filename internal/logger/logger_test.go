package logger

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

type staticChecker bool

func (s staticChecker) IsVerbose() bool { return bool(s) }

func TestVerboseGating(t *testing.T) {
	tests := []struct {
		name    string
		verbose bool
		want    []string
		notWant []string
	}{
		{"quiet", false, []string{"WARN", "ERROR"}, []string{"DEBUG", "INFO"}},
		{"verbose", true, []string{"DEBUG", "INFO", "WARN", "ERROR"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log := NewWithWriter("workflow", staticChecker(tt.verbose), &buf)

			log.Debug("debug %d", 1)
			log.Info("info")
			log.Warn("warn")
			log.Error("error")

			out := buf.String()
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("Expected output to contain %s, got:\n%s", w, out)
				}
			}
			for _, nw := range tt.notWant {
				if strings.Contains(out, nw) {
					t.Errorf("Expected output not to contain %s, got:\n%s", nw, out)
				}
			}
		})
	}
}

func TestFieldsAndComponent(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("client", staticChecker(true), &buf).WithOperation("analyze", "req-1")

	log.WarnWithFields("request failed", []Field{Status(500), Error(errors.New("boom")), F("page", 2)})

	out := buf.String()
	for _, want := range []string{"[client]", "request failed", "req-1", "analyze", "500", "boom"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestCallbackChecker(t *testing.T) {
	verbose := false
	var buf bytes.Buffer
	log := NewWithWriter("cli", &callbackChecker{callback: func() bool { return verbose }}, &buf)

	log.Info("hidden")
	verbose = true
	log.Info("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("Expected info to be suppressed while not verbose")
	}
	if !strings.Contains(out, "shown") {
		t.Error("Expected info once verbose")
	}
}

func TestNopDiscards(t *testing.T) {
	log := Nop()
	log.Error("nothing happens")
	log.WithComponent("x").Warn("still nothing")
}
