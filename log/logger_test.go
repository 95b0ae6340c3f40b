package log

import (
	"bytes"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	specs := map[string]Level{
		"debug":    Debug,
		"INFO":     Info,
		" notice ": Notice,
		"Warning":  Warning,
		"error":    Error,
	}

	for name, exp := range specs {
		got, err := ParseLevel(name)
		if err != nil {
			t.Fatalf("unexpected error parsing %q: %v", name, err)
		}
		if got != exp {
			t.Fatalf("expected %q to parse as %d; got %d", name, exp, got)
		}
	}

	if _, err := ParseLevel("verbose"); err == nil {
		t.Fatal("expected an error for an unknown level")
	}
}

func TestSetLevelFiltersMessages(t *testing.T) {
	var buf bytes.Buffer
	SetSink(&buf)
	defer SetLevel(Notice)

	logger := New("test")
	SetLevel(Warning)
	logger.Infof("hidden")
	logger.Warningf("shown %d", 42)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("expected info message to be filtered; got %q", out)
	}
	if !strings.Contains(out, "shown 42") {
		t.Fatalf("expected warning message in output; got %q", out)
	}
}
