package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestNew_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New("info", "text", &buf)

	logger.Debug("hidden")
	logger.Info("shown", "role", "main")

	got := buf.String()
	if strings.Contains(got, "hidden") {
		t.Errorf("debug record written at info level: %q", got)
	}
	if !strings.Contains(got, "shown") || !strings.Contains(got, "role=main") {
		t.Errorf("output = %q, want text record with role=main", got)
	}
}

func TestNew_JSONFormatDebugLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New("debug", "json", &buf)

	logger.Debug("probe", "task", "compileJava")

	got := buf.String()
	if !strings.Contains(got, `"msg":"probe"`) || !strings.Contains(got, `"task":"compileJava"`) {
		t.Errorf("output = %q, want JSON record", got)
	}
}

func TestContextRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	logger := New("info", "text", &buf)

	ctx := WithLogger(context.Background(), logger)
	if got := FromContext(ctx); got != logger {
		t.Error("FromContext() did not return the embedded logger")
	}
	if FromContext(context.Background()) == nil {
		t.Error("FromContext() without logger returned nil")
	}
}

func TestOrDiscard(t *testing.T) {
	if OrDiscard(nil) == nil {
		t.Fatal("OrDiscard(nil) returned nil")
	}
	var buf bytes.Buffer
	logger := New("info", "text", &buf)
	if OrDiscard(logger) != logger {
		t.Error("OrDiscard() replaced a non-nil logger")
	}
}
