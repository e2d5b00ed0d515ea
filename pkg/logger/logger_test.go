package logger

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
)

func TestLoggerInit(t *testing.T) {
	if err := Init(); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}
	if Get() == nil {
		t.Fatal("logger is nil after initialization")
	}
	if err := InitWithWriter(nil); err == nil {
		t.Fatal("expected error for nil writer")
	}
}

func TestLoggerWritesFields(t *testing.T) {
	var buf bytes.Buffer
	if err := InitWithWriter(&buf); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}

	Named("http").With(String("request_id", "abc")).Info(context.Background(), "evaluated",
		Int("horizon", 12), Float64("roi", -0.357), Bool("payback_reachable", false), Error(errors.New("boom")))

	out := buf.String()
	for _, expected := range []string{
		"msg=evaluated",
		"logger=http",
		"request_id=abc",
		"horizon=12",
		"roi=-0.357",
		"payback_reachable=false",
		"error=boom",
		"source=logger_test.go:",
	} {
		if !strings.Contains(out, expected) {
			t.Fatalf("expected log output to contain %q, got: %s", expected, out)
		}
	}
}

func TestSetLevelString(t *testing.T) {
	var buf bytes.Buffer
	if err := InitWithWriter(&buf); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}

	ctx := context.Background()
	Get().Debug(ctx, "hidden")
	if buf.Len() != 0 {
		t.Fatalf("debug should be filtered at info level, got: %s", buf.String())
	}

	if err := SetLevelString("DEBUG"); err != nil {
		t.Fatalf("SetLevelString: %v", err)
	}
	Get().Debug(ctx, "shown")
	if !strings.Contains(buf.String(), "msg=shown") {
		t.Fatalf("debug should be logged after SetLevelString, got: %s", buf.String())
	}

	if err := SetLevelString("warning"); err != nil {
		t.Fatalf("SetLevelString(warning): %v", err)
	}
	if err := SetLevelString("verbose"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}
