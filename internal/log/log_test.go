package log

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestInfoProducesLogfmtWithTimestamp(t *testing.T) {
	buf := new(bytes.Buffer)
	original := Logger()
	ReplaceLogger(slog.New(newHandler(buf)))
	t.Cleanup(func() {
		ReplaceLogger(original)
	})

	Info(context.Background(), "hello", "user", "test")

	line := strings.TrimSpace(buf.String())
	if line == "" {
		t.Fatalf("expected log output, got empty string")
	}
	if !strings.Contains(line, "ts=") {
		t.Fatalf("expected timestamp field in log line, got %q", line)
	}
	if !strings.Contains(line, "level=info") {
		t.Fatalf("expected level field in log line, got %q", line)
	}
	if !strings.Contains(line, "msg=hello") {
		t.Fatalf("expected message field in log line, got %q", line)
	}
	if !strings.Contains(line, "user=test") {
		t.Fatalf("expected structured field in log line, got %q", line)
	}
}

func TestSetLevelFiltersMessages(t *testing.T) {
	buf := new(bytes.Buffer)
	original := Logger()
	ReplaceLogger(slog.New(newHandler(buf)))
	t.Cleanup(func() {
		ReplaceLogger(original)
		_ = SetLevel("info")
	})

	if err := SetLevel("warn"); err != nil {
		t.Fatalf("SetLevel(warn) error = %v", err)
	}
	Info(context.Background(), "hidden")
	Warn(context.Background(), "shown", "record", "daiquiri")

	out := buf.String()
	if strings.Contains(out, "msg=hidden") {
		t.Fatalf("info line emitted at warn level: %q", out)
	}
	if !strings.Contains(out, "level=warn") || !strings.Contains(out, "record=daiquiri") {
		t.Fatalf("expected warn line, got %q", out)
	}
}

func TestSetLevelRejectsUnknown(t *testing.T) {
	if err := SetLevel("verbose"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestWithAttrsTagsContextLines(t *testing.T) {
	buf := new(bytes.Buffer)
	original := Logger()
	ReplaceLogger(slog.New(newHandler(buf)))
	t.Cleanup(func() {
		ReplaceLogger(original)
	})

	ctx := WithAttrs(context.Background(), "request_id", "abc")
	ctx = WithAttrs(ctx, "user_id", 7)
	Info(ctx, "saved")
	Info(context.Background(), "plain")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected two lines, got %q", buf.String())
	}
	if !strings.Contains(lines[0], "request_id=abc") || !strings.Contains(lines[0], "user_id=7") {
		t.Fatalf("expected context attributes, got %q", lines[0])
	}
	if strings.Contains(lines[1], "request_id") {
		t.Fatalf("unexpected context attributes on plain line: %q", lines[1])
	}
}

func TestWithKeepsContextAttributes(t *testing.T) {
	buf := new(bytes.Buffer)
	original := Logger()
	ReplaceLogger(slog.New(newHandler(buf)))
	t.Cleanup(func() {
		ReplaceLogger(original)
	})

	With("run", "r1").InfoContext(WithAttrs(context.Background(), "letter", "a"), "fetched")

	line := buf.String()
	if !strings.Contains(line, "run=r1") || !strings.Contains(line, "letter=a") {
		t.Fatalf("expected both logger and context attributes, got %q", line)
	}
}
