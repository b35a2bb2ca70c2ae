package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/louisbranch/murmur/internal/platform/requestctx"
	"github.com/sirupsen/logrus"
)

func TestNewJSONIncludesService(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Service: "murmur", Level: "debug", Output: &buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	logger.Debug("hello")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("decode log line %q: %v", buf.String(), err)
	}
	if line["message"] != "hello" {
		t.Fatalf("message = %v, want hello", line["message"])
	}
	if line["service"] != "murmur" {
		t.Fatalf("service = %v, want murmur", line["service"])
	}
	if _, ok := line["timestamp"]; !ok {
		t.Fatal("expected timestamp field")
	}
}

func TestNewTextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Format: FormatText, Output: &buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	logger.Info("started")
	if !strings.Contains(buf.String(), `msg=started`) {
		t.Fatalf("text output = %q, want msg=started", buf.String())
	}
}

func TestNewDefaultsToInfo(t *testing.T) {
	logger, err := New(Options{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if logger.GetLevel() != logrus.InfoLevel {
		t.Fatalf("level = %v, want info", logger.GetLevel())
	}
}

func TestNewRejectsBadInput(t *testing.T) {
	if _, err := New(Options{Level: "loud"}); err == nil {
		t.Fatal("expected unknown level to fail")
	}
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatal("expected unknown format to fail")
	}
}

func TestFromContextAddsRequestFields(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Output: &buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ctx := requestctx.WithRequestID(requestctx.WithUserID(context.Background(), "u1"), "req-9")
	FromContext(ctx, logger).Info("handled")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if line["request_id"] != "req-9" || line["user_id"] != "u1" {
		t.Fatalf("fields = %v, want request_id=req-9 user_id=u1", line)
	}
}
