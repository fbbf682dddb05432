package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestNew_HasComponent(t *testing.T) {
	var buf bytes.Buffer
	if err := Init("debug", "text", &buf); err != nil {
		t.Fatal(err)
	}

	logger := New("rdb")
	logger.Info("hello")

	output := buf.String()
	if !strings.Contains(output, "component=rdb") {
		t.Errorf("expected component=rdb in output, got: %s", output)
	}
	if !strings.Contains(output, "hello") {
		t.Errorf("expected 'hello' in output, got: %s", output)
	}
}

func TestInit_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := Init("info", "json", &buf); err != nil {
		t.Fatal(err)
	}

	logger := New("build")
	logger.Info("json check")

	output := buf.String()
	if !strings.Contains(output, `"level":"INFO"`) {
		t.Errorf("expected JSON level field, got: %s", output)
	}
	if !strings.Contains(output, `"component":"build"`) {
		t.Errorf("expected JSON component field, got: %s", output)
	}
}

func TestInit_LevelGating(t *testing.T) {
	var buf bytes.Buffer
	if err := Init("warn", "text", &buf); err != nil {
		t.Fatal(err)
	}

	logger := New("gate-test")
	logger.Info("should be suppressed")
	logger.Warn("should appear")

	output := buf.String()
	if strings.Contains(output, "should be suppressed") {
		t.Error("Info message should be suppressed at Warn level")
	}
	if !strings.Contains(output, "should appear") {
		t.Error("Warn message should appear at Warn level")
	}
}

func TestInit_Validation(t *testing.T) {
	var buf bytes.Buffer
	if err := Init("verbose", "text", &buf); err == nil {
		t.Error("expected error for unknown level")
	}
	if err := Init("info", "xml", &buf); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestParseLevel_Defaults(t *testing.T) {
	lvl, err := ParseLevel("")
	if err != nil {
		t.Fatal(err)
	}
	if lvl.String() != "INFO" {
		t.Errorf("expected empty level to default to INFO, got %s", lvl)
	}
}
