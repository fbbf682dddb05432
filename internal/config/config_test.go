package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Host != DefaultHost {
		t.Errorf("unexpected host: %q", cfg.Host)
	}
	if cfg.BaseURL() != "https://"+DefaultHost {
		t.Errorf("unexpected base URL: %q", cfg.BaseURL())
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("unexpected timeout: %v", cfg.Timeout)
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "text" {
		t.Errorf("unexpected log config: %+v", cfg.Log)
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "moorbuild.yaml")
	content := "host: rdb-test.example.org\nparallel: 2\nlog:\n  level: debug\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Host != "rdb-test.example.org" {
		t.Errorf("unexpected host: %q", cfg.Host)
	}
	if cfg.Parallel != 2 {
		t.Errorf("unexpected parallel: %d", cfg.Parallel)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("unexpected log level: %q", cfg.Log.Level)
	}
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("MOORBUILD_HOST", "rdb-env.example.org")
	t.Setenv("MOORBUILD_LOG_FORMAT", "json")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Host != "rdb-env.example.org" {
		t.Errorf("env host not applied: %q", cfg.Host)
	}
	if cfg.Log.Format != "json" {
		t.Errorf("env log format not applied: %q", cfg.Log.Format)
	}
}

func TestBaseURL_ExplicitScheme(t *testing.T) {
	cfg := &Config{Host: "http://localhost:8080/"}
	if cfg.BaseURL() != "http://localhost:8080" {
		t.Errorf("unexpected base URL: %q", cfg.BaseURL())
	}
}
