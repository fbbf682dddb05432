package creds

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeNetrc(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".netrc")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestToken(t *testing.T) {
	path := writeNetrc(t, "machine ooi-rdb.whoi.edu login jdoe password tok-123\n")

	token, err := Token(path, "ooi-rdb.whoi.edu")
	if err != nil {
		t.Fatalf("Token: %v", err)
	}
	if token != "tok-123" {
		t.Errorf("unexpected token: %q", token)
	}
}

func TestToken_MissingMachine(t *testing.T) {
	path := writeNetrc(t, "machine other.example.org login jdoe password nope\n")

	_, err := Token(path, "ooi-rdb.whoi.edu")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "ooi-rdb.whoi.edu") {
		t.Errorf("error should name the host: %v", err)
	}
}

func TestToken_MissingFile(t *testing.T) {
	_, err := Token(filepath.Join(t.TempDir(), "absent"), "ooi-rdb.whoi.edu")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "does not exist") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestToken_EmptyPassword(t *testing.T) {
	path := writeNetrc(t, "machine ooi-rdb.whoi.edu login jdoe\n")

	_, err := Token(path, "ooi-rdb.whoi.edu")
	if err == nil {
		t.Fatal("expected error for entry without password")
	}
}
