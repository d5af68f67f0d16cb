package store

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLocalPut(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocal(dir)
	if err != nil {
		t.Fatalf("NewLocal: %v", err)
	}
	defer s.Close()

	if err := s.Put("run-results.png", []byte("fake png")); err != nil {
		t.Fatalf("Put: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "run-results.png"))
	if err != nil {
		t.Fatalf("reading artifact back: %v", err)
	}
	if string(data) != "fake png" {
		t.Errorf("artifact content = %q, want %q", data, "fake png")
	}
}

func TestLocalPutReplaces(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocal(dir)
	if err != nil {
		t.Fatalf("NewLocal: %v", err)
	}

	if err := s.Put("run-error.png", []byte("first")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.Put("run-error.png", []byte("second")); err != nil {
		t.Fatalf("Put: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "run-error.png"))
	if err != nil {
		t.Fatalf("reading artifact back: %v", err)
	}
	if string(data) != "second" {
		t.Errorf("artifact content = %q, want %q", data, "second")
	}
}

func TestNewLocalCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "artifacts")
	if _, err := NewLocal(dir); err != nil {
		t.Fatalf("NewLocal: %v", err)
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		t.Errorf("expected %s to exist as a directory, err=%v", dir, err)
	}
}

func TestContentType(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"run-results.png", "image/png"},
		{"run-results.html", "text/html"},
		{"departures.json", "application/json"},
		{"renfe.log", "application/octet-stream"},
	}
	for _, tt := range tests {
		if got := contentType(tt.name); got != tt.want {
			t.Errorf("contentType(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}
