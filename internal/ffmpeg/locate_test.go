package ffmpeg

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLocateConfiguredPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ffmpeg")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatal(err)
	}

	got, err := Locate(path)
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if got != path {
		t.Errorf("Locate = %q, want %q", got, path)
	}
}

func TestLocateConfiguredPathMissing(t *testing.T) {
	if _, err := Locate(filepath.Join(t.TempDir(), "no-such-ffmpeg")); err == nil {
		t.Error("expected error for missing configured path")
	}
}

func TestCheckInstalledMissingBinary(t *testing.T) {
	if err := CheckInstalled(filepath.Join(t.TempDir(), "no-such-ffmpeg")); err == nil {
		t.Error("expected error for missing binary")
	}
}
