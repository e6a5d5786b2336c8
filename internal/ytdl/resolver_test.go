package ytdl

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// fakeYtDlp writes a tiny shell script standing in for yt-dlp so Resolve
// can be tested without the real binary or network access.
func fakeYtDlp(t *testing.T, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake yt-dlp script is a POSIX shell script")
	}
	dir := t.TempDir()
	path := filepath.Join(dir, "yt-dlp")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o755); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestResolveReturnsStdoutLines(t *testing.T) {
	path := fakeYtDlp(t, `echo "https://example.com/stream1.m3u8"`+"\n")
	r := Resolver{Path: path}

	urls, err := r.Resolve(context.Background(), "https://example.com/watch")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(urls) != 1 || urls[0] != "https://example.com/stream1.m3u8" {
		t.Fatalf("urls = %v, want one direct URL", urls)
	}
}

func TestResolveFailsOnNonZeroExit(t *testing.T) {
	path := fakeYtDlp(t, "echo 'unsupported URL' 1>&2\nexit 1\n")
	r := Resolver{Path: path}

	if _, err := r.Resolve(context.Background(), "https://example.com/nope"); err == nil {
		t.Fatalf("expected an error from a failing yt-dlp invocation")
	}
}

func TestResolveFailsOnEmptyOutput(t *testing.T) {
	path := fakeYtDlp(t, "")
	r := Resolver{Path: path}

	if _, err := r.Resolve(context.Background(), "https://example.com/blank"); err == nil {
		t.Fatalf("expected an error when yt-dlp prints nothing")
	}
}
