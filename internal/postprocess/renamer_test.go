package postprocess

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func newTestRenamer() *Renamer {
	return NewRenamer(WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestRenamer_Tag(t *testing.T) {
	t.Parallel()

	t.Run("renames to the sanitized title", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		src := filepath.Join(dir, "Artist - Song (Official Video).mp3")
		writeFile(t, src, "audio")

		got, err := newTestRenamer().Tag(context.Background(), src)
		if err != nil {
			t.Fatalf("Tag() error = %v", err)
		}
		want := filepath.Join(dir, "Artist - Song.mp3")
		if got != want {
			t.Errorf("Tag() = %q, want %q", got, want)
		}
		if _, err := os.Stat(src); !errors.Is(err, fs.ErrNotExist) {
			t.Errorf("source still exists: %v", err)
		}
		data, err := os.ReadFile(want)
		if err != nil || string(data) != "audio" {
			t.Errorf("renamed content = %q, %v", data, err)
		}
	})

	t.Run("existing target gets a numeric suffix", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "Song.mp3"), "old")
		writeFile(t, filepath.Join(dir, "Song_1.mp3"), "older")
		src := filepath.Join(dir, "Song [HD].mp3")
		writeFile(t, src, "new")

		got, err := newTestRenamer().Tag(context.Background(), src)
		if err != nil {
			t.Fatalf("Tag() error = %v", err)
		}
		if want := filepath.Join(dir, "Song_2.mp3"); got != want {
			t.Errorf("Tag() = %q, want %q", got, want)
		}
		data, _ := os.ReadFile(filepath.Join(dir, "Song.mp3"))
		if string(data) != "old" {
			t.Error("existing file was overwritten")
		}
	})

	t.Run("clean name is left alone", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		src := filepath.Join(dir, "Song.m4a")
		writeFile(t, src, "audio")

		got, err := newTestRenamer().Tag(context.Background(), src)
		if err != nil || got != src {
			t.Errorf("Tag() = %q, %v; want unchanged", got, err)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, err := newTestRenamer().Tag(context.Background(), filepath.Join(t.TempDir(), "gone.mp3"))
		if !errors.Is(err, fs.ErrNotExist) {
			t.Errorf("Tag() error = %v, want fs.ErrNotExist", err)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if _, err := newTestRenamer().Tag(ctx, "whatever.mp3"); !errors.Is(err, context.Canceled) {
			t.Errorf("Tag() error = %v, want context.Canceled", err)
		}
	})
}
