package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/nao1215/tabgroupdl/internal/acquire"
	"github.com/nao1215/tabgroupdl/internal/config"
	"github.com/nao1215/tabgroupdl/internal/linkfilter"
	"github.com/nao1215/tabgroupdl/internal/model"
	"github.com/nao1215/tabgroupdl/internal/report"
)

// fakeBackend succeeds for every URL not listed in failures and writes a
// file named like a raw yt-dlp download.
type fakeBackend struct {
	mu       sync.Mutex
	calls    []string
	failures map[string]model.OutcomeClass
}

func (f *fakeBackend) Download(_ context.Context, req acquire.Request) acquire.Response {
	f.mu.Lock()
	f.calls = append(f.calls, req.URL)
	f.mu.Unlock()

	if class, ok := f.failures[req.URL]; ok {
		return acquire.Response{Class: class, Message: "ERROR: " + string(class)}
	}

	id, _ := linkfilter.ContentID(req.URL)
	path := filepath.Join(req.OutputDir, "Song "+id+" (Official Video).mp3")
	if err := os.WriteFile(path, []byte("audio"), 0600); err != nil {
		return acquire.Response{Class: model.ClassTransient, Message: err.Error()}
	}
	return acquire.Response{Class: model.ClassSuccess, Path: path}
}

func (f *fakeBackend) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func newTestGroup(t *testing.T, name string, urls ...string) *model.LinkGroup {
	t.Helper()

	g := model.NewLinkGroup(name, model.BrowserFirefox)
	for _, u := range urls {
		key, ok := linkfilter.ContentID(u)
		if !ok {
			t.Fatalf("test url %q has no content id", u)
		}
		g.Add(key, model.RawLink{URL: u, Group: name, Source: model.SourceSession})
	}
	return g
}

func newTestDownloadConfig(t *testing.T) *config.Config {
	t.Helper()

	cfg := config.NewConfig()
	cfg.DownloadDir = t.TempDir()
	cfg.ArchiveDir = t.TempDir()
	cfg.RetryBackoff = 0
	cfg.JSONReport = true
	return cfg
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func decodeRun(t *testing.T, data []byte) report.RunReport {
	t.Helper()

	var run report.RunReport
	if err := json.Unmarshal(data, &run); err != nil {
		t.Fatalf("failed to decode run report: %v\n%s", err, data)
	}
	return run
}

// TestRunDownload tests a download run with a scripted backend.
func TestRunDownload(t *testing.T) {
	t.Parallel()

	const (
		okURL          = "https://www.youtube.com/watch?v=aaaaaaaaaaa"
		unsupportedURL = "https://www.youtube.com/watch?v=bbbbbbbbbbb"
	)

	t.Run("records every link and renames downloads", func(t *testing.T) {
		t.Parallel()

		cfg := newTestDownloadConfig(t)
		b := &fakeBackend{failures: map[string]model.OutcomeClass{unsupportedURL: model.ClassUnsupported}}
		group := newTestGroup(t, "Road Trip", okURL, unsupportedURL)

		var stdout, stderr bytes.Buffer
		cmd := NewDownloadCmd()
		cmd.SetOut(&stdout)
		cmd.SetErr(&stderr)

		err := runDownload(context.Background(), cmd, cfg, discardLogger(), group, acquire.DefaultLadder(nil), b)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		run := decodeRun(t, stdout.Bytes())
		if run.Group != "Road Trip" {
			t.Errorf("expected group 'Road Trip', got %q", run.Group)
		}
		if run.Summary.Total != 2 || run.Summary.Succeeded != 1 || run.Summary.Failed != 1 {
			t.Errorf("unexpected summary %+v", run.Summary)
		}
		if len(run.Results) != 2 || run.Results[0].URL != okURL || run.Results[1].URL != unsupportedURL {
			t.Fatalf("expected results in group order, got %+v", run.Results)
		}

		wantDir := filepath.Join(cfg.DownloadDir, "Road Trip")
		if run.OutputDir != wantDir {
			t.Errorf("expected output dir %q, got %q", wantDir, run.OutputDir)
		}
		wantPath := filepath.Join(wantDir, "Song aaaaaaaaaaa.mp3")
		if run.Results[0].ArtifactPath != wantPath {
			t.Errorf("expected renamed artifact %q, got %q", wantPath, run.Results[0].ArtifactPath)
		}
		if _, err := os.Stat(wantPath); err != nil {
			t.Errorf("expected renamed file on disk: %v", err)
		}

		if !strings.Contains(stderr.String(), "[1/2]") || !strings.Contains(stderr.String(), "[2/2]") {
			t.Errorf("expected progress lines, got %q", stderr.String())
		}
	})

	t.Run("empty group is an error", func(t *testing.T) {
		t.Parallel()

		cfg := newTestDownloadConfig(t)
		group := model.NewLinkGroup("Empty", model.BrowserChrome)

		err := runDownload(context.Background(), NewDownloadCmd(), cfg, discardLogger(), group, acquire.DefaultLadder(nil), &fakeBackend{})
		if err == nil {
			t.Fatal("expected error for empty group")
		}
	})

	t.Run("cancelled run reports pending links", func(t *testing.T) {
		t.Parallel()

		cfg := newTestDownloadConfig(t)
		b := &fakeBackend{}
		group := newTestGroup(t, "Road Trip", okURL, unsupportedURL)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		var stdout bytes.Buffer
		cmd := NewDownloadCmd()
		cmd.SetOut(&stdout)
		cmd.SetErr(io.Discard)

		err := runDownload(ctx, cmd, cfg, discardLogger(), group, acquire.DefaultLadder(nil), b)
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
		if b.callCount() != 0 {
			t.Errorf("expected no backend calls, got %d", b.callCount())
		}

		run := decodeRun(t, stdout.Bytes())
		if !run.Cancelled {
			t.Error("expected run marked cancelled")
		}
		if run.Summary.Pending != 2 {
			t.Errorf("expected 2 pending, got %+v", run.Summary)
		}
	})

	t.Run("archive skips content downloaded by an earlier run", func(t *testing.T) {
		t.Parallel()

		cfg := newTestDownloadConfig(t)
		cfg.Archive = true
		b := &fakeBackend{}
		group := newTestGroup(t, "Road Trip", okURL)

		for i := range 2 {
			var stdout bytes.Buffer
			cmd := NewDownloadCmd()
			cmd.SetOut(&stdout)
			cmd.SetErr(io.Discard)

			if err := runDownload(context.Background(), cmd, cfg, discardLogger(), group, acquire.DefaultLadder(nil), b); err != nil {
				t.Fatalf("run %d: unexpected error: %v", i+1, err)
			}

			run := decodeRun(t, stdout.Bytes())
			if run.Summary.Succeeded != 1 {
				t.Errorf("run %d: expected 1 succeeded, got %+v", i+1, run.Summary)
			}
			if archived := run.Results[0].Archived; archived != (i == 1) {
				t.Errorf("run %d: expected archived=%v", i+1, i == 1)
			}
		}

		if b.callCount() != 1 {
			t.Errorf("expected exactly one backend call across both runs, got %d", b.callCount())
		}
	})
}

// TestProgressPrinter tests the per-link progress lines.
func TestProgressPrinter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	progress := progressPrinter(&buf, 3)
	progress(model.AcquisitionResult{URL: "u1", State: model.StateSucceeded, ArtifactPath: "/music/Song.mp3"})
	progress(model.AcquisitionResult{URL: "u2", State: model.StateFailed, Error: "video unavailable"})
	progress(model.AcquisitionResult{URL: "u3", State: model.StateSucceeded, Archived: true})

	want := []string{
		"[1/3] done: Song.mp3",
		"[2/3] failed: u2 (video unavailable)",
		"[3/3] skipped (archived): u3",
	}
	for _, line := range want {
		if !strings.Contains(buf.String(), line) {
			t.Errorf("expected %q in output, got %q", line, buf.String())
		}
	}
}

// TestBrowserKindFlag tests parsing of the download --browser flag.
func TestBrowserKindFlag(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		args    []string
		want    model.BrowserKind
		wantErr bool
	}{
		{name: "not set", args: nil, want: ""},
		{name: "firefox", args: []string{"-b", "firefox"}, want: model.BrowserFirefox},
		{name: "alias", args: []string{"--browser", "chromium"}, want: model.BrowserChrome},
		{name: "unknown", args: []string{"-b", "netscape"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cmd := NewDownloadCmd()
			if err := cmd.ParseFlags(tt.args); err != nil {
				t.Fatalf("failed to parse flags: %v", err)
			}
			got, err := browserKindFlag(cmd)
			if (err != nil) != tt.wantErr {
				t.Fatalf("browserKindFlag() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("browserKindFlag() = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestRunDownloadCmd_ConversionNeedsFFmpeg tests that MP3 qualities are
// refused before any download starts when ffmpeg is missing.
func TestRunDownloadCmd_ConversionNeedsFFmpeg(t *testing.T) {
	t.Setenv("PATH", t.TempDir())

	path := writeConfigFile(t, "download_dir: "+t.TempDir()+"\ndefault_quality: \"1\"\n")
	cmd := NewDownloadCmd()
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"-c", path, "-g", "Road Trip"})

	if err := cmd.Execute(); !errors.Is(err, config.ErrConverterMissing) {
		t.Errorf("expected ErrConverterMissing, got %v", err)
	}
}
