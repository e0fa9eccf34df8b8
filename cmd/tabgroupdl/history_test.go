package main

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/nao1215/tabgroupdl/internal/acquire"
)

// runHistory executes the history command against the archive in archiveDir.
func runHistory(t *testing.T, archiveDir string, args ...string) string {
	t.Helper()

	path := writeConfigFile(t, "archive_dir: "+archiveDir+"\n")

	var stdout bytes.Buffer
	cmd := NewHistoryCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(append([]string{"-c", path}, args...))

	if err := cmd.Execute(); err != nil {
		t.Fatalf("history %v: unexpected error: %v", args, err)
	}
	return stdout.String()
}

// TestNewHistoryCmd tests the history command creation.
func TestNewHistoryCmd(t *testing.T) {
	t.Parallel()

	cmd := NewHistoryCmd()
	for _, name := range []string{"downloads", "group", "run", "limit", "config", "json", "markdown", "output"} {
		if cmd.Flags().Lookup(name) == nil {
			t.Errorf("expected %s flag", name)
		}
	}
}

// TestRunHistoryCmd tests listing runs and downloads from the archive.
func TestRunHistoryCmd(t *testing.T) {
	t.Parallel()

	t.Run("missing archive", func(t *testing.T) {
		t.Parallel()

		out := runHistory(t, t.TempDir())
		if !strings.Contains(out, "No download archive found") {
			t.Errorf("expected missing archive message, got %q", out)
		}
	})

	t.Run("lists runs downloads and stored reports", func(t *testing.T) {
		t.Parallel()

		cfg := newTestDownloadConfig(t)
		cfg.Archive = true
		group := newTestGroup(t, "Road Trip", "https://youtu.be/ccccccccccc")

		var report bytes.Buffer
		cmd := NewDownloadCmd()
		cmd.SetOut(&report)
		cmd.SetErr(io.Discard)
		if err := runDownload(context.Background(), cmd, cfg, discardLogger(), group, acquire.DefaultLadder(nil), &fakeBackend{}); err != nil {
			t.Fatalf("download failed: %v", err)
		}
		run := decodeRun(t, report.Bytes())

		runs := runHistory(t, cfg.ArchiveDir)
		if !strings.Contains(runs, run.RunID) || !strings.Contains(runs, "Road Trip") {
			t.Errorf("expected run %s in listing, got %q", run.RunID, runs)
		}
		if !strings.Contains(runs, "1/0/0") {
			t.Errorf("expected counts 1/0/0, got %q", runs)
		}

		downloads := runHistory(t, cfg.ArchiveDir, "--downloads", "--group", "Road Trip")
		if !strings.Contains(downloads, "ccccccccccc") {
			t.Errorf("expected archived content id, got %q", downloads)
		}

		none := runHistory(t, cfg.ArchiveDir, "-d", "-g", "Other")
		if !strings.Contains(none, `No archived downloads for "Other"`) {
			t.Errorf("expected empty group message, got %q", none)
		}

		stored := runHistory(t, cfg.ArchiveDir, "--run", run.RunID, "--json")
		if got := decodeRun(t, []byte(stored)); got.RunID != run.RunID || got.Summary.Succeeded != 1 {
			t.Errorf("unexpected stored report %+v", got)
		}
	})
}
