package main

import (
	"errors"
	"fmt"
	"testing"

	"github.com/spf13/cobra"

	"github.com/nao1215/tabgroupdl/internal/model"
)

// TestListCommandFlags tests the flags shared by the extracting commands.
func TestListCommandFlags(t *testing.T) {
	t.Parallel()

	for _, cmd := range []*cobra.Command{NewProfilesCmd(), NewGroupsCmd(), NewDownloadCmd()} {
		t.Run(cmd.Use, func(t *testing.T) {
			t.Parallel()
			for _, name := range []string{"browser", "config", "json", "markdown", "output"} {
				if cmd.Flags().Lookup(name) == nil {
					t.Errorf("expected %s flag", name)
				}
			}
		})
	}
}

// TestDownloadCmdRequiresGroup tests that download refuses to run without a group.
func TestDownloadCmdRequiresGroup(t *testing.T) {
	t.Parallel()

	cmd := NewDownloadCmd()
	cmd.SetArgs([]string{})
	if err := cmd.Execute(); err == nil {
		t.Error("expected error without --group")
	}
}

// TestIsReportable tests which extraction errors are shown in the report.
func TestIsReportable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "no profile", err: fmt.Errorf("%w for [firefox]", model.ErrProfileNotFound), want: true},
		{name: "no groups", err: model.ErrNoGroupsFound, want: true},
		{name: "other", err: errors.New("boom"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := isReportable(tt.err); got != tt.want {
				t.Errorf("isReportable(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
