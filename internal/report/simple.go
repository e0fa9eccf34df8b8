package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/tabgroupdl/internal/model"
)

const (
	ruleWidth  = 70
	timeLayout = "2006-01-02 15:04:05 MST"
)

// SimpleWriter outputs human-readable text reports for terminal display.
type SimpleWriter struct {
	baseWriter

	// verbose lists every URL and every attempt.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// WriteProfiles outputs the located profiles.
func (w *SimpleWriter) WriteProfiles(r *ProfilesReport) (int, error) {
	var sb strings.Builder

	writeBanner(&sb, "TABGROUPDL PROFILES")
	writeMissing(&sb, r.Missing)
	writeSection(&sb, "PROFILES")
	w.writeProfiles(&sb, r.Profiles)

	return w.output.Write([]byte(sb.String()))
}

// WriteGroups outputs the extracted groups.
func (w *SimpleWriter) WriteGroups(r *GroupsReport) (int, error) {
	var sb strings.Builder

	writeBanner(&sb, "TABGROUPDL GROUPS")
	fmt.Fprintf(&sb, "Generated: %s\n", r.GeneratedAt.Format(timeLayout))
	fmt.Fprintf(&sb, "Groups:    %d (%d links)\n", len(r.Groups), r.TotalLinks())
	writeMissing(&sb, r.Missing)

	if w.verbose {
		writeSection(&sb, "PROFILES")
		w.writeProfiles(&sb, r.Profiles)
	}

	writeSection(&sb, "GROUPS")
	if len(r.Groups) == 0 {
		sb.WriteString("  No groups found\n\n")
	}
	for i, g := range r.Groups {
		fmt.Fprintf(&sb, "  %2d. %s [%s] - %d link(s)\n", i+1, g.Name, g.Browser, len(g.URLs))
		if w.verbose {
			for _, u := range g.URLs {
				fmt.Fprintf(&sb, "        %s\n", u)
			}
		}
	}
	sb.WriteString("\n")

	return w.output.Write([]byte(sb.String()))
}

// WriteRun outputs a download run.
func (w *SimpleWriter) WriteRun(r *RunReport) (int, error) {
	var sb strings.Builder

	writeBanner(&sb, "TABGROUPDL RUN REPORT")
	fmt.Fprintf(&sb, "Run ID:   %s\n", r.RunID)
	fmt.Fprintf(&sb, "Group:    %s [%s]\n", r.Group, r.Browser)
	fmt.Fprintf(&sb, "Quality:  %s\n", r.Quality.Name)
	fmt.Fprintf(&sb, "Output:   %s\n", r.OutputDir)
	fmt.Fprintf(&sb, "Started:  %s\n", r.StartedAt.Format(timeLayout))
	fmt.Fprintf(&sb, "Duration: %s\n", r.Duration())
	fmt.Fprintf(&sb, "Status:   %s\n", runStatus(r))

	writeSection(&sb, "SUMMARY")
	s := r.Summary
	fmt.Fprintf(&sb, "  SUCCEEDED: %d\n", s.Succeeded)
	if s.Archived > 0 {
		fmt.Fprintf(&sb, "    (already archived: %d)\n", s.Archived)
	}
	fmt.Fprintf(&sb, "  FAILED:    %d\n", s.Failed)
	fmt.Fprintf(&sb, "  PENDING:   %d\n", s.Pending)
	fmt.Fprintf(&sb, "  ATTEMPTS:  %d\n", s.Attempts)
	fmt.Fprintf(&sb, "\n  TOTAL:     %d URLs\n", s.Total)

	writeSection(&sb, "RESULTS")
	for _, res := range r.Results {
		w.writeResult(&sb, res)
	}
	sb.WriteString("\n")

	return w.output.Write([]byte(sb.String()))
}

func (w *SimpleWriter) writeProfiles(sb *strings.Builder, profiles []ProfileSummary) {
	if len(profiles) == 0 {
		sb.WriteString("  No profiles found\n\n")
		return
	}
	for _, p := range profiles {
		marker := "+"
		if p.Error != "" {
			marker = "x"
		}
		fmt.Fprintf(sb, "  [%s] %s:%s (%s)\n", marker, p.Browser, p.Name, p.Variant)
		fmt.Fprintf(sb, "      %s\n", p.Root)
		if p.Error != "" {
			fmt.Fprintf(sb, "      error: %s\n", p.Error)
		}
		if w.verbose {
			for _, src := range p.Sources {
				fmt.Fprintf(sb, "      - %s\n", describeSource(src))
			}
		}
	}
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeResult(sb *strings.Builder, res model.AcquisitionResult) {
	switch {
	case res.Archived:
		fmt.Fprintf(sb, "  [SKIP] %s (already downloaded)\n", res.URL)
	case res.State == model.StateSucceeded:
		fmt.Fprintf(sb, "  [OK]   %s\n         -> %s\n", res.URL, res.ArtifactPath)
	case res.State == model.StateFailed:
		fmt.Fprintf(sb, "  [FAIL] %s\n         %s\n", res.URL, res.Error)
	default:
		fmt.Fprintf(sb, "  [WAIT] %s\n", res.URL)
	}

	if !w.verbose {
		return
	}
	for i, a := range res.Attempts {
		fmt.Fprintf(sb, "         #%d strategy %d (%s) try %d: %s",
			i+1, a.StrategyIndex, a.Auth, a.Try, a.Class)
		if a.Message != "" {
			fmt.Fprintf(sb, " - %s", a.Message)
		}
		sb.WriteString("\n")
	}
}

func describeSource(src model.SourceReport) string {
	name := src.Path
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	switch {
	case src.Error != "":
		return fmt.Sprintf("%s (%s): %s", name, src.Decoder, src.Error)
	case src.Skipped:
		return fmt.Sprintf("%s (%s): skipped", name, src.Decoder)
	default:
		return fmt.Sprintf("%s (%s): %d link(s)", name, src.Decoder, src.Links)
	}
}

func writeBanner(sb *strings.Builder, title string) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n")
	pad := max((ruleWidth-len(title))/2, 0)
	sb.WriteString(strings.Repeat(" ", pad) + title + "\n")
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n\n")
}

func writeSection(sb *strings.Builder, title string) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", ruleWidth))
	sb.WriteString("\n")
	sb.WriteString(title + "\n")
	sb.WriteString(strings.Repeat("-", ruleWidth))
	sb.WriteString("\n\n")
}

func writeMissing(sb *strings.Builder, missing []model.BrowserKind) {
	if len(missing) == 0 {
		return
	}
	names := make([]string, len(missing))
	for i, k := range missing {
		names[i] = k.DisplayName()
	}
	fmt.Fprintf(sb, "Not found: %s\n", strings.Join(names, ", "))
}
