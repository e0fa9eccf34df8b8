package report

import (
	"io"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nao1215/tabgroupdl/internal/config"
	"github.com/nao1215/tabgroupdl/internal/model"
)

// Writer defines the interface for report output.
type Writer interface {
	// WriteProfiles outputs the located profiles.
	WriteProfiles(r *ProfilesReport) (int, error)

	// WriteGroups outputs the extracted groups.
	WriteGroups(r *GroupsReport) (int, error)

	// WriteRun outputs the result of a download run.
	WriteRun(r *RunReport) (int, error)
}

// Format is an output format.
type Format string

const (
	// FormatText is the human-readable terminal format.
	FormatText Format = "text"
	// FormatJSON is indented JSON.
	FormatJSON Format = "json"
	// FormatMarkdown is GitHub-flavored Markdown.
	FormatMarkdown Format = "markdown"
)

// FormatFromConfig returns the format selected by the report flags.
func FormatFromConfig(cfg *config.Config) Format {
	switch {
	case cfg.JSONReport:
		return FormatJSON
	case cfg.MarkdownReport:
		return FormatMarkdown
	default:
		return FormatText
	}
}

// New creates a Writer for format. verbose only affects FormatText.
func New(format Format, output io.Writer, verbose bool) Writer {
	switch format {
	case FormatJSON:
		return NewJSONWriter(output, WithPrettyPrint())
	case FormatMarkdown:
		return NewMarkdownWriter(output)
	default:
		return NewSimpleWriter(output, WithVerbose(verbose))
	}
}

// MultiWriter writes to multiple Writers in turn.
// It stops at the first error.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// WriteProfiles outputs the profiles report to all Writers.
func (m *MultiWriter) WriteProfiles(r *ProfilesReport) (int, error) {
	return m.each(func(w Writer) (int, error) { return w.WriteProfiles(r) })
}

// WriteGroups outputs the groups report to all Writers.
func (m *MultiWriter) WriteGroups(r *GroupsReport) (int, error) {
	return m.each(func(w Writer) (int, error) { return w.WriteGroups(r) })
}

// WriteRun outputs the run report to all Writers.
func (m *MultiWriter) WriteRun(r *RunReport) (int, error) {
	return m.each(func(w Writer) (int, error) { return w.WriteRun(r) })
}

func (m *MultiWriter) each(fn func(Writer) (int, error)) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := fn(w)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// stateLabel renders a state as a title, e.g. "Succeeded".
// A Caser is stateful, so one is created per call.
func stateLabel(r model.AcquisitionResult) string {
	if r.Archived {
		return "Archived"
	}
	return cases.Title(language.English).String(string(r.State))
}

// runStatus summarizes how a run ended.
func runStatus(r *RunReport) string {
	switch {
	case r.Cancelled:
		return "Cancelled (remaining URLs pending)"
	case r.Summary.Failed > 0:
		return "Completed with failures"
	default:
		return "Complete"
	}
}

// truncateString truncates a string to maxLen characters with ellipsis.
func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}
