package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/tabgroupdl/internal/model"
)

// MarkdownWriter outputs reports in GitHub-flavored Markdown.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{baseWriter: newBaseWriter(output)}
}

// WriteProfiles outputs the located profiles.
func (w *MarkdownWriter) WriteProfiles(r *ProfilesReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Browser Profiles")
	md.PlainText("")
	w.writeMissing(md, r.Missing)
	w.writeProfilesTable(md, r.Profiles)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// WriteGroups outputs the extracted groups.
func (w *MarkdownWriter) WriteGroups(r *GroupsReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Link Groups")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Generated", r.GeneratedAt.Format(timeLayout)},
			{"Profiles", strconv.Itoa(len(r.Profiles))},
			{"Groups", strconv.Itoa(len(r.Groups))},
			{"Links", strconv.Itoa(r.TotalLinks())},
		},
	})
	md.PlainText("")
	w.writeMissing(md, r.Missing)

	md.H2("Groups")
	md.PlainText("")
	if len(r.Groups) == 0 {
		md.Note("No link groups were found in the selected browsers.")
		md.PlainText("")
	}
	for _, g := range r.Groups {
		md.PlainTextf("### %s (%s)", g.Name, g.Browser)
		md.PlainText("")
		md.BulletList(g.URLs...)
		md.PlainText("")
	}

	md.H2("Profiles")
	md.PlainText("")
	w.writeProfilesTable(md, r.Profiles)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// WriteRun outputs a download run.
func (w *MarkdownWriter) WriteRun(r *RunReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Download Run Report")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Run ID", "`" + r.RunID + "`"},
			{"Group", r.Group},
			{"Browser", r.Browser.DisplayName()},
			{"Quality", r.Quality.Name},
			{"Output", "`" + r.OutputDir + "`"},
			{"Started", r.StartedAt.Format(timeLayout)},
			{"Duration", r.Duration().String()},
			{"Status", runStatus(r)},
		},
	})
	md.PlainText("")

	w.writeRunSummary(md, r)
	w.writeResults(md, r)
	w.writeFailures(md, r)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeRunSummary(md *markdown.Markdown, r *RunReport) {
	s := r.Summary

	md.H2("Summary")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"State", "Count"},
		Rows: [][]string{
			{"✅ Succeeded", strconv.Itoa(s.Succeeded)},
			{"❌ Failed", strconv.Itoa(s.Failed)},
			{"⏸️ Pending", strconv.Itoa(s.Pending)},
			{"📦 Already archived", strconv.Itoa(s.Archived)},
			{"Attempts", strconv.Itoa(s.Attempts)},
			{"**Total**", "**" + strconv.Itoa(s.Total) + "**"},
		},
	})
	md.PlainText("")

	if s.Total > 0 {
		chart := piechart.NewPieChart(
			io.Discard,
			piechart.WithTitle("URL States"),
			piechart.WithShowData(true),
		)
		for _, slice := range []struct {
			label string
			n     int
		}{
			{"Succeeded", s.Succeeded - s.Archived},
			{"Archived", s.Archived},
			{"Failed", s.Failed},
			{"Pending", s.Pending},
		} {
			if slice.n > 0 {
				chart.LabelAndIntValue(slice.label, uint64(slice.n))
			}
		}
		md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
		md.PlainText("")
	}

	switch {
	case r.Cancelled:
		md.Warningf("The run was cancelled. %d URL(s) are still pending and can be retried.", s.Pending)
	case s.Failed > 0:
		md.Cautionf("%d URL(s) could not be downloaded with any strategy.", s.Failed)
	case s.Total == 0:
		md.Note("The group contained no downloadable links.")
	default:
		md.Tip("Every URL in the group was downloaded.")
	}
	md.PlainText("")
}

func (w *MarkdownWriter) writeResults(md *markdown.Markdown, r *RunReport) {
	md.H2("Results")
	md.PlainText("")

	if len(r.Results) == 0 {
		md.PlainText("No results.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(r.Results))
	for i, res := range r.Results {
		detail := res.ArtifactPath
		if res.State != model.StateSucceeded {
			detail = res.Error
		}
		if detail == "" {
			detail = "-"
		}
		rows[i] = []string{
			stateLabel(res),
			truncateString(res.URL, 60),
			strconv.Itoa(res.AttemptCount()),
			truncateString(detail, 60),
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"State", "URL", "Attempts", "Detail"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeFailures lists the attempt history of every failed URL.
func (w *MarkdownWriter) writeFailures(md *markdown.Markdown, r *RunReport) {
	failed := r.ByState(model.StateFailed)
	if len(failed) == 0 {
		return
	}

	md.H2("Failures")
	md.PlainText("")
	for _, res := range failed {
		var body string
		for i, a := range res.Attempts {
			body += fmt.Sprintf("%d. strategy %d (%s), try %d: %s", i+1, a.StrategyIndex, a.Auth, a.Try, a.Class)
			if a.Message != "" {
				body += " - " + a.Message
			}
			body += "\n"
		}
		md.Details(res.URL, body)
	}
	md.PlainText("")
}

func (w *MarkdownWriter) writeProfilesTable(md *markdown.Markdown, profiles []ProfileSummary) {
	if len(profiles) == 0 {
		md.PlainText("No profiles found.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(profiles))
	for i, p := range profiles {
		status := "✅"
		if p.Error != "" {
			status = "❌ " + p.Error
		}
		rows[i] = []string{
			p.Browser.DisplayName(),
			p.Name,
			string(p.Variant),
			"`" + p.Root + "`",
			strconv.Itoa(p.Links),
			status,
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Browser", "Profile", "Install", "Path", "Links", "Status"},
		Rows:   rows,
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeMissing(md *markdown.Markdown, missing []model.BrowserKind) {
	for _, k := range missing {
		md.Importantf("No %s profile was found.", k.DisplayName())
		md.PlainText("")
	}
}

func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [tabgroupdl](https://github.com/nao1215/tabgroupdl)*")
}
