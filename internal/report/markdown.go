package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/orgscan/orgscan/internal/model"
)

// MarkdownWriter outputs results in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter

	// maxEvidencePerCategory caps the rows printed per category table.
	maxEvidencePerCategory int
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter:             newBaseWriter(output),
		maxEvidencePerCategory: 10,
	}
}

// Write outputs the full result in Markdown format.
func (w *MarkdownWriter) Write(result *model.CollectionResult) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, result)
	w.writeCoverage(md, result)
	w.writeEvidence(md, result)
	w.writeGaps(md, result)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with run information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, result *model.CollectionResult) {
	md.H1("Organization Intelligence Report")
	md.PlainText("")

	duration := result.FinishedAt.Sub(result.StartedAt).Round(time.Second)

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Domain", "`" + result.Request.Domain + "`"},
			{"Company", result.Request.CompanyName},
			{"Thesis", orDash(result.Request.Thesis)},
			{"Depth", orDash(result.Request.Depth)},
			{"Started", result.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Duration", duration.String()},
			{"URLs Discovered", strconv.Itoa(result.DiscoveredURLs)},
			{"Evidence Items", strconv.Itoa(len(result.Evidence))},
			{"Status", w.statusText(result)},
		},
	})
	md.PlainText("")
}

// statusText returns the status text based on result state.
func (w *MarkdownWriter) statusText(result *model.CollectionResult) string {
	if result.Error != "" {
		return "⚠️ Partial - " + result.Error
	}
	return "✅ Complete"
}

// writeCoverage writes the category coverage section.
func (w *MarkdownWriter) writeCoverage(md *markdown.Markdown, result *model.CollectionResult) {
	md.H2("Coverage Summary")
	md.PlainText("")

	counts := countByCategory(result.Evidence)
	categories := sortedCategories(counts)

	rows := make([][]string, 0, len(categories)+1)
	for _, cat := range categories {
		rows = append(rows, []string{cat, strconv.Itoa(counts[cat])})
	}
	rows = append(rows, []string{"**Total**", "**" + strconv.Itoa(len(result.Evidence)) + "**"})

	md.Table(markdown.TableSet{
		Header: []string{"Category", "Items"},
		Rows:   rows,
	})
	md.PlainText("")

	if len(result.Evidence) > 0 {
		w.writePieChart(md, counts, categories)
	}

	w.writeAlert(md, result)
}

// writePieChart writes a mermaid pie chart for category distribution.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, counts map[string]int, categories []string) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Evidence by Category"),
		piechart.WithShowData(true),
	)

	for _, cat := range categories {
		if counts[cat] > 0 {
			chart.LabelAndIntValue(cat, uint64(counts[cat]))
		}
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeAlert writes an appropriate alert based on run quality.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, result *model.CollectionResult) {
	coverage := result.Summary.CoveragePercentage
	switch {
	case result.Error != "":
		md.Warningf("The run ended early: %s. Results below are partial.", result.Error)
	case result.Summary.OverallQuality == model.QualityHigh:
		md.Tip(fmt.Sprintf("High-quality run: %.0f%% category coverage.", coverage))
	case result.Summary.OverallQuality == model.QualityMedium:
		md.Importantf("Moderate coverage (%.0f%%). Consider a deeper run for missing categories.", coverage)
	default:
		md.Note(fmt.Sprintf("Low coverage (%.0f%%). The site may be small or heavily rendered client-side.", coverage))
	}
	md.PlainText("")
}

// writeEvidence writes the top evidence per category.
func (w *MarkdownWriter) writeEvidence(md *markdown.Markdown, result *model.CollectionResult) {
	md.H2("Evidence")
	md.PlainText("")

	if len(result.Evidence) == 0 {
		md.PlainText("No evidence collected.")
		md.PlainText("")
		return
	}

	byCategory := map[string][]model.EvidenceItem{}
	for _, item := range result.Evidence {
		byCategory[item.Type] = append(byCategory[item.Type], item)
	}

	counts := countByCategory(result.Evidence)
	for _, cat := range sortedCategories(counts) {
		items := byCategory[cat]
		md.PlainText("### " + cat)
		md.PlainText("")
		w.writeEvidenceTable(md, items)
	}
}

// writeEvidenceTable writes a table of evidence items. Items arrive
// sorted by score, so the cap keeps the strongest signals.
func (w *MarkdownWriter) writeEvidenceTable(md *markdown.Markdown, items []model.EvidenceItem) {
	if len(items) > w.maxEvidencePerCategory {
		items = items[:w.maxEvidencePerCategory]
	}

	rows := make([][]string, len(items))
	for i, item := range items {
		rows[i] = []string{
			truncateString(item.Value, 60),
			strconv.FormatFloat(item.Score, 'f', 2, 64),
			orDash(item.Tool),
			truncateString(item.SourceURL, 50),
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Value", "Score", "Tool", "Source"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeGaps writes the remaining-gaps section.
func (w *MarkdownWriter) writeGaps(md *markdown.Markdown, result *model.CollectionResult) {
	md.H2("Remaining Gaps")
	md.PlainText("")

	if len(result.Gaps) == 0 {
		md.PlainText("All tracked categories met their targets.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(result.Gaps))
	for i, g := range result.Gaps {
		rows[i] = []string{
			g.Category,
			strconv.Itoa(g.Current),
			strconv.Itoa(g.Target),
			strconv.Itoa(g.Deficit),
			g.Priority.String(),
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Category", "Current", "Target", "Deficit", "Priority"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainText("*Report generated by orgscan*")
}

// countByCategory tallies evidence items per category.
func countByCategory(items []model.EvidenceItem) map[string]int {
	counts := map[string]int{}
	for _, item := range items {
		counts[item.Type]++
	}
	return counts
}

// sortedCategories returns category names ordered by count descending,
// then alphabetically for stable output.
func sortedCategories(counts map[string]int) []string {
	categories := make([]string, 0, len(counts))
	for cat := range counts {
		categories = append(categories, cat)
	}
	sort.Slice(categories, func(i, j int) bool {
		if counts[categories[i]] != counts[categories[j]] {
			return counts[categories[i]] > counts[categories[j]]
		}
		return categories[i] < categories[j]
	})
	return categories
}

// orDash substitutes "-" for empty table cells.
func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// truncateString truncates a string to maxLen characters with ellipsis.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
