package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/orgscan/orgscan/internal/model"
)

// SimpleWriter outputs human-readable text reports.
// This format is designed for terminal display with clear section
// formatting.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors by default because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
// 3. Color can be added as an option later if needed
type SimpleWriter struct {
	baseWriter

	// showEmpty controls whether sections with no content are shown.
	showEmpty bool

	// verbose enables additional detail in the output.
	verbose bool

	// maxEvidencePerCategory caps the items printed per category.
	maxEvidencePerCategory int
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithShowEmpty configures the writer to show empty sections.
func WithShowEmpty(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showEmpty = show
	}
}

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter:             newBaseWriter(output),
		maxEvidencePerCategory: 8,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the result in human-readable format.
func (w *SimpleWriter) Write(result *model.CollectionResult) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, result)
	w.writeCoverage(&sb, result)
	w.writeEvidence(&sb, result)
	w.writeGaps(&sb, result)
	w.writeFooter(&sb)

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the report header with run information.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, result *model.CollectionResult) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                 ORGANIZATION INTELLIGENCE REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Domain:          %s\n", result.Request.Domain))
	sb.WriteString(fmt.Sprintf("Company:         %s\n", result.Request.CompanyName))
	if result.Request.Thesis != "" {
		sb.WriteString(fmt.Sprintf("Thesis:          %s\n", result.Request.Thesis))
	}
	sb.WriteString(fmt.Sprintf("Started:         %s\n", result.StartedAt.Format("2006-01-02 15:04:05 MST")))
	sb.WriteString(fmt.Sprintf("Duration:        %s\n", result.FinishedAt.Sub(result.StartedAt).Round(time.Second)))
	sb.WriteString(fmt.Sprintf("URLs Discovered: %d\n", result.DiscoveredURLs))

	if result.Error != "" {
		sb.WriteString(fmt.Sprintf("Status:          PARTIAL - %s\n", result.Error))
	} else {
		sb.WriteString("Status:          Complete\n")
	}

	sb.WriteString("\n")
}

// writeCoverage writes the category coverage section.
func (w *SimpleWriter) writeCoverage(sb *strings.Builder, result *model.CollectionResult) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("COVERAGE SUMMARY\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	counts := countByCategory(result.Evidence)
	for _, cat := range sortedCategories(counts) {
		sb.WriteString(fmt.Sprintf("  %-20s %d\n", cat+":", counts[cat]))
	}
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("  TOTAL:    %d items across %d categories\n",
		len(result.Evidence), len(counts)))
	sb.WriteString(fmt.Sprintf("  COVERAGE: %.0f%% (%s quality)\n",
		result.Summary.CoveragePercentage, result.Summary.OverallQuality))
	sb.WriteString("\n")
}

// writeEvidence writes the top evidence items grouped by category.
func (w *SimpleWriter) writeEvidence(sb *strings.Builder, result *model.CollectionResult) {
	if len(result.Evidence) == 0 && !w.showEmpty {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("EVIDENCE\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	if len(result.Evidence) == 0 {
		sb.WriteString("  No evidence collected\n\n")
		return
	}

	byCategory := map[string][]model.EvidenceItem{}
	for _, item := range result.Evidence {
		byCategory[item.Type] = append(byCategory[item.Type], item)
	}

	counts := countByCategory(result.Evidence)
	for _, cat := range sortedCategories(counts) {
		w.writeCategoryItems(sb, cat, byCategory[cat])
	}
}

// writeCategoryItems writes items of a single category.
func (w *SimpleWriter) writeCategoryItems(sb *strings.Builder, category string, items []model.EvidenceItem) {
	sb.WriteString(fmt.Sprintf("[%s]\n", strings.ToUpper(category)))

	shown := items
	if len(shown) > w.maxEvidencePerCategory {
		shown = shown[:w.maxEvidencePerCategory]
	}

	for _, item := range shown {
		sb.WriteString(fmt.Sprintf("  * %s (%.2f)\n", truncateString(item.Value, 70), item.Score))
		if w.verbose {
			sb.WriteString(fmt.Sprintf("    Source: %s\n", item.SourceURL))
			if item.Tool != "" {
				sb.WriteString(fmt.Sprintf("    Tool:   %s\n", item.Tool))
			}
		}
	}

	if len(items) > len(shown) {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-len(shown)))
	}
	sb.WriteString("\n")
}

// writeGaps writes the remaining-gaps section.
func (w *SimpleWriter) writeGaps(sb *strings.Builder, result *model.CollectionResult) {
	if len(result.Gaps) == 0 && !w.showEmpty {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("REMAINING GAPS\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	if len(result.Gaps) == 0 {
		sb.WriteString("  All tracked categories met their targets\n")
	} else {
		for _, g := range result.Gaps {
			sb.WriteString(fmt.Sprintf("  [%s] %s: %d of %d (need %d more)\n",
				g.Priority, g.Category, g.Current, g.Target, g.Deficit))
		}
	}
	sb.WriteString("\n")
}

// writeFooter writes the report footer.
func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("Report generated by orgscan\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}
