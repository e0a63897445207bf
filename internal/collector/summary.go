package collector

import (
	"github.com/orgscan/orgscan/internal/audit"
	"github.com/orgscan/orgscan/internal/evidence"
	"github.com/orgscan/orgscan/internal/model"
)

// buildSummary aggregates run statistics from the audit log and the
// processed evidence set.
func buildSummary(auditLog *audit.Log, items []model.EvidenceItem, counts map[string]int) model.Summary {
	byPhase := make(map[string]int)
	byTool := make(map[string]int)
	for _, it := range items {
		if it.Phase != "" {
			byPhase[it.Phase]++
		}
		if it.Tool != "" {
			byTool[it.Tool]++
		}
	}

	pct, missing := evidence.Coverage(counts)

	return model.Summary{
		TotalActions:       auditLog.Len(),
		EvidenceByPhase:    byPhase,
		EvidenceByTool:     byTool,
		CoveragePercentage: pct,
		MissingCategories:  missing,
		OverallQuality:     qualityForCoverage(pct),
	}
}

// qualityForCoverage grades the run by how much of the tracked category
// surface produced evidence.
func qualityForCoverage(pct float64) model.Quality {
	switch {
	case pct >= 75:
		return model.QualityHigh
	case pct >= 40:
		return model.QualityMedium
	default:
		return model.QualityLow
	}
}
