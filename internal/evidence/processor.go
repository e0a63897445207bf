package evidence

import (
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/crypto/sha3"

	"github.com/orgscan/orgscan/internal/model"
)

// AggregationError reports a malformed evidence item encountered during
// dedup/scoring. Processing skips the item and continues; the error is
// available for the audit trail.
type AggregationError struct {
	// ID is the offending item's ID, if it had one.
	ID string

	// Reason describes what was malformed.
	Reason string
}

// Error implements the error interface.
func (e *AggregationError) Error() string {
	return fmt.Sprintf("aggregate evidence %s: %s", e.ID, e.Reason)
}

// Processor deduplicates evidence by content identity and assigns final
// relevance scores.
type Processor struct{}

// NewProcessor creates a Processor.
func NewProcessor() *Processor {
	return &Processor{}
}

// identityKey derives the content-identity key for an item: the SHA3-256
// digest of its normalized value. Source URL is deliberately excluded so
// the same fact found on two pages collapses to one entry.
func identityKey(item model.EvidenceItem) string {
	normalized := strings.ToLower(strings.TrimSpace(item.Value))
	sum := sha3.Sum256([]byte(item.Type + "|" + normalized))
	return hex.EncodeToString(sum[:])
}

// Process deduplicates, scores, and sorts the evidence set. It is
// idempotent: processing an already-processed set returns an equal set.
//
// Duplicate handling keeps the higher-confidence occurrence, so the
// surviving item carries the most trustworthy source.
// Malformed items (empty value) are skipped and reported.
func (p *Processor) Process(items []model.EvidenceItem) ([]model.EvidenceItem, []error) {
	seen := make(map[string]int, len(items))
	result := make([]model.EvidenceItem, 0, len(items))
	var errs []error

	for _, item := range items {
		if strings.TrimSpace(item.Value) == "" {
			errs = append(errs, &AggregationError{ID: item.ID, Reason: "empty value"})
			continue
		}

		key := identityKey(item)
		if idx, ok := seen[key]; ok {
			if item.Confidence > result[idx].Confidence {
				result[idx] = item
			}
			continue
		}
		seen[key] = len(result)
		result = append(result, item)
	}

	for i := range result {
		result[i].Score = score(result[i])
	}

	// Stable sort so equal-scored items keep insertion order, which makes
	// processing deterministic and therefore idempotent.
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Score > result[j].Score
	})

	return result, errs
}

// score computes the final relevance score: confidence times the
// category boost, capped at 1.0.
func score(item model.EvidenceItem) float64 {
	s := item.Confidence * model.GetCategoryInfo(item.Type).Boost
	if s > 1.0 {
		return 1.0
	}
	return s
}
