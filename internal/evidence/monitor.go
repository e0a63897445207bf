package evidence

import (
	"sort"

	"github.com/orgscan/orgscan/internal/model"
)

// Monitor compares collected evidence against per-category targets and
// produces a prioritized gap list. Gaps are computed fresh on every call;
// the monitor itself holds only configuration.
type Monitor struct {
	// targets overrides default category quotas. Categories absent from
	// the map keep their model defaults.
	targets map[string]int

	// required categories are force-reported as high-priority gaps when
	// they hold fewer than requiredMinimum items, whether or not they are
	// tracked by default.
	required        []string
	requiredMinimum int
}

// MonitorOption configures a Monitor.
type MonitorOption func(*Monitor)

// WithTargets overrides per-category quotas.
func WithTargets(targets map[string]int) MonitorOption {
	return func(m *Monitor) {
		m.targets = targets
	}
}

// WithRequired sets the required categories and their minimum item count.
func WithRequired(categories []string, minimum int) MonitorOption {
	return func(m *Monitor) {
		m.required = categories
		if minimum > 0 {
			m.requiredMinimum = minimum
		}
	}
}

// NewMonitor creates a Monitor.
func NewMonitor(opts ...MonitorOption) *Monitor {
	m := &Monitor{requiredMinimum: 5}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// targetFor returns the quota for a category, honoring overrides.
func (m *Monitor) targetFor(category string) int {
	if t, ok := m.targets[category]; ok {
		return t
	}
	return model.GetCategoryInfo(category).Target
}

// AnalyzeGaps computes the gap list for the given per-category counts.
// The result is sorted by priority (high > medium > low), then by deficit
// descending, then by category name, so identical inputs always produce
// identical output.
func (m *Monitor) AnalyzeGaps(counts map[string]int) []model.Gap {
	gaps := make([]model.Gap, 0)
	covered := make(map[string]bool)

	for _, category := range model.TrackedCategories() {
		covered[category] = true
		current := counts[category]
		target := m.targetFor(category)
		if current >= target {
			continue
		}
		gaps = append(gaps, model.Gap{
			Category: category,
			Current:  current,
			Target:   target,
			Deficit:  target - current,
			Priority: gapPriority(current, target, model.GetCategoryInfo(category).Weight),
		})
	}

	// Required categories are always high priority when underfilled, even
	// if they are not in the default quota table and even when a quota
	// override below the minimum is already satisfied.
	for _, category := range m.required {
		current := counts[category]
		if current >= m.requiredMinimum {
			continue
		}
		target := m.targetFor(category)
		if target < m.requiredMinimum {
			target = m.requiredMinimum
		}
		escalated := false
		if covered[category] {
			// Escalate the existing gap instead of duplicating it.
			for i := range gaps {
				if gaps[i].Category == category {
					gaps[i].Target = target
					gaps[i].Deficit = target - current
					gaps[i].Priority = model.PriorityHigh
					escalated = true
				}
			}
		}
		if escalated {
			continue
		}
		gaps = append(gaps, model.Gap{
			Category: category,
			Current:  current,
			Target:   target,
			Deficit:  target - current,
			Priority: model.PriorityHigh,
		})
	}

	sort.SliceStable(gaps, func(i, j int) bool {
		if gaps[i].Priority != gaps[j].Priority {
			return gaps[i].Priority > gaps[j].Priority
		}
		if gaps[i].Deficit != gaps[j].Deficit {
			return gaps[i].Deficit > gaps[j].Deficit
		}
		return gaps[i].Category < gaps[j].Category
	})

	return gaps
}

// gapPriority ranks one gap. The thresholds mirror the coverage policy:
// under a fifth of target in an important category is urgent, under half
// is notable, anything else is routine.
func gapPriority(current, target, weight int) model.Priority {
	if target <= 0 {
		return model.PriorityLow
	}
	ratio := float64(current) / float64(target)
	switch {
	case ratio < 0.2 && weight >= 2:
		return model.PriorityHigh
	case ratio < 0.5:
		return model.PriorityMedium
	default:
		return model.PriorityLow
	}
}

// Coverage returns the fraction (0-100) of tracked categories with at
// least minimal signal (one item), plus the list of categories with none.
func Coverage(counts map[string]int) (float64, []string) {
	tracked := model.TrackedCategories()
	missing := make([]string, 0)
	coveredCount := 0

	for _, category := range tracked {
		if counts[category] > 0 {
			coveredCount++
		} else {
			missing = append(missing, category)
		}
	}

	if len(tracked) == 0 {
		return 0, missing
	}
	return float64(coveredCount) / float64(len(tracked)) * 100, missing
}
