package ingest

import (
	"sort"

	"github.com/mhersi/copilot-premium-tui/internal/models"
)

// FeatureUsageAggregator counts usage of the premium features that surface
// through the model column (code review, coding agent, spark). A single
// row can contribute to several features when its model name matches more
// than one keyword group.
type FeatureUsageAggregator struct {
	quantity map[models.FeatureID]float64
	users    map[models.FeatureID]map[string]struct{}
}

// NewFeatureUsageAggregator returns an uninitialized feature-usage
// aggregator.
func NewFeatureUsageAggregator() *FeatureUsageAggregator {
	return &FeatureUsageAggregator{}
}

// ID implements Aggregator.
func (a *FeatureUsageAggregator) ID() string { return "features" }

// Init implements Aggregator.
func (a *FeatureUsageAggregator) Init(_ *RunContext) {
	a.quantity = make(map[models.FeatureID]float64)
	a.users = make(map[models.FeatureID]map[string]struct{})
	for _, rule := range models.FeatureRules {
		a.quantity[rule.ID] = 0
		a.users[rule.ID] = make(map[string]struct{})
	}
}

// OnRow implements Aggregator.
func (a *FeatureUsageAggregator) OnRow(row *models.NormalizedRow) error {
	for _, id := range models.MatchFeatures(row.Model) {
		a.quantity[id] += row.Quantity
		a.users[id][row.User] = struct{}{}
	}
	return nil
}

// Finalize implements Aggregator.
func (a *FeatureUsageAggregator) Finalize() (any, error) {
	features := make(map[models.FeatureID]models.FeatureUsage, len(a.quantity))
	for id, qty := range a.quantity {
		users := make([]string, 0, len(a.users[id]))
		for user := range a.users[id] {
			users = append(users, user)
		}
		sort.Strings(users)
		features[id] = models.FeatureUsage{Quantity: qty, Users: users}
	}
	return &models.FeatureUsageArtifacts{Features: features}, nil
}
