package ingest

import "github.com/mhersi/copilot-premium-tui/internal/models"

// UsageAggregator accumulates per-user totals, per-user-per-model totals
// and global per-model totals, tracking each user's top model
// incrementally so finalize never has to sort model breakdowns.
type UsageAggregator struct {
	users      map[string]*userState
	order      []string // encounter order of users
	modelTotal map[string]float64
}

type userState struct {
	total         float64
	byModel       map[string]float64
	topModel      string
	topModelValue float64
}

// NewUsageAggregator returns an uninitialized usage aggregator.
func NewUsageAggregator() *UsageAggregator {
	return &UsageAggregator{}
}

// ID implements Aggregator.
func (a *UsageAggregator) ID() string { return "usage" }

// Init implements Aggregator.
func (a *UsageAggregator) Init(_ *RunContext) {
	a.users = make(map[string]*userState)
	a.order = a.order[:0]
	a.modelTotal = make(map[string]float64)
}

// OnRow implements Aggregator.
func (a *UsageAggregator) OnRow(row *models.NormalizedRow) error {
	state, ok := a.users[row.User]
	if !ok {
		state = &userState{byModel: make(map[string]float64)}
		a.users[row.User] = state
		a.order = append(a.order, row.User)
	}

	state.total += row.Quantity
	state.byModel[row.Model] += row.Quantity
	a.modelTotal[row.Model] += row.Quantity

	// Strictly greater keeps the first-encountered model on ties.
	if cumulative := state.byModel[row.Model]; cumulative > state.topModelValue {
		state.topModel = row.Model
		state.topModelValue = cumulative
	}
	return nil
}

// Finalize implements Aggregator.
func (a *UsageAggregator) Finalize() (any, error) {
	users := make([]models.UserAggregate, 0, len(a.order))
	for _, name := range a.order {
		state := a.users[name]
		users = append(users, models.UserAggregate{
			User:           name,
			TotalRequests:  state.total,
			ModelBreakdown: state.byModel,
			TopModel:       state.topModel,
			TopModelValue:  state.topModelValue,
		})
	}

	return &models.UsageArtifacts{
		Users:       users,
		ModelTotals: a.modelTotal,
		UserCount:   len(users),
		ModelCount:  len(a.modelTotal),
	}, nil
}
