package ingest

import (
	"sort"

	"github.com/mhersi/copilot-premium-tui/internal/models"
)

// DailyBucketsAggregator accumulates day -> user -> quantity buckets and,
// when model tracking is enabled, the richer day -> user -> model
// breakdown. Day strings are zero-padded YYYY-MM-DD, so the running
// min/max comparison is plain lexicographic ordering.
type DailyBucketsAggregator struct {
	trackModels bool

	userTotals  map[string]map[string]float64
	modelTotals map[string]map[string]map[string]float64
	minDay      string
	maxDay      string
	months      map[string]struct{}
}

// NewDailyBucketsAggregator returns an uninitialized daily-buckets
// aggregator. With trackModels set it also builds the per-model breakdown,
// at the cost of one extra map level per (day, user).
func NewDailyBucketsAggregator(trackModels bool) *DailyBucketsAggregator {
	return &DailyBucketsAggregator{trackModels: trackModels}
}

// ID implements Aggregator.
func (a *DailyBucketsAggregator) ID() string { return "daily" }

// Init implements Aggregator.
func (a *DailyBucketsAggregator) Init(_ *RunContext) {
	a.userTotals = make(map[string]map[string]float64)
	if a.trackModels {
		a.modelTotals = make(map[string]map[string]map[string]float64)
	} else {
		a.modelTotals = nil
	}
	a.minDay = ""
	a.maxDay = ""
	a.months = make(map[string]struct{})
}

// OnRow implements Aggregator.
func (a *DailyBucketsAggregator) OnRow(row *models.NormalizedRow) error {
	day := row.Day
	if len(day) < 10 {
		return nil
	}

	users, ok := a.userTotals[day]
	if !ok {
		users = make(map[string]float64)
		a.userTotals[day] = users
	}
	users[row.User] += row.Quantity

	if a.trackModels {
		dayModels, ok := a.modelTotals[day]
		if !ok {
			dayModels = make(map[string]map[string]float64)
			a.modelTotals[day] = dayModels
		}
		userModels, ok := dayModels[row.User]
		if !ok {
			userModels = make(map[string]float64)
			dayModels[row.User] = userModels
		}
		userModels[row.Model] += row.Quantity
	}

	if a.minDay == "" || day < a.minDay {
		a.minDay = day
	}
	if a.maxDay == "" || day > a.maxDay {
		a.maxDay = day
	}
	a.months[day[:7]] = struct{}{}
	return nil
}

// Finalize implements Aggregator.
func (a *DailyBucketsAggregator) Finalize() (any, error) {
	var dateRange *models.DateRange
	if a.minDay != "" {
		dateRange = &models.DateRange{Min: a.minDay, Max: a.maxDay}
	}

	months := make([]string, 0, len(a.months))
	for m := range a.months {
		months = append(months, m)
	}
	sort.Strings(months)

	return &models.DailyBucketsArtifacts{
		DailyUserTotals:      a.userTotals,
		DailyUserModelTotals: a.modelTotals,
		DateRange:            dateRange,
		Months:               months,
	}, nil
}
