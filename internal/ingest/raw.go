package ingest

import "github.com/mhersi/copilot-premium-tui/internal/models"

// RawDataAggregator retains every normalized row. It is a transitional
// consumer for callers that still need row-level access and is the only
// aggregator whose memory grows with row count rather than with distinct
// users/models/days; it is not registered by default.
type RawDataAggregator struct {
	rows []*models.NormalizedRow
}

// NewRawDataAggregator returns an uninitialized raw-data aggregator.
func NewRawDataAggregator() *RawDataAggregator {
	return &RawDataAggregator{}
}

// ID implements Aggregator.
func (a *RawDataAggregator) ID() string { return "raw" }

// Init implements Aggregator.
func (a *RawDataAggregator) Init(_ *RunContext) {
	a.rows = nil
}

// OnRow implements Aggregator.
func (a *RawDataAggregator) OnRow(row *models.NormalizedRow) error {
	a.rows = append(a.rows, row)
	return nil
}

// Finalize implements Aggregator.
func (a *RawDataAggregator) Finalize() (any, error) {
	return a.rows, nil
}

// DefaultAggregators returns the standard set registered for a run, in
// dispatch order. Daily buckets track the per-model breakdown so derived
// analytics can build per-user daily model series.
func DefaultAggregators() []Aggregator {
	return []Aggregator{
		NewQuotaAggregator(),
		NewUsageAggregator(),
		NewDailyBucketsAggregator(true),
		NewBillingAggregator(),
		NewFeatureUsageAggregator(),
	}
}
