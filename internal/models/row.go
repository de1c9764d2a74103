// Package models defines data structures and domain types.
package models

// NormalizedRow is one validated usage event from a premium-request export.
// Rows are immutable once constructed: aggregators receive a shared pointer
// and must never mutate the fields.
//
// Quantity is always a finite number >= 0; rows whose quantity fails to
// parse are dropped by the normalizer and never reach an aggregator.
type NormalizedRow struct {
	Date         string // raw UTC date string as it appeared in the export
	Day          string // YYYY-MM-DD slice of Date
	User         string
	Model        string
	Quantity     float64
	Quota        *QuotaValue // nil when the quota column was absent
	ExceedsQuota bool

	// Commercial fields, present only in the expanded export schema.
	Product         string
	SKU             string
	Organization    string
	CostCenter      string
	CostPerQuantity *float64
	GrossAmount     *float64
	DiscountAmount  *float64
	NetAmount       *float64
}
