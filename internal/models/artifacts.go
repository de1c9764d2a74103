// Package models defines data structures and domain types.
package models

import "time"

// QuotaArtifacts is the finalized output of the quota aggregator.
type QuotaArtifacts struct {
	// ByUser holds the resolved quota per user after conflict resolution
	// (unlimited wins over numeric, larger numeric wins over smaller).
	ByUser map[string]QuotaValue
	// Conflicts records, per user, every distinct quota value seen when
	// more than one occurred, in encounter order.
	Conflicts map[string][]QuotaValue
	// DistinctQuotas is the sorted set of numeric quotas seen anywhere.
	DistinctQuotas []float64
	// HasUnlimited reports whether any user resolved to unlimited.
	HasUnlimited bool
	// HasMixedQuotas is true when more than one distinct numeric quota
	// appears, or a numeric quota coexists with an unlimited one.
	HasMixedQuotas bool
	// HasMixedLicenses is true only when both the Business and Enterprise
	// plan constants are present among the distinct numeric quotas.
	HasMixedLicenses bool
}

// UserAggregate holds one user's usage totals.
type UserAggregate struct {
	User           string
	TotalRequests  float64
	ModelBreakdown map[string]float64
	TopModel       string  // model with the greatest cumulative quantity
	TopModelValue  float64 // cumulative quantity of TopModel
}

// UsageArtifacts is the finalized output of the usage aggregator. Users
// are listed in encounter order; consumers sort as needed.
type UsageArtifacts struct {
	Users       []UserAggregate
	ModelTotals map[string]float64
	UserCount   int
	ModelCount  int
}

// DateRange is the inclusive day-string range covered by an export.
type DateRange struct {
	Min string
	Max string
}

// DailyBucketsArtifacts is the finalized output of the daily-buckets
// aggregator. Day keys are zero-padded YYYY-MM-DD strings, so
// lexicographic order is chronological order.
type DailyBucketsArtifacts struct {
	DailyUserTotals map[string]map[string]float64
	// DailyUserModelTotals is the richer day -> user -> model breakdown.
	// It is nil unless the aggregator was configured to track models.
	DailyUserModelTotals map[string]map[string]map[string]float64
	DateRange            *DateRange // nil when no valid rows were seen
	Months               []string   // sorted distinct YYYY-MM values
}

// BillingTotals are plain sums of the billing columns present in the
// export. They are never recomputed from quantity and rate.
type BillingTotals struct {
	Gross    float64
	Discount float64
	Net      float64
}

// BillingUserTotals holds one user's billing sums. The amount fields are
// nil when no row for that user carried the corresponding column.
type BillingUserTotals struct {
	User     string
	Quantity float64
	Gross    *float64
	Discount *float64
	Net      *float64
}

// BillingArtifacts is the finalized output of the billing aggregator.
type BillingArtifacts struct {
	Totals            BillingTotals
	Users             []BillingUserTotals
	HasAnyBillingData bool
}

// FeatureUsage holds the accumulated quantity and the users who ever
// triggered one feature. Users are sorted for determinism.
type FeatureUsage struct {
	Quantity float64
	Users    []string
}

// FeatureUsageArtifacts is the finalized output of the feature-usage
// aggregator, keyed by feature.
type FeatureUsageArtifacts struct {
	Features map[FeatureID]FeatureUsage
}

// IngestionResult is the bundle produced once per completed ingestion run.
type IngestionResult struct {
	// Outputs maps aggregator ID to its finalized artifact. An aggregator
	// whose finalize failed has a nil entry.
	Outputs       map[string]any
	RowsProcessed int
	Duration      time.Duration
	Warnings      []string
}

// Quota returns the quota artifacts from the bundle, or nil.
func (r *IngestionResult) Quota() *QuotaArtifacts {
	a, _ := r.Outputs["quota"].(*QuotaArtifacts)
	return a
}

// Usage returns the usage artifacts from the bundle, or nil.
func (r *IngestionResult) Usage() *UsageArtifacts {
	a, _ := r.Outputs["usage"].(*UsageArtifacts)
	return a
}

// Daily returns the daily-buckets artifacts from the bundle, or nil.
func (r *IngestionResult) Daily() *DailyBucketsArtifacts {
	a, _ := r.Outputs["daily"].(*DailyBucketsArtifacts)
	return a
}

// Billing returns the billing artifacts from the bundle, or nil.
func (r *IngestionResult) Billing() *BillingArtifacts {
	a, _ := r.Outputs["billing"].(*BillingArtifacts)
	return a
}

// Features returns the feature-usage artifacts from the bundle, or nil.
func (r *IngestionResult) Features() *FeatureUsageArtifacts {
	a, _ := r.Outputs["features"].(*FeatureUsageArtifacts)
	return a
}
