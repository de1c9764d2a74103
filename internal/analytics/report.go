package analytics

import "github.com/mhersi/copilot-premium-tui/internal/models"

// Options bundles the tunables for report building.
type Options struct {
	Pricing   models.Pricing
	PowerUser PowerUserOptions
	CostOpt   CostOptimizationOptions
}

// DefaultOptions returns the reference configuration.
func DefaultOptions() Options {
	return Options{
		Pricing:   models.DefaultPricing(),
		PowerUser: DefaultPowerUserOptions(),
		CostOpt:   DefaultCostOptimizationOptions(),
	}
}

// Report is the full derived-analytics bundle for one ingestion run. It
// keeps references to the underlying artifacts so presentation layers can
// drill down without recomputing anything.
type Report struct {
	Result *models.IngestionResult

	Usage    *models.UsageArtifacts
	Quota    *models.QuotaArtifacts
	Daily    *models.DailyBucketsArtifacts
	Billing  *models.BillingArtifacts
	Features *models.FeatureUsageArtifacts

	TimeFrame  *TimeFrame
	Breakdown  *QuotaBreakdown
	Overage    *OverageSummary
	CostOpt    *CostOptimizationReport
	PowerUsers *PowerUserReport
	Exhaustion *ExhaustionReport
	Adoption   *AdoptionReport
}

// BuildReport derives every analytics view from a finalized ingestion
// result. Safe on partially failed runs: a missing artifact yields the
// corresponding empty view.
func BuildReport(result *models.IngestionResult, opts Options) *Report {
	usage := result.Usage()
	quota := result.Quota()
	daily := result.Daily()

	return &Report{
		Result:     result,
		Usage:      usage,
		Quota:      quota,
		Daily:      daily,
		Billing:    result.Billing(),
		Features:   result.Features(),
		TimeFrame:  ComputeTimeFrame(daily),
		Breakdown:  ComputeQuotaBreakdown(quota, opts.Pricing),
		Overage:    ComputeOverage(usage, quota, opts.Pricing),
		CostOpt:    ComputeCostOptimization(usage, quota, opts.Pricing, opts.CostOpt),
		PowerUsers: ComputePowerUsers(usage, opts.PowerUser),
		Exhaustion: ComputeWeeklyExhaustion(daily, quota),
		Adoption:   ComputeCodingAgentAdoption(usage),
	}
}
