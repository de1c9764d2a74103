package analytics

import (
	"sort"

	"github.com/mhersi/copilot-premium-tui/internal/models"
)

// UserOverage is one user's usage beyond quota.
type UserOverage struct {
	User            string
	Quota           models.QuotaValue
	TotalRequests   float64
	OverageRequests float64 // max(0, total - quota); always 0 for unlimited
	OverageCost     float64
}

// OverageSummary aggregates overage across all users with quota data.
type OverageSummary struct {
	Users                []UserOverage // sorted by overage desc, then user
	TotalOverageRequests float64
	TotalOverageCost     float64
	UsersOverQuota       int
}

// ComputeOverage combines usage totals with resolved quotas. Users without
// quota data are skipped: their overage is unknowable, not zero.
func ComputeOverage(usage *models.UsageArtifacts, quota *models.QuotaArtifacts, pricing models.Pricing) *OverageSummary {
	summary := &OverageSummary{}
	if usage == nil || quota == nil {
		return summary
	}

	for _, u := range usage.Users {
		q, ok := quota.ByUser[u.User]
		if !ok {
			continue
		}

		over := 0.0
		if !q.Unlimited {
			over = u.TotalRequests - q.Requests
			if over < 0 {
				over = 0
			}
		}

		entry := UserOverage{
			User:            u.User,
			Quota:           q,
			TotalRequests:   u.TotalRequests,
			OverageRequests: over,
			OverageCost:     over * pricing.OverageRatePerRequest,
		}
		summary.Users = append(summary.Users, entry)
		summary.TotalOverageRequests += over
		summary.TotalOverageCost += entry.OverageCost
		if over > 0 {
			summary.UsersOverQuota++
		}
	}

	sort.Slice(summary.Users, func(i, j int) bool {
		a, b := summary.Users[i], summary.Users[j]
		if a.OverageRequests != b.OverageRequests {
			return a.OverageRequests > b.OverageRequests
		}
		return a.User < b.User
	})
	return summary
}

// CostOptimizationOptions are the candidate thresholds, in overage
// requests per month.
type CostOptimizationOptions struct {
	StrongThreshold    float64 // overage at which an upgrade clearly pays
	BreakEvenThreshold float64 // overage at which an upgrade approaches break-even
}

// DefaultCostOptimizationOptions returns the reference thresholds.
func DefaultCostOptimizationOptions() CostOptimizationOptions {
	return CostOptimizationOptions{StrongThreshold: 500, BreakEvenThreshold: 250}
}

// UpgradeCandidate is a Business-plan user whose overage suggests an
// Enterprise upgrade.
type UpgradeCandidate struct {
	User             string
	TotalRequests    float64
	OverageRequests  float64
	OverageCost      float64
	PotentialSavings float64 // max(0, overage cost - upgrade delta)
}

// CostOptimizationReport summarizes upgrade candidates among Business
// users. The aggregate savings figure is computed once over the summed
// values — not by adding up per-candidate savings, which can differ.
type CostOptimizationReport struct {
	StrongCandidates        []UpgradeCandidate
	ApproachingBreakEven    []UpgradeCandidate
	EnterpriseExtraCapacity float64 // enterprise quota - business quota
	TotalOverageCost        float64 // summed over strong candidates
	EstimatedEnterpriseCost float64 // strong candidate count x upgrade delta
	TotalPotentialSavings   float64
}

// ComputeCostOptimization finds upgrade candidates: users whose quota is
// exactly the Business constant, bucketed by overage against the
// thresholds (the strong threshold is an exclusive upper bound for the
// break-even bucket).
func ComputeCostOptimization(usage *models.UsageArtifacts, quota *models.QuotaArtifacts,
	pricing models.Pricing, opts CostOptimizationOptions) *CostOptimizationReport {

	report := &CostOptimizationReport{
		EnterpriseExtraCapacity: pricing.EnterpriseQuota - pricing.BusinessQuota,
	}
	if usage == nil || quota == nil {
		return report
	}

	for _, u := range usage.Users {
		q, ok := quota.ByUser[u.User]
		if !ok || q.Unlimited || q.Requests != pricing.BusinessQuota {
			continue
		}

		over := u.TotalRequests - q.Requests
		if over < opts.BreakEvenThreshold {
			continue
		}

		cost := over * pricing.OverageRatePerRequest
		candidate := UpgradeCandidate{
			User:            u.User,
			TotalRequests:   u.TotalRequests,
			OverageRequests: over,
			OverageCost:     cost,
		}
		candidate.PotentialSavings = cost - pricing.EnterpriseUpgradeDelta
		if candidate.PotentialSavings < 0 {
			candidate.PotentialSavings = 0
		}

		if over >= opts.StrongThreshold {
			report.StrongCandidates = append(report.StrongCandidates, candidate)
			report.TotalOverageCost += cost
		} else {
			report.ApproachingBreakEven = append(report.ApproachingBreakEven, candidate)
		}
	}

	sortCandidates(report.StrongCandidates)
	sortCandidates(report.ApproachingBreakEven)

	report.EstimatedEnterpriseCost = float64(len(report.StrongCandidates)) * pricing.EnterpriseUpgradeDelta
	report.TotalPotentialSavings = report.TotalOverageCost - report.EstimatedEnterpriseCost
	if report.TotalPotentialSavings < 0 {
		report.TotalPotentialSavings = 0
	}
	return report
}

func sortCandidates(candidates []UpgradeCandidate) {
	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.OverageRequests != b.OverageRequests {
			return a.OverageRequests > b.OverageRequests
		}
		return a.User < b.User
	})
}
