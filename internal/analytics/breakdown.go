package analytics

import (
	"sort"

	"github.com/mhersi/copilot-premium-tui/internal/models"
)

// Plan names used by the breakdown and its suggestion.
const (
	PlanBusiness   = "business"
	PlanEnterprise = "enterprise"
)

// QuotaBreakdown classifies every user with quota data into exactly one of
// the unlimited/business/enterprise buckets. Users whose numeric quota
// matches neither plan constant appear in no bucket at all — they are
// invisible to this breakdown, matching the exports' original consumers.
type QuotaBreakdown struct {
	Unlimited  []string
	Business   []string
	Enterprise []string
	// Mixed is true when more than one bucket is non-empty.
	Mixed bool
	// SuggestedPlan is "business" or "enterprise" when every classified
	// user fits that single plan, empty otherwise.
	SuggestedPlan string
}

// ComputeQuotaBreakdown buckets users by their resolved quota value.
func ComputeQuotaBreakdown(quota *models.QuotaArtifacts, pricing models.Pricing) *QuotaBreakdown {
	b := &QuotaBreakdown{}
	if quota == nil {
		return b
	}

	for user, q := range quota.ByUser {
		switch {
		case q.Unlimited:
			b.Unlimited = append(b.Unlimited, user)
		case q.Requests == pricing.BusinessQuota:
			b.Business = append(b.Business, user)
		case q.Requests == pricing.EnterpriseQuota:
			b.Enterprise = append(b.Enterprise, user)
		}
	}
	sort.Strings(b.Unlimited)
	sort.Strings(b.Business)
	sort.Strings(b.Enterprise)

	nonEmpty := 0
	for _, bucket := range [][]string{b.Unlimited, b.Business, b.Enterprise} {
		if len(bucket) > 0 {
			nonEmpty++
		}
	}
	b.Mixed = nonEmpty > 1

	switch {
	case len(b.Business) > 0 && len(b.Enterprise) == 0 && len(b.Unlimited) == 0:
		b.SuggestedPlan = PlanBusiness
	case len(b.Enterprise) > 0 && len(b.Business) == 0 && len(b.Unlimited) == 0:
		b.SuggestedPlan = PlanEnterprise
	}
	return b
}
