package ingest

import (
	"sort"

	"github.com/mhersi/copilot-premium-tui/internal/models"
)

// QuotaAggregator resolves each user's monthly quota from the stream.
// When a user appears with conflicting quota values, resolution prefers
// unlimited over any numeric value and a strictly larger numeric value
// over the existing one; every distinct value seen for a conflicted user
// is kept for reporting.
type QuotaAggregator struct {
	rc       *RunContext
	byUser   map[string]models.QuotaValue
	seen     map[string][]models.QuotaValue // distinct values per user, encounter order
	numerics map[float64]struct{}
}

// NewQuotaAggregator returns an uninitialized quota aggregator.
func NewQuotaAggregator() *QuotaAggregator {
	return &QuotaAggregator{}
}

// ID implements Aggregator.
func (a *QuotaAggregator) ID() string { return "quota" }

// Init implements Aggregator.
func (a *QuotaAggregator) Init(rc *RunContext) {
	a.rc = rc
	a.byUser = make(map[string]models.QuotaValue)
	a.seen = make(map[string][]models.QuotaValue)
	a.numerics = make(map[float64]struct{})
}

// OnRow implements Aggregator.
func (a *QuotaAggregator) OnRow(row *models.NormalizedRow) error {
	if row.Quota == nil {
		return nil
	}
	quota := *row.Quota

	if !quota.Unlimited {
		a.numerics[quota.Requests] = struct{}{}
	}

	current, exists := a.byUser[row.User]
	if !exists {
		a.byUser[row.User] = quota
		a.seen[row.User] = []models.QuotaValue{quota}
		return nil
	}

	a.recordSeen(row.User, quota)

	if current.Equal(quota) {
		return nil
	}
	if a.prefer(quota, current) {
		a.byUser[row.User] = quota
	}
	return nil
}

// prefer reports whether candidate should replace current: unlimited beats
// numeric, and a strictly larger numeric beats a smaller one.
func (a *QuotaAggregator) prefer(candidate, current models.QuotaValue) bool {
	if current.Unlimited {
		return false
	}
	if candidate.Unlimited {
		return true
	}
	return candidate.Requests > current.Requests
}

func (a *QuotaAggregator) recordSeen(user string, quota models.QuotaValue) {
	for _, v := range a.seen[user] {
		if v.Equal(quota) {
			return
		}
	}
	a.seen[user] = append(a.seen[user], quota)
}

// Finalize implements Aggregator.
func (a *QuotaAggregator) Finalize() (any, error) {
	conflicts := make(map[string][]models.QuotaValue)
	for user, values := range a.seen {
		if len(values) > 1 {
			conflicts[user] = values
		}
	}

	distinct := make([]float64, 0, len(a.numerics))
	for q := range a.numerics {
		distinct = append(distinct, q)
	}
	sort.Float64s(distinct)

	hasUnlimited := false
	for _, q := range a.byUser {
		if q.Unlimited {
			hasUnlimited = true
			break
		}
	}

	pricing := a.rc.Pricing
	_, hasBusiness := a.numerics[pricing.BusinessQuota]
	_, hasEnterprise := a.numerics[pricing.EnterpriseQuota]

	return &models.QuotaArtifacts{
		ByUser:           a.byUser,
		Conflicts:        conflicts,
		DistinctQuotas:   distinct,
		HasUnlimited:     hasUnlimited,
		HasMixedQuotas:   len(distinct) > 1 || (len(distinct) >= 1 && hasUnlimited),
		HasMixedLicenses: hasBusiness && hasEnterprise,
	}, nil
}
