package analytics

import (
	"reflect"
	"testing"

	"github.com/mhersi/copilot-premium-tui/internal/models"
)

func quotaArtifacts(byUser map[string]models.QuotaValue) *models.QuotaArtifacts {
	return &models.QuotaArtifacts{ByUser: byUser}
}

func TestComputeQuotaBreakdown(t *testing.T) {
	pricing := models.DefaultPricing()

	tests := []struct {
		name      string
		byUser    map[string]models.QuotaValue
		wantPlan  string
		wantMixed bool
	}{
		{
			"all business suggests business",
			map[string]models.QuotaValue{
				"a": models.NumericQuota(300),
				"b": models.NumericQuota(300),
			},
			PlanBusiness, false,
		},
		{
			"all enterprise suggests enterprise",
			map[string]models.QuotaValue{
				"a": models.NumericQuota(1000),
			},
			PlanEnterprise, false,
		},
		{
			"business plus enterprise is mixed with no suggestion",
			map[string]models.QuotaValue{
				"a": models.NumericQuota(300),
				"b": models.NumericQuota(1000),
			},
			"", true,
		},
		{
			"unlimited blocks any suggestion",
			map[string]models.QuotaValue{
				"a": models.NumericQuota(300),
				"b": models.Unlimited(),
			},
			"", true,
		},
		{
			"only unlimited",
			map[string]models.QuotaValue{
				"a": models.Unlimited(),
			},
			"", false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := ComputeQuotaBreakdown(quotaArtifacts(tt.byUser), pricing)
			if b.SuggestedPlan != tt.wantPlan {
				t.Errorf("SuggestedPlan = %q, want %q", b.SuggestedPlan, tt.wantPlan)
			}
			if b.Mixed != tt.wantMixed {
				t.Errorf("Mixed = %v, want %v", b.Mixed, tt.wantMixed)
			}
		})
	}
}

func TestComputeQuotaBreakdown_BucketsDisjoint(t *testing.T) {
	b := ComputeQuotaBreakdown(quotaArtifacts(map[string]models.QuotaValue{
		"a": models.NumericQuota(300),
		"b": models.NumericQuota(1000),
		"c": models.Unlimited(),
	}), models.DefaultPricing())

	seen := map[string]int{}
	for _, bucket := range [][]string{b.Unlimited, b.Business, b.Enterprise} {
		for _, user := range bucket {
			seen[user]++
		}
	}
	for user, n := range seen {
		if n != 1 {
			t.Errorf("user %s appears in %d buckets, want 1", user, n)
		}
	}
	if !reflect.DeepEqual(b.Business, []string{"a"}) ||
		!reflect.DeepEqual(b.Enterprise, []string{"b"}) ||
		!reflect.DeepEqual(b.Unlimited, []string{"c"}) {
		t.Errorf("buckets = %+v, misassigned", b)
	}
}

func TestComputeQuotaBreakdown_NonStandardQuotaDropped(t *testing.T) {
	// A 500-request quota matches neither plan constant: the user lands
	// in no bucket at all.
	b := ComputeQuotaBreakdown(quotaArtifacts(map[string]models.QuotaValue{
		"a": models.NumericQuota(500),
		"b": models.NumericQuota(300),
	}), models.DefaultPricing())

	if len(b.Unlimited)+len(b.Business)+len(b.Enterprise) != 1 {
		t.Errorf("breakdown = %+v, want only user b classified", b)
	}
	if b.Mixed {
		t.Error("a dropped user must not make the breakdown mixed")
	}
	if b.SuggestedPlan != PlanBusiness {
		t.Errorf("SuggestedPlan = %q, want business", b.SuggestedPlan)
	}
}
