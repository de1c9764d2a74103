package ingest

import (
	"reflect"
	"testing"

	"github.com/mhersi/copilot-premium-tui/internal/models"
)

func quotaRow(user string, quota models.QuotaValue) *models.NormalizedRow {
	return &models.NormalizedRow{
		Date:     "2025-06-01T00:00:00Z",
		Day:      "2025-06-01",
		User:     user,
		Model:    "gpt-4.1",
		Quantity: 1,
		Quota:    &quota,
	}
}

func runQuota(t *testing.T, rows []*models.NormalizedRow) *models.QuotaArtifacts {
	t.Helper()
	agg := NewQuotaAggregator()
	agg.Init(&RunContext{Pricing: models.DefaultPricing()})
	for _, row := range rows {
		if err := agg.OnRow(row); err != nil {
			t.Fatalf("OnRow error: %v", err)
		}
	}
	out, err := agg.Finalize()
	if err != nil {
		t.Fatalf("Finalize error: %v", err)
	}
	return out.(*models.QuotaArtifacts)
}

func TestQuotaAggregator_ConflictResolution(t *testing.T) {
	tests := []struct {
		name string
		rows []*models.NormalizedRow
		want models.QuotaValue
	}{
		{
			"unlimited wins over numeric",
			[]*models.NormalizedRow{
				quotaRow("a", models.NumericQuota(300)),
				quotaRow("a", models.Unlimited()),
			},
			models.Unlimited(),
		},
		{
			"unlimited survives later numeric",
			[]*models.NormalizedRow{
				quotaRow("a", models.Unlimited()),
				quotaRow("a", models.NumericQuota(1000)),
			},
			models.Unlimited(),
		},
		{
			"larger numeric wins",
			[]*models.NormalizedRow{
				quotaRow("a", models.NumericQuota(300)),
				quotaRow("a", models.NumericQuota(1000)),
			},
			models.NumericQuota(1000),
		},
		{
			"smaller numeric is ignored",
			[]*models.NormalizedRow{
				quotaRow("a", models.NumericQuota(1000)),
				quotaRow("a", models.NumericQuota(300)),
			},
			models.NumericQuota(1000),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			art := runQuota(t, tt.rows)
			if got := art.ByUser["a"]; !got.Equal(tt.want) {
				t.Errorf("resolved quota = %v, want %v", got, tt.want)
			}
			if len(art.Conflicts["a"]) != 2 {
				t.Errorf("conflicts = %v, want both values recorded", art.Conflicts["a"])
			}
		})
	}
}

func TestQuotaAggregator_NoConflictForConsistentUser(t *testing.T) {
	art := runQuota(t, []*models.NormalizedRow{
		quotaRow("a", models.NumericQuota(300)),
		quotaRow("a", models.NumericQuota(300)),
	})
	if _, ok := art.Conflicts["a"]; ok {
		t.Error("repeated identical quota must not register a conflict")
	}
}

func TestQuotaAggregator_MixedFlags(t *testing.T) {
	t.Run("single numeric quota is not mixed", func(t *testing.T) {
		art := runQuota(t, []*models.NormalizedRow{
			quotaRow("a", models.NumericQuota(300)),
			quotaRow("b", models.NumericQuota(300)),
		})
		if art.HasMixedQuotas {
			t.Error("HasMixedQuotas should be false")
		}
		if art.HasMixedLicenses {
			t.Error("HasMixedLicenses should be false")
		}
	})

	t.Run("numeric plus unlimited is mixed", func(t *testing.T) {
		art := runQuota(t, []*models.NormalizedRow{
			quotaRow("a", models.NumericQuota(300)),
			quotaRow("b", models.Unlimited()),
		})
		if !art.HasMixedQuotas {
			t.Error("HasMixedQuotas should be true")
		}
		if art.HasMixedLicenses {
			t.Error("HasMixedLicenses needs both plan constants")
		}
	})

	t.Run("business plus enterprise is mixed licenses", func(t *testing.T) {
		art := runQuota(t, []*models.NormalizedRow{
			quotaRow("a", models.NumericQuota(300)),
			quotaRow("b", models.NumericQuota(1000)),
		})
		if !art.HasMixedQuotas || !art.HasMixedLicenses {
			t.Errorf("flags = mixed:%v licenses:%v, want both true",
				art.HasMixedQuotas, art.HasMixedLicenses)
		}
		if !reflect.DeepEqual(art.DistinctQuotas, []float64{300, 1000}) {
			t.Errorf("DistinctQuotas = %v, want [300 1000]", art.DistinctQuotas)
		}
	})

	t.Run("nonstandard pair is mixed but not licenses", func(t *testing.T) {
		art := runQuota(t, []*models.NormalizedRow{
			quotaRow("a", models.NumericQuota(300)),
			quotaRow("b", models.NumericQuota(500)),
		})
		if !art.HasMixedQuotas || art.HasMixedLicenses {
			t.Errorf("flags = mixed:%v licenses:%v, want true/false",
				art.HasMixedQuotas, art.HasMixedLicenses)
		}
	})
}

func TestQuotaAggregator_RowsWithoutQuotaColumn(t *testing.T) {
	row := quotaRow("a", models.NumericQuota(300))
	row.Quota = nil
	art := runQuota(t, []*models.NormalizedRow{row})
	if len(art.ByUser) != 0 {
		t.Errorf("ByUser = %v, want empty", art.ByUser)
	}
}
