package ingest

import (
	"math"
	"testing"

	"github.com/mhersi/copilot-premium-tui/internal/models"
)

func billingRow(user string, qty float64, gross, discount, net *float64) *models.NormalizedRow {
	return &models.NormalizedRow{
		Date:           "2025-06-01T00:00:00Z",
		Day:            "2025-06-01",
		User:           user,
		Model:          "gpt-4.1",
		Quantity:       qty,
		GrossAmount:    gross,
		DiscountAmount: discount,
		NetAmount:      net,
	}
}

func f(v float64) *float64 { return &v }

func runBilling(t *testing.T, rows []*models.NormalizedRow) *models.BillingArtifacts {
	t.Helper()
	agg := NewBillingAggregator()
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
	return out.(*models.BillingArtifacts)
}

func TestBillingAggregator_QuantityAlwaysCounted(t *testing.T) {
	art := runBilling(t, []*models.NormalizedRow{
		billingRow("a", 10, nil, nil, nil),
		billingRow("a", 5, nil, nil, nil),
	})
	if art.HasAnyBillingData {
		t.Error("no billing columns seen, HasAnyBillingData must be false")
	}
	if len(art.Users) != 1 || art.Users[0].Quantity != 15 {
		t.Errorf("users = %+v, want one user with quantity 15", art.Users)
	}
	if art.Users[0].Gross != nil || art.Users[0].Discount != nil || art.Users[0].Net != nil {
		t.Error("amount sums must stay nil without billing columns")
	}
}

func TestBillingAggregator_Sums(t *testing.T) {
	art := runBilling(t, []*models.NormalizedRow{
		billingRow("a", 10, f(0.40), f(0.10), f(0.30)),
		billingRow("a", 5, f(0.20), nil, f(0.20)),
		billingRow("b", 1, f(1.00), nil, nil),
	})

	if !art.HasAnyBillingData {
		t.Error("HasAnyBillingData must be true")
	}
	if math.Abs(art.Totals.Gross-1.60) > 1e-9 {
		t.Errorf("gross total = %v, want 1.60", art.Totals.Gross)
	}
	if math.Abs(art.Totals.Discount-0.10) > 1e-9 {
		t.Errorf("discount total = %v, want 0.10", art.Totals.Discount)
	}
	if math.Abs(art.Totals.Net-0.50) > 1e-9 {
		t.Errorf("net total = %v, want 0.50", art.Totals.Net)
	}

	a := art.Users[0]
	if a.Gross == nil || math.Abs(*a.Gross-0.60) > 1e-9 {
		t.Errorf("user a gross = %v, want 0.60", a.Gross)
	}
	if a.Discount == nil || *a.Discount != 0.10 {
		t.Errorf("user a discount = %v, want 0.10", a.Discount)
	}

	b := art.Users[1]
	if b.Net != nil {
		t.Errorf("user b net must be nil, got %v", *b.Net)
	}
}

func TestBillingAggregator_ExactCentSums(t *testing.T) {
	// 0.1 + 0.2 drifts in binary floating point; the decimal accumulator
	// must land exactly on 0.3.
	art := runBilling(t, []*models.NormalizedRow{
		billingRow("a", 1, f(0.1), nil, nil),
		billingRow("a", 1, f(0.2), nil, nil),
	})
	if art.Totals.Gross != 0.3 {
		t.Errorf("gross total = %.20f, want exactly 0.3", art.Totals.Gross)
	}
}
