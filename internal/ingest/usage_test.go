package ingest

import (
	"testing"

	"github.com/mhersi/copilot-premium-tui/internal/models"
)

func usageRow(user, model string, qty float64) *models.NormalizedRow {
	return &models.NormalizedRow{
		Date:     "2025-06-01T00:00:00Z",
		Day:      "2025-06-01",
		User:     user,
		Model:    model,
		Quantity: qty,
	}
}

func runUsage(t *testing.T, rows []*models.NormalizedRow) *models.UsageArtifacts {
	t.Helper()
	agg := NewUsageAggregator()
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
	return out.(*models.UsageArtifacts)
}

func TestUsageAggregator_Totals(t *testing.T) {
	art := runUsage(t, []*models.NormalizedRow{
		usageRow("a", "gpt-4.1", 10),
		usageRow("a", "claude-sonnet", 5),
		usageRow("b", "gpt-4.1", 3),
	})

	if art.UserCount != 2 || art.ModelCount != 2 {
		t.Errorf("counts = %d users / %d models, want 2/2", art.UserCount, art.ModelCount)
	}
	if art.ModelTotals["gpt-4.1"] != 13 {
		t.Errorf("gpt-4.1 total = %v, want 13", art.ModelTotals["gpt-4.1"])
	}

	// Breakdown sums must equal the user total.
	for _, u := range art.Users {
		sum := 0.0
		for _, v := range u.ModelBreakdown {
			sum += v
		}
		if sum != u.TotalRequests {
			t.Errorf("user %s: breakdown sum %v != total %v", u.User, sum, u.TotalRequests)
		}
	}
}

func TestUsageAggregator_EncounterOrder(t *testing.T) {
	art := runUsage(t, []*models.NormalizedRow{
		usageRow("zoe", "gpt-4.1", 1),
		usageRow("amy", "gpt-4.1", 1),
		usageRow("zoe", "gpt-4.1", 1),
	})
	if art.Users[0].User != "zoe" || art.Users[1].User != "amy" {
		t.Errorf("users not in encounter order: %v, %v", art.Users[0].User, art.Users[1].User)
	}
}

func TestUsageAggregator_TopModel(t *testing.T) {
	t.Run("replaced when strictly exceeded", func(t *testing.T) {
		art := runUsage(t, []*models.NormalizedRow{
			usageRow("a", "gpt-4.1", 10),
			usageRow("a", "claude-sonnet", 11),
		})
		u := art.Users[0]
		if u.TopModel != "claude-sonnet" || u.TopModelValue != 11 {
			t.Errorf("top = %s/%v, want claude-sonnet/11", u.TopModel, u.TopModelValue)
		}
	})

	t.Run("tie keeps first encountered", func(t *testing.T) {
		art := runUsage(t, []*models.NormalizedRow{
			usageRow("a", "gpt-4.1", 10),
			usageRow("a", "claude-sonnet", 10),
		})
		u := art.Users[0]
		if u.TopModel != "gpt-4.1" {
			t.Errorf("top = %s, want gpt-4.1 on tie", u.TopModel)
		}
	})

	t.Run("cumulative overtake", func(t *testing.T) {
		art := runUsage(t, []*models.NormalizedRow{
			usageRow("a", "gpt-4.1", 10),
			usageRow("a", "claude-sonnet", 6),
			usageRow("a", "claude-sonnet", 6),
		})
		u := art.Users[0]
		if u.TopModel != "claude-sonnet" || u.TopModelValue != 12 {
			t.Errorf("top = %s/%v, want claude-sonnet/12", u.TopModel, u.TopModelValue)
		}
	})
}
