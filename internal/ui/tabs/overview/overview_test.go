package overview

import (
	"context"
	"strings"
	"testing"

	"github.com/mhersi/copilot-premium-tui/internal/analytics"
	"github.com/mhersi/copilot-premium-tui/internal/app"
	"github.com/mhersi/copilot-premium-tui/internal/ingest"
	"github.com/mhersi/copilot-premium-tui/internal/models"
)

func loadedState(t *testing.T) *app.State {
	t.Helper()
	records := []ingest.Record{
		{"date": "2025-06-01T10:00:00Z", "username": "alice", "model": "gpt-4.1", "quantity": "350", "total_monthly_quota": "300"},
		{"date": "2025-06-02T10:00:00Z", "username": "bob", "model": "claude-opus-4", "quantity": "40", "total_monthly_quota": "300", "net_amount": "1.60"},
	}

	var result *models.IngestionResult
	ingest.Ingest(context.Background(), ingest.NewSliceSource(records, 10), ingest.DefaultAggregators(), ingest.Options{
		Pricing:    models.DefaultPricing(),
		OnComplete: func(r *models.IngestionResult) { result = r },
		OnError:    func(err error) { t.Fatalf("ingest error: %v", err) },
	})
	if result == nil {
		t.Fatal("no ingestion result")
	}

	state := app.NewState()
	state.SetReport(analytics.BuildReport(result, analytics.DefaultOptions()), result.Warnings)
	return state
}

func TestViewRendersReport(t *testing.T) {
	m := New(loadedState(t))
	m.SetSize(100, 40)

	view := m.View()
	for _, want := range []string{"Copilot Premium Requests", "Summary", "Daily Usage", "Top Models", "Billing"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestViewLoadingState(t *testing.T) {
	m := New(app.NewState())
	m.SetSize(80, 24)
	if m.View() == "" {
		t.Error("loading view should not be empty")
	}
}
