package report

import (
	"context"
	"strings"
	"testing"

	"github.com/mhersi/copilot-premium-tui/internal/analytics"
	"github.com/mhersi/copilot-premium-tui/internal/ingest"
	"github.com/mhersi/copilot-premium-tui/internal/models"
)

func buildReport(t *testing.T, records []ingest.Record) *analytics.Report {
	t.Helper()
	var result *models.IngestionResult
	ingest.Ingest(context.Background(), ingest.NewSliceSource(records, 50), ingest.DefaultAggregators(), ingest.Options{
		Pricing:    models.DefaultPricing(),
		OnComplete: func(r *models.IngestionResult) { result = r },
		OnError:    func(err error) { t.Fatalf("ingest error: %v", err) },
	})
	if result == nil {
		t.Fatal("no ingestion result")
	}
	return analytics.BuildReport(result, analytics.DefaultOptions())
}

func TestRender(t *testing.T) {
	records := []ingest.Record{
		{"date": "2025-06-01T10:00:00Z", "username": "alice", "model": "claude-opus-4", "quantity": "900", "total_monthly_quota": "300", "net_amount": "24.00", "gross_amount": "24.00"},
		{"date": "2025-06-02T10:00:00Z", "username": "bob", "model": "gpt-4o", "quantity": "50", "total_monthly_quota": "300"},
		{"date": "2025-06-03T10:00:00Z", "username": "bob", "model": "Coding Agent", "quantity": "25", "total_monthly_quota": "300"},
	}
	out := Render(buildReport(t, records))

	for _, want := range []string{
		"Copilot Premium Requests Report",
		"Rows processed: 3",
		"Period: 2025-06-01 to 2025-06-03",
		"Quota Breakdown",
		"Business:   2 users",
		"Overage",
		"Users over quota: 1",
		"upgrade recommended",
		"Quota Exhaustion by Week",
		"Coding Agent Adoption",
		"1 of 2 users",
		"Billing",
		"$24.00",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q\n%s", want, out)
		}
	}
}

func TestRenderEmptySectionsOmitted(t *testing.T) {
	records := []ingest.Record{
		{"date": "2025-06-01T10:00:00Z", "username": "alice", "model": "gpt-4o", "quantity": "5", "total_monthly_quota": "300"},
	}
	out := Render(buildReport(t, records))

	for _, absent := range []string{"Overage", "Cost Optimization", "Coding Agent Adoption", "Billing", "Warnings"} {
		if strings.Contains(out, absent) {
			t.Errorf("report should omit %q when empty\n%s", absent, out)
		}
	}
}
