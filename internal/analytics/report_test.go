package analytics

import (
	"context"
	"fmt"
	"testing"

	"github.com/mhersi/copilot-premium-tui/internal/ingest"
	"github.com/mhersi/copilot-premium-tui/internal/models"
)

// ingestRecords runs the full pipeline over in-memory records and builds
// the derived report, exercising ingestion and analytics together.
func ingestRecords(t *testing.T, records []ingest.Record) *Report {
	t.Helper()
	var result *models.IngestionResult
	ingest.Ingest(context.Background(), ingest.NewSliceSource(records, 100), ingest.DefaultAggregators(), ingest.Options{
		Pricing:    models.DefaultPricing(),
		OnComplete: func(r *models.IngestionResult) { result = r },
		OnError:    func(err error) { t.Fatalf("ingest error: %v", err) },
	})
	if result == nil {
		t.Fatal("no ingestion result")
	}
	return BuildReport(result, DefaultOptions())
}

func TestBuildReport_EndToEnd(t *testing.T) {
	var records []ingest.Record
	addRows := func(user, model, quota string, day int, qty float64) {
		records = append(records, ingest.Record{
			"date":                fmt.Sprintf("2025-06-%02dT09:00:00Z", day),
			"username":            user,
			"model":               model,
			"quantity":            fmt.Sprintf("%g", qty),
			"total_monthly_quota": quota,
		})
	}

	// Business user going 600 over quota in week 1.
	addRows("heavy-user", "claude-opus-4", "300", 2, 900)
	// Business user 450 over: approaching break-even.
	addRows("mid-user", "gpt-4.1", "300", 5, 750)
	// Unlimited user, never exhausts.
	addRows("exec", "gpt-4o", "Unlimited", 3, 2000)
	// Light business user under quota.
	addRows("casual", "gpt-4o", "300", 10, 30)
	// Coding agent usage.
	addRows("agent-fan", "Coding Agent", "300", 7, 50)
	addRows("agent-fan", "gpt-4.1", "300", 8, 50)

	report := ingestRecords(t, records)

	if report.TimeFrame == nil || report.TimeFrame.Start != "2025-06-02" || report.TimeFrame.End != "2025-06-10" {
		t.Errorf("time frame = %+v", report.TimeFrame)
	}

	if report.Breakdown.SuggestedPlan != "" {
		t.Errorf("suggested plan = %q, want none (unlimited user present)", report.Breakdown.SuggestedPlan)
	}
	if !report.Breakdown.Mixed {
		t.Error("breakdown should be mixed")
	}

	if report.Overage.TotalOverageRequests != 600+450 {
		t.Errorf("total overage = %v, want 1050", report.Overage.TotalOverageRequests)
	}

	if len(report.CostOpt.StrongCandidates) != 1 || report.CostOpt.StrongCandidates[0].User != "heavy-user" {
		t.Errorf("strong candidates = %+v", report.CostOpt.StrongCandidates)
	}
	if len(report.CostOpt.ApproachingBreakEven) != 1 || report.CostOpt.ApproachingBreakEven[0].User != "mid-user" {
		t.Errorf("approaching = %+v", report.CostOpt.ApproachingBreakEven)
	}

	// heavy-user and mid-user blow through 300 in week 1; agent-fan
	// totals 100 and stays under quota.
	if report.Exhaustion.TotalUsersExhausted != 2 {
		t.Errorf("exhausted = %d, want 2", report.Exhaustion.TotalUsersExhausted)
	}

	if report.Adoption.IncludedUsers != 1 || report.Adoption.Users[0].User != "agent-fan" {
		t.Errorf("adoption = %+v", report.Adoption)
	}
	if report.Adoption.TotalUsers != 5 {
		t.Errorf("adoption total users = %d, want 5", report.Adoption.TotalUsers)
	}

	if report.Features == nil {
		t.Fatal("feature artifacts missing")
	}
	agent := report.Features.Features[models.FeatureCodingAgent]
	if agent.Quantity != 50 {
		t.Errorf("coding agent quantity = %v, want 50", agent.Quantity)
	}
}

func TestBuildReport_SurvivesMissingArtifacts(t *testing.T) {
	result := &models.IngestionResult{Outputs: map[string]any{}}
	report := BuildReport(result, DefaultOptions())
	if report.TimeFrame != nil {
		t.Error("time frame should be nil without daily artifacts")
	}
	if report.Overage == nil || len(report.Overage.Users) != 0 {
		t.Error("overage should be empty, not nil")
	}
	if report.PowerUsers == nil || report.PowerUsers.QualifiedCount != 0 {
		t.Error("power users should be empty, not nil")
	}
}
