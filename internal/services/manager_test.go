package services

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mhersi/copilot-premium-tui/internal/config"
	"github.com/mhersi/copilot-premium-tui/internal/ingest"
	"github.com/mhersi/copilot-premium-tui/internal/models"
)

func testConfig() *config.Config {
	return &config.Config{
		Pricing:                   models.DefaultPricing(),
		ChunkSize:                 100,
		ProgressResolution:        50,
		PowerUserMinRequests:      20,
		PowerUserTopN:             20,
		StrongOverageThreshold:    500,
		BreakEvenOverageThreshold: 250,
	}
}

func writeExport(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "export.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const sampleExport = `date,username,model,quantity,total_monthly_quota
2025-06-01T10:00:00Z,alice,gpt-4.1,120,300
2025-06-02T11:00:00Z,alice,claude-opus-4,200,300
2025-06-02T12:00:00Z,bob,gpt-4o,40,Unlimited
`

// waitFor drains events until one matches or the deadline passes.
func waitFor[T ServiceEvent](t *testing.T, ch chan ServiceEvent) T {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case event, ok := <-ch:
			if !ok {
				t.Fatal("event channel closed")
			}
			if match, ok := event.(T); ok {
				return match
			}
		case <-deadline:
			var zero T
			t.Fatalf("timed out waiting for %T", zero)
			return zero
		}
	}
}

func TestManagerIngestLifecycle(t *testing.T) {
	path := writeExport(t, sampleExport)
	mgr := NewManager(testConfig(), path)
	defer mgr.Close()

	ch, _ := mgr.Subscribe()
	mgr.StartIngest()

	started := waitFor[IngestStartedEvent](t, ch)
	if started.Path != path {
		t.Errorf("started path = %s, want %s", started.Path, path)
	}

	completed := waitFor[IngestCompletedEvent](t, ch)
	if completed.Report == nil {
		t.Fatal("completed event carries no report")
	}
	if completed.Report.Result.RowsProcessed != 3 {
		t.Errorf("rows = %d, want 3", completed.Report.Result.RowsProcessed)
	}

	if mgr.Report() == nil {
		t.Error("latest report not retained")
	}
	if mgr.IsIngesting() {
		t.Error("manager still marked as ingesting")
	}

	// alice totals 320 against a 300 quota.
	if got := mgr.Report().Overage.TotalOverageRequests; got != 20 {
		t.Errorf("overage = %v, want 20", got)
	}
}

func TestManagerIngestMissingFile(t *testing.T) {
	mgr := NewManager(testConfig(), filepath.Join(t.TempDir(), "absent.csv"))
	defer mgr.Close()

	ch, _ := mgr.Subscribe()
	mgr.StartIngest()

	errEvent := waitFor[IngestErrorEvent](t, ch)
	if !errors.Is(errEvent.Err, ingest.ErrSourceRead) {
		t.Errorf("error = %v, want ErrSourceRead", errEvent.Err)
	}
	if mgr.Report() != nil {
		t.Error("failed run should not produce a report")
	}
}

func TestManagerRerunReplacesReport(t *testing.T) {
	path := writeExport(t, sampleExport)
	mgr := NewManager(testConfig(), path)
	defer mgr.Close()

	ch, _ := mgr.Subscribe()
	mgr.StartIngest()
	waitFor[IngestCompletedEvent](t, ch)
	first := mgr.Report()

	extended := sampleExport + "2025-06-03T09:00:00Z,carol,gpt-4.1,10,300\n"
	if err := os.WriteFile(path, []byte(extended), 0o644); err != nil {
		t.Fatal(err)
	}

	mgr.StartIngest()
	completed := waitFor[IngestCompletedEvent](t, ch)
	if completed.Report == first {
		t.Error("re-ingest should build a fresh report")
	}
	if completed.Report.Result.RowsProcessed != 4 {
		t.Errorf("rows = %d, want 4", completed.Report.Result.RowsProcessed)
	}
}

func TestManagerUnsubscribeClosesChannel(t *testing.T) {
	mgr := NewManager(testConfig(), "unused.csv")
	defer mgr.Close()

	ch, _ := mgr.Subscribe()
	mgr.Unsubscribe(ch)

	if _, ok := <-ch; ok {
		t.Error("unsubscribed channel should be closed")
	}
}

func TestManagerCloseIsIdempotent(t *testing.T) {
	mgr := NewManager(testConfig(), "unused.csv")
	if err := mgr.Close(); err != nil {
		t.Fatalf("first close: %v", err)
	}
	if err := mgr.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
}
