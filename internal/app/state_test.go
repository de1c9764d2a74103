package app

import (
	"testing"
	"time"

	"github.com/mhersi/copilot-premium-tui/internal/analytics"
	"github.com/mhersi/copilot-premium-tui/internal/models"
)

func sampleReport() *analytics.Report {
	result := &models.IngestionResult{Outputs: map[string]any{}, RowsProcessed: 5}
	return analytics.BuildReport(result, analytics.DefaultOptions())
}

func TestStateReportLifecycle(t *testing.T) {
	state := NewState()

	if !state.IsInitialLoading() {
		t.Error("fresh state should be in initial loading")
	}
	if state.GetReport() != nil {
		t.Error("fresh state should have no report")
	}

	report := sampleReport()
	state.SetReport(report, []string{"warn"})

	if state.IsInitialLoading() {
		t.Error("initial loading should clear once a report lands")
	}
	if state.IsIngesting() {
		t.Error("ingesting should clear once a report lands")
	}
	if state.GetReport() != report {
		t.Error("report not stored")
	}
	if got := state.GetWarnings(); len(got) != 1 || got[0] != "warn" {
		t.Errorf("warnings = %v", got)
	}
	if state.GetLastUpdated().IsZero() {
		t.Error("last updated not set")
	}
}

func TestStateIngestProgress(t *testing.T) {
	state := NewState()
	state.SetIngesting(true)
	state.SetProgress(1500)

	if !state.IsIngesting() || state.GetProgress() != 1500 {
		t.Errorf("ingesting=%v progress=%d", state.IsIngesting(), state.GetProgress())
	}

	// A new run resets the counter.
	state.SetIngesting(true)
	if state.GetProgress() != 0 {
		t.Errorf("progress = %d after restart, want 0", state.GetProgress())
	}
}

func TestStateMarkInitialFailed(t *testing.T) {
	state := NewState()
	state.SetIngesting(true)
	state.MarkInitialFailed()
	if state.IsInitialLoading() || state.IsIngesting() {
		t.Error("failed run should clear both loading flags")
	}
	if state.GetReport() != nil {
		t.Error("failed run should leave no report")
	}
}

func TestStateNotifications(t *testing.T) {
	state := NewState()

	id := state.AddNotification(NotificationSuccess, "done", time.Minute)
	if len(state.GetNotifications()) != 1 {
		t.Fatal("notification not added")
	}

	state.RemoveNotification(id)
	if len(state.GetNotifications()) != 0 {
		t.Error("notification not removed")
	}
}

func TestStateNotificationExpiry(t *testing.T) {
	state := NewState()
	state.AddNotification(NotificationInfo, "stale", time.Nanosecond)
	time.Sleep(time.Millisecond)

	if len(state.GetNotifications()) != 0 {
		t.Error("expired notification still visible")
	}

	state.ClearExpiredNotifications()
	state.AddNotification(NotificationInfo, "fresh", time.Minute)
	if len(state.GetNotifications()) != 1 {
		t.Error("fresh notification missing after cleanup")
	}
}

func TestStateNotificationCap(t *testing.T) {
	state := NewState()
	for i := 0; i < 15; i++ {
		state.AddNotification(NotificationInfo, "n", 0)
	}
	if got := len(state.GetNotifications()); got != 10 {
		t.Errorf("notifications = %d, want capped at 10", got)
	}
}

func TestStateLoadingNotification(t *testing.T) {
	state := NewState()

	state.SetLoadingNotification("Ingesting...")
	state.SetLoadingNotification("Ingesting... 500 rows")

	notifications := state.GetNotifications()
	if len(notifications) != 1 {
		t.Fatalf("notifications = %d, want single updated entry", len(notifications))
	}
	if notifications[0].Message != "Ingesting... 500 rows" {
		t.Errorf("message = %q", notifications[0].Message)
	}

	state.ClearLoadingNotification()
	if len(state.GetNotifications()) != 0 {
		t.Error("loading notification not cleared")
	}
}
