package app

import (
	"time"

	"github.com/mhersi/copilot-premium-tui/internal/analytics"
	"github.com/mhersi/copilot-premium-tui/internal/services"
)

// TickMsg is sent periodically to trigger state refresh.
type TickMsg struct {
	Time time.Time
}

// IngestStartedMsg signals that an ingestion run has begun.
type IngestStartedMsg struct {
	Path string
}

// IngestProgressMsg carries the processed row count of the in-flight run.
type IngestProgressMsg struct {
	RowsProcessed int
}

// ReportReadyMsg carries a freshly derived report.
type ReportReadyMsg struct {
	Report   *analytics.Report
	Duration time.Duration
	Warnings []string
}

// IngestFailedMsg signals that a run aborted on a fatal source error.
type IngestFailedMsg struct {
	Path string
	Err  error
}

// FileChangedMsg signals that the watched export was rewritten.
type FileChangedMsg struct {
	Path string
}

// RefreshMsg requests a fresh ingestion run.
type RefreshMsg struct{}

// AddNotificationMsg requests adding a new notification.
type AddNotificationMsg struct {
	Type     NotificationType
	Message  string
	Duration time.Duration
}

// RemoveNotificationMsg requests removal of a notification.
type RemoveNotificationMsg struct {
	ID string
}

// ClearExpiredNotificationsMsg triggers clearing of expired notifications.
type ClearExpiredNotificationsMsg struct{}

// ErrorMsg represents a general error.
type ErrorMsg struct {
	Error   error
	Context string
}

// TabSwitchMsg requests switching to a specific tab.
type TabSwitchMsg struct {
	Tab TabID
}

// ToggleHelpMsg toggles the help display.
type ToggleHelpMsg struct{}

// SelectedUserChangedMsg signals that the selected user row changed.
type SelectedUserChangedMsg struct {
	Index int
	User  string
}

// ServiceEventMsg wraps a service event from the service manager.
type ServiceEventMsg struct {
	Event services.ServiceEvent
}

// SubscriptionEventMsg is the callback wrapper for service subscription.
type SubscriptionEventMsg struct {
	Channel chan services.ServiceEvent
}
