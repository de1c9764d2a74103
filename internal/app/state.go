// Package app provides the main Bubble Tea application model and state management.
package app

import (
	"sync"
	"time"

	"github.com/mhersi/copilot-premium-tui/internal/analytics"
)

// NotificationType defines the type of notification.
type NotificationType int

const (
	// NotificationSuccess represents a success notification.
	NotificationSuccess NotificationType = iota
	// NotificationError represents an error notification.
	NotificationError
	// NotificationWarning represents a warning notification.
	NotificationWarning
	// NotificationInfo represents an informational notification.
	NotificationInfo
	// NotificationLoading represents a loading notification with spinner.
	NotificationLoading
)

const (
	// LoadingNotificationID is the fixed ID for loading notifications.
	LoadingNotificationID = "__loading__"
)

// String returns the string representation of a NotificationType.
func (n NotificationType) String() string {
	switch n {
	case NotificationSuccess:
		return "success"
	case NotificationError:
		return "error"
	case NotificationWarning:
		return "warning"
	case NotificationInfo:
		return "info"
	default:
		return "unknown"
	}
}

// Notification represents a user-facing notification message.
type Notification struct {
	ID        string
	Type      NotificationType
	Message   string
	CreatedAt time.Time
	Duration  time.Duration
}

// IsExpired returns true if the notification has expired.
func (n *Notification) IsExpired() bool {
	if n.Duration <= 0 {
		return false
	}
	return time.Since(n.CreatedAt) > n.Duration
}

// State is the shared application state read by every tab. The report
// swaps wholesale after each ingestion run.
type State struct {
	mu sync.RWMutex

	report        *analytics.Report
	warnings      []string
	progressRows  int
	ingesting     bool
	initial       bool
	lastUpdated   time.Time
	selectedUser  int
	notifications []Notification

	notificationSeq int
}

// NewState creates the initial application state.
func NewState() *State {
	return &State{
		initial:       true,
		notifications: make([]Notification, 0),
	}
}

// SetReport installs a freshly derived report.
func (s *State) SetReport(report *analytics.Report, warnings []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.report = report
	s.warnings = warnings
	s.initial = false
	s.ingesting = false
	s.lastUpdated = time.Now()
}

// GetReport returns the latest report, or nil before the first run.
func (s *State) GetReport() *analytics.Report {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.report
}

// GetWarnings returns the warnings from the latest run.
func (s *State) GetWarnings() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.warnings))
	copy(out, s.warnings)
	return out
}

// SetIngesting marks whether a run is in flight.
func (s *State) SetIngesting(ingesting bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ingesting = ingesting
	if ingesting {
		s.progressRows = 0
	}
}

// IsIngesting reports whether a run is in flight.
func (s *State) IsIngesting() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ingesting
}

// IsInitialLoading is true until the first report lands.
func (s *State) IsInitialLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.initial
}

// MarkInitialFailed clears the initial-loading state without a report.
func (s *State) MarkInitialFailed() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.initial = false
	s.ingesting = false
}

// SetProgress records the row count of the in-flight run.
func (s *State) SetProgress(rows int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.progressRows = rows
}

// GetProgress returns the row count of the in-flight run.
func (s *State) GetProgress() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.progressRows
}

// GetLastUpdated returns the last time a report landed.
func (s *State) GetLastUpdated() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastUpdated
}

// GetSelectedUserIndex returns the currently selected user row.
func (s *State) GetSelectedUserIndex() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selectedUser
}

// SetSelectedUserIndex updates the selected user row.
func (s *State) SetSelectedUserIndex(idx int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedUser = idx
}

// AddNotification adds a new notification and returns its ID.
func (s *State) AddNotification(notifType NotificationType, message string, duration time.Duration) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notificationSeq++
	id := time.Now().Format("20060102150405") + "-" + string(rune('A'+s.notificationSeq%26))

	s.notifications = append(s.notifications, Notification{
		ID:        id,
		Type:      notifType,
		Message:   message,
		CreatedAt: time.Now(),
		Duration:  duration,
	})

	// Keep only the last 10 notifications
	if len(s.notifications) > 10 {
		s.notifications = s.notifications[len(s.notifications)-10:]
	}

	return id
}

// RemoveNotification removes a notification by ID.
func (s *State) RemoveNotification(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == id {
			s.notifications = append(s.notifications[:i], s.notifications[i+1:]...)
			return
		}
	}
}

// ClearExpiredNotifications removes all expired notifications.
func (s *State) ClearExpiredNotifications() {
	s.mu.Lock()
	defer s.mu.Unlock()

	active := make([]Notification, 0, len(s.notifications))
	for _, n := range s.notifications {
		if !n.IsExpired() {
			active = append(active, n)
		}
	}
	s.notifications = active
}

// GetNotifications returns a copy of all active notifications.
func (s *State) GetNotifications() []Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()

	active := make([]Notification, 0, len(s.notifications))
	for _, n := range s.notifications {
		if !n.IsExpired() {
			active = append(active, n)
		}
	}
	return active
}

// SetLoadingNotification sets a loading notification message.
func (s *State) SetLoadingNotification(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == LoadingNotificationID {
			s.notifications[i].Message = message
			return
		}
	}

	s.notifications = append(s.notifications, Notification{
		ID:        LoadingNotificationID,
		Type:      NotificationLoading,
		Message:   message,
		CreatedAt: time.Now(),
		Duration:  0,
	})
}

// ClearLoadingNotification removes the loading notification.
func (s *State) ClearLoadingNotification() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == LoadingNotificationID {
			s.notifications = append(s.notifications[:i], s.notifications[i+1:]...)
			return
		}
	}
}
