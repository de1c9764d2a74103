// Package services provides service orchestration for the TUI.
package services

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
	"github.com/gen2brain/beeep"

	"github.com/mhersi/copilot-premium-tui/internal/analytics"
	"github.com/mhersi/copilot-premium-tui/internal/config"
	"github.com/mhersi/copilot-premium-tui/internal/ingest"
	"github.com/mhersi/copilot-premium-tui/internal/logger"
	"github.com/mhersi/copilot-premium-tui/internal/models"
)

type (
	// IngestStartedEvent is emitted when an ingestion run begins.
	IngestStartedEvent struct {
		Path string
	}

	// IngestProgressEvent is emitted periodically while rows are processed.
	IngestProgressEvent struct {
		RowsProcessed int
	}

	// IngestCompletedEvent is emitted when a run finishes and the derived
	// report is available.
	IngestCompletedEvent struct {
		Report   *analytics.Report
		Duration time.Duration
		Warnings []string
	}

	// IngestErrorEvent is emitted when a run aborts on a fatal source error.
	IngestErrorEvent struct {
		Path string
		Err  error
	}

	// FileChangedEvent is emitted when the watched export file is rewritten.
	FileChangedEvent struct {
		Path string
	}
)

// ServiceEvent is the interface implemented by all service events.
type ServiceEvent interface {
	isServiceEvent()
}

func (IngestStartedEvent) isServiceEvent()   {}
func (IngestProgressEvent) isServiceEvent()  {}
func (IngestCompletedEvent) isServiceEvent() {}
func (IngestErrorEvent) isServiceEvent()     {}
func (FileChangedEvent) isServiceEvent()     {}

// Manager owns the ingestion pipeline and event routing. Each run reads
// the whole export from scratch; there is no incremental re-ingestion.
type Manager struct {
	mu          sync.RWMutex
	cfg         *config.Config
	path        string
	report      *analytics.Report
	warnings    []string
	subscribers []chan<- ServiceEvent
	stopChan    chan struct{}
	watcher     *fsnotify.Watcher
	cancel      context.CancelFunc
	ingesting   bool
	closeOnce   sync.Once
}

// NewManager creates a manager for the given CSV export path.
func NewManager(cfg *config.Config, path string) *Manager {
	return &Manager{
		cfg:      cfg,
		path:     path,
		stopChan: make(chan struct{}),
	}
}

// Path returns the export file being ingested.
func (m *Manager) Path() string {
	return m.path
}

// Report returns the latest derived report, or nil before the first run.
func (m *Manager) Report() *analytics.Report {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.report
}

// Warnings returns the warnings from the latest run.
func (m *Manager) Warnings() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, len(m.warnings))
	copy(out, m.warnings)
	return out
}

// IsIngesting reports whether a run is currently in flight.
func (m *Manager) IsIngesting() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.ingesting
}

// StartIngest kicks off a full ingestion run in the background. A run
// already in flight is cancelled first; the new run supersedes it.
func (m *Manager) StartIngest() {
	m.mu.Lock()
	if m.cancel != nil {
		m.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.ingesting = true
	m.mu.Unlock()

	go m.runIngest(ctx)
}

// CancelIngest cancels the in-flight run, if any. Rows already processed
// are still finalized into a report.
func (m *Manager) CancelIngest() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cancel != nil {
		m.cancel()
	}
}

func (m *Manager) runIngest(ctx context.Context) {
	m.broadcast(IngestStartedEvent{Path: m.path})

	src, err := ingest.OpenCSV(m.path, m.cfg.ChunkSize)
	if err != nil {
		m.finishRun(nil, nil)
		m.broadcast(IngestErrorEvent{Path: m.path, Err: err})
		return
	}
	defer src.Close()

	started := time.Now()
	opts := ingest.Options{
		Pricing:            m.cfg.Pricing,
		ProgressResolution: m.cfg.ProgressResolution,
		OnProgress: func(p ingest.Progress) {
			m.broadcast(IngestProgressEvent{RowsProcessed: p.RowsProcessed})
		},
		OnComplete: func(result *models.IngestionResult) {
			report := analytics.BuildReport(result, m.reportOptions())
			m.finishRun(report, result.Warnings)
			m.broadcast(IngestCompletedEvent{
				Report:   report,
				Duration: result.Duration,
				Warnings: result.Warnings,
			})
			m.notifyCompleted(result, time.Since(started))
		},
		OnError: func(err error) {
			m.finishRun(nil, nil)
			m.broadcast(IngestErrorEvent{Path: m.path, Err: err})
		},
	}

	ingest.Ingest(ctx, src, ingest.DefaultAggregators(), opts)
}

func (m *Manager) reportOptions() analytics.Options {
	return analytics.Options{
		Pricing: m.cfg.Pricing,
		PowerUser: analytics.PowerUserOptions{
			MinRequests: m.cfg.PowerUserMinRequests,
			TopN:        m.cfg.PowerUserTopN,
		},
		CostOpt: analytics.CostOptimizationOptions{
			StrongThreshold:    m.cfg.StrongOverageThreshold,
			BreakEvenThreshold: m.cfg.BreakEvenOverageThreshold,
		},
	}
}

func (m *Manager) finishRun(report *analytics.Report, warnings []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ingesting = false
	if report != nil {
		m.report = report
		m.warnings = warnings
	}
}

func (m *Manager) notifyCompleted(result *models.IngestionResult, elapsed time.Duration) {
	if !m.cfg.Notify {
		return
	}
	title := "Copilot usage report ready"
	body := fmt.Sprintf("%d rows from %s processed in %s",
		result.RowsProcessed, filepath.Base(m.path), elapsed.Round(time.Millisecond))
	if err := beeep.Notify(title, body, ""); err != nil {
		logger.Warn("desktop notification failed", "error", err)
	}
}

// Watch starts watching the export file and re-ingests on every rewrite.
// Copilot exports are replaced wholesale, so renames and creates in the
// parent directory count as changes too.
func (m *Manager) Watch() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}

	// Watch the directory: editors and exporters usually replace the
	// file, which drops the watch on the file itself.
	dir := filepath.Dir(m.path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	m.mu.Lock()
	m.watcher = watcher
	m.mu.Unlock()

	go m.watchLoop(watcher)
	return nil
}

func (m *Manager) watchLoop(watcher *fsnotify.Watcher) {
	// Debounce bursts of events from a single export rewrite.
	const debounce = 500 * time.Millisecond
	var timer *time.Timer

	target := filepath.Clean(m.path)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, func() {
				logger.Info("export file changed, re-ingesting", "path", m.path)
				m.broadcast(FileChangedEvent{Path: m.path})
				m.StartIngest()
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("file watcher error", "error", err)

		case <-m.stopChan:
			return
		}
	}
}

// broadcast sends an event to all subscribers.
func (m *Manager) broadcast(event ServiceEvent) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, sub := range m.subscribers {
		select {
		case sub <- event:
		default:
			// Subscriber channel full, skip
		}
	}
}

// Subscribe creates a channel for receiving service events.
// Returns a tea.Cmd that can be used in Bubble Tea's Init or Update.
func (m *Manager) Subscribe() (chan ServiceEvent, tea.Cmd) {
	ch := make(chan ServiceEvent, 50)

	m.mu.Lock()
	m.subscribers = append(m.subscribers, ch)
	m.mu.Unlock()

	return ch, waitForEvent(ch)
}

func waitForEvent(ch <-chan ServiceEvent) tea.Cmd {
	return func() tea.Msg {
		return <-ch
	}
}

// WaitForEvent returns a tea.Cmd for the next event on a channel.
func WaitForEvent(ch <-chan ServiceEvent) tea.Cmd {
	return waitForEvent(ch)
}

// Unsubscribe removes a subscriber channel.
func (m *Manager) Unsubscribe(ch chan ServiceEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, sub := range m.subscribers {
		if sub == ch {
			m.subscribers = append(m.subscribers[:i], m.subscribers[i+1:]...)
			close(ch)
			break
		}
	}
}

// Close stops the watcher, cancels any in-flight run, and closes all
// subscriber channels.
func (m *Manager) Close() error {
	var err error
	m.closeOnce.Do(func() {
		close(m.stopChan)

		m.mu.Lock()
		if m.cancel != nil {
			m.cancel()
		}
		if m.watcher != nil {
			err = m.watcher.Close()
			m.watcher = nil
		}
		for _, sub := range m.subscribers {
			close(sub)
		}
		m.subscribers = nil
		m.mu.Unlock()
	})
	return err
}
