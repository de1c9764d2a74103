// Package users provides the per-user usage tab with quota consumption
// bars and a drill-down into the selected user.
package users

import (
	"sort"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mhersi/copilot-premium-tui/internal/app"
	"github.com/mhersi/copilot-premium-tui/internal/models"
	"github.com/mhersi/copilot-premium-tui/internal/ui/components"
)

// keyMap defines the key bindings specific to the users tab.
type keyMap struct {
	NextUser  key.Binding
	PrevUser  key.Binding
	FirstUser key.Binding
	LastUser  key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		NextUser: key.NewBinding(
			key.WithKeys("n", "j", "down"),
			key.WithHelp("j/n", "next user"),
		),
		PrevUser: key.NewBinding(
			key.WithKeys("p", "k", "up"),
			key.WithHelp("k/p", "prev user"),
		),
		FirstUser: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "first user"),
		),
		LastUser: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "last user"),
		),
	}
}

// Model represents the users tab state.
type Model struct {
	state         *app.State
	spinner       components.LoadingSpinner
	keys          keyMap
	viewport      viewport.Model
	width         int
	height        int
	selectedIndex int
}

// New creates a new users model.
func New(state *app.State) *Model {
	return &Model{
		state:    state,
		spinner:  components.NewSpinner("Ingesting export..."),
		keys:     defaultKeyMap(),
		viewport: viewport.New(0, 0),
	}
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	return m.spinner.Init()
}

// Update handles messages and updates the model.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		cmds = append(cmds, m.handleKeyMsg(msg))

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	count := len(m.sortedUsers())

	switch {
	case key.Matches(msg, m.keys.NextUser):
		if count > 0 {
			m.selectedIndex = (m.selectedIndex + 1) % count
		}
	case key.Matches(msg, m.keys.PrevUser):
		if count > 0 {
			m.selectedIndex = (m.selectedIndex - 1 + count) % count
		}
	case key.Matches(msg, m.keys.FirstUser):
		m.selectedIndex = 0
	case key.Matches(msg, m.keys.LastUser):
		if count > 0 {
			m.selectedIndex = count - 1
		}
	default:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return cmd
	}

	m.state.SetSelectedUserIndex(m.selectedIndex)
	return nil
}

// sortedUsers returns the usage aggregates sorted by requests descending.
func (m *Model) sortedUsers() []models.UserAggregate {
	report := m.state.GetReport()
	if report == nil || report.Usage == nil {
		return nil
	}

	users := make([]models.UserAggregate, len(report.Usage.Users))
	copy(users, report.Usage.Users)
	sort.Slice(users, func(i, j int) bool {
		if users[i].TotalRequests != users[j].TotalRequests {
			return users[i].TotalRequests > users[j].TotalRequests
		}
		return users[i].User < users[j].User
	})
	return users
}

// SetSize sets the available size for the users tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{
		m.keys.NextUser,
		m.keys.PrevUser,
		m.keys.FirstUser,
		m.keys.LastUser,
	}
}
