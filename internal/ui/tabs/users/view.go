package users

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/lipgloss"

	"github.com/mhersi/copilot-premium-tui/internal/analytics"
	"github.com/mhersi/copilot-premium-tui/internal/models"
	"github.com/mhersi/copilot-premium-tui/internal/ui/components"
	"github.com/mhersi/copilot-premium-tui/internal/ui/styles"
)

// View renders the users tab.
func (m *Model) View() string {
	if m.state.IsInitialLoading() {
		return components.RenderSpinnerCentered(m.spinner, m.width, m.height)
	}

	report := m.state.GetReport()
	users := m.sortedUsers()
	if report == nil || len(users) == 0 {
		return styles.DocStyle.Render(styles.HelpStyle.Render("No user data in this export."))
	}

	if m.selectedIndex >= len(users) {
		m.selectedIndex = len(users) - 1
	}

	var sections []string
	sections = append(sections, m.renderUserList(report, users))
	sections = append(sections, m.renderUserDetail(report, users[m.selectedIndex]))

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)
	m.viewport.SetContent(content)

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

func (m *Model) renderUserList(report *analytics.Report, users []models.UserAggregate) string {
	cardWidth := max(m.width-6, 40)
	contentWidth := max(cardWidth-6, 30)

	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render(
		fmt.Sprintf("Users by Requests (%d)", len(users))))

	for i, u := range users {
		prefix := "  "
		if i == m.selectedIndex {
			prefix = styles.FocusedStyle.Render("▸ ")
		}
		rows = append(rows, prefix+m.renderUserRow(report, u, contentWidth))
	}

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m *Model) renderUserRow(report *analytics.Report, u models.UserAggregate, width int) string {
	label := u.User
	if len(label) > 24 {
		label = label[:21] + "..."
	}
	label = fmt.Sprintf("%-24s %8.0f", label, u.TotalRequests)

	quota, ok := m.userQuota(report, u.User)
	switch {
	case !ok:
		return fmt.Sprintf("%s  %s", label, styles.PlanUnknownStyle.Render("no quota data"))
	case quota.Unlimited:
		return components.UsageBarUnlimited(label, width)
	default:
		percent := 0.0
		if quota.Requests > 0 {
			percent = u.TotalRequests / quota.Requests * 100
		}
		return components.UsageBar(percent, label, width)
	}
}

func (m *Model) userQuota(report *analytics.Report, user string) (models.QuotaValue, bool) {
	if report.Quota == nil {
		return models.QuotaValue{}, false
	}
	q, ok := report.Quota.ByUser[user]
	return q, ok
}

func (m *Model) renderUserDetail(report *analytics.Report, u models.UserAggregate) string {
	cardWidth := max(m.width-6, 40)

	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render(u.User))

	quotaStr := "unknown"
	if q, ok := m.userQuota(report, u.User); ok {
		quotaStr = q.String()
	}
	rows = append(rows, fmt.Sprintf("  Requests: %.1f   Quota: %s   Top model: %s",
		u.TotalRequests, quotaStr, u.TopModel))

	if over := m.userOverage(report, u.User); over != nil && over.OverageRequests > 0 {
		rows = append(rows, "  "+styles.ErrorTextStyle.Render(fmt.Sprintf(
			"Over quota by %.0f requests (%s)",
			over.OverageRequests, models.FormatUSD(over.OverageCost))))
	}

	if series := analytics.UserDailySeries(report.Daily, u.User); len(series) > 1 {
		values := make([]float64, len(series))
		for i, p := range series {
			values[i] = p.Total
		}
		spark := components.RenderSparkline(values, min(len(values), cardWidth-20))
		rows = append(rows, fmt.Sprintf("  Daily:    %s", spark))
	}

	if len(u.ModelBreakdown) > 0 {
		rows = append(rows, "")
		rows = append(rows, m.renderModelBreakdown(u, cardWidth-8))
	}

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m *Model) renderModelBreakdown(u models.UserAggregate, width int) string {
	type modelTotal struct {
		model string
		total float64
	}
	totals := make([]modelTotal, 0, len(u.ModelBreakdown))
	for model, total := range u.ModelBreakdown {
		totals = append(totals, modelTotal{model, total})
	}
	sort.Slice(totals, func(i, j int) bool {
		if totals[i].total != totals[j].total {
			return totals[i].total > totals[j].total
		}
		return totals[i].model < totals[j].model
	})
	if len(totals) > 6 {
		totals = totals[:6]
	}

	values := make([]float64, len(totals))
	labels := make([]string, len(totals))
	for i, t := range totals {
		values[i] = t.total
		labels[i] = t.model
	}
	return components.RenderBarChart(values, labels, width)
}

func (m *Model) userOverage(report *analytics.Report, user string) *analytics.UserOverage {
	if report.Overage == nil {
		return nil
	}
	for i := range report.Overage.Users {
		if report.Overage.Users[i].User == user {
			return &report.Overage.Users[i]
		}
	}
	return nil
}
