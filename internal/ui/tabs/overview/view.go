package overview

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mhersi/copilot-premium-tui/internal/analytics"
	"github.com/mhersi/copilot-premium-tui/internal/models"
	"github.com/mhersi/copilot-premium-tui/internal/ui/components"
	"github.com/mhersi/copilot-premium-tui/internal/ui/styles"
)

// View renders the overview tab.
func (m *Model) View() string {
	if m.state.IsInitialLoading() {
		return components.RenderSpinnerCentered(m.spinner, m.width, m.height)
	}

	report := m.state.GetReport()
	if report == nil {
		return styles.DocStyle.Render(
			styles.ErrorTextStyle.Render("No report available. Press r to re-ingest."))
	}

	var sections []string
	sections = append(sections, m.renderTitle(report))
	sections = append(sections, m.renderSummaryCard(report))
	sections = append(sections, m.renderDailyChart(report))
	sections = append(sections, m.renderTopModels(report))
	if report.Billing != nil && report.Billing.HasAnyBillingData {
		sections = append(sections, m.renderBillingCard(report))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)
	m.viewport.SetContent(content)

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

func (m *Model) renderTitle(report *analytics.Report) string {
	title := styles.TitleStyle.Render("Copilot Premium Requests")

	subtitle := "Usage export overview"
	if report.TimeFrame != nil {
		subtitle = fmt.Sprintf("%s to %s, %d days",
			report.TimeFrame.Start, report.TimeFrame.End, report.TimeFrame.Days)
	}

	return lipgloss.JoinVertical(lipgloss.Left, title, styles.HelpStyle.Render(subtitle), "")
}

func (m *Model) renderSummaryCard(report *analytics.Report) string {
	cardWidth := max(m.width-6, 40)

	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render("Summary"))

	if report.Usage != nil {
		rows = append(rows, fmt.Sprintf("  Users: %d   Models: %d   Rows: %d",
			report.Usage.UserCount, report.Usage.ModelCount, report.Result.RowsProcessed))
	}

	if b := report.Breakdown; b != nil {
		line := fmt.Sprintf("  Plans: %s / %s / %s",
			styles.PlanUnlimitedStyle.Render(fmt.Sprintf("%d unlimited", len(b.Unlimited))),
			styles.PlanBusinessStyle.Render(fmt.Sprintf("%d business", len(b.Business))),
			styles.PlanEnterpriseStyle.Render(fmt.Sprintf("%d enterprise", len(b.Enterprise))))
		rows = append(rows, line)

		if b.SuggestedPlan != "" {
			rows = append(rows, "  "+styles.InfoTextStyle.Render(
				fmt.Sprintf("All classified users fit the %s plan", b.SuggestedPlan)))
		} else if b.Mixed {
			rows = append(rows, "  "+styles.WarningTextStyle.Render("License mix across plans"))
		}
	}

	if o := report.Overage; o != nil && o.UsersOverQuota > 0 {
		rows = append(rows, "  "+styles.ErrorTextStyle.Render(fmt.Sprintf(
			"%d users over quota: %.0f requests, %s in overage",
			o.UsersOverQuota, o.TotalOverageRequests, models.FormatUSD(o.TotalOverageCost))))
	}

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m *Model) renderDailyChart(report *analytics.Report) string {
	cardWidth := max(m.width-6, 40)

	points := analytics.TotalDailySeries(report.Daily)
	chart := components.RenderDailyChart(points, cardWidth-14, 8, "requests per day")

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			styles.CardTitleStyle.Render("Daily Usage"),
			chart))
}

func (m *Model) renderTopModels(report *analytics.Report) string {
	cardWidth := max(m.width-6, 40)

	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render("Top Models"))

	if report.Usage == nil || len(report.Usage.ModelTotals) == 0 {
		rows = append(rows, styles.HelpStyle.Render("  No model data"))
	} else {
		type modelTotal struct {
			model string
			total float64
		}
		totals := make([]modelTotal, 0, len(report.Usage.ModelTotals))
		for model, total := range report.Usage.ModelTotals {
			totals = append(totals, modelTotal{model, total})
		}
		sort.Slice(totals, func(i, j int) bool {
			if totals[i].total != totals[j].total {
				return totals[i].total > totals[j].total
			}
			return totals[i].model < totals[j].model
		})
		if len(totals) > 8 {
			totals = totals[:8]
		}

		values := make([]float64, len(totals))
		labels := make([]string, len(totals))
		for i, t := range totals {
			values[i] = t.total
			labels[i] = t.model
		}
		rows = append(rows, components.RenderBarChart(values, labels, cardWidth-8))
	}

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m *Model) renderBillingCard(report *analytics.Report) string {
	cardWidth := max(m.width-6, 40)
	totals := report.Billing.Totals

	lines := []string{
		styles.CardTitleStyle.Render("Billing"),
		fmt.Sprintf("  Gross:    %s", models.FormatUSD(totals.Gross)),
		fmt.Sprintf("  Discount: %s", models.FormatUSD(totals.Discount)),
		fmt.Sprintf("  Net:      %s", styles.SuccessTextStyle.Render(models.FormatUSD(totals.Net))),
	}

	return styles.CardStyle.Width(cardWidth).Render(
		strings.Join(lines, "\n"))
}
