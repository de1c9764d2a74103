package insights

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mhersi/copilot-premium-tui/internal/analytics"
	"github.com/mhersi/copilot-premium-tui/internal/models"
	"github.com/mhersi/copilot-premium-tui/internal/ui/components"
	"github.com/mhersi/copilot-premium-tui/internal/ui/styles"
)

// View renders the insights tab.
func (m *Model) View() string {
	if m.state.IsInitialLoading() {
		return components.RenderSpinnerCentered(m.spinner, m.width, m.height)
	}

	report := m.state.GetReport()
	if report == nil {
		return styles.DocStyle.Render(styles.HelpStyle.Render("No report available."))
	}

	var sections []string
	sections = append(sections, m.renderPowerUsers(report.PowerUsers))
	sections = append(sections, m.renderCostOptimization(report.CostOpt))
	sections = append(sections, m.renderExhaustion(report.Exhaustion))
	sections = append(sections, m.renderAdoption(report.Adoption))

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)
	m.viewport.SetContent(content)

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

func (m *Model) cardWidth() int {
	return max(m.width-6, 40)
}

func (m *Model) renderPowerUsers(power *analytics.PowerUserReport) string {
	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render("Power Users"))

	if power == nil || len(power.TopUsers) == 0 {
		rows = append(rows, styles.HelpStyle.Render("  No qualified users"))
	} else {
		rows = append(rows, styles.HelpStyle.Render(fmt.Sprintf(
			"  %d qualified with at least %.0f requests", power.QualifiedCount, power.MinRequests)))
		rows = append(rows, "")
		for i, u := range power.TopUsers {
			scoreStyle := styles.UsageLowStyle
			if u.TotalScore >= 70 {
				scoreStyle = styles.UsageHighStyle
			} else if u.TotalScore >= 40 {
				scoreStyle = styles.UsageMediumStyle
			}
			rows = append(rows, fmt.Sprintf("  %2d. %-24s %s  %s",
				i+1,
				truncate(u.User, 24),
				scoreStyle.Render(fmt.Sprintf("%5.1f", u.TotalScore)),
				styles.HelpStyle.Render(fmt.Sprintf(
					"div %.0f · feat %.0f · vision %.0f · balance %.0f",
					u.Diversity, u.SpecialFeatures, u.Vision, u.Balance))))
		}
		if power.NotShownCount > 0 {
			rows = append(rows, styles.HelpStyle.Render(fmt.Sprintf(
				"  ... and %d more qualified users", power.NotShownCount)))
		}
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m *Model) renderCostOptimization(opt *analytics.CostOptimizationReport) string {
	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render("Cost Optimization"))

	if opt == nil || (len(opt.StrongCandidates) == 0 && len(opt.ApproachingBreakEven) == 0) {
		rows = append(rows, styles.HelpStyle.Render("  No upgrade candidates among Business users"))
	} else {
		for _, c := range opt.StrongCandidates {
			rows = append(rows, fmt.Sprintf("  %s %-24s %.0f over, %s overage cost",
				styles.SuccessTextStyle.Render("▲"),
				truncate(c.User, 24), c.OverageRequests, models.FormatUSD(c.OverageCost)))
		}
		for _, c := range opt.ApproachingBreakEven {
			rows = append(rows, fmt.Sprintf("  %s %-24s %.0f over, approaching break-even",
				styles.WarningTextStyle.Render("△"),
				truncate(c.User, 24), c.OverageRequests))
		}
		if len(opt.StrongCandidates) > 0 {
			rows = append(rows, "")
			rows = append(rows, "  "+styles.InfoTextStyle.Render(fmt.Sprintf(
				"Overage %s vs upgrades %s: potential savings %s",
				models.FormatUSD(opt.TotalOverageCost),
				models.FormatUSD(opt.EstimatedEnterpriseCost),
				models.FormatUSD(opt.TotalPotentialSavings))))
		}
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m *Model) renderExhaustion(ex *analytics.ExhaustionReport) string {
	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render("Quota Exhaustion by Week"))

	if ex == nil || ex.TotalUsersExhausted == 0 {
		rows = append(rows, styles.HelpStyle.Render("  Nobody ran out of quota"))
	} else {
		maxCount := 0
		for _, bucket := range ex.Buckets {
			if bucket.Count > maxCount {
				maxCount = bucket.Count
			}
		}
		for _, bucket := range ex.Buckets {
			barLen := 0
			if maxCount > 0 {
				barLen = bucket.Count * 20 / maxCount
			}
			rows = append(rows, fmt.Sprintf("  %-26s %s %d",
				bucket.Label,
				styles.ErrorTextStyle.Render(strings.Repeat("█", max(barLen, 1))),
				bucket.Count))
		}
		rows = append(rows, "")
		rows = append(rows, styles.HelpStyle.Render(fmt.Sprintf(
			"  %d users exhausted their quota", ex.TotalUsersExhausted)))
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m *Model) renderAdoption(adoption *analytics.AdoptionReport) string {
	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render("Coding Agent Adoption"))

	if adoption == nil || adoption.IncludedUsers == 0 {
		rows = append(rows, styles.HelpStyle.Render("  No coding-agent usage in this export"))
	} else {
		rows = append(rows, fmt.Sprintf("  %s of all users touched the coding agent (%d of %d)",
			styles.SuccessTextStyle.Render(fmt.Sprintf("%.1f%%", adoption.AdoptionRate)),
			adoption.IncludedUsers, adoption.TotalUsers))
		rows = append(rows, "")
		for _, u := range adoption.Users {
			rows = append(rows, fmt.Sprintf("  %-24s %8.0f agent requests  %s",
				truncate(u.User, 24), u.CodingAgentRequests,
				styles.HelpStyle.Render(fmt.Sprintf("%.1f%% of their usage", u.Percentage))))
		}
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}
