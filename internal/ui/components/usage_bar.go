// Package components provides reusable UI components.
package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mhersi/copilot-premium-tui/internal/logger"
	"github.com/mhersi/copilot-premium-tui/internal/ui/styles"
)

// RenderGradientBar renders the bar part with green-to-red gradient colors
// scaled by consumption percent.
func RenderGradientBar(percent float64, width int) string {
	if width < 1 {
		return ""
	}

	filled := int(float64(width) * percent / 100)
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	var barChars []string
	for i := 0; i < width; i++ {
		if i < filled {
			t := float64(i) / float64(max(1, width-1))
			color := interpolateColor("#51cf66", "#ff6b6b", t)
			style := lipgloss.NewStyle().Foreground(lipgloss.Color(color))
			barChars = append(barChars, style.Render("█"))
		} else {
			style := lipgloss.NewStyle().Foreground(styles.Subtle)
			barChars = append(barChars, style.Render("░"))
		}
	}

	return strings.Join(barChars, "")
}

// UsageBar renders one user's quota consumption as a labelled gradient bar.
// percentUsed may exceed 100; the bar clamps but the percentage shows the
// real value.
func UsageBar(percentUsed float64, label string, width int) string {
	labelWidth := len(label) + 1
	percentWidth := 7
	barWidth := width - labelWidth - percentWidth - 4

	if barWidth < 5 {
		barWidth = 5
	}

	bar := RenderGradientBar(percentUsed, barWidth)

	labelStr := lipgloss.NewStyle().
		Foreground(styles.TextSecondary).
		Render(label)

	percentStr := styles.GetUsageStyle(percentUsed, percentUsed > 100).
		Width(percentWidth).
		Align(lipgloss.Right).
		Render(fmt.Sprintf("%.0f%%", percentUsed))

	return fmt.Sprintf("%s [%s] %s", labelStr, bar, percentStr)
}

// UsageBarUnlimited renders the bar row for a user with no numeric quota.
func UsageBarUnlimited(label string, width int) string {
	labelWidth := len(label) + 1
	statusWidth := 10
	barWidth := width - labelWidth - statusWidth - 4
	if barWidth < 5 {
		barWidth = 5
	}

	bar := lipgloss.NewStyle().
		Foreground(styles.SpecialHue).
		Render(strings.Repeat("─", barWidth))

	labelStr := lipgloss.NewStyle().
		Foreground(styles.TextSecondary).
		Render(label)

	statusStr := styles.PlanUnlimitedStyle.
		Width(statusWidth).
		Align(lipgloss.Right).
		Render("UNLIMITED")

	return fmt.Sprintf("%s [%s] %s", labelStr, bar, statusStr)
}

func interpolateColor(fromHex, toHex string, t float64) string {
	from := hexToRGB(fromHex)
	to := hexToRGB(toHex)

	r := int(float64(from[0]) + t*(float64(to[0])-float64(from[0])))
	g := int(float64(from[1]) + t*(float64(to[1])-float64(from[1])))
	b := int(float64(from[2]) + t*(float64(to[2])-float64(from[2])))

	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

func hexToRGB(hex string) [3]int {
	hex = strings.TrimPrefix(hex, "#")
	var r, g, b int
	if _, err := fmt.Sscanf(hex, "%02x%02x%02x", &r, &g, &b); err != nil {
		logger.Error("failed to parse hex color", "hex", hex, "error", err)
		return [3]int{0, 0, 0}
	}
	return [3]int{r, g, b}
}
