package components

import (
	"strings"
	"testing"

	"github.com/mhersi/copilot-premium-tui/internal/analytics"
)

func TestRenderDailyChart(t *testing.T) {
	points := []analytics.DailyPoint{
		{Day: "2025-06-01", Total: 10},
		{Day: "2025-06-02", Total: 25},
		{Day: "2025-06-03", Total: 5},
	}
	out := RenderDailyChart(points, 40, 5, "daily requests")
	if !strings.Contains(out, "daily requests") {
		t.Errorf("chart missing caption:\n%s", out)
	}
}

func TestRenderDailyChartEmpty(t *testing.T) {
	out := RenderDailyChart(nil, 40, 5, "")
	if !strings.Contains(out, "No data") {
		t.Errorf("empty chart = %q", out)
	}
}

func TestRenderBarChart(t *testing.T) {
	out := RenderBarChart([]float64{30, 10}, []string{"gpt-4.1", "claude-opus-4"}, 60)
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %d, want 2", len(lines))
	}
	if !strings.Contains(lines[0], "gpt-4.1") || !strings.Contains(lines[0], "30.0") {
		t.Errorf("first bar = %q", lines[0])
	}
	// Larger value gets the longer bar.
	if strings.Count(lines[0], "█") <= strings.Count(lines[1], "█") {
		t.Errorf("bar lengths not proportional:\n%s", out)
	}
}

func TestRenderSparkline(t *testing.T) {
	out := RenderSparkline([]float64{0, 1, 2, 3}, 4)
	if len([]rune(out)) != 4 {
		t.Errorf("sparkline width = %d, want 4", len([]rune(out)))
	}
	if RenderSparkline(nil, 10) != "" {
		t.Error("empty input should render nothing")
	}
}

func TestUsageBar(t *testing.T) {
	out := UsageBar(150, "alice", 60)
	if !strings.Contains(out, "alice") || !strings.Contains(out, "150%") {
		t.Errorf("usage bar = %q", out)
	}

	unlimited := UsageBarUnlimited("exec", 60)
	if !strings.Contains(unlimited, "UNLIMITED") {
		t.Errorf("unlimited bar = %q", unlimited)
	}
}

func TestHexToRGB(t *testing.T) {
	rgb := hexToRGB("#ff6b6b")
	if rgb != [3]int{255, 107, 107} {
		t.Errorf("rgb = %v", rgb)
	}
	if hexToRGB("bogus") != [3]int{0, 0, 0} {
		t.Error("invalid hex should fall back to black")
	}
}
