// Package analytics derives higher-level insights from finalized
// ingestion artifacts: quota breakdowns, overage and cost-optimization
// summaries, power-user scoring, weekly quota-exhaustion windows and
// coding-agent adoption. Every function here is pure: it reads artifacts
// and never revisits raw rows.
package analytics

import (
	"time"

	"github.com/mhersi/copilot-premium-tui/internal/models"
)

// TimeFrame describes the period covered by an export.
type TimeFrame struct {
	Start  string // YYYY-MM-DD
	End    string // YYYY-MM-DD
	Days   int    // inclusive day count
	Months []string
}

// ComputeTimeFrame derives the covered period from daily buckets. It
// returns nil when the export contained no valid rows.
func ComputeTimeFrame(daily *models.DailyBucketsArtifacts) *TimeFrame {
	if daily == nil || daily.DateRange == nil {
		return nil
	}

	tf := &TimeFrame{
		Start:  daily.DateRange.Min,
		End:    daily.DateRange.Max,
		Days:   1,
		Months: daily.Months,
	}

	start, errA := time.Parse("2006-01-02", tf.Start)
	end, errB := time.Parse("2006-01-02", tf.End)
	if errA == nil && errB == nil {
		tf.Days = int(end.Sub(start).Hours()/24) + 1
	}
	return tf
}
