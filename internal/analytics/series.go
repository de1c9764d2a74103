package analytics

import (
	"sort"

	"github.com/mhersi/copilot-premium-tui/internal/models"
)

// DailyPoint is one day of a usage series.
type DailyPoint struct {
	Day    string
	Total  float64
	Models map[string]float64 // nil when the model breakdown was not tracked
}

// UserDailySeries builds one user's day-by-day series from the daily
// buckets, sorted chronologically. Days on which the user made no
// requests are simply absent.
func UserDailySeries(daily *models.DailyBucketsArtifacts, user string) []DailyPoint {
	if daily == nil {
		return nil
	}

	var points []DailyPoint
	for day, users := range daily.DailyUserTotals {
		total, ok := users[user]
		if !ok {
			continue
		}
		point := DailyPoint{Day: day, Total: total}
		if daily.DailyUserModelTotals != nil {
			point.Models = daily.DailyUserModelTotals[day][user]
		}
		points = append(points, point)
	}

	sort.Slice(points, func(i, j int) bool { return points[i].Day < points[j].Day })
	return points
}

// TotalDailySeries sums all users per day, sorted chronologically. The
// overview chart plots this.
func TotalDailySeries(daily *models.DailyBucketsArtifacts) []DailyPoint {
	if daily == nil {
		return nil
	}

	points := make([]DailyPoint, 0, len(daily.DailyUserTotals))
	for day, users := range daily.DailyUserTotals {
		total := 0.0
		for _, qty := range users {
			total += qty
		}
		points = append(points, DailyPoint{Day: day, Total: total})
	}

	sort.Slice(points, func(i, j int) bool { return points[i].Day < points[j].Day })
	return points
}
