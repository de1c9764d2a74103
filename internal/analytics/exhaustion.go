package analytics

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/mhersi/copilot-premium-tui/internal/models"
)

// WeekBucket is one (month, week-of-month) exhaustion window. Week 1
// covers days 1-7, week 2 days 8-14, week 3 days 15-21, week 4 days
// 22-28 and week 5 day 29 through the month's actual last day.
type WeekBucket struct {
	Month string // YYYY-MM
	Week  int    // 1..5
	Label string // e.g. "2025-06 week 2 (8-14)"
	Users []string
	Count int
}

// ExhaustionReport bins users by the week in which their cumulative usage
// first reached their quota. A user appears in at most one bucket: once
// exhausted, they are no longer tracked.
type ExhaustionReport struct {
	Buckets             []WeekBucket // chronological by month, then week
	TotalUsersExhausted int
}

// ComputeWeeklyExhaustion walks the daily buckets in date order keeping a
// running total per user with a numeric quota, and records the first day
// the total reaches the quota.
func ComputeWeeklyExhaustion(daily *models.DailyBucketsArtifacts, quota *models.QuotaArtifacts) *ExhaustionReport {
	report := &ExhaustionReport{}
	if daily == nil || quota == nil {
		return report
	}

	// Only numeric quotas can exhaust.
	remaining := make(map[string]float64)
	running := make(map[string]float64)
	for user, q := range quota.ByUser {
		if !q.Unlimited {
			remaining[user] = q.Requests
		}
	}
	if len(remaining) == 0 {
		return report
	}

	days := make([]string, 0, len(daily.DailyUserTotals))
	for day := range daily.DailyUserTotals {
		days = append(days, day)
	}
	sort.Strings(days)

	type bucketKey struct {
		month string
		week  int
	}
	buckets := make(map[bucketKey][]string)

	for _, day := range days {
		for user, qty := range daily.DailyUserTotals[day] {
			limit, tracked := remaining[user]
			if !tracked {
				continue
			}
			running[user] += qty
			if running[user] < limit {
				continue
			}

			// First exhaustion; stop tracking this user.
			delete(remaining, user)
			week := weekOfMonth(day)
			key := bucketKey{month: day[:7], week: week}
			buckets[key] = append(buckets[key], user)
		}
	}

	keys := make([]bucketKey, 0, len(buckets))
	for key := range buckets {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].month != keys[j].month {
			return keys[i].month < keys[j].month
		}
		return keys[i].week < keys[j].week
	})

	for _, key := range keys {
		users := buckets[key]
		sort.Strings(users)
		report.Buckets = append(report.Buckets, WeekBucket{
			Month: key.month,
			Week:  key.week,
			Label: weekLabel(key.month, key.week),
			Users: users,
			Count: len(users),
		})
		report.TotalUsersExhausted += len(users)
	}
	return report
}

// weekOfMonth bins a YYYY-MM-DD day string: days 1-7 are week 1, 8-14
// week 2, 15-21 week 3, 22-28 week 4, 29+ week 5.
func weekOfMonth(day string) int {
	dom, err := strconv.Atoi(day[8:])
	if err != nil || dom < 1 {
		return 1
	}
	week := (dom-1)/7 + 1
	if week > 5 {
		week = 5
	}
	return week
}

// weekLabel renders the day span of a week bucket. Week 5 ends on the
// month's actual last day (29th through 31st depending on the month).
func weekLabel(month string, week int) string {
	start := (week-1)*7 + 1
	end := week * 7
	if week == 5 {
		end = daysInMonth(month)
	}
	return fmt.Sprintf("%s week %d (%d-%d)", month, week, start, end)
}

// daysInMonth returns the number of days in a YYYY-MM month, falling back
// to 31 when the month string does not parse.
func daysInMonth(month string) int {
	t, err := time.Parse("2006-01", month)
	if err != nil {
		return 31
	}
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
