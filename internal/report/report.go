// Package report renders a derived-analytics report as plain text for
// non-interactive use.
package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/mhersi/copilot-premium-tui/internal/analytics"
	"github.com/mhersi/copilot-premium-tui/internal/models"
)

// Render produces the full plain-text report.
func Render(r *analytics.Report) string {
	var b strings.Builder

	writeHeader(&b, r)
	writeQuotaBreakdown(&b, r.Breakdown)
	writeUsage(&b, r)
	writeOverage(&b, r.Overage)
	writeCostOptimization(&b, r.CostOpt)
	writePowerUsers(&b, r.PowerUsers)
	writeExhaustion(&b, r.Exhaustion)
	writeAdoption(&b, r.Adoption)
	writeBilling(&b, r.Billing)
	writeWarnings(&b, r.Result.Warnings)

	return b.String()
}

func section(b *strings.Builder, title string) {
	fmt.Fprintf(b, "\n%s\n%s\n", title, strings.Repeat("-", len(title)))
}

func writeHeader(b *strings.Builder, r *analytics.Report) {
	fmt.Fprintf(b, "Copilot Premium Requests Report\n")
	fmt.Fprintf(b, "===============================\n")
	fmt.Fprintf(b, "Rows processed: %d in %s\n",
		r.Result.RowsProcessed, r.Result.Duration.Round(time.Millisecond))
	if r.TimeFrame != nil {
		fmt.Fprintf(b, "Period: %s to %s (%d days, %d months)\n",
			r.TimeFrame.Start, r.TimeFrame.End, r.TimeFrame.Days, len(r.TimeFrame.Months))
	}
	if r.Usage != nil {
		fmt.Fprintf(b, "Users: %d, models: %d\n", r.Usage.UserCount, r.Usage.ModelCount)
	}
}

func writeQuotaBreakdown(b *strings.Builder, breakdown *analytics.QuotaBreakdown) {
	if breakdown == nil {
		return
	}
	section(b, "Quota Breakdown")
	fmt.Fprintf(b, "Unlimited:  %d users\n", len(breakdown.Unlimited))
	fmt.Fprintf(b, "Business:   %d users\n", len(breakdown.Business))
	fmt.Fprintf(b, "Enterprise: %d users\n", len(breakdown.Enterprise))
	if breakdown.Mixed {
		fmt.Fprintf(b, "License mix detected across plans.\n")
	}
	if breakdown.SuggestedPlan != "" {
		fmt.Fprintf(b, "Suggested plan: %s\n", breakdown.SuggestedPlan)
	}
}

func writeUsage(b *strings.Builder, r *analytics.Report) {
	if r.Usage == nil || len(r.Usage.Users) == 0 {
		return
	}
	section(b, "Top Users by Requests")

	users := make([]models.UserAggregate, len(r.Usage.Users))
	copy(users, r.Usage.Users)
	sort.Slice(users, func(i, j int) bool {
		if users[i].TotalRequests != users[j].TotalRequests {
			return users[i].TotalRequests > users[j].TotalRequests
		}
		return users[i].User < users[j].User
	})
	if len(users) > 10 {
		users = users[:10]
	}
	for _, u := range users {
		fmt.Fprintf(b, "%-28s %10.1f  top model: %s\n", u.User, u.TotalRequests, u.TopModel)
	}
}

func writeOverage(b *strings.Builder, overage *analytics.OverageSummary) {
	if overage == nil || overage.UsersOverQuota == 0 {
		return
	}
	section(b, "Overage")
	fmt.Fprintf(b, "Users over quota: %d\n", overage.UsersOverQuota)
	fmt.Fprintf(b, "Total overage: %.1f requests (%s)\n",
		overage.TotalOverageRequests, models.FormatUSD(overage.TotalOverageCost))
	for _, u := range overage.Users {
		if u.OverageRequests == 0 {
			break
		}
		fmt.Fprintf(b, "%-28s %10.1f over %s quota (%s)\n",
			u.User, u.OverageRequests, u.Quota.String(), models.FormatUSD(u.OverageCost))
	}
}

func writeCostOptimization(b *strings.Builder, opt *analytics.CostOptimizationReport) {
	if opt == nil || (len(opt.StrongCandidates) == 0 && len(opt.ApproachingBreakEven) == 0) {
		return
	}
	section(b, "Cost Optimization")
	for _, c := range opt.StrongCandidates {
		fmt.Fprintf(b, "%-28s upgrade recommended: %.1f over, %s overage vs upgrade\n",
			c.User, c.OverageRequests, models.FormatUSD(c.OverageCost))
	}
	for _, c := range opt.ApproachingBreakEven {
		fmt.Fprintf(b, "%-28s approaching break-even: %.1f over\n", c.User, c.OverageRequests)
	}
	if len(opt.StrongCandidates) > 0 {
		fmt.Fprintf(b, "Overage cost %s vs estimated enterprise cost %s: potential savings %s\n",
			models.FormatUSD(opt.TotalOverageCost),
			models.FormatUSD(opt.EstimatedEnterpriseCost),
			models.FormatUSD(opt.TotalPotentialSavings))
	}
}

func writePowerUsers(b *strings.Builder, power *analytics.PowerUserReport) {
	if power == nil || len(power.TopUsers) == 0 {
		return
	}
	section(b, "Power Users")
	fmt.Fprintf(b, "%d qualified (min %.0f requests)\n", power.QualifiedCount, power.MinRequests)
	for i, u := range power.TopUsers {
		fmt.Fprintf(b, "%2d. %-26s score %5.1f  (div %.1f, feat %.1f, vision %.1f, balance %.1f)\n",
			i+1, u.User, u.TotalScore, u.Diversity, u.SpecialFeatures, u.Vision, u.Balance)
	}
	if power.NotShownCount > 0 {
		fmt.Fprintf(b, "... and %d more qualified users\n", power.NotShownCount)
	}
}

func writeExhaustion(b *strings.Builder, ex *analytics.ExhaustionReport) {
	if ex == nil || ex.TotalUsersExhausted == 0 {
		return
	}
	section(b, "Quota Exhaustion by Week")
	for _, bucket := range ex.Buckets {
		fmt.Fprintf(b, "%-26s %d users: %s\n",
			bucket.Label, bucket.Count, strings.Join(bucket.Users, ", "))
	}
	fmt.Fprintf(b, "Total users exhausted: %d\n", ex.TotalUsersExhausted)
}

func writeAdoption(b *strings.Builder, adoption *analytics.AdoptionReport) {
	if adoption == nil || adoption.IncludedUsers == 0 {
		return
	}
	section(b, "Coding Agent Adoption")
	fmt.Fprintf(b, "%d of %d users (%.1f%%)\n",
		adoption.IncludedUsers, adoption.TotalUsers, adoption.AdoptionRate)
	for _, u := range adoption.Users {
		fmt.Fprintf(b, "%-28s %10.1f agent requests (%.1f%% of their usage)\n",
			u.User, u.CodingAgentRequests, u.Percentage)
	}
}

func writeBilling(b *strings.Builder, billing *models.BillingArtifacts) {
	if billing == nil || !billing.HasAnyBillingData {
		return
	}
	section(b, "Billing")
	fmt.Fprintf(b, "Gross:    %s\n", models.FormatUSD(billing.Totals.Gross))
	fmt.Fprintf(b, "Discount: %s\n", models.FormatUSD(billing.Totals.Discount))
	fmt.Fprintf(b, "Net:      %s\n", models.FormatUSD(billing.Totals.Net))
}

func writeWarnings(b *strings.Builder, warnings []string) {
	if len(warnings) == 0 {
		return
	}
	section(b, "Warnings")
	for _, w := range warnings {
		fmt.Fprintf(b, "- %s\n", w)
	}
}
