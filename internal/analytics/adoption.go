package analytics

import (
	"sort"

	"github.com/mhersi/copilot-premium-tui/internal/models"
)

// UserAdoption is one user's coding-agent usage. Only users who used the
// coding agent at all appear in the report; a non-user is excluded rather
// than reported at 0%.
type UserAdoption struct {
	User                string
	Models              []string // their models matching the coding-agent group
	CodingAgentRequests float64
	TotalRequests       float64
	Percentage          float64 // coding-agent share of the user's requests
}

// AdoptionReport summarizes coding-agent adoption across the export.
type AdoptionReport struct {
	Users         []UserAdoption
	IncludedUsers int
	TotalUsers    int // global unique-user count from usage artifacts
	// AdoptionRate is included / total users, as a percentage of the
	// global user count.
	AdoptionRate float64
}

// ComputeCodingAgentAdoption scans each user's model breakdown for the
// coding-agent keyword group (which includes the legacy "padawan" name).
func ComputeCodingAgentAdoption(usage *models.UsageArtifacts) *AdoptionReport {
	report := &AdoptionReport{}
	if usage == nil {
		return report
	}
	report.TotalUsers = usage.UserCount

	for _, u := range usage.Users {
		var agentModels []string
		var agentRequests float64
		for model, qty := range u.ModelBreakdown {
			if models.MatchesFeature(model, models.FeatureCodingAgent) {
				agentModels = append(agentModels, model)
				agentRequests += qty
			}
		}
		if len(agentModels) == 0 {
			continue
		}
		sort.Strings(agentModels)

		entry := UserAdoption{
			User:                u.User,
			Models:              agentModels,
			CodingAgentRequests: agentRequests,
			TotalRequests:       u.TotalRequests,
		}
		if u.TotalRequests > 0 {
			entry.Percentage = agentRequests / u.TotalRequests * 100
		}
		report.Users = append(report.Users, entry)
	}

	sort.Slice(report.Users, func(i, j int) bool {
		a, b := report.Users[i], report.Users[j]
		if a.CodingAgentRequests != b.CodingAgentRequests {
			return a.CodingAgentRequests > b.CodingAgentRequests
		}
		return a.User < b.User
	})

	report.IncludedUsers = len(report.Users)
	if report.TotalUsers > 0 {
		report.AdoptionRate = float64(report.IncludedUsers) / float64(report.TotalUsers) * 100
	}
	return report
}
