package analytics

import (
	"math"
	"sort"
	"strings"

	"github.com/mhersi/copilot-premium-tui/internal/models"
)

// ModelCategory classifies a model by its typical request weight.
type ModelCategory int

const (
	// CategoryLight covers the base models included with every plan.
	CategoryLight ModelCategory = iota
	// CategoryMedium covers everything not light, heavy or special.
	CategoryMedium
	// CategoryHeavy covers the high-multiplier frontier models.
	CategoryHeavy
	// CategorySpecial covers feature pseudo-models (code review, coding
	// agent, spark); they never count toward diversity or weight buckets.
	CategorySpecial
)

// Keyword lists for model categorization, matched case-insensitively as
// substrings. Treated as configuration data alongside models.FeatureRules.
var (
	lightModelKeywords = []string{"gpt-4o", "gpt-4.1", "mini"}
	heavyModelKeywords = []string{"opus", "gpt-4.5", "o1", "o3"}
)

// visionMarker tags multimodal variants in the model column.
const visionMarker = "-vision"

// CategorizeModel assigns a model name to its weight category. Special
// wins over everything, then heavy, then light; the rest is medium.
func CategorizeModel(model string) ModelCategory {
	lower := strings.ToLower(model)
	if len(models.MatchFeatures(model)) > 0 {
		return CategorySpecial
	}
	for _, kw := range heavyModelKeywords {
		if strings.Contains(lower, kw) {
			return CategoryHeavy
		}
	}
	for _, kw := range lightModelKeywords {
		if strings.Contains(lower, kw) {
			return CategoryLight
		}
	}
	return CategoryMedium
}

// Sub-score caps. They sum to 100.
const (
	diversityScoreMax = 30
	specialScoreMax   = 20
	visionScoreMax    = 15
	balanceScoreMax   = 35
)

// UserScore is one user's composite power score with its components.
type UserScore struct {
	User          string
	TotalRequests float64

	Diversity       float64 // 0..30, linear in unique non-special models / 4
	SpecialFeatures float64 // 0..20, fixed points per feature type touched
	Vision          float64 // 0..15, linear in vision request share up to 20%
	Balance         float64 // 0..35, peaks at 20-40% heavy share

	TotalScore float64 // sum of the four, 0..100
}

// PowerUserOptions configures qualification and display.
type PowerUserOptions struct {
	MinRequests float64 // qualification threshold (default 20)
	TopN        int     // displayed cap (default 20)
}

// DefaultPowerUserOptions returns the reference configuration.
func DefaultPowerUserOptions() PowerUserOptions {
	return PowerUserOptions{MinRequests: 20, TopN: 20}
}

// PowerUserReport ranks qualified users by composite score.
type PowerUserReport struct {
	TopUsers       []UserScore
	QualifiedCount int // users meeting the request threshold
	NotShownCount  int // qualified but beyond the display cap
	MinRequests    float64
}

// ComputePowerUsers scores every qualified user and returns the top-N
// ranking, descending by total score.
func ComputePowerUsers(usage *models.UsageArtifacts, opts PowerUserOptions) *PowerUserReport {
	if opts.MinRequests <= 0 {
		opts.MinRequests = DefaultPowerUserOptions().MinRequests
	}
	if opts.TopN <= 0 {
		opts.TopN = DefaultPowerUserOptions().TopN
	}

	report := &PowerUserReport{MinRequests: opts.MinRequests}
	if usage == nil {
		return report
	}

	var scores []UserScore
	for _, u := range usage.Users {
		if u.TotalRequests < opts.MinRequests {
			continue
		}
		scores = append(scores, ScoreUser(u))
	}

	sort.Slice(scores, func(i, j int) bool {
		a, b := scores[i], scores[j]
		if a.TotalScore != b.TotalScore {
			return a.TotalScore > b.TotalScore
		}
		if a.TotalRequests != b.TotalRequests {
			return a.TotalRequests > b.TotalRequests
		}
		return a.User < b.User
	})

	report.QualifiedCount = len(scores)
	if len(scores) > opts.TopN {
		report.NotShownCount = len(scores) - opts.TopN
		scores = scores[:opts.TopN]
	}
	report.TopUsers = scores
	return report
}

// ScoreUser computes the composite 0-100 score from one user's model
// breakdown and total. Pure; safe on a zero-request aggregate.
func ScoreUser(u models.UserAggregate) UserScore {
	uniqueNonSpecial := 0
	var visionRequests, heavyRequests float64
	modelNames := make([]string, 0, len(u.ModelBreakdown))

	for model, qty := range u.ModelBreakdown {
		modelNames = append(modelNames, model)
		category := CategorizeModel(model)
		if category != CategorySpecial {
			uniqueNonSpecial++
		}
		if category == CategoryHeavy {
			heavyRequests += qty
		}
		if strings.Contains(strings.ToLower(model), visionMarker) {
			visionRequests += qty
		}
	}

	score := UserScore{
		User:            u.User,
		TotalRequests:   u.TotalRequests,
		Diversity:       round2(math.Min(float64(uniqueNonSpecial)/4, 1) * diversityScoreMax),
		SpecialFeatures: CalculateSpecialFeaturesScore(modelNames),
	}

	if u.TotalRequests > 0 {
		visionFrac := visionRequests / u.TotalRequests
		score.Vision = round2(math.Min(visionFrac/0.20, 1) * visionScoreMax)
		score.Balance = round2(balanceScore(heavyRequests / u.TotalRequests))
	}

	score.TotalScore = round2(score.Diversity + score.SpecialFeatures + score.Vision + score.Balance)
	return score
}

// CalculateSpecialFeaturesScore awards fixed points per feature type
// present at least once among the model names (code review 8, coding
// agent 8 — counted once even when both its names appear — spark 4),
// capped at 20. Independent of usage volume.
func CalculateSpecialFeaturesScore(modelNames []string) float64 {
	touched := make(map[models.FeatureID]bool)
	for _, name := range modelNames {
		for _, id := range models.MatchFeatures(name) {
			touched[id] = true
		}
	}

	total := 0.0
	for _, rule := range models.FeatureRules {
		if touched[rule.ID] {
			total += rule.Score
		}
	}
	if total > specialScoreMax {
		total = specialScoreMax
	}
	return round2(total)
}

// balanceScore maps the heavy-model request share onto 0..35: zero below
// 10% and from 60% up, ramping linearly to the 35-point plateau that
// spans 20% through 40%.
func balanceScore(heavyFrac float64) float64 {
	switch {
	case heavyFrac < 0.10:
		return 0
	case heavyFrac < 0.20:
		return (heavyFrac - 0.10) / 0.10 * balanceScoreMax
	case heavyFrac <= 0.40:
		return balanceScoreMax
	case heavyFrac < 0.60:
		return (0.60 - heavyFrac) / 0.20 * balanceScoreMax
	default:
		return 0
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
