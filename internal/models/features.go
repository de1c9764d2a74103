// Package models defines data structures and domain types.
package models

import "strings"

// FeatureID identifies a premium Copilot feature surfaced through the
// model column of the export.
type FeatureID string

const (
	// FeatureCodeReview is the Copilot code review feature.
	FeatureCodeReview FeatureID = "codeReview"
	// FeatureCodingAgent is the Copilot coding agent (shipped earlier
	// under the "Padawan" codename, which still appears in old exports).
	FeatureCodingAgent FeatureID = "codingAgent"
	// FeatureSpark is Copilot Spark.
	FeatureSpark FeatureID = "spark"
)

// FeatureRule maps a group of model-name keywords to a feature and the
// points that feature contributes to the power-user special score. Both
// keywords of a group identify the same feature, so a user matching
// several keywords of one group is scored once.
type FeatureRule struct {
	ID       FeatureID
	Keywords []string
	Score    float64
}

// FeatureRules is the keyword lookup table, ordered for deterministic
// iteration. Matching is case-insensitive substring containment.
var FeatureRules = []FeatureRule{
	{ID: FeatureCodeReview, Keywords: []string{"code review"}, Score: 8},
	{ID: FeatureCodingAgent, Keywords: []string{"coding agent", "padawan"}, Score: 8},
	{ID: FeatureSpark, Keywords: []string{"spark"}, Score: 4},
}

// MatchFeatures returns the features whose keyword group matches the model
// name. A single model name can match more than one group.
func MatchFeatures(model string) []FeatureID {
	lower := strings.ToLower(model)
	var matched []FeatureID
	for _, rule := range FeatureRules {
		for _, kw := range rule.Keywords {
			if strings.Contains(lower, kw) {
				matched = append(matched, rule.ID)
				break
			}
		}
	}
	return matched
}

// MatchesFeature reports whether the model name belongs to the given
// feature's keyword group.
func MatchesFeature(model string, id FeatureID) bool {
	for _, got := range MatchFeatures(model) {
		if got == id {
			return true
		}
	}
	return false
}
