// Package models defines data structures and domain types.
package models

import (
	"fmt"
	"strconv"
	"strings"
)

// QuotaValue represents a user's monthly premium-request allotment: either
// a numeric limit or the "unlimited" sentinel. Use NumericQuota or
// Unlimited to construct values.
type QuotaValue struct {
	Requests  float64
	Unlimited bool
}

// NumericQuota returns a numeric quota value.
func NumericQuota(requests float64) QuotaValue {
	return QuotaValue{Requests: requests}
}

// Unlimited returns the unlimited quota sentinel.
func Unlimited() QuotaValue {
	return QuotaValue{Unlimited: true}
}

// Equal reports whether two quota values are the same.
func (q QuotaValue) Equal(other QuotaValue) bool {
	if q.Unlimited || other.Unlimited {
		return q.Unlimited == other.Unlimited
	}
	return q.Requests == other.Requests
}

// String returns the display form of the quota value.
func (q QuotaValue) String() string {
	if q.Unlimited {
		return "unlimited"
	}
	return strconv.FormatFloat(q.Requests, 'f', -1, 64)
}

// ParseQuotaValue parses a raw quota column value. The input is trimmed and
// case-folded; "unlimited" maps to the sentinel, anything that parses as an
// integer maps to a numeric quota. An unparseable value also falls back to
// unlimited — malformed quota data and explicit unlimited plans are
// indistinguishable in the exports, and downstream consumers depend on
// that fallback.
func ParseQuotaValue(raw string) QuotaValue {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "unlimited" {
		return Unlimited()
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return Unlimited()
	}
	return NumericQuota(float64(n))
}

// Pricing holds the plan constants shared by aggregation and analytics for
// one ingestion run.
type Pricing struct {
	BusinessQuota          float64 // monthly premium requests on Business
	EnterpriseQuota        float64 // monthly premium requests on Enterprise
	OverageRatePerRequest  float64 // USD charged per request over quota
	EnterpriseUpgradeDelta float64 // USD/month extra for Business -> Enterprise
}

// DefaultPricing returns the published Copilot plan constants.
func DefaultPricing() Pricing {
	return Pricing{
		BusinessQuota:          300,
		EnterpriseQuota:        1000,
		OverageRatePerRequest:  0.04,
		EnterpriseUpgradeDelta: 20,
	}
}

// FormatUSD renders a dollar amount for display.
func FormatUSD(amount float64) string {
	return fmt.Sprintf("$%.2f", amount)
}
