package ingest

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/mhersi/copilot-premium-tui/internal/models"
)

// Normalize validates one raw record and converts it into a NormalizedRow.
// It returns (nil, "") for structurally incompatible rows (missing required
// columns — typically a wrong CSV format) and (nil, warning) for rows that
// carry an unparseable quantity. It never fails the run: every failure
// path either drops the row or degrades a single optional field.
func Normalize(rec Record) (*models.NormalizedRow, string) {
	date, hasDate := rec["date"]
	user, hasUser := rec["username"]
	model, hasModel := rec["model"]
	rawQty, hasQty := rec["quantity"]

	if !hasDate || !hasUser || !hasModel || !hasQty ||
		date == "" || user == "" || model == "" {
		return nil, ""
	}

	qty, err := strconv.ParseFloat(strings.TrimSpace(rawQty), 64)
	if err != nil || math.IsNaN(qty) || math.IsInf(qty, 0) || qty < 0 {
		return nil, fmt.Sprintf("Invalid quantity for user=%s date=%s", user, date)
	}

	row := &models.NormalizedRow{
		Date:         date,
		Day:          dayOf(date),
		User:         user,
		Model:        model,
		Quantity:     qty,
		ExceedsQuota: parseExceedsQuota(rec["exceeds_quota"]),
	}

	if rawQuota, ok := rec["total_monthly_quota"]; ok {
		q := models.ParseQuotaValue(rawQuota)
		row.Quota = &q
	}

	row.Product = rec["product"]
	row.SKU = rec["sku"]
	row.Organization = rec["organization"]
	row.CostCenter = rec["cost_center_name"]
	row.CostPerQuantity = parseOptionalFloat(rec["applied_cost_per_quantity"])
	row.GrossAmount = parseOptionalFloat(rec["gross_amount"])
	row.DiscountAmount = parseOptionalFloat(rec["discount_amount"])
	row.NetAmount = parseOptionalFloat(rec["net_amount"])

	return row, ""
}

// dayOf slices the YYYY-MM-DD prefix from an ISO-like date string. No
// timezone conversion happens anywhere in the pipeline; the export is UTC.
func dayOf(date string) string {
	if len(date) > 10 {
		return date[:10]
	}
	return date
}

// parseExceedsQuota accepts only the exact string "true" after trimming.
func parseExceedsQuota(raw string) bool {
	return strings.TrimSpace(raw) == "true"
}

// parseOptionalFloat coerces an optional numeric column. Empty or
// unparseable values yield nil, never a false zero.
func parseOptionalFloat(raw string) *float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}
