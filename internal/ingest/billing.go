package ingest

import (
	"github.com/cockroachdb/apd/v3"

	"github.com/mhersi/copilot-premium-tui/internal/models"
)

// billingPrecision is plenty for dollar sums over any realistic export.
var billingCtx = apd.BaseContext.WithPrecision(34)

// BillingAggregator sums the billing columns that are explicitly present
// on rows. Amounts are accumulated as exact decimals so cent-level values
// do not drift across hundreds of thousands of rows; the finalized
// artifact exposes float64. Billing amounts are never derived from
// quantity and rate — only what the export states is summed.
//
// Quantity is incremented for every row regardless of billing columns, so
// the artifact reports per-user request volume even for exports with no
// billing data at all.
type BillingAggregator struct {
	totals  billingSums
	users   map[string]*billingUserState
	order   []string
	hasData bool
}

type billingSums struct {
	gross    apd.Decimal
	discount apd.Decimal
	net      apd.Decimal
}

type billingUserState struct {
	quantity    float64
	gross       apd.Decimal
	discount    apd.Decimal
	net         apd.Decimal
	hasGross    bool
	hasDiscount bool
	hasNet      bool
}

// NewBillingAggregator returns an uninitialized billing aggregator.
func NewBillingAggregator() *BillingAggregator {
	return &BillingAggregator{}
}

// ID implements Aggregator.
func (a *BillingAggregator) ID() string { return "billing" }

// Init implements Aggregator.
func (a *BillingAggregator) Init(_ *RunContext) {
	a.totals = billingSums{}
	a.users = make(map[string]*billingUserState)
	a.order = a.order[:0]
	a.hasData = false
}

// OnRow implements Aggregator.
func (a *BillingAggregator) OnRow(row *models.NormalizedRow) error {
	state, ok := a.users[row.User]
	if !ok {
		state = &billingUserState{}
		a.users[row.User] = state
		a.order = append(a.order, row.User)
	}

	state.quantity += row.Quantity

	if row.GrossAmount != nil {
		addFloat(&a.totals.gross, *row.GrossAmount)
		addFloat(&state.gross, *row.GrossAmount)
		state.hasGross = true
		a.hasData = true
	}
	if row.DiscountAmount != nil {
		addFloat(&a.totals.discount, *row.DiscountAmount)
		addFloat(&state.discount, *row.DiscountAmount)
		state.hasDiscount = true
		a.hasData = true
	}
	if row.NetAmount != nil {
		addFloat(&a.totals.net, *row.NetAmount)
		addFloat(&state.net, *row.NetAmount)
		state.hasNet = true
		a.hasData = true
	}
	return nil
}

// Finalize implements Aggregator.
func (a *BillingAggregator) Finalize() (any, error) {
	users := make([]models.BillingUserTotals, 0, len(a.order))
	for _, name := range a.order {
		state := a.users[name]
		entry := models.BillingUserTotals{User: name, Quantity: state.quantity}
		if state.hasGross {
			entry.Gross = decimalPtr(&state.gross)
		}
		if state.hasDiscount {
			entry.Discount = decimalPtr(&state.discount)
		}
		if state.hasNet {
			entry.Net = decimalPtr(&state.net)
		}
		users = append(users, entry)
	}

	return &models.BillingArtifacts{
		Totals: models.BillingTotals{
			Gross:    decimalFloat(&a.totals.gross),
			Discount: decimalFloat(&a.totals.discount),
			Net:      decimalFloat(&a.totals.net),
		},
		Users:             users,
		HasAnyBillingData: a.hasData,
	}, nil
}

func addFloat(sum *apd.Decimal, amount float64) {
	var d apd.Decimal
	if _, err := d.SetFloat64(amount); err != nil {
		return
	}
	_, _ = billingCtx.Add(sum, sum, &d)
}

func decimalFloat(d *apd.Decimal) float64 {
	f, err := d.Float64()
	if err != nil {
		return 0
	}
	return f
}

func decimalPtr(d *apd.Decimal) *float64 {
	f := decimalFloat(d)
	return &f
}
