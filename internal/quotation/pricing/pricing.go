// Package pricing computes line-item and quotation totals.
//
// All arithmetic is float64 with no rounding. Negative quantities or prices
// are not rejected; they flow through the sums unchanged.
package pricing

import "github.com/smallbiznis/quotely/internal/quotation/domain"

// DefaultTaxPercentage applies when a quotation does not specify one.
const DefaultTaxPercentage = 19.0

type Totals struct {
	Subtotal float64 `json:"subtotal"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`
}

func LineSubtotal(item domain.LineItem) float64 {
	return float64(item.Quantity) * item.UnitPrice
}

// RecomputeItems returns a copy of items with every subtotal derived from quantity and unit price.
func RecomputeItems(items []domain.LineItem) []domain.LineItem {
	out := make([]domain.LineItem, len(items))
	for i, item := range items {
		item.Subtotal = LineSubtotal(item)
		out[i] = item
	}
	return out
}

// ComputeTotals ignores stored item subtotals and recomputes them first.
func ComputeTotals(items []domain.LineItem, taxPercentage float64) Totals {
	var subtotal float64
	for _, item := range items {
		subtotal += LineSubtotal(item)
	}
	tax := subtotal * taxPercentage / 100
	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal + tax,
	}
}

// Apply refreshes item subtotals and the quotation totals in place.
func Apply(q *domain.Quotation) {
	if q == nil {
		return
	}
	q.Items = RecomputeItems(q.Items)
	totals := ComputeTotals(q.Items, q.TaxPercentage)
	q.Subtotal = totals.Subtotal
	q.Tax = totals.Tax
	q.Total = totals.Total
}
