// Package query filters and summarizes quotation collections.
package query

import (
	"strings"

	"github.com/smallbiznis/quotely/internal/quotation/domain"
)

// Filter returns the records matching every criterion in f, in input order.
func Filter(records []domain.Quotation, f domain.Filter) []domain.Quotation {
	client := strings.ToLower(f.Client)
	search := strings.ToLower(f.Search)

	out := make([]domain.Quotation, 0, len(records))
	for _, q := range records {
		if f.Status != "" && q.Status != f.Status {
			continue
		}
		if client != "" &&
			!strings.Contains(strings.ToLower(q.Client.Name), client) &&
			!strings.Contains(strings.ToLower(q.Client.Company), client) {
			continue
		}
		if f.DateFrom != nil && q.Date.Before(*f.DateFrom) {
			continue
		}
		if f.DateTo != nil && q.Date.After(*f.DateTo) {
			continue
		}
		if search != "" && !strings.Contains(searchText(q), search) {
			continue
		}
		out = append(out, q)
	}
	return out
}

func searchText(q domain.Quotation) string {
	parts := make([]string, 0, 3+len(q.Items))
	parts = append(parts, q.Number, q.Client.Name, q.Client.Company)
	for _, item := range q.Items {
		parts = append(parts, item.Description)
	}
	return strings.ToLower(strings.Join(parts, " "))
}

// Aggregate counts records per status and sums their totals.
func Aggregate(records []domain.Quotation) domain.Stats {
	stats := domain.Stats{Total: len(records)}
	for _, q := range records {
		stats.TotalAmount += q.Total
		switch q.Status {
		case domain.StatusDraft:
			stats.DraftCount++
		case domain.StatusSent:
			stats.SentCount++
		case domain.StatusApproved:
			stats.ApprovedCount++
			stats.ApprovedAmount += q.Total
		case domain.StatusRejected:
			stats.RejectedCount++
		}
	}
	return stats
}
