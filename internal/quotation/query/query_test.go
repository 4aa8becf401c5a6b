package query

import (
	"testing"
	"time"

	"github.com/smallbiznis/quotely/internal/quotation/domain"
	"github.com/stretchr/testify/assert"
)

func day(d int) time.Time {
	return time.Date(2026, time.March, d, 10, 0, 0, 0, time.UTC)
}

func fixtures() []domain.Quotation {
	return []domain.Quotation{
		{
			ID: "1", Number: "COT-0001", Date: day(1), Status: domain.StatusApproved, Total: 1190,
			Client: domain.Client{Name: "Ana Gómez", Company: "ACME S.A.S."},
			Items:  []domain.LineItem{{Description: "Diseño web"}},
		},
		{
			ID: "2", Number: "COT-0002", Date: day(5), Status: domain.StatusDraft, Total: 500,
			Client: domain.Client{Name: "Luis Pérez", Company: "Globex"},
			Items:  []domain.LineItem{{Description: "Hosting acme plan"}},
		},
		{
			ID: "3", Number: "COT-0003", Date: day(10), Status: domain.StatusApproved, Total: 2380,
			Client: domain.Client{Name: "Marta Ruiz", Company: "Initech"},
			Items:  []domain.LineItem{{Description: "Licencias"}, {Description: "Instalación"}},
		},
		{
			ID: "4", Number: "COT-0004", Date: day(15), Status: domain.StatusSent, Total: 100,
			Client: domain.Client{Name: "Pedro Acme", Company: "Umbrella"},
		},
		{
			ID: "5", Number: "COT-0005", Date: day(20), Status: domain.StatusRejected, Total: 50,
			Client: domain.Client{Name: "Sara Lima", Company: "Hooli"},
		},
	}
}

func ids(records []domain.Quotation) []string {
	out := make([]string, 0, len(records))
	for _, q := range records {
		out = append(out, q.ID)
	}
	return out
}

func ptr(t time.Time) *time.Time { return &t }

func TestFilter(t *testing.T) {
	tests := []struct {
		name   string
		filter domain.Filter
		want   []string
	}{
		{name: "no criteria", filter: domain.Filter{}, want: []string{"1", "2", "3", "4", "5"}},
		{name: "status", filter: domain.Filter{Status: domain.StatusApproved}, want: []string{"1", "3"}},
		{name: "client matches name", filter: domain.Filter{Client: "MARTA"}, want: []string{"3"}},
		{name: "client matches company", filter: domain.Filter{Client: "acme"}, want: []string{"1", "4"}},
		{name: "date lower bound inclusive", filter: domain.Filter{DateFrom: ptr(day(10))}, want: []string{"3", "4", "5"}},
		{name: "date upper bound inclusive", filter: domain.Filter{DateTo: ptr(day(5))}, want: []string{"1", "2"}},
		{name: "date range", filter: domain.Filter{DateFrom: ptr(day(2)), DateTo: ptr(day(15))}, want: []string{"2", "3", "4"}},
		{name: "search number", filter: domain.Filter{Search: "cot-0005"}, want: []string{"5"}},
		{name: "search item description", filter: domain.Filter{Search: "INSTALACIÓN"}, want: []string{"3"}},
		{name: "search spans fields", filter: domain.Filter{Search: "acme"}, want: []string{"1", "2", "4"}},
		{
			name:   "status and search are AND-combined",
			filter: domain.Filter{Status: domain.StatusApproved, Search: "acme"},
			want:   []string{"1"},
		},
		{name: "nothing matches", filter: domain.Filter{Client: "nobody"}, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Filter(fixtures(), tt.filter)))
		})
	}
}

func TestAggregate(t *testing.T) {
	got := Aggregate(fixtures())

	assert.Equal(t, domain.Stats{
		Total:          5,
		DraftCount:     1,
		SentCount:      1,
		ApprovedCount:  2,
		RejectedCount:  1,
		TotalAmount:    4220,
		ApprovedAmount: 3570,
	}, got)
}

func TestAggregate_OrderIndependent(t *testing.T) {
	records := fixtures()
	reversed := make([]domain.Quotation, len(records))
	for i, q := range records {
		reversed[len(records)-1-i] = q
	}

	assert.Equal(t, Aggregate(records), Aggregate(reversed))
}

func TestAggregate_Empty(t *testing.T) {
	assert.Equal(t, domain.Stats{}, Aggregate(nil))
}
