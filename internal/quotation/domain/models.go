// Package domain contains the quotation models and contracts.
package domain

import "time"

// Status represents quotation lifecycle states. Any status may move to any other.
type Status string

const (
	StatusDraft    Status = "draft"
	StatusSent     Status = "sent"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Statuses lists every valid status in display order.
var Statuses = []Status{StatusDraft, StatusSent, StatusApproved, StatusRejected}

func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusSent, StatusApproved, StatusRejected:
		return true
	default:
		return false
	}
}

// Client is embedded in exactly one quotation.
type Client struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Company    string `json:"company"`
	Phone      string `json:"phone,omitempty"`
	Address    string `json:"address,omitempty"`
	City       string `json:"city,omitempty"`
	PostalCode string `json:"postalCode,omitempty"`
}

// LineItem is one priced entry. Subtotal is derived from Quantity and UnitPrice.
type LineItem struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
	Subtotal    float64 `json:"subtotal"`
}

// Quotation is a priced proposal sent to a client.
type Quotation struct {
	ID             string     `json:"id"`
	Number         string     `json:"number"`
	Date           time.Time  `json:"date"`
	ExpirationDate time.Time  `json:"expirationDate"`
	Client         Client     `json:"client"`
	Items          []LineItem `json:"items"`
	Subtotal       float64    `json:"subtotal"`
	TaxPercentage  float64    `json:"taxPercentage"`
	Tax            float64    `json:"tax"`
	Total          float64    `json:"total"`
	Status         Status     `json:"status"`
	Notes          string     `json:"notes,omitempty"`
	Terms          string     `json:"terms,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// Clone returns a copy that does not share the items slice.
func (q Quotation) Clone() Quotation {
	out := q
	if q.Items != nil {
		out.Items = make([]LineItem, len(q.Items))
		copy(out.Items, q.Items)
	}
	return out
}

// Stats summarizes a set of quotations.
type Stats struct {
	Total          int     `json:"total"`
	DraftCount     int     `json:"draftCount"`
	SentCount      int     `json:"sentCount"`
	ApprovedCount  int     `json:"approvedCount"`
	RejectedCount  int     `json:"rejectedCount"`
	TotalAmount    float64 `json:"totalAmount"`
	ApprovedAmount float64 `json:"approvedAmount"`
}

// Filter selects quotations. Zero-valued fields impose no constraint.
type Filter struct {
	Status   Status
	Client   string
	DateFrom *time.Time
	DateTo   *time.Time
	Search   string
}
