package domain

import (
	"context"
	"errors"
	"time"
)

type ListRequest struct {
	Filter Filter
}

// SaveRequest carries the caller-editable fields of a quotation.
// Nil pointers and zero values mean "use the default".
type SaveRequest struct {
	ID             string
	Number         string
	Date           *time.Time
	ExpirationDate *time.Time
	Client         Client
	Items          []LineItem
	TaxPercentage  *float64
	Status         Status
	Notes          string
	Terms          *string
	CreatedAt      *time.Time
}

// Document is a rendered export of a quotation.
type Document struct {
	Filename    string
	ContentType string
	Content     []byte
}

type Service interface {
	List(context.Context, ListRequest) ([]Quotation, error)
	Get(ctx context.Context, id string) (Quotation, error)
	Create(context.Context, SaveRequest) (Quotation, error)
	Update(ctx context.Context, id string, req SaveRequest) (Quotation, error)
	Delete(ctx context.Context, id string) error
	Stats(context.Context, Filter) (Stats, error)
	NextNumber(context.Context) (string, error)
	RenderPDF(ctx context.Context, id string) (Document, error)
}

var (
	ErrInvalidID          = errors.New("invalid_id")
	ErrInvalidClientName  = errors.New("invalid_client_name")
	ErrInvalidClientEmail = errors.New("invalid_client_email")
	ErrEmptyItems         = errors.New("invalid_items")
	ErrInvalidStatus      = errors.New("invalid_status")
	ErrNotFound           = errors.New("not_found")
)

// IsValidationError reports whether err is a caller input error.
func IsValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidID),
		errors.Is(err, ErrInvalidClientName),
		errors.Is(err, ErrInvalidClientEmail),
		errors.Is(err, ErrEmptyItems),
		errors.Is(err, ErrInvalidStatus):
		return true
	default:
		return false
	}
}
