package domain

import "context"

// Repository persists the whole quotation collection.
type Repository interface {
	List(ctx context.Context) ([]Quotation, error)
	FindByID(ctx context.Context, id string) (*Quotation, error)
	Save(ctx context.Context, quotation *Quotation) error
	Delete(ctx context.Context, id string) error
}
