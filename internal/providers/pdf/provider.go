package pdf

import (
	"context"
	"io"

	"go.uber.org/fx"
)

var Module = fx.Module("pdf.provider",
	fx.Provide(New),
)

// Provider renders documents to PDF bytes.
type Provider interface {
	GenerateQuotation(ctx context.Context, data QuotationData) (io.Reader, error)
}

type NoOpProvider struct{}

func (p *NoOpProvider) GenerateQuotation(context.Context, QuotationData) (io.Reader, error) {
	return nil, nil
}
