package pdf

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/smallbiznis/quotely/internal/quotation/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() domain.Quotation {
	date := time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)
	return domain.Quotation{
		ID:             "1",
		Number:         "COT-0012",
		Date:           date,
		ExpirationDate: date.AddDate(0, 0, 30),
		Client: domain.Client{
			Name:       "Ana Pérez",
			Email:      "ana@example.com",
			Company:    "Muebles SAS",
			Address:    "Calle 1 # 2-3",
			City:       "Bogotá",
			PostalCode: "110111",
		},
		Items: []domain.LineItem{
			{ID: "a", Description: "Silla", Quantity: 3, UnitPrice: 1000, Subtotal: 3000},
			{ID: "b", Description: "Mesa", Quantity: 1, UnitPrice: 500, Subtotal: 500},
		},
		Subtotal:      3500,
		TaxPercentage: 19,
		Tax:           665,
		Total:         4165,
		Status:        domain.StatusSent,
		Terms:         "Pago contra entrega.",
	}
}

func TestNewQuotationData(t *testing.T) {
	data := NewQuotationData(sample(), "COP")

	assert.Equal(t, "COT-0012", data.Number)
	assert.Equal(t, "02/05/2024", data.IssueDate)
	assert.Equal(t, "01/06/2024", data.ExpirationDate)
	assert.Equal(t, "Enviada", data.Status)
	assert.Equal(t, "Calle 1 # 2-3, Bogotá 110111", data.ClientAddress)
	require.Len(t, data.Items, 2)
	assert.Equal(t, "$ 3.000", data.Items[0].Amount)
	assert.Equal(t, "$ 3.500", data.Subtotal)
	assert.Equal(t, "IVA (19%)", data.TaxLabel)
	assert.Equal(t, "$ 665", data.Tax)
	assert.Equal(t, "$ 4.165", data.Total)
}

func TestGenerateQuotation_ProducesPDF(t *testing.T) {
	provider := New()

	r, err := provider.GenerateQuotation(context.Background(), NewQuotationData(sample(), "COP"))
	require.NoError(t, err)

	content, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(content, []byte("%PDF")))
}

func TestGenerateQuotation_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().GenerateQuotation(ctx, QuotationData{})
	assert.ErrorIs(t, err, context.Canceled)
}
