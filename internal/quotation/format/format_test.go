package format

import (
	"testing"
	"time"

	"github.com/smallbiznis/quotely/internal/quotation/domain"
	"github.com/stretchr/testify/assert"
)

func TestMoney(t *testing.T) {
	tests := []struct {
		name     string
		amount   float64
		currency string
		want     string
	}{
		{name: "grand total", amount: 4165, currency: "COP", want: "$ 4.165"},
		{name: "default currency", amount: 1234567, currency: "", want: "$ 1.234.567"},
		{name: "rounds cents", amount: 999.5, currency: "cop", want: "$ 1.000"},
		{name: "zero", amount: 0, currency: "COP", want: "$ 0"},
		{name: "unknown code falls back", amount: 3500, currency: "XXZ", want: "$ 3.500"},
		{name: "negative", amount: -100, currency: "COP", want: "-$ 100"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Money(tt.amount, tt.currency))
		})
	}
}

func TestMoney_OtherCurrencyKeepsFraction(t *testing.T) {
	assert.Equal(t, "$1,234.50", Money(1234.5, "USD"))
}

func TestDate(t *testing.T) {
	assert.Equal(t, "05/03/2024", Date(time.Date(2024, 3, 5, 23, 0, 0, 0, time.UTC)))
	assert.Equal(t, "", Date(time.Time{}))
}

func TestStatusLabel(t *testing.T) {
	assert.Equal(t, "Borrador", StatusLabel(domain.StatusDraft))
	assert.Equal(t, "Enviada", StatusLabel(domain.StatusSent))
	assert.Equal(t, "Aprobada", StatusLabel(domain.StatusApproved))
	assert.Equal(t, "Rechazada", StatusLabel(domain.StatusRejected))
	assert.Equal(t, "Desconocido", StatusLabel(domain.Status("archived")))
}

func TestPercentage(t *testing.T) {
	assert.Equal(t, "19", Percentage(19))
	assert.Equal(t, "12.5", Percentage(12.5))
}
