// Package format renders quotation values for people: money in Colombian
// peso style, day-first dates and Spanish status labels.
package format

import (
	"strings"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/quotely/internal/quotation/domain"
)

const (
	DefaultCurrency = "COP"
	DateLayout      = "02/01/2006"
)

// Money formats amount in currency. COP is shown without cents using
// "." for thousands, like "$ 4.165". Unknown codes fall back to COP.
func Money(amount float64, currency string) string {
	cur := money.GetCurrency(strings.ToUpper(strings.TrimSpace(currency)))
	if cur == nil {
		cur = money.GetCurrency(DefaultCurrency)
	}

	formatter := cur.Formatter()
	if cur.Code == DefaultCurrency {
		formatter = money.NewFormatter(0, ",", ".", cur.Grapheme, "$ 1")
	}

	minor := decimal.NewFromFloat(amount).Shift(int32(formatter.Fraction)).Round(0)
	return formatter.Format(minor.IntPart())
}

// Date renders t as dd/MM/yyyy. The zero time renders empty.
func Date(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

// StatusLabel returns the display label for status.
func StatusLabel(status domain.Status) string {
	switch status {
	case domain.StatusDraft:
		return "Borrador"
	case domain.StatusSent:
		return "Enviada"
	case domain.StatusApproved:
		return "Aprobada"
	case domain.StatusRejected:
		return "Rechazada"
	default:
		return "Desconocido"
	}
}

// Percentage renders a tax rate without trailing zeros, e.g. "19" or "12.5".
func Percentage(p float64) string {
	return decimal.NewFromFloat(p).String()
}
