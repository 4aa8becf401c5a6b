package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/smallbiznis/quotely/internal/quotation/domain"
	"github.com/smallbiznis/quotely/internal/quotation/format"
)

func quotationsMarkdown(records []domain.Quotation, currency string) string {
	var b strings.Builder
	b.WriteString("| Número | Fecha | Vence | Cliente | Empresa | Estado | Total |\n")
	b.WriteString("|---|---|---|---|---|---|---:|\n")
	for _, q := range records {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s |\n",
			cell(q.Number),
			format.Date(q.Date),
			format.Date(q.ExpirationDate),
			cell(q.Client.Name),
			cell(q.Client.Company),
			format.StatusLabel(q.Status),
			format.Money(q.Total, currency),
		)
	}
	fmt.Fprintf(&b, "\n%d cotizaciones\n", len(records))
	return b.String()
}

func statsMarkdown(stats domain.Stats, currency string) string {
	var b strings.Builder
	b.WriteString("| Indicador | Valor |\n")
	b.WriteString("|---|---:|\n")
	fmt.Fprintf(&b, "| Total | %d |\n", stats.Total)
	fmt.Fprintf(&b, "| %s | %d |\n", format.StatusLabel(domain.StatusDraft), stats.DraftCount)
	fmt.Fprintf(&b, "| %s | %d |\n", format.StatusLabel(domain.StatusSent), stats.SentCount)
	fmt.Fprintf(&b, "| %s | %d |\n", format.StatusLabel(domain.StatusApproved), stats.ApprovedCount)
	fmt.Fprintf(&b, "| %s | %d |\n", format.StatusLabel(domain.StatusRejected), stats.RejectedCount)
	fmt.Fprintf(&b, "| Monto total | %s |\n", format.Money(stats.TotalAmount, currency))
	fmt.Fprintf(&b, "| Monto aprobado | %s |\n", format.Money(stats.ApprovedAmount, currency))
	return b.String()
}

// cell keeps user text from breaking the table layout.
func cell(s string) string {
	s = strings.ReplaceAll(s, "|", "/")
	return strings.Join(strings.Fields(s), " ")
}

// printMarkdown renders md for the terminal unless raw output was requested.
func (e *Env) printMarkdown(md string, raw bool) error {
	if raw {
		_, err := fmt.Fprint(e.Out, md)
		return err
	}

	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
	if err != nil {
		return err
	}
	out, err := r.Render(md)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(e.Out, out)
	return err
}
