package pdf

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/smallbiznis/quotely/internal/quotation/domain"
	"github.com/smallbiznis/quotely/internal/quotation/format"
)

// QuotationData is a quotation with every value already formatted for print.
type QuotationData struct {
	Number         string
	IssueDate      string
	ExpirationDate string
	Status         string

	ClientName    string
	ClientCompany string
	ClientEmail   string
	ClientPhone   string
	ClientAddress string

	Items []QuotationItem

	Subtotal string
	TaxLabel string
	Tax      string
	Total    string

	Notes string
	Terms string
}

type QuotationItem struct {
	Description string
	Qty         int
	UnitPrice   string
	Amount      string
}

// NewQuotationData formats q for print using currency for every amount.
func NewQuotationData(q domain.Quotation, currency string) QuotationData {
	address := q.Client.Address
	if q.Client.City != "" {
		if address != "" {
			address += ", "
		}
		address += q.Client.City
	}
	if q.Client.PostalCode != "" {
		address += " " + q.Client.PostalCode
	}

	items := make([]QuotationItem, 0, len(q.Items))
	for _, item := range q.Items {
		items = append(items, QuotationItem{
			Description: item.Description,
			Qty:         item.Quantity,
			UnitPrice:   format.Money(item.UnitPrice, currency),
			Amount:      format.Money(item.Subtotal, currency),
		})
	}

	return QuotationData{
		Number:         q.Number,
		IssueDate:      format.Date(q.Date),
		ExpirationDate: format.Date(q.ExpirationDate),
		Status:         format.StatusLabel(q.Status),
		ClientName:     q.Client.Name,
		ClientCompany:  q.Client.Company,
		ClientEmail:    q.Client.Email,
		ClientPhone:    q.Client.Phone,
		ClientAddress:  address,
		Items:          items,
		Subtotal:       format.Money(q.Subtotal, currency),
		TaxLabel:       fmt.Sprintf("IVA (%s%%)", format.Percentage(q.TaxPercentage)),
		Tax:            format.Money(q.Tax, currency),
		Total:          format.Money(q.Total, currency),
		Notes:          q.Notes,
		Terms:          q.Terms,
	}
}

type PDFProvider struct{}

func New() Provider {
	return &PDFProvider{}
}

func (p *PDFProvider) GenerateQuotation(ctx context.Context, data QuotationData) (io.Reader, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Página {current} de {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	m.AddRow(14,
		text.NewCol(8, "Cotización", props.Text{
			Size:  20,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
		text.NewCol(4, data.Number, props.Text{
			Size:  14,
			Style: fontstyle.Bold,
			Align: align.Right,
			Top:   3,
		}),
	)

	m.AddRow(18,
		col.New(6).Add(
			text.New("Fecha: "+data.IssueDate, props.Text{Top: 0}),
			text.New("Válida hasta: "+data.ExpirationDate, props.Text{Top: 5}),
			text.New("Estado: "+data.Status, props.Text{Top: 10}),
		),
		col.New(6),
	)

	m.AddRow(30,
		col.New(12).Add(
			text.New("Cliente", props.Text{Style: fontstyle.Bold}),
			text.New(data.ClientName, props.Text{Top: 5}),
			text.New(data.ClientCompany, props.Text{Top: 10}),
			text.New(data.ClientEmail, props.Text{Top: 15}),
			text.New(data.ClientPhone, props.Text{Top: 20}),
			text.New(data.ClientAddress, props.Text{Top: 25}),
		),
	)

	m.AddRow(10,
		text.NewCol(6, "Descripción", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(2, "Cantidad", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Precio unitario", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Subtotal", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)

	for _, item := range data.Items {
		m.AddRow(10,
			text.NewCol(6, item.Description, props.Text{Size: 9}),
			text.NewCol(2, fmt.Sprintf("%d", item.Qty), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, item.UnitPrice, props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, item.Amount, props.Text{Size: 9, Align: align.Right}),
		)
	}

	m.AddRow(8,
		col.New(8),
		text.NewCol(2, "Subtotal", props.Text{Size: 9}),
		text.NewCol(2, data.Subtotal, props.Text{Size: 9, Align: align.Right}),
	)
	m.AddRow(8,
		col.New(8),
		text.NewCol(2, data.TaxLabel, props.Text{Size: 9}),
		text.NewCol(2, data.Tax, props.Text{Size: 9, Align: align.Right}),
	)
	m.AddRow(10,
		col.New(8),
		text.NewCol(2, "Total", props.Text{Style: fontstyle.Bold, Size: 10}),
		text.NewCol(2, data.Total, props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right}),
	)

	if data.Notes != "" {
		m.AddRow(20,
			col.New(12).Add(
				text.New("Notas", props.Text{Style: fontstyle.Bold, Size: 9}),
				text.New(data.Notes, props.Text{Size: 9, Top: 5}),
			),
		)
	}
	if data.Terms != "" {
		m.AddRow(20,
			col.New(12).Add(
				text.New("Términos y condiciones", props.Text{Style: fontstyle.Bold, Size: 9}),
				text.New(data.Terms, props.Text{Size: 9, Top: 5}),
			),
		)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}

	return bytes.NewReader(doc.GetBytes()), nil
}
