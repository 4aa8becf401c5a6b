package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/quotely/internal/blob"
	"github.com/smallbiznis/quotely/internal/clock"
	"github.com/smallbiznis/quotely/internal/config"
	"github.com/smallbiznis/quotely/internal/providers/pdf"
	"github.com/smallbiznis/quotely/internal/quotation/domain"
	"github.com/smallbiznis/quotely/internal/quotation/numbering"
	"github.com/smallbiznis/quotely/internal/quotation/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var now = time.Date(2024, 6, 10, 15, 30, 0, 0, time.UTC)

type fixture struct {
	svc   domain.Service
	repo  domain.Repository
	clock *clock.FakeClock
}

func newFixture(t *testing.T, provider pdf.Provider) fixture {
	t.Helper()
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	clk := clock.NewFakeClock(now)
	repo := repository.New(blob.NewMemory(), clk, zap.NewNop(), nil)
	if provider == nil {
		provider = pdf.New()
	}
	svc := New(Params{
		Log:      zap.NewNop(),
		GenID:    node,
		Clock:    clk,
		Repo:     repo,
		Defaults: config.NewStaticQuotationDefaults(config.DefaultQuotationDefaults()),
		PDF:      provider,
	})
	return fixture{svc: svc, repo: repo, clock: clk}
}

func validRequest() domain.SaveRequest {
	return domain.SaveRequest{
		Client: domain.Client{Name: "Ana", Email: "ana@example.com", Company: "Muebles SAS"},
		Items: []domain.LineItem{
			{Description: "Silla", Quantity: 3, UnitPrice: 1000},
			{Description: "Mesa", Quantity: 1, UnitPrice: 500},
		},
	}
}

func TestCreate_AppliesDefaultsAndTotals(t *testing.T) {
	f := newFixture(t, nil)

	q, err := f.svc.Create(context.Background(), validRequest())
	require.NoError(t, err)

	assert.NotEmpty(t, q.ID)
	assert.NotEmpty(t, q.Client.ID)
	assert.Equal(t, "COT-0001", q.Number)
	assert.Equal(t, domain.StatusDraft, q.Status)
	assert.Equal(t, 19.0, q.TaxPercentage)
	assert.Equal(t, config.DefaultTerms, q.Terms)
	assert.True(t, q.Date.Equal(now))
	assert.True(t, q.ExpirationDate.Equal(now.AddDate(0, 0, 30)))
	assert.True(t, q.CreatedAt.Equal(now))
	assert.True(t, q.UpdatedAt.Equal(now))

	require.Len(t, q.Items, 2)
	assert.NotEmpty(t, q.Items[0].ID)
	assert.NotEqual(t, q.Items[0].ID, q.Items[1].ID)
	assert.Equal(t, 3000.0, q.Items[0].Subtotal)
	assert.Equal(t, 500.0, q.Items[1].Subtotal)
	assert.Equal(t, 3500.0, q.Subtotal)
	assert.Equal(t, 665.0, q.Tax)
	assert.Equal(t, 4165.0, q.Total)

	stored, err := f.svc.Get(context.Background(), q.ID)
	require.NoError(t, err)
	assert.Equal(t, q.Total, stored.Total)
}

func TestCreate_HonorsExplicitFields(t *testing.T) {
	f := newFixture(t, nil)
	tax := 0.0
	terms := ""
	date := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	expires := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	req := validRequest()
	req.ID = "1700000000000"
	req.Number = "COT-0100"
	req.Date = &date
	req.ExpirationDate = &expires
	req.TaxPercentage = &tax
	req.Terms = &terms
	req.Status = domain.StatusSent

	q, err := f.svc.Create(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "1700000000000", q.ID)
	assert.Equal(t, "COT-0100", q.Number)
	assert.True(t, q.Date.Equal(date))
	assert.True(t, q.ExpirationDate.Equal(expires))
	assert.Equal(t, 3500.0, q.Total)
	assert.Equal(t, "", q.Terms)
	assert.Equal(t, domain.StatusSent, q.Status)

	next, err := f.svc.NextNumber(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "COT-0101", next)
}

func TestCreate_Validation(t *testing.T) {
	f := newFixture(t, nil)

	tests := []struct {
		name   string
		mutate func(*domain.SaveRequest)
		want   error
	}{
		{name: "missing name", mutate: func(r *domain.SaveRequest) { r.Client.Name = "  " }, want: domain.ErrInvalidClientName},
		{name: "missing email", mutate: func(r *domain.SaveRequest) { r.Client.Email = "" }, want: domain.ErrInvalidClientEmail},
		{name: "no items", mutate: func(r *domain.SaveRequest) { r.Items = nil }, want: domain.ErrEmptyItems},
		{name: "bad status", mutate: func(r *domain.SaveRequest) { r.Status = "archived" }, want: domain.ErrInvalidStatus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(&req)
			_, err := f.svc.Create(context.Background(), req)
			assert.ErrorIs(t, err, tt.want)
			assert.True(t, domain.IsValidationError(err))
		})
	}

	records, err := f.svc.List(context.Background(), domain.ListRequest{})
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestCreate_SequentialNumbers(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	first, err := f.svc.Create(ctx, validRequest())
	require.NoError(t, err)
	second, err := f.svc.Create(ctx, validRequest())
	require.NoError(t, err)

	assert.Equal(t, "COT-0001", first.Number)
	assert.Equal(t, "COT-0002", second.Number)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestUpdate_KeepsIdentityAndRecomputes(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, validRequest())
	require.NoError(t, err)

	f.clock.Advance(2 * time.Hour)
	req := validRequest()
	req.Items = []domain.LineItem{{Description: "Sofá", Quantity: 2, UnitPrice: 2000, Subtotal: 1}}
	req.Status = domain.StatusApproved
	tax := 10.0
	req.TaxPercentage = &tax

	updated, err := f.svc.Update(ctx, created.ID, req)
	require.NoError(t, err)

	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, created.Number, updated.Number)
	assert.Equal(t, created.Client.ID, updated.Client.ID)
	assert.True(t, updated.Date.Equal(created.Date))
	assert.True(t, updated.CreatedAt.Equal(created.CreatedAt))
	assert.True(t, updated.UpdatedAt.Equal(now.Add(2*time.Hour)))
	assert.Equal(t, domain.StatusApproved, updated.Status)
	assert.Equal(t, 4000.0, updated.Subtotal)
	assert.Equal(t, 400.0, updated.Tax)
	assert.Equal(t, 4400.0, updated.Total)
	assert.Equal(t, created.Terms, updated.Terms)

	records, err := f.svc.List(ctx, domain.ListRequest{})
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestUpdate_NotFoundBeforeValidation(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.svc.Update(context.Background(), "missing", domain.SaveRequest{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdate_ValidationOnExisting(t *testing.T) {
	f := newFixture(t, nil)
	created, err := f.svc.Create(context.Background(), validRequest())
	require.NoError(t, err)

	req := validRequest()
	req.Items = nil
	_, err = f.svc.Update(context.Background(), created.ID, req)
	assert.ErrorIs(t, err, domain.ErrEmptyItems)
}

func TestDelete(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	created, err := f.svc.Create(ctx, validRequest())
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, created.ID))
	assert.ErrorIs(t, f.svc.Delete(ctx, created.ID), domain.ErrNotFound)

	_, err = f.svc.Get(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGet_EmptyID(t *testing.T) {
	f := newFixture(t, nil)
	_, err := f.svc.Get(context.Background(), " ")
	assert.ErrorIs(t, err, domain.ErrInvalidID)
}

func TestListAndStats(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	first, err := f.svc.Create(ctx, validRequest())
	require.NoError(t, err)

	other := validRequest()
	other.Client = domain.Client{Name: "Luis", Email: "luis@example.com", Company: "ACME"}
	other.Items = []domain.LineItem{{Description: "Escritorio", Quantity: 1, UnitPrice: 100}}
	other.Status = domain.StatusApproved
	second, err := f.svc.Create(ctx, other)
	require.NoError(t, err)

	approved, err := f.svc.List(ctx, domain.ListRequest{Filter: domain.Filter{Status: domain.StatusApproved}})
	require.NoError(t, err)
	require.Len(t, approved, 1)
	assert.Equal(t, second.ID, approved[0].ID)

	byClient, err := f.svc.List(ctx, domain.ListRequest{Filter: domain.Filter{Client: "muebles"}})
	require.NoError(t, err)
	require.Len(t, byClient, 1)
	assert.Equal(t, first.ID, byClient[0].ID)

	stats, err := f.svc.Stats(ctx, domain.Filter{})
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.DraftCount)
	assert.Equal(t, 1, stats.ApprovedCount)
	assert.InDelta(t, 4165.0+119.0, stats.TotalAmount, 1e-9)
	assert.InDelta(t, 119.0, stats.ApprovedAmount, 1e-9)
}

func TestNextNumber_Empty(t *testing.T) {
	f := newFixture(t, nil)
	next, err := f.svc.NextNumber(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "COT-0001", next)
}

func TestCreate_SequenceExhausted(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	req := validRequest()
	req.Number = "COT-9223372036854775807"
	_, err := f.svc.Create(ctx, req)
	require.NoError(t, err)

	_, err = f.svc.NextNumber(ctx)
	assert.ErrorIs(t, err, numbering.ErrSequenceExhausted)

	_, err = f.svc.Create(ctx, validRequest())
	assert.ErrorIs(t, err, numbering.ErrSequenceExhausted)

	records, err := f.svc.List(ctx, domain.ListRequest{})
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestRenderPDF(t *testing.T) {
	f := newFixture(t, nil)
	created, err := f.svc.Create(context.Background(), validRequest())
	require.NoError(t, err)

	doc, err := f.svc.RenderPDF(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "COT-0001.pdf", doc.Filename)
	assert.Equal(t, "application/pdf", doc.ContentType)
	assert.True(t, bytes.HasPrefix(doc.Content, []byte("%PDF")))

	_, err = f.svc.RenderPDF(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

type failingProvider struct{}

func (failingProvider) GenerateQuotation(context.Context, pdf.QuotationData) (io.Reader, error) {
	return nil, errors.New("font missing")
}

func TestRenderPDF_ProviderFailure(t *testing.T) {
	f := newFixture(t, failingProvider{})
	created, err := f.svc.Create(context.Background(), validRequest())
	require.NoError(t, err)

	_, err = f.svc.RenderPDF(context.Background(), created.ID)
	require.Error(t, err)
	assert.False(t, domain.IsValidationError(err))
	assert.NotErrorIs(t, err, domain.ErrNotFound)
}

func TestRenderPDF_NoOpProvider(t *testing.T) {
	f := newFixture(t, &pdf.NoOpProvider{})
	created, err := f.svc.Create(context.Background(), validRequest())
	require.NoError(t, err)

	_, err = f.svc.RenderPDF(context.Background(), created.ID)
	assert.Error(t, err)
}
