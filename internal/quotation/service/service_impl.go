package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/quotely/internal/clock"
	"github.com/smallbiznis/quotely/internal/config"
	obslogger "github.com/smallbiznis/quotely/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/quotely/internal/observability/metrics"
	"github.com/smallbiznis/quotely/internal/providers/pdf"
	"github.com/smallbiznis/quotely/internal/quotation/domain"
	"github.com/smallbiznis/quotely/internal/quotation/numbering"
	"github.com/smallbiznis/quotely/internal/quotation/pricing"
	"github.com/smallbiznis/quotely/internal/quotation/query"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log      *zap.Logger
	GenID    *snowflake.Node
	Clock    clock.Clock
	Repo     domain.Repository
	Defaults *config.QuotationDefaultsHolder
	PDF      pdf.Provider
	Metrics  *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	log      *zap.Logger
	genID    *snowflake.Node
	clock    clock.Clock
	repo     domain.Repository
	defaults *config.QuotationDefaultsHolder
	pdf      pdf.Provider
	metrics  *obsmetrics.Metrics
}

func New(p Params) domain.Service {
	defaults := p.Defaults
	if defaults == nil {
		defaults = config.NewStaticQuotationDefaults(config.DefaultQuotationDefaults())
	}
	return &Service{
		log:      p.Log.Named("quotation.service"),
		genID:    p.GenID,
		clock:    p.Clock,
		repo:     p.Repo,
		defaults: defaults,
		pdf:      p.PDF,
		metrics:  p.Metrics,
	}
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) ([]domain.Quotation, error) {
	records, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return query.Filter(records, req.Filter), nil
}

func (s *Service) Get(ctx context.Context, id string) (domain.Quotation, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.Quotation{}, domain.ErrInvalidID
	}
	found, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Quotation{}, err
	}
	if found == nil {
		return domain.Quotation{}, domain.ErrNotFound
	}
	return *found, nil
}

func (s *Service) Create(ctx context.Context, req domain.SaveRequest) (domain.Quotation, error) {
	if err := validate(req); err != nil {
		return domain.Quotation{}, err
	}

	defaults := s.defaults.Get()
	now := s.clock.Now()

	number := strings.TrimSpace(req.Number)
	if number == "" {
		next, err := s.NextNumber(ctx)
		if err != nil {
			return domain.Quotation{}, err
		}
		number = next
	}

	q := domain.Quotation{
		ID:            strings.TrimSpace(req.ID),
		Number:        number,
		Date:          now,
		Client:        req.Client,
		Items:         req.Items,
		TaxPercentage: defaults.TaxPercentage,
		Status:        domain.StatusDraft,
		Notes:         req.Notes,
		Terms:         defaults.Terms,
	}
	if q.ID == "" {
		q.ID = s.genID.Generate().String()
	}
	if req.Date != nil {
		q.Date = req.Date.UTC()
	}
	if req.ExpirationDate != nil {
		q.ExpirationDate = req.ExpirationDate.UTC()
	} else {
		q.ExpirationDate = q.Date.AddDate(0, 0, defaults.ValidityDays)
	}
	if req.TaxPercentage != nil {
		q.TaxPercentage = *req.TaxPercentage
	}
	if req.Status != "" {
		q.Status = req.Status
	}
	if req.Terms != nil {
		q.Terms = *req.Terms
	}
	if req.CreatedAt != nil {
		q.CreatedAt = req.CreatedAt.UTC()
	}

	s.assignIDs(&q)
	pricing.Apply(&q)

	if err := s.repo.Save(ctx, &q); err != nil {
		return domain.Quotation{}, err
	}

	s.metrics.RecordQuotationSaved(ctx, "create", string(q.Status), q.Total)
	obslogger.WithQuotation(obslogger.WithContext(ctx, s.log), q.ID, q.Number).Info("quotation created",
		zap.String("status", string(q.Status)),
		zap.Int("items", len(q.Items)),
		zap.Float64("total", q.Total),
	)
	return q, nil
}

func (s *Service) Update(ctx context.Context, id string, req domain.SaveRequest) (domain.Quotation, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return domain.Quotation{}, err
	}
	if err := validate(req); err != nil {
		return domain.Quotation{}, err
	}

	q := existing.Clone()
	q.Client = req.Client
	if q.Client.ID == "" {
		q.Client.ID = existing.Client.ID
	}
	q.Items = req.Items
	q.Notes = req.Notes

	if number := strings.TrimSpace(req.Number); number != "" {
		q.Number = number
	}
	if req.Date != nil {
		q.Date = req.Date.UTC()
	}
	if req.ExpirationDate != nil {
		q.ExpirationDate = req.ExpirationDate.UTC()
	}
	if req.TaxPercentage != nil {
		q.TaxPercentage = *req.TaxPercentage
	}
	if req.Status != "" {
		q.Status = req.Status
	}
	if req.Terms != nil {
		q.Terms = *req.Terms
	}

	s.assignIDs(&q)
	pricing.Apply(&q)

	if err := s.repo.Save(ctx, &q); err != nil {
		return domain.Quotation{}, err
	}

	s.metrics.RecordQuotationSaved(ctx, "update", string(q.Status), q.Total)
	obslogger.WithQuotation(obslogger.WithContext(ctx, s.log), q.ID, q.Number).Info("quotation updated",
		zap.String("status", string(q.Status)),
		zap.Float64("total", q.Total),
	)
	return q, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, existing.ID); err != nil {
		return err
	}

	s.metrics.RecordQuotationDeleted(ctx)
	obslogger.WithQuotation(obslogger.WithContext(ctx, s.log), existing.ID, existing.Number).Info("quotation deleted")
	return nil
}

func (s *Service) Stats(ctx context.Context, filter domain.Filter) (domain.Stats, error) {
	records, err := s.List(ctx, domain.ListRequest{Filter: filter})
	if err != nil {
		return domain.Stats{}, err
	}
	return query.Aggregate(records), nil
}

func (s *Service) NextNumber(ctx context.Context) (string, error) {
	records, err := s.repo.List(ctx)
	if err != nil {
		return "", err
	}
	numbers := make([]string, 0, len(records))
	for _, record := range records {
		numbers = append(numbers, record.Number)
	}
	return numbering.Next(numbers)
}

func (s *Service) RenderPDF(ctx context.Context, id string) (domain.Document, error) {
	q, err := s.Get(ctx, id)
	if err != nil {
		return domain.Document{}, err
	}

	start := time.Now()
	reader, err := s.pdf.GenerateQuotation(ctx, pdf.NewQuotationData(q, s.defaults.Get().Currency))
	if err == nil && reader == nil {
		err = fmt.Errorf("pdf provider returned no document")
	}
	if err != nil {
		s.metrics.RecordPDFRendered(ctx, "error")
		return domain.Document{}, fmt.Errorf("render quotation %s: %w", q.ID, err)
	}
	content, err := io.ReadAll(reader)
	if err != nil {
		s.metrics.RecordPDFRendered(ctx, "error")
		return domain.Document{}, fmt.Errorf("read rendered quotation %s: %w", q.ID, err)
	}
	s.metrics.RecordPDFRendered(ctx, "ok")

	obslogger.WithQuotation(obslogger.WithContext(ctx, s.log), q.ID, q.Number).Debug("quotation rendered",
		zap.Int("bytes", len(content)),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()),
	)

	filename := q.Number
	if filename == "" {
		filename = q.ID
	}
	return domain.Document{
		Filename:    filename + ".pdf",
		ContentType: "application/pdf",
		Content:     content,
	}, nil
}

func (s *Service) assignIDs(q *domain.Quotation) {
	if strings.TrimSpace(q.Client.ID) == "" {
		q.Client.ID = s.genID.Generate().String()
	}
	items := make([]domain.LineItem, len(q.Items))
	for i, item := range q.Items {
		if strings.TrimSpace(item.ID) == "" {
			item.ID = s.genID.Generate().String()
		}
		items[i] = item
	}
	q.Items = items
}

func validate(req domain.SaveRequest) error {
	if strings.TrimSpace(req.Client.Name) == "" {
		return domain.ErrInvalidClientName
	}
	if strings.TrimSpace(req.Client.Email) == "" {
		return domain.ErrInvalidClientEmail
	}
	if len(req.Items) == 0 {
		return domain.ErrEmptyItems
	}
	if req.Status != "" && !req.Status.Valid() {
		return domain.ErrInvalidStatus
	}
	return nil
}
