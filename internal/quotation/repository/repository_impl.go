package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/smallbiznis/quotely/internal/blob"
	"github.com/smallbiznis/quotely/internal/clock"
	"github.com/smallbiznis/quotely/internal/quotation/domain"
	"github.com/smallbiznis/quotely/pkg/telemetry"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// StorageKey is the blob key holding the serialized quotation array.
const StorageKey = "cotizaciones_app_data"

type Params struct {
	fx.In

	Store   blob.Store
	Clock   clock.Clock
	Log     *zap.Logger
	Metrics *telemetry.Metrics `optional:"true"`
}

// repo keeps the whole collection under one key and rewrites it on every change.
type repo struct {
	mu      sync.Mutex
	store   blob.Store
	clock   clock.Clock
	log     *zap.Logger
	metrics *telemetry.Metrics
}

func Provide(p Params) domain.Repository {
	return New(p.Store, p.Clock, p.Log, p.Metrics)
}

func New(store blob.Store, clk clock.Clock, log *zap.Logger, metrics *telemetry.Metrics) domain.Repository {
	if log == nil {
		log = zap.NewNop()
	}
	return &repo{
		store:   store,
		clock:   clk,
		log:     log.Named("quotation.repository"),
		metrics: metrics,
	}
}

func (r *repo) List(ctx context.Context) ([]domain.Quotation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load(ctx)
}

func (r *repo) FindByID(ctx context.Context, id string) (*domain.Quotation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	if idx := indexOf(records, id); idx >= 0 {
		found := records[idx].Clone()
		return &found, nil
	}
	return nil, nil
}

func (r *repo) Save(ctx context.Context, quotation *domain.Quotation) error {
	if quotation == nil || strings.TrimSpace(quotation.ID) == "" {
		return domain.ErrInvalidID
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.load(ctx)
	if err != nil {
		return err
	}

	now := r.clock.Now()
	if quotation.CreatedAt.IsZero() {
		quotation.CreatedAt = now
	}
	quotation.UpdatedAt = now
	if quotation.UpdatedAt.Before(quotation.CreatedAt) {
		quotation.UpdatedAt = quotation.CreatedAt
	}

	stored := quotation.Clone()
	if idx := indexOf(records, quotation.ID); idx >= 0 {
		records[idx] = stored
	} else {
		records = append(records, stored)
	}

	if err := r.write(ctx, records); err != nil {
		return err
	}
	r.metrics.IncWrite("save")
	r.metrics.ObserveQuotationTotal(string(stored.Status), stored.Total)
	return nil
}

func (r *repo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.load(ctx)
	if err != nil {
		return err
	}
	idx := indexOf(records, id)
	if idx < 0 {
		return nil
	}
	records = append(records[:idx], records[idx+1:]...)

	if err := r.write(ctx, records); err != nil {
		return err
	}
	r.metrics.IncWrite("delete")
	return nil
}

func (r *repo) discard(size int, err error) {
	r.log.Warn("discarding unreadable quotation data",
		zap.String("key", StorageKey),
		zap.Int("bytes", size),
		zap.Error(err),
	)
	r.metrics.IncCorruptLoad(StorageKey)
}

// load treats a missing or unparseable blob as an empty collection.
func (r *repo) load(ctx context.Context) ([]domain.Quotation, error) {
	raw, ok, err := r.store.Get(ctx, StorageKey)
	if errors.Is(err, blob.ErrCorrupt) {
		r.discard(len(raw), err)
		return []domain.Quotation{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load quotations: %w", err)
	}
	if !ok || len(strings.TrimSpace(string(raw))) == 0 {
		return []domain.Quotation{}, nil
	}

	var records []domain.Quotation
	if err := json.Unmarshal(raw, &records); err != nil {
		r.discard(len(raw), err)
		return []domain.Quotation{}, nil
	}
	if records == nil {
		records = []domain.Quotation{}
	}
	r.metrics.SetStoredRecords(len(records))
	return records, nil
}

func (r *repo) write(ctx context.Context, records []domain.Quotation) error {
	payload, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode quotations: %w", err)
	}
	if err := r.store.Put(ctx, StorageKey, payload); err != nil {
		return fmt.Errorf("store quotations: %w", err)
	}
	r.metrics.SetStoredRecords(len(records))
	return nil
}

func indexOf(records []domain.Quotation, id string) int {
	for i := range records {
		if records[i].ID == id {
			return i
		}
	}
	return -1
}
