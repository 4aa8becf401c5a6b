package blob

import (
	"context"
	"time"

	obsmetrics "github.com/smallbiznis/quotely/internal/observability/metrics"
	"github.com/smallbiznis/quotely/pkg/telemetry"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type instrumentedStore struct {
	next     Store
	backend  string
	prom     *telemetry.Metrics
	counters *obsmetrics.Metrics
	tracer   trace.Tracer
}

// Instrument wraps next with spans, Prometheus latency and OTel counters.
// Either metrics argument may be nil.
func Instrument(next Store, backend string, prom *telemetry.Metrics, counters *obsmetrics.Metrics) Store {
	return &instrumentedStore{
		next:     next,
		backend:  backend,
		prom:     prom,
		counters: counters,
		tracer:   otel.Tracer("quotely/blob"),
	}
}

func (s *instrumentedStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	ctx, end := s.start(ctx, "get")
	value, ok, err := s.next.Get(ctx, key)
	end(err)
	return value, ok, err
}

func (s *instrumentedStore) Put(ctx context.Context, key string, value []byte) error {
	ctx, end := s.start(ctx, "put")
	err := s.next.Put(ctx, key, value)
	end(err)
	return err
}

func (s *instrumentedStore) start(ctx context.Context, op string) (context.Context, func(error)) {
	begin := time.Now()
	ctx, span := s.tracer.Start(ctx, "blob."+op, trace.WithAttributes(
		attribute.String("blob.backend", s.backend),
		attribute.String("blob.operation", op),
	))
	return ctx, func(err error) {
		result := "ok"
		if err != nil {
			result = "error"
			span.RecordError(err)
			span.SetStatus(codes.Error, "blob operation failed")
		}
		span.End()
		s.prom.ObserveBlobOperation(s.backend, op, time.Since(begin), err)
		s.counters.RecordBlobOperation(ctx, s.backend, op, result)
	}
}
