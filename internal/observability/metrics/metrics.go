package metrics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Config configures the metrics provider.
type Config struct {
	Enabled          bool
	ExporterEndpoint string
	ExporterProtocol string
	ServiceName      string
	Environment      string
}

// Metrics exposes application-level instruments.
type Metrics struct {
	quotationsSaved   metric.Int64Counter
	quotationsDeleted metric.Int64Counter
	quotationTotal    metric.Float64Histogram
	pdfRendered       metric.Int64Counter
	blobOperations    metric.Int64Counter
}

// NewProvider configures and registers the meter provider.
func NewProvider(lc fx.Lifecycle, cfg Config, log *zap.Logger) (metric.MeterProvider, error) {
	if !cfg.Enabled {
		provider := noop.NewMeterProvider()
		otel.SetMeterProvider(provider)
		return provider, nil
	}

	exporter, err := newExporter(cfg.ExporterProtocol, cfg.ExporterEndpoint)
	if err != nil {
		return nil, err
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(10*time.Second))
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)

	if lc != nil {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				if log != nil {
					log.Info("shutting down meter provider")
				}
				return provider.Shutdown(ctx)
			},
		})
	}

	if log != nil {
		log.Info("metrics initialized",
			zap.String("endpoint", cfg.ExporterEndpoint),
			zap.String("protocol", cfg.ExporterProtocol),
		)
	}

	return provider, nil
}

// New configures the domain metrics instruments.
func New(cfg Config, provider metric.MeterProvider) (*Metrics, error) {
	name := strings.TrimSpace(cfg.ServiceName)
	if name == "" {
		name = "quotely"
	}
	meter := provider.Meter(name)

	quotationsSaved, err := meter.Int64Counter("quotely_quotations_saved_total")
	if err != nil {
		return nil, err
	}
	quotationsDeleted, err := meter.Int64Counter("quotely_quotations_deleted_total")
	if err != nil {
		return nil, err
	}
	quotationTotal, err := meter.Float64Histogram("quotely_quotation_total_amount")
	if err != nil {
		return nil, err
	}
	pdfRendered, err := meter.Int64Counter("quotely_pdf_rendered_total")
	if err != nil {
		return nil, err
	}
	blobOperations, err := meter.Int64Counter("quotely_blob_operations_total")
	if err != nil {
		return nil, err
	}

	return &Metrics{
		quotationsSaved:   quotationsSaved,
		quotationsDeleted: quotationsDeleted,
		quotationTotal:    quotationTotal,
		pdfRendered:       pdfRendered,
		blobOperations:    blobOperations,
	}, nil
}

// RecordQuotationSaved counts a create or update and records its grand total.
func (m *Metrics) RecordQuotationSaved(ctx context.Context, operation, status string, total float64) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(
		attribute.String("operation", strings.TrimSpace(operation)),
		attribute.String("status", strings.TrimSpace(status)),
	)
	m.quotationsSaved.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.quotationTotal.Record(ctx, total, metric.WithAttributes(attrs...))
}

func (m *Metrics) RecordQuotationDeleted(ctx context.Context) {
	if m == nil {
		return
	}
	m.quotationsDeleted.Add(ctx, 1)
}

func (m *Metrics) RecordPDFRendered(ctx context.Context, result string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("result", strings.TrimSpace(result)))
	m.pdfRendered.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordBlobOperation counts reads and writes against the configured backend.
func (m *Metrics) RecordBlobOperation(ctx context.Context, backend, operation, result string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(
		attribute.String("backend", strings.TrimSpace(backend)),
		attribute.String("operation", strings.TrimSpace(operation)),
		attribute.String("result", strings.TrimSpace(result)),
	)
	m.blobOperations.Add(ctx, 1, metric.WithAttributes(attrs...))
}

func newExporter(protocol, endpoint string) (sdkmetric.Exporter, error) {
	protocol = strings.ToLower(strings.TrimSpace(protocol))
	switch protocol {
	case "http", "http/protobuf":
		opts := []otlpmetrichttp.Option{otlpmetrichttp.WithInsecure()}
		if endpoint != "" {
			opts = append(opts, otlpmetrichttp.WithEndpoint(endpoint))
		}
		return otlpmetrichttp.New(context.Background(), opts...)
	case "grpc", "grpc/protobuf", "":
		opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithInsecure()}
		if endpoint != "" {
			opts = append(opts, otlpmetricgrpc.WithEndpoint(endpoint))
		}
		return otlpmetricgrpc.New(context.Background(), opts...)
	default:
		return nil, fmt.Errorf("unsupported OTLP protocol %q", protocol)
	}
}

var allowedLabelKeys = map[attribute.Key]struct{}{
	"operation":   {},
	"status":      {},
	"result":      {},
	"backend":     {},
	"status_code": {},
	"route":       {},
}

// FilterAttributes strips disallowed labels to keep metrics low-cardinality.
func FilterAttributes(attrs ...attribute.KeyValue) []attribute.KeyValue {
	filtered := make([]attribute.KeyValue, 0, len(attrs))
	for _, attr := range attrs {
		if _, ok := allowedLabelKeys[attr.Key]; !ok {
			continue
		}
		filtered = append(filtered, attr)
	}
	return filtered
}
