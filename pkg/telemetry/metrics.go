// Package telemetry holds Prometheus collectors for the quotation store.
package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposes Prometheus observability primitives for persistence.
type Metrics struct {
	blobDuration   *prometheus.HistogramVec
	blobErrors     *prometheus.CounterVec
	corruptLoads   *prometheus.CounterVec
	storedRecords  prometheus.Gauge
	writes         *prometheus.CounterVec
	quotationTotal *prometheus.HistogramVec
}

// NewMetrics registers and returns the store collectors on reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	blobDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "quotely_blob_operation_duration_seconds",
		Help:    "Blob backend latency by backend and operation.",
		Buckets: prometheus.DefBuckets,
	}, []string{"backend", "operation"})

	blobErrors := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "quotely_blob_errors_total",
		Help: "Blob backend failures by backend and operation.",
	}, []string{"backend", "operation"})

	corruptLoads := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "quotely_store_corrupt_loads_total",
		Help: "Loads that found unparseable data and fell back to an empty collection.",
	}, []string{"key"})

	storedRecords := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "quotely_collection_records",
		Help: "Records in the collection after the last successful load or save.",
	})

	writes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "quotely_store_writes_total",
		Help: "Collection writes by operation (save, delete).",
	}, []string{"operation"})

	quotationTotal := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "quotely_quotation_total",
		Help:    "Grand total distribution of saved quotations.",
		Buckets: []float64{100, 1000, 10000, 100000, 1000000, 10000000},
	}, []string{"status"})

	for _, c := range []prometheus.Collector{blobDuration, blobErrors, corruptLoads, storedRecords, writes, quotationTotal} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return &Metrics{
		blobDuration:   blobDuration,
		blobErrors:     blobErrors,
		corruptLoads:   corruptLoads,
		storedRecords:  storedRecords,
		writes:         writes,
		quotationTotal: quotationTotal,
	}, nil
}

// ObserveBlobOperation records latency and, when err is set, a failure.
func (m *Metrics) ObserveBlobOperation(backend, operation string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	backend = sanitizeLabel(backend)
	operation = sanitizeLabel(operation)
	m.blobDuration.WithLabelValues(backend, operation).Observe(duration.Seconds())
	if err != nil {
		m.blobErrors.WithLabelValues(backend, operation).Inc()
	}
}

func (m *Metrics) IncCorruptLoad(key string) {
	if m == nil {
		return
	}
	m.corruptLoads.WithLabelValues(sanitizeLabel(key)).Inc()
}

func (m *Metrics) SetStoredRecords(n int) {
	if m == nil {
		return
	}
	m.storedRecords.Set(float64(n))
}

// IncWrite counts one collection rewrite.
func (m *Metrics) IncWrite(operation string) {
	if m == nil {
		return
	}
	m.writes.WithLabelValues(sanitizeLabel(operation)).Inc()
}

func (m *Metrics) ObserveQuotationTotal(status string, total float64) {
	if m == nil {
		return
	}
	m.quotationTotal.WithLabelValues(sanitizeLabel(status)).Observe(total)
}

func sanitizeLabel(val string) string {
	if val == "" {
		return "unknown"
	}
	return val
}
