package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	AttrOutcome     = attribute.Key("outcome")
	AttrFailureKind = attribute.Key("failure_kind")
	AttrBatchStatus = attribute.Key("status")
)

// ImportMetrics records ingestion counters for batches and rows.
type ImportMetrics struct {
	batches       *Counter
	rows          *Counter
	batchDuration *Histogram
}

// NewImportMetrics registers the ingestion instruments on meter.
func NewImportMetrics(meter metric.Meter) (*ImportMetrics, error) {
	batches, err := NewCounter(meter, "import_batches_total", "Import batches processed by final status", "{batch}")
	if err != nil {
		return nil, err
	}
	rows, err := NewCounter(meter, "import_rows_total", "Import rows processed by outcome", "{row}")
	if err != nil {
		return nil, err
	}
	duration, err := NewHistogram(meter, HistogramOpts{
		Name:        "import_batch_duration_seconds",
		Description: "Wall time to ingest one batch",
		Unit:        "s",
		Boundaries:  BatchDurationBuckets,
	})
	if err != nil {
		return nil, err
	}

	return &ImportMetrics{batches: batches, rows: rows, batchDuration: duration}, nil
}

// RecordRow counts one row. failureKind is empty for successful and ignored rows.
func (m *ImportMetrics) RecordRow(ctx context.Context, outcome, failureKind string) {
	attrs := []attribute.KeyValue{AttrOutcome.String(outcome)}
	if failureKind != "" {
		attrs = append(attrs, AttrFailureKind.String(failureKind))
	}
	m.rows.Inc(ctx, attrs...)
}

// RecordBatch counts one finished batch and its duration.
func (m *ImportMetrics) RecordBatch(ctx context.Context, status string, elapsed time.Duration) {
	m.batches.Inc(ctx, AttrBatchStatus.String(status))
	m.batchDuration.RecordDuration(ctx, elapsed, AttrBatchStatus.String(status))
}
