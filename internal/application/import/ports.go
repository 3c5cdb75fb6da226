package importapp

import (
	"context"
	"time"
)

// BatchArchive stores raw uploaded batches
type BatchArchive interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	GenerateDownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, time.Time, error)
	ObjectExists(ctx context.Context, key string) (bool, error)
	DeleteObject(ctx context.Context, key string) error
}

// MetricsRecorder receives row and batch outcomes
type MetricsRecorder interface {
	RecordRow(ctx context.Context, outcome, failureKind string)
	RecordBatch(ctx context.Context, status string, elapsed time.Duration)
}

type noopMetrics struct{}

func (noopMetrics) RecordRow(context.Context, string, string) {}
func (noopMetrics) RecordBatch(context.Context, string, time.Duration) {}
