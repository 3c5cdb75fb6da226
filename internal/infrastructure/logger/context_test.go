package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func contextWithValidSpan() context.Context {
	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    trace.TraceID{0x0a, 0x0b, 0x0c, 0x0d, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09, 0x0a, 0x0b, 0x0c},
		SpanID:     trace.SpanID{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08},
		TraceFlags: trace.FlagsSampled,
	})
	return trace.ContextWithSpanContext(context.Background(), sc)
}

func contextFields(entry observer.LoggedEntry) map[string]string {
	fields := make(map[string]string, len(entry.Context))
	for _, f := range entry.Context {
		fields[f.Key] = f.String
	}
	return fields
}

func TestWithContext(t *testing.T) {
	base := zap.NewExample()
	ctx := WithContext(context.Background(), base)
	assert.Same(t, base, FromContext(ctx))
}

func TestFromContext_Fallbacks(t *testing.T) {
	assert.NotNil(t, FromContext(context.Background()))

	ctx := context.WithValue(context.Background(), LoggerKey, "not a logger")
	assert.NotPanics(t, func() { FromContext(ctx).Info("ignored") })
}

func TestWithRequestID(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)

	ctx, enriched := WithRequestID(context.Background(), zap.New(core), "req-123")
	enriched.Info("hello")

	assert.Equal(t, "req-123", GetRequestID(ctx))
	assert.Same(t, enriched, FromContext(ctx))
	require.Len(t, recorded.All(), 1)
	assert.Equal(t, "req-123", contextFields(recorded.All()[0])["request_id"])
}

func TestWithImportID(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)

	ctx, _ := WithRequestID(context.Background(), zap.New(core), "req-1")
	ctx, enriched := WithImportID(ctx, FromContext(ctx), "imp-1")
	enriched.Info("batch started")

	assert.Equal(t, "imp-1", GetImportID(ctx))
	assert.Equal(t, "req-1", GetRequestID(ctx))
	fields := contextFields(recorded.All()[0])
	assert.Equal(t, "req-1", fields["request_id"])
	assert.Equal(t, "imp-1", fields["import_id"])
}

func TestGetters_Empty(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetRequestID(ctx))
	assert.Empty(t, GetImportID(ctx))
	assert.Empty(t, GetTraceID(ctx))
}

func TestWithTraceContext(t *testing.T) {
	t.Run("no span returns same logger", func(t *testing.T) {
		base := zap.NewNop()
		assert.Same(t, base, WithTraceContext(context.Background(), base))
	})

	t.Run("valid span adds trace and span ids", func(t *testing.T) {
		core, recorded := observer.New(zapcore.InfoLevel)
		ctx := contextWithValidSpan()

		WithTraceContext(ctx, zap.New(core)).Info("traced")

		fields := contextFields(recorded.All()[0])
		assert.Equal(t, "0a0b0c0d0102030405060708090a0b0c", fields["trace_id"])
		assert.Equal(t, "0102030405060708", fields["span_id"])
		assert.Equal(t, "0a0b0c0d0102030405060708090a0b0c", GetTraceID(ctx))
	})
}

func TestContextLogger(t *testing.T) {
	t.Run("L uses the context logger", func(t *testing.T) {
		core, recorded := observer.New(zapcore.DebugLevel)
		ctx, _ := WithImportID(contextWithValidSpan(), zap.New(core), "imp-7")

		cl := L(ctx)
		cl.Debug("debug")
		cl.Info("info")
		cl.Warn("warn")
		cl.Error("error")

		logs := recorded.All()
		require.Len(t, logs, 4)
		for _, entry := range logs {
			fields := contextFields(entry)
			assert.Equal(t, "imp-7", fields["import_id"])
			assert.NotEmpty(t, fields["trace_id"])
		}
	})

	t.Run("With adds fields once", func(t *testing.T) {
		core, recorded := observer.New(zapcore.InfoLevel)
		cl := WithLogger(contextWithValidSpan(), zap.New(core)).With(zap.Int("row", 3))

		cl.Info("row done")

		entry := recorded.All()[0]
		traceFields := 0
		for _, f := range entry.Context {
			if f.Key == "trace_id" {
				traceFields++
			}
		}
		assert.Equal(t, 1, traceFields)
		assert.Equal(t, int64(3), entry.ContextMap()["row"])
	})

	t.Run("nil logger does not panic", func(t *testing.T) {
		cl := WithLogger(context.Background(), nil)
		assert.NotPanics(t, func() {
			cl.Info("ignored")
			cl.With(zap.String("k", "v")).Warn("ignored")
		})
		assert.NotNil(t, cl.Zap())
	})
}
