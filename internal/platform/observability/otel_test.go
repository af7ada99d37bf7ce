package observability

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestLogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, logLevel("debug"))
	assert.Equal(t, slog.LevelWarn, logLevel(" WARN "))
	assert.Equal(t, slog.LevelInfo, logLevel(""))
	assert.Equal(t, slog.LevelInfo, logLevel("verbose"))
}

func TestInstruments_NilFallbacks(t *testing.T) {
	var i *Instruments
	assert.NotNil(t, i.Tracer("test"))
	assert.NotNil(t, i.Meter("test"))
}

func TestInit_ScopesLoggerAndFiltersOrderCounters(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	var logs bytes.Buffer
	ctx := context.Background()
	instruments, shutdown, err := Init(ctx, "storefront-test",
		WithLogOutput(&logs),
		WithLogLevel(slog.LevelDebug),
		WithEnvironment("test"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = shutdown(context.Background()) })

	instruments.Logger.Debug("probe")
	assert.Contains(t, logs.String(), `"service":"storefront-test"`)
	assert.Contains(t, logs.String(), `"msg":"probe"`)

	counter, err := instruments.Meter("test").Int64Counter("orders.service.conversions")
	require.NoError(t, err)
	counter.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", "ok"), attribute.Int64("cart.id", 7)))

	var rm metricdata.ResourceMetrics
	require.NoError(t, instruments.MetricReader.Collect(ctx, &rm))
	require.Len(t, rm.ScopeMetrics, 1)
	require.Len(t, rm.ScopeMetrics[0].Metrics, 1)
	sum, ok := rm.ScopeMetrics[0].Metrics[0].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, sum.DataPoints, 1)
	point := sum.DataPoints[0]
	assert.Equal(t, int64(1), point.Value)
	assert.Equal(t, 1, point.Attributes.Len())
	outcome, ok := point.Attributes.Value("outcome")
	require.True(t, ok)
	assert.Equal(t, "ok", outcome.AsString())
}
