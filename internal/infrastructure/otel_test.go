package infrastructure

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"groobi/internal/config"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestInitializeOTel_Prometheus(t *testing.T) {
	cfg := config.TelemetryConfig{ServiceName: "groobi-test", TraceExporter: "none", MetricExporter: "prometheus"}

	providers, err := InitializeOTel(cfg, "1.2.3", discardLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = providers.Shutdown(context.Background()) })

	assert.Nil(t, providers.TracerProvider)
	assert.NotNil(t, providers.Tracer)
	require.NotNil(t, providers.MeterProvider)
	require.NotNil(t, providers.PrometheusHTTP)

	metrics, err := CreateBusinessMetrics(providers.Meter)
	require.NoError(t, err)
	RecordProcessMetrics(context.Background(), metrics, 250*time.Millisecond, 3, 1, "")

	rec := httptest.NewRecorder()
	providers.PrometheusHTTP.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "workbook_process_total")
	assert.Contains(t, rec.Body.String(), "workbook_suppressed_columns_total")
}

func TestInitializeOTel_Disabled(t *testing.T) {
	cfg := config.TelemetryConfig{ServiceName: "groobi-test", TraceExporter: "none", MetricExporter: "none"}

	providers, err := InitializeOTel(cfg, "dev", discardLogger())
	require.NoError(t, err)

	assert.Nil(t, providers.MeterProvider)
	assert.Nil(t, providers.PrometheusHTTP)
	assert.NotNil(t, providers.Meter)
	assert.NoError(t, providers.Shutdown(context.Background()))
}

func TestInitializeOTel_UnsupportedExporter(t *testing.T) {
	_, err := InitializeOTel(config.TelemetryConfig{ServiceName: "x", TraceExporter: "jaeger"}, "dev", discardLogger())
	assert.ErrorContains(t, err, "unsupported trace exporter")

	_, err = InitializeOTel(config.TelemetryConfig{ServiceName: "x", MetricExporter: "statsd"}, "dev", discardLogger())
	assert.ErrorContains(t, err, "unsupported metric exporter")
}

func TestRecordProcessMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	metrics, err := CreateBusinessMetrics(mp.Meter(MeterName))
	require.NoError(t, err)

	ctx := context.Background()
	RecordProcessMetrics(ctx, metrics, time.Second, 4, 2, "")
	RecordProcessMetrics(ctx, metrics, time.Second, 0, 0, "NO_COMPARABLE_COLUMNS")

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))
	require.Len(t, rm.ScopeMetrics, 1)

	byName := make(map[string]metricdata.Metrics)
	for _, m := range rm.ScopeMetrics[0].Metrics {
		byName[m.Name] = m
	}

	total, ok := byName["workbook_process_total"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	assert.Len(t, total.DataPoints, 2, "success and failure are separate series")

	suppressed, ok := byName["workbook_suppressed_columns_total"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, suppressed.DataPoints, 1)
	assert.Equal(t, int64(2), suppressed.DataPoints[0].Value)

	rows, ok := byName["workbook_changed_rows"].Data.(metricdata.Histogram[int64])
	require.True(t, ok)
	require.Len(t, rows.DataPoints, 1)
	assert.Equal(t, uint64(1), rows.DataPoints[0].Count, "failures do not record changed rows")
}

func TestRecordProcessMetrics_NilMetrics(t *testing.T) {
	assert.NotPanics(t, func() {
		RecordProcessMetrics(context.Background(), nil, time.Second, 1, 0, "")
	})
}

func TestShutdown_NoProviders(t *testing.T) {
	providers := &OTelProviders{Logger: discardLogger()}
	assert.NoError(t, providers.Shutdown(context.Background()))
}
