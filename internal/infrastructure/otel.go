package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.28.0"
	"go.opentelemetry.io/otel/trace"

	"groobi/internal/config"
)

// MeterName is the instrumentation scope of the service's own metrics
const MeterName = "groobi"

// OTelProviders holds the OpenTelemetry providers
type OTelProviders struct {
	TracerProvider *sdktrace.TracerProvider
	MeterProvider  *sdkmetric.MeterProvider
	Tracer         trace.Tracer
	Meter          metric.Meter
	// PrometheusHTTP serves the scrape endpoint; nil when metrics are off
	PrometheusHTTP http.Handler
	Logger         *slog.Logger
}

// InitializeOTel sets up the global tracer and meter providers selected by
// cfg. Disabled exporters leave the corresponding global no-op provider in
// place, so instrumentation can run unconditionally.
func InitializeOTel(cfg config.TelemetryConfig, version string, logger *slog.Logger) (*OTelProviders, error) {
	ctx := context.Background()

	res, err := createResource(cfg.ServiceName, version)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	providers := &OTelProviders{Logger: logger}

	if err := initializeTracing(ctx, cfg.TraceExporter, version, res, providers); err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}
	if err := initializeMetrics(ctx, cfg.MetricExporter, version, res, providers); err != nil {
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}

	if providers.Tracer == nil {
		providers.Tracer = otel.Tracer(MeterName)
	}
	if providers.Meter == nil {
		providers.Meter = otel.Meter(MeterName)
	}

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	logger.InfoContext(ctx, "OpenTelemetry initialized",
		slog.String("service", cfg.ServiceName),
		slog.String("version", version),
		slog.String("trace_exporter", cfg.TraceExporter),
		slog.String("metric_exporter", cfg.MetricExporter))

	return providers, nil
}

// createResource creates the OpenTelemetry resource
func createResource(serviceName, version string) (*resource.Resource, error) {
	hostname, _ := os.Hostname()
	return resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(serviceName),
		semconv.ServiceVersion(version),
		attribute.String("service.instance.id", fmt.Sprintf("%s-%d", hostname, os.Getpid())),
	), nil
}

func initializeTracing(ctx context.Context, exporterName, version string, res *resource.Resource, providers *OTelProviders) error {
	var exporter sdktrace.SpanExporter
	var err error

	switch exporterName {
	case "stdout":
		exporter, err = stdouttrace.New(stdouttrace.WithPrettyPrint())
	case "none", "":
		return nil
	default:
		return fmt.Errorf("unsupported trace exporter: %s", exporterName)
	}
	if err != nil {
		return fmt.Errorf("failed to create trace exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	providers.TracerProvider = tp
	providers.Tracer = tp.Tracer(MeterName, trace.WithInstrumentationVersion(version))
	otel.SetTracerProvider(tp)

	providers.Logger.DebugContext(ctx, "tracing initialized", slog.String("exporter", exporterName))
	return nil
}

func initializeMetrics(ctx context.Context, exporterName, version string, res *resource.Resource, providers *OTelProviders) error {
	switch exporterName {
	case "prometheus":
		registry := promclient.NewRegistry()
		exporter, err := prometheus.New(prometheus.WithRegisterer(registry))
		if err != nil {
			return fmt.Errorf("failed to create prometheus exporter: %w", err)
		}
		providers.PrometheusHTTP = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

		mp := sdkmetric.NewMeterProvider(
			sdkmetric.WithResource(res),
			sdkmetric.WithReader(exporter),
		)
		providers.MeterProvider = mp
		providers.Meter = mp.Meter(MeterName, metric.WithInstrumentationVersion(version))
		otel.SetMeterProvider(mp)
	case "none", "":
		return nil
	default:
		return fmt.Errorf("unsupported metric exporter: %s", exporterName)
	}

	providers.Logger.DebugContext(ctx, "metrics initialized", slog.String("exporter", exporterName))
	return nil
}

// BusinessMetrics holds the service's instruments
type BusinessMetrics struct {
	HTTPRequestsTotal   metric.Int64Counter
	HTTPRequestDuration metric.Float64Histogram
	HTTPActiveRequests  metric.Int64UpDownCounter

	ProcessTotal       metric.Int64Counter
	ProcessDuration    metric.Float64Histogram
	ProcessChangedRows metric.Int64Histogram
	SuppressedColumns  metric.Int64Counter
	LockWaitDuration   metric.Float64Histogram
	ActiveProcesses    metric.Int64UpDownCounter
}

// CreateBusinessMetrics creates the service's instruments on meter
func CreateBusinessMetrics(meter metric.Meter) (*BusinessMetrics, error) {
	var (
		m    BusinessMetrics
		err  error
		errs []error
	)
	collect := func(e error) {
		if e != nil {
			errs = append(errs, e)
		}
	}

	m.HTTPRequestsTotal, err = meter.Int64Counter("http_requests_total",
		metric.WithDescription("Total number of HTTP requests"))
	collect(err)
	m.HTTPRequestDuration, err = meter.Float64Histogram("http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"))
	collect(err)
	m.HTTPActiveRequests, err = meter.Int64UpDownCounter("http_active_requests",
		metric.WithDescription("Number of active HTTP requests"))
	collect(err)

	m.ProcessTotal, err = meter.Int64Counter("workbook_process_total",
		metric.WithDescription("Workbooks processed, by outcome"))
	collect(err)
	m.ProcessDuration, err = meter.Float64Histogram("workbook_process_duration_seconds",
		metric.WithDescription("Time to compare, highlight and write a workbook"),
		metric.WithUnit("s"))
	collect(err)
	m.ProcessChangedRows, err = meter.Int64Histogram("workbook_changed_rows",
		metric.WithDescription("Rows highlighted per processed workbook"))
	collect(err)
	m.SuppressedColumns, err = meter.Int64Counter("workbook_suppressed_columns_total",
		metric.WithDescription("Columns dropped by the noise filter"))
	collect(err)
	m.LockWaitDuration, err = meter.Float64Histogram("workbook_lock_wait_seconds",
		metric.WithDescription("Time spent waiting for another request on the same file"),
		metric.WithUnit("s"))
	collect(err)
	m.ActiveProcesses, err = meter.Int64UpDownCounter("workbook_active_processes",
		metric.WithDescription("Workbooks currently being processed"))
	collect(err)

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return &m, nil
}

// RecordProcessMetrics records the outcome of one processing run.
// errorType is "" on success.
func RecordProcessMetrics(ctx context.Context, metrics *BusinessMetrics, duration time.Duration, changedRows, suppressed int, errorType string) {
	if metrics == nil {
		return
	}

	outcome := "success"
	if errorType != "" {
		outcome = "failure"
	}
	attrs := metric.WithAttributes(
		attribute.String("outcome", outcome),
		attribute.String("error.type", errorType),
	)

	metrics.ProcessTotal.Add(ctx, 1, attrs)
	metrics.ProcessDuration.Record(ctx, duration.Seconds(), attrs)
	if errorType == "" {
		metrics.ProcessChangedRows.Record(ctx, int64(changedRows))
		if suppressed > 0 {
			metrics.SuppressedColumns.Add(ctx, int64(suppressed))
		}
	}

	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.AddEvent("workbook.metrics_recorded", trace.WithAttributes(
			attribute.String("outcome", outcome),
			attribute.Int("changed_rows", changedRows),
			attribute.Float64("duration_seconds", duration.Seconds()),
		))
	}
}

// Shutdown flushes and stops the providers
func (p *OTelProviders) Shutdown(ctx context.Context) error {
	var errs []error

	if p.TracerProvider != nil {
		if err := p.TracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer provider shutdown: %w", err))
		}
	}
	if p.MeterProvider != nil {
		if err := p.MeterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter provider shutdown: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("opentelemetry shutdown errors: %w", errors.Join(errs...))
	}

	p.Logger.InfoContext(ctx, "OpenTelemetry shutdown complete")
	return nil
}
