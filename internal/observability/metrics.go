package observability

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/Kelvyn2012/Expence-tracker-BE/internal/config"
)

// InitMetrics configures the global meter provider. Disabled metrics get a
// provider with no reader, so instruments stay cheap no-ops.
func InitMetrics(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*sdkmetric.MeterProvider, error) {
	if !cfg.OTELMetricsEnabled {
		mp := sdkmetric.NewMeterProvider()
		otel.SetMeterProvider(mp)
		return mp, nil
	}

	endpoint, err := normalizeOTLPEndpoint(cfg.OTELExporterOTLPEndpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid OTLP endpoint: %w", err)
	}

	exporterOpts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(endpoint)}
	if cfg.OTELExporterOTLPInsecure {
		exporterOpts = append(exporterOpts, otlpmetrichttp.WithInsecure())
	}
	exporter, err := otlpmetrichttp.New(ctx, exporterOpts...)
	if err != nil {
		return nil, fmt.Errorf("create metric exporter: %w", err)
	}

	res, err := newResource(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("build otel resource: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)
	logger.InfoContext(ctx, "metrics initialized", "endpoint", endpoint)
	return mp, nil
}

var (
	metricsOnce         sync.Once
	authEvents          metric.Int64Counter
	verificationEvents  metric.Int64Counter
	expenseEvents       metric.Int64Counter
	budgetEvents        metric.Int64Counter
	redisKeyspaceHits   metric.Int64Counter
	redisKeyspaceMisses metric.Int64Counter
	redisErrors         metric.Int64Counter
)

func initInstruments() {
	metricsOnce.Do(func() {
		meter := otel.Meter("expense-tracker")
		authEvents, _ = meter.Int64Counter("auth_events_total",
			metric.WithDescription("Authentication boundary events by action and outcome"))
		verificationEvents, _ = meter.Int64Counter("verification_events_total",
			metric.WithDescription("Email verification lifecycle events by action and outcome"))
		expenseEvents, _ = meter.Int64Counter("expense_events_total",
			metric.WithDescription("Expense operations by action and outcome"))
		budgetEvents, _ = meter.Int64Counter("budget_events_total",
			metric.WithDescription("Budget operations by action and outcome"))
		redisKeyspaceHits, _ = meter.Int64Counter("redis_keyspace_hits_total")
		redisKeyspaceMisses, _ = meter.Int64Counter("redis_keyspace_misses_total")
		redisErrors, _ = meter.Int64Counter("redis_errors_total",
			metric.WithDescription("Redis command failures by error class"))
	})
}

func RecordAuthEvent(ctx context.Context, action, outcome string) {
	initInstruments()
	authEvents.Add(ctx, 1, metric.WithAttributes(
		attribute.String("action", action),
		attribute.String("outcome", outcome),
	))
}

func RecordVerificationEvent(ctx context.Context, action, outcome string) {
	initInstruments()
	verificationEvents.Add(ctx, 1, metric.WithAttributes(
		attribute.String("action", action),
		attribute.String("outcome", outcome),
	))
}

func RecordExpenseEvent(ctx context.Context, action, outcome string) {
	initInstruments()
	expenseEvents.Add(ctx, 1, metric.WithAttributes(
		attribute.String("action", action),
		attribute.String("outcome", outcome),
	))
}

func RecordBudgetEvent(ctx context.Context, action, outcome string) {
	initInstruments()
	budgetEvents.Add(ctx, 1, metric.WithAttributes(
		attribute.String("action", action),
		attribute.String("outcome", outcome),
	))
}
