// Package tracing - инициализация OpenTelemetry
package tracing

import (
	"context"
	"fmt"

	"github.com/frontandrew/stationtime/internal/pkg/config"
	"github.com/frontandrew/stationtime/internal/pkg/logger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

// InstrumentationName - имя трейсера сервиса
const InstrumentationName = "github.com/frontandrew/stationtime"

// Tracer возвращает трейсер глобального провайдера
// Без Init спаны не экспортируются
func Tracer() trace.Tracer {
	return otel.Tracer(InstrumentationName)
}

// Init настраивает OTLP HTTP экспорт, если задан endpoint
// Возвращает функцию остановки провайдера
func Init(ctx context.Context, cfg config.TracingConfig, app config.AppConfig, log logger.Logger) (func(context.Context) error, error) {
	if cfg.Endpoint == "" {
		log.Info("Tracing disabled: OTEL_EXPORTER_OTLP_ENDPOINT not set")
		return func(context.Context) error { return nil }, nil
	}

	opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}

	exporter, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(app.Name),
			semconv.ServiceVersion(app.Version),
			semconv.DeploymentEnvironment(app.Env),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create trace resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRatio))),
	)
	otel.SetTracerProvider(tp)

	log.Info("Tracing initialized", map[string]interface{}{
		"endpoint": cfg.Endpoint,
	})

	return tp.Shutdown, nil
}
