package telemetry

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/yatube/yatube/pkg/config"
	"github.com/yatube/yatube/pkg/logging"
)

const instrumentationName = "github.com/yatube/yatube"

// Init initializes OpenTelemetry tracing and the Prometheus metric exporter.
// The returned function flushes and stops every provider that was started.
func Init(cfg *config.TelemetryConfig) (func(), error) {
	logger := logging.WithComponent("telemetry")
	if !cfg.Enabled {
		logger.Info("Telemetry disabled")
		return func() {}, nil
	}

	ctx := context.Background()

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion("0.1.0"),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	var shutdownFuncs []func(context.Context) error

	exporter, err := newSpanExporter(ctx, cfg)
	if err != nil {
		return nil, err
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	shutdownFuncs = append(shutdownFuncs, tp.Shutdown)
	logger.Info("Trace exporter initialized", zap.String("exporter", cfg.Exporter))

	if cfg.PrometheusEnabled {
		promExporter, err := prometheus.New()
		if err != nil {
			return nil, fmt.Errorf("failed to create Prometheus exporter: %w", err)
		}

		mp := sdkmetric.NewMeterProvider(
			sdkmetric.WithReader(promExporter),
			sdkmetric.WithResource(res),
		)
		otel.SetMeterProvider(mp)
		shutdownFuncs = append(shutdownFuncs, mp.Shutdown)

		logger.Info("Prometheus exporter initialized")
	}

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	shutdown := func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		for _, fn := range shutdownFuncs {
			if err := fn(shutdownCtx); err != nil {
				logger.Error("Error shutting down telemetry", zap.Error(err))
			}
		}
	}

	return shutdown, nil
}

func newSpanExporter(ctx context.Context, cfg *config.TelemetryConfig) (sdktrace.SpanExporter, error) {
	switch cfg.Exporter {
	case "otlp":
		endpoint := cfg.OTLPEndpoint
		opts := []otlptracehttp.Option{}
		if u, err := url.Parse(endpoint); err == nil && u.Host != "" {
			endpoint = u.Host
			if u.Scheme == "http" {
				opts = append(opts, otlptracehttp.WithInsecure())
			}
		} else {
			opts = append(opts, otlptracehttp.WithInsecure())
		}
		opts = append(opts, otlptracehttp.WithEndpoint(endpoint))
		exp, err := otlptracehttp.New(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
		}
		return exp, nil
	default:
		exp, err := jaeger.New(jaeger.WithCollectorEndpoint(jaeger.WithEndpoint(cfg.JaegerURL)))
		if err != nil {
			return nil, fmt.Errorf("failed to create Jaeger exporter: %w", err)
		}
		return exp, nil
	}
}

// Tracer returns the application tracer. Before Init it is a no-op tracer.
func Tracer() trace.Tracer {
	return otel.Tracer(instrumentationName)
}

// Meter returns the application meter. Before Init it is a no-op meter.
func Meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

// StartSpan starts a new span
func StartSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return Tracer().Start(ctx, name, opts...)
}

// Counter returns an int64 counter, falling back to a no-op when the
// instrument cannot be created.
func Counter(name, description string) metric.Int64Counter {
	c, err := Meter().Int64Counter(name, metric.WithDescription(description))
	if err != nil {
		logging.WithComponent("telemetry").Warn("Failed to create counter", zap.String("name", name), zap.Error(err))
		return noop.Int64Counter{}
	}
	return c
}
