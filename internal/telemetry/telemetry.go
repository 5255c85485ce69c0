package telemetry

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// Config holds OpenTelemetry configuration
type Config struct {
	ServiceName      string
	ServiceNamespace string
	ServiceVersion   string
	Environment      string
	OTLPEndpoint     string
	TracesSampler    string
	MetricsInterval  time.Duration
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// LoadConfig loads OpenTelemetry configuration from environment variables
func LoadConfig() Config {
	metricsInterval := 30 * time.Second
	if raw := os.Getenv("OTEL_METRICS_EXPORT_INTERVAL"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil {
			metricsInterval = d
		}
	}

	return Config{
		ServiceName:      envOr("OTEL_SERVICE_NAME", "vitals-service"),
		ServiceNamespace: envOr("OTEL_SERVICE_NAMESPACE", "wailsalutem"),
		ServiceVersion:   envOr("OTEL_SERVICE_VERSION", "1.0.0"),
		Environment:      envOr("ENVIRONMENT", "production"),
		OTLPEndpoint:     envOr("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		TracesSampler:    envOr("OTEL_TRACES_SAMPLER", "always_on"),
		MetricsInterval:  metricsInterval,
	}
}

// Provider holds the OpenTelemetry providers
type Provider struct {
	TracerProvider *trace.TracerProvider
	MeterProvider  *metric.MeterProvider
	config         Config
	logger         zerolog.Logger
}

// InitProvider initializes OpenTelemetry tracer and meter providers.
// A missing collector degrades to running without export.
func InitProvider(ctx context.Context, cfg Config, logger zerolog.Logger) (*Provider, error) {
	logger.Info().Str("endpoint", cfg.OTLPEndpoint).Msg("initializing OpenTelemetry")

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceNamespace(cfg.ServiceNamespace),
			semconv.ServiceVersion(cfg.ServiceVersion),
			semconv.DeploymentEnvironment(cfg.Environment),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	tracerProvider, err := initTracerProvider(ctx, cfg, res)
	if err != nil {
		logger.Warn().Err(err).Msg("continuing without distributed tracing")
		tracerProvider = nil
	} else {
		otel.SetTracerProvider(tracerProvider)
		logger.Info().Msg("tracer provider initialized")
	}

	meterProvider, err := initMeterProvider(ctx, cfg, res)
	if err != nil {
		logger.Warn().Err(err).Msg("continuing without metrics export")
		meterProvider = nil
	} else {
		otel.SetMeterProvider(meterProvider)
		logger.Info().Msg("meter provider initialized")
	}

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return &Provider{
		TracerProvider: tracerProvider,
		MeterProvider:  meterProvider,
		config:         cfg,
		logger:         logger,
	}, nil
}

func samplerFor(name string) trace.Sampler {
	switch name {
	case "always_off":
		return trace.NeverSample()
	case "traceidratio":
		return trace.TraceIDRatioBased(0.1)
	default:
		return trace.AlwaysSample()
	}
}

func initTracerProvider(ctx context.Context, cfg Config, res *resource.Resource) (*trace.TracerProvider, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	traceExporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(cfg.OTLPEndpoint),
		otlptracegrpc.WithDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())),
		otlptracegrpc.WithTimeout(5*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP trace exporter: %w", err)
	}

	return trace.NewTracerProvider(
		trace.WithResource(res),
		trace.WithSampler(samplerFor(cfg.TracesSampler)),
		trace.WithBatcher(traceExporter,
			trace.WithBatchTimeout(5*time.Second),
			trace.WithMaxExportBatchSize(512),
		),
	), nil
}

func initMeterProvider(ctx context.Context, cfg Config, res *resource.Resource) (*metric.MeterProvider, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	metricExporter, err := otlpmetricgrpc.New(ctx,
		otlpmetricgrpc.WithEndpoint(cfg.OTLPEndpoint),
		otlpmetricgrpc.WithDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())),
		otlpmetricgrpc.WithTimeout(5*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP metric exporter: %w", err)
	}

	return metric.NewMeterProvider(
		metric.WithResource(res),
		metric.WithReader(metric.NewPeriodicReader(metricExporter,
			metric.WithInterval(cfg.MetricsInterval),
		)),
	), nil
}

// Shutdown flushes and stops both providers, returning the first error.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p == nil {
		return nil
	}

	var err error

	if p.TracerProvider != nil {
		if shutdownErr := p.TracerProvider.Shutdown(ctx); shutdownErr != nil {
			p.logger.Error().Err(shutdownErr).Msg("error shutting down tracer provider")
			err = shutdownErr
		}
	}

	if p.MeterProvider != nil {
		if shutdownErr := p.MeterProvider.Shutdown(ctx); shutdownErr != nil {
			p.logger.Error().Err(shutdownErr).Msg("error shutting down meter provider")
			if err == nil {
				err = shutdownErr
			}
		}
	}

	return err
}
