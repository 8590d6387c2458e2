package telemetry

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

const tracesPath = "/v1/traces"

// Config selects where traces are exported.
type Config struct {
	ServiceName string
	BaseURL     string // Logfire API base, without the OTLP path.
	Token       string // Project write token, sent as the Authorization header.
}

// Setup builds a tracer provider that batches spans to Logfire. Shutdown
// flushes pending spans and must be called before the process exits.
func Setup(ctx context.Context, cfg Config) (*sdktrace.TracerProvider, error) {
	exp, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpointURL(strings.TrimRight(cfg.BaseURL, "/")+tracesPath),
		otlptracehttp.WithHeaders(map[string]string{"Authorization": cfg.Token}),
	)
	if err != nil {
		return nil, fmt.Errorf("telemetry: otlp exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(resource.NewSchemaless(
			attribute.String("service.name", cfg.ServiceName),
		)),
	)

	return tp, nil
}
