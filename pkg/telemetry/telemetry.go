// Package telemetry instruments outbound HTTP traffic and exports traces to
// Logfire over OTLP.
package telemetry

import (
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/trace"

	"github.com/germanamz/wildlife/pkg/agentctx"
)

// Transport is an http.RoundTripper that logs one record per request.
type Transport struct {
	Base http.RoundTripper
	Log  *slog.Logger

	// idle receives CloseIdleConnections when Base does not forward it.
	idle interface{ CloseIdleConnections() }
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}

	start := time.Now()
	resp, err := base.RoundTrip(req)

	attrs := []slog.Attr{
		slog.String("method", req.Method),
		slog.String("url", redact(req)),
		slog.Duration("duration", time.Since(start)),
	}
	if name := agentctx.AgentNameFromContext(req.Context()); name != "" {
		attrs = append(attrs, slog.String("agent", name))
	}

	if err != nil {
		attrs = append(attrs, slog.Any("error", err))
		t.logger().LogAttrs(req.Context(), slog.LevelWarn, "http request failed", attrs...)
		return nil, err
	}

	attrs = append(attrs, slog.Int("status", resp.StatusCode))

	level := slog.LevelDebug
	if resp.StatusCode >= http.StatusBadRequest {
		level = slog.LevelWarn
	}
	t.logger().LogAttrs(req.Context(), level, "http request", attrs...)

	return resp, nil
}

// CloseIdleConnections lets http.Client.CloseIdleConnections reach the
// underlying connection pool.
func (t *Transport) CloseIdleConnections() {
	if t.idle != nil {
		t.idle.CloseIdleConnections()
		return
	}
	if c, ok := t.Base.(interface{ CloseIdleConnections() }); ok {
		c.CloseIdleConnections()
	}
}

func (t *Transport) logger() *slog.Logger {
	if t.Log != nil {
		return t.Log
	}
	return slog.Default()
}

// NewClient returns an http.Client whose requests are traced with tp and
// logged to log. Callers should CloseIdleConnections when done with it.
func NewClient(log *slog.Logger, tp trace.TracerProvider, timeout time.Duration) *http.Client {
	pool := http.DefaultTransport.(*http.Transport).Clone()

	return &http.Client{
		Timeout: timeout,
		Transport: &Transport{
			Base: otelhttp.NewTransport(pool, otelhttp.WithTracerProvider(tp)),
			Log:  log,
			idle: pool,
		},
	}
}

func redact(req *http.Request) string {
	u := *req.URL
	u.User = nil
	return u.String()
}
