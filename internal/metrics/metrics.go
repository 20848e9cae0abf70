// Package metrics instruments the vault with OpenTelemetry metrics exported
// in Prometheus format. The surface is deliberately small: one counter and one
// histogram per dimension the application actually has (commands and HTTP
// requests). Labels carry command names, routes and statuses only, never user
// data.
package metrics

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// Recorder owns the whole metrics pipeline: a private Prometheus registry
// bridged to an OpenTelemetry meter provider, plus every instrument the
// application records into. Declaring the instruments up front means a broken
// pipeline fails at startup, not on the first recorded command.
type Recorder struct {
	registry *prometheus.Registry
	provider *sdkmetric.MeterProvider

	commands       metric.Int64Counter
	commandSeconds metric.Float64Histogram
	requests       metric.Int64Counter
	requestSeconds metric.Float64Histogram
}

// CommandRecorder is the slice of Recorder the use-case decorator depends on.
type CommandRecorder interface {
	// RecordCommand records one completed command with its status
	// ("success" or "error") and duration.
	RecordCommand(ctx context.Context, command, status string, elapsed time.Duration)
}

// NewRecorder builds the pipeline. The registry → exporter → meter-provider
// chain is the OTel SDK's one way of bridging to Prometheus; what is ours is
// everything after it: the instrument set and its label scheme.
func NewRecorder(namespace string) (*Recorder, error) {
	registry := prometheus.NewRegistry()

	exporter, err := promexporter.New(promexporter.WithRegisterer(registry))
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))
	meter := provider.Meter(namespace)

	r := &Recorder{registry: registry, provider: provider}

	r.commands, err = meter.Int64Counter(
		namespace+"_commands_total",
		metric.WithDescription("Total number of vault commands"),
		metric.WithUnit("{command}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create command counter: %w", err)
	}

	r.commandSeconds, err = meter.Float64Histogram(
		namespace+"_command_duration_seconds",
		metric.WithDescription("Duration of vault commands in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create command duration histogram: %w", err)
	}

	r.requests, err = meter.Int64Counter(
		namespace+"_http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create request counter: %w", err)
	}

	r.requestSeconds, err = meter.Float64Histogram(
		namespace+"_http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create request duration histogram: %w", err)
	}

	return r, nil
}

// RecordCommand records one completed command: count and duration share the
// same (command, status) label pair so the two series always line up.
func (r *Recorder) RecordCommand(ctx context.Context, command, status string, elapsed time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("command", command),
		attribute.String("status", status),
	)
	r.commands.Add(ctx, 1, attrs)
	r.commandSeconds.Record(ctx, elapsed.Seconds(), attrs)
}

// GinMiddleware records request counts and durations. The path label uses the
// route pattern, not the raw URL, to bound cardinality.
func (r *Recorder) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		attrs := metric.WithAttributes(
			attribute.String("method", c.Request.Method),
			attribute.String("path", path),
			attribute.String("status_code", strconv.Itoa(c.Writer.Status())),
		)
		r.requests.Add(c.Request.Context(), 1, attrs)
		r.requestSeconds.Record(c.Request.Context(), time.Since(start).Seconds(), attrs)
	}
}

// Handler serves the registry in Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// Shutdown flushes pending metrics and releases the meter provider.
func (r *Recorder) Shutdown(ctx context.Context) error {
	if r.provider == nil {
		return nil
	}
	return r.provider.Shutdown(ctx)
}
