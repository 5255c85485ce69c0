package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/WailSalutem-Health-Care/vitals-service"

// Metrics holds all custom metrics for the service. A nil *Metrics records nothing.
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal metric.Int64Counter
	HTTPDurationMs    metric.Float64Histogram

	// Business metrics
	UserTotal    metric.Int64Counter
	PatientTotal metric.Int64Counter
	VitalTotal   metric.Int64Counter
	ExportTotal  metric.Int64Counter
	ExportRows   metric.Int64Histogram

	// Auth metrics
	AuthFailuresTotal metric.Int64Counter
}

// InitMetrics registers the instruments on the global meter provider
func InitMetrics() (*Metrics, error) {
	meter := otel.Meter(meterName)
	m := &Metrics{}
	var err error

	if m.HTTPRequestsTotal, err = meter.Int64Counter(
		"http_server_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{request}"),
	); err != nil {
		return nil, err
	}

	if m.HTTPDurationMs, err = meter.Float64Histogram(
		"http_server_duration_milliseconds",
		metric.WithDescription("HTTP request duration in milliseconds"),
		metric.WithUnit("ms"),
	); err != nil {
		return nil, err
	}

	if m.UserTotal, err = meter.Int64Counter(
		"user_total",
		metric.WithDescription("Total number of user operations"),
		metric.WithUnit("{operation}"),
	); err != nil {
		return nil, err
	}

	if m.PatientTotal, err = meter.Int64Counter(
		"patient_total",
		metric.WithDescription("Total number of patient operations"),
		metric.WithUnit("{operation}"),
	); err != nil {
		return nil, err
	}

	if m.VitalTotal, err = meter.Int64Counter(
		"vital_total",
		metric.WithDescription("Total number of vital readings written, by operation"),
		metric.WithUnit("{reading}"),
	); err != nil {
		return nil, err
	}

	if m.ExportTotal, err = meter.Int64Counter(
		"vitals_export_total",
		metric.WithDescription("Total number of spreadsheet exports"),
		metric.WithUnit("{export}"),
	); err != nil {
		return nil, err
	}

	if m.ExportRows, err = meter.Int64Histogram(
		"vitals_export_rows",
		metric.WithDescription("Data rows per spreadsheet export"),
		metric.WithUnit("{row}"),
	); err != nil {
		return nil, err
	}

	if m.AuthFailuresTotal, err = meter.Int64Counter(
		"auth_failures_total",
		metric.WithDescription("Total number of authentication failures"),
		metric.WithUnit("{failure}"),
	); err != nil {
		return nil, err
	}

	return m, nil
}

// RecordHTTPRequest records an HTTP request metric
func (m *Metrics) RecordHTTPRequest(ctx context.Context, method, route string, statusCode int, durationMs float64) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("http_method", method),
		attribute.String("http_route", route),
		attribute.Int("http_status_code", statusCode),
	)
	m.HTTPRequestsTotal.Add(ctx, 1, attrs)
	m.HTTPDurationMs.Record(ctx, durationMs, attrs)
}

// RecordUserOperation records a user operation metric
func (m *Metrics) RecordUserOperation(ctx context.Context, operation string) {
	if m == nil {
		return
	}
	m.UserTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", operation)))
}

// RecordPatientOperation records a patient operation metric
func (m *Metrics) RecordPatientOperation(ctx context.Context, operation string) {
	if m == nil {
		return
	}
	m.PatientTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", operation)))
}

// RecordVitalOperation adds count readings for the operation
func (m *Metrics) RecordVitalOperation(ctx context.Context, operation string, count int) {
	if m == nil {
		return
	}
	m.VitalTotal.Add(ctx, int64(count), metric.WithAttributes(attribute.String("operation", operation)))
}

// RecordExport records a finished spreadsheet export
func (m *Metrics) RecordExport(ctx context.Context, rows int) {
	if m == nil {
		return
	}
	m.ExportTotal.Add(ctx, 1)
	m.ExportRows.Record(ctx, int64(rows))
}

// RecordAuthFailure records an authentication failure metric
func (m *Metrics) RecordAuthFailure(ctx context.Context, reason string) {
	if m == nil {
		return
	}
	m.AuthFailuresTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
}
