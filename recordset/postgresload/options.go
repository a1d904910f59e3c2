package postgresload

import (
	"github.com/modelmesh/recordset-go/recordset"
)

// Option defines a functional option for configuring a Loader.
type Option func(*Loader) error

// WithTableName sets the records table name for the Loader.
func WithTableName(tableName string) Option {
	return func(l *Loader) error {
		if tableName == "" {
			return recordset.ErrEmptyRecordsTableName
		}

		l.recordsTableName = tableName

		return nil
	}
}

// WithLogger sets the logger for the Loader.
// The logger will receive messages at different levels based on the logger's configured level:
//
// Debug level: SQL queries with execution timing (development use)
// Info level: Record counts and durations (production-safe)
// Warn level: Non-critical issues like cleanup failures
// Error level: Critical failures that cause operation failures.
func WithLogger(logger recordset.Logger) Option {
	return func(l *Loader) error {
		l.logger = logger
		return nil
	}
}

// WithContextualLogger sets the contextual logger for the Loader.
// The contextual logger will receive log messages with context information
// including automatic trace/span correlation when tracing is enabled.
func WithContextualLogger(logger recordset.ContextualLogger) Option {
	return func(l *Loader) error {
		l.contextualLogger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector for the Loader.
// The metrics collector will receive load/store durations, record counts,
// and database error counts.
func WithMetrics(collector recordset.MetricsCollector) Option {
	return func(l *Loader) error {
		l.metricsCollector = collector
		return nil
	}
}

// WithTracing sets the tracing collector for the Loader.
// The tracing collector will receive span creation for load/store operations,
// context propagation, and error tracking.
func WithTracing(collector recordset.TracingCollector) Option {
	return func(l *Loader) error {
		l.tracingCollector = collector
		return nil
	}
}
