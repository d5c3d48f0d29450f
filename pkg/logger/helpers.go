package logger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// LogRequest logs a completed HTTP request on l, or on the global logger when l is nil
func LogRequest(l Logger, method, url string, statusCode int, duration time.Duration) {
	if l == nil {
		l = GetLogger()
	}
	fields := map[string]interface{}{
		"method":      method,
		"url":         RedactToken(url),
		"status_code": statusCode,
		"duration_ms": duration.Milliseconds(),
	}

	switch {
	case statusCode >= 500:
		l.ErrorWithFields("HTTP request server error", fields)
	case statusCode >= 400:
		l.WarnWithFields("HTTP request client error", fields)
	default:
		l.DebugWithFields("HTTP request completed", fields)
	}
}

// RedactToken hides the access_token query parameter value
func RedactToken(url string) string {
	const key = "access_token="
	i := strings.Index(url, key)
	if i < 0 {
		return url
	}
	start := i + len(key)
	end := strings.IndexByte(url[start:], '&')
	if end < 0 {
		return url[:start] + "***"
	}
	return url[:start] + "***" + url[start+end:]
}

// LogRateLimit logs rate limiting events
func LogRateLimit(endpoint string, wait time.Duration) {
	GetLogger().WithFields(map[string]interface{}{
		"endpoint": endpoint,
		"wait_ms":  wait.Milliseconds(),
		"action":   "rate_limited",
	}).Warn("Rate limit reached, backing off")
}

// LogScanProgress logs batch scan progress
func LogScanProgress(handle string, done, total, videos int) {
	percentage := 0.0
	if total > 0 {
		percentage = float64(done) / float64(total) * 100
	}

	GetLogger().WithFields(map[string]interface{}{
		"handle":     handle,
		"done":       done,
		"total":      total,
		"videos":     videos,
		"percentage": fmt.Sprintf("%.1f%%", percentage),
	}).Info("Scan progress")
}

// LogComponentStart logs when a component starts
func LogComponentStart(component string, config map[string]interface{}) {
	l := GetLogger().WithField("component", component)
	if len(config) > 0 {
		l = l.WithFields(config)
	}
	l.Info("Component started")
}

// LogComponentStop logs when a component stops
func LogComponentStop(component string, reason string) {
	GetLogger().WithFields(map[string]interface{}{
		"component": component,
		"reason":    reason,
	}).Info("Component stopped")
}

// LogMetrics logs performance metrics
func LogMetrics(operation string, metrics map[string]interface{}) {
	fields := map[string]interface{}{
		"operation": operation,
		"type":      "metrics",
	}
	for k, v := range metrics {
		fields[k] = v
	}
	GetLogger().InfoWithFields("Performance metrics", fields)
}

// GooseLogger adapts a Logger to the goose migration logger interface
type GooseLogger struct {
	L Logger
}

// Printf logs migration progress at info level
func (g GooseLogger) Printf(format string, v ...interface{}) {
	g.L.WithField("component", "migrate").Info(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

// Fatalf logs a migration failure. It does not exit; goose returns the error to the caller.
func (g GooseLogger) Fatalf(format string, v ...interface{}) {
	g.L.WithField("component", "migrate").Error(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

// NewNopLogger creates a no-operation logger for testing
func NewNopLogger() Logger {
	return &nopLogger{}
}

// nopLogger is a logger that does nothing (useful for testing)
type nopLogger struct{}

func (n *nopLogger) Debug(msg string)                                          {}
func (n *nopLogger) Info(msg string)                                           {}
func (n *nopLogger) Warn(msg string)                                           {}
func (n *nopLogger) Error(msg string)                                          {}
func (n *nopLogger) Fatal(msg string)                                          {}
func (n *nopLogger) WithField(key string, value interface{}) Logger            { return n }
func (n *nopLogger) WithFields(fields map[string]interface{}) Logger           { return n }
func (n *nopLogger) WithError(err error) Logger                                { return n }
func (n *nopLogger) WithContext(ctx context.Context) Logger                    { return n }
func (n *nopLogger) DebugWithFields(msg string, fields map[string]interface{}) {}
func (n *nopLogger) InfoWithFields(msg string, fields map[string]interface{})  {}
func (n *nopLogger) WarnWithFields(msg string, fields map[string]interface{})  {}
func (n *nopLogger) ErrorWithFields(msg string, fields map[string]interface{}) {}
func (n *nopLogger) FatalWithFields(msg string, fields map[string]interface{}) {}
func (n *nopLogger) GetZerolog() *zerolog.Logger                               { return nil }
