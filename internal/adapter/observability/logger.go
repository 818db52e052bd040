package observability

import (
	"context"

	"github.com/bkyoung/lintgate/internal/adapter/httpx"
	"github.com/bkyoung/lintgate/internal/usecase/report"
)

// ReportLogger adapts httpx.Logger to the report.Logger interface so
// the reporter shares the same structured logging infrastructure as the
// platform HTTP clients.
type ReportLogger struct {
	logger httpx.Logger
}

// NewReportLogger creates a new report logger adapter.
func NewReportLogger(logger httpx.Logger) report.Logger {
	return &ReportLogger{logger: logger}
}

// LogInfo logs an informational message with structured fields.
func (l *ReportLogger) LogInfo(ctx context.Context, message string, fields map[string]interface{}) {
	l.logger.LogInfo(ctx, message, fields)
}

// LogWarning logs a warning message with structured fields.
func (l *ReportLogger) LogWarning(ctx context.Context, message string, fields map[string]interface{}) {
	l.logger.LogWarning(ctx, message, fields)
}

// LogError logs an error message with structured fields.
func (l *ReportLogger) LogError(ctx context.Context, message string, fields map[string]interface{}) {
	l.logger.LogError(ctx, message, fields)
}
