package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/quality-service/internal/models"
)

// ServiceLogger provides structured logging for service layer operations
type ServiceLogger struct {
	logger *slog.Logger
	config LogConfig
}

type LogConfig struct {
	Service     string
	Component   string
	EnableDebug bool
}

func NewServiceLogger(logger *slog.Logger, config LogConfig) *ServiceLogger {
	return &ServiceLogger{
		logger: logger.With("service", config.Service, "component", config.Component),
		config: config,
	}
}

// ===== OPERATION LOGGING =====

// LogOperation logs the outcome of one session operation. Expected client
// errors are logged below error level.
func (l *ServiceLogger) LogOperation(ctx context.Context, operation, sessionID string, duration time.Duration, err error) {
	level := slog.LevelInfo
	status := "success"

	if err != nil {
		level = slog.LevelError
		status = "error"

		switch {
		case IsValidation(err):
			level = slog.LevelWarn
			status = "validation_error"
		case IsConflict(err):
			level = slog.LevelWarn
			status = "conflict"
		case IsNotFound(err):
			status = "not_found"
			level = slog.LevelInfo
		}
	}

	attrs := []slog.Attr{
		slog.String("operation", operation),
		slog.String("session_id", sessionID),
		slog.String("status", status),
		slog.Duration("duration", duration),
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
		if validationErr, ok := err.(ValidationErrors); ok {
			attrs = append(attrs, slog.Int("validation_errors_count", len(validationErr)))
		}
	}

	l.logger.LogAttrs(ctx, level, fmt.Sprintf("%s operation %s", operation, status), attrs...)
}

// LogVerdict records the verdict of an evaluated submission
func (l *ServiceLogger) LogVerdict(ctx context.Context, sessionID, taskID string, result models.QualityResult, snapshot models.TimeGateSnapshot) {
	level := slog.LevelInfo
	if !result.Passed {
		level = slog.LevelWarn
	}

	l.logger.LogAttrs(ctx, level, "Submission evaluated",
		slog.String("session_id", sessionID),
		slog.String("task_id", taskID),
		slog.Bool("passed", result.Passed),
		slog.Float64("score", result.Score),
		slog.Any("flags", result.Flags),
		slog.String("reason", result.Reason),
		slog.Int("active_seconds", snapshot.ActiveSeconds),
		slog.Int("total_elapsed_seconds", snapshot.TotalElapsedSeconds),
	)
}

// LogDegraded records a dependency failure the service continued past
func (l *ServiceLogger) LogDegraded(ctx context.Context, dependency, operation string, err error, args ...any) {
	attrs := []slog.Attr{
		slog.String("dependency", dependency),
		slog.String("operation", operation),
		slog.String("error", err.Error()),
	}
	l.logger.LogAttrs(ctx, slog.LevelWarn, "Continuing without "+dependency, append(attrs, argsToAttrs(args)...)...)
}

// LogDebug logs only when debug logging is enabled for the service
func (l *ServiceLogger) LogDebug(ctx context.Context, msg string, args ...any) {
	if l.config.EnableDebug {
		l.logger.DebugContext(ctx, msg, args...)
	}
}

func argsToAttrs(args []any) []slog.Attr {
	attrs := make([]slog.Attr, 0, len(args)/2)
	for i := 0; i+1 < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok {
			key = fmt.Sprint(args[i])
		}
		attrs = append(attrs, slog.Any(key, args[i+1]))
	}
	return attrs
}
