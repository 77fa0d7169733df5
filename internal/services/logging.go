package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// ServiceLogger provides structured logging for service layer operations
type ServiceLogger struct {
	logger *slog.Logger
}

func NewServiceLogger(logger *slog.Logger, component string) *ServiceLogger {
	return &ServiceLogger{
		logger: logger.With("service", "placement-test-service", "component", component),
	}
}

func (l *ServiceLogger) Logger() *slog.Logger {
	return l.logger
}

// LogOperation logs the outcome of an operation at a level derived from
// the error class.
func (l *ServiceLogger) LogOperation(ctx context.Context, operation string, duration time.Duration, err error, attrs ...slog.Attr) {
	level := slog.LevelInfo
	status := "success"

	if err != nil {
		level = slog.LevelError
		status = "error"

		switch {
		case IsValidation(err):
			level = slog.LevelWarn
			status = "validation_error"
		case IsNotFound(err):
			level = slog.LevelInfo
			status = "not_found"
		}
	}

	all := []slog.Attr{
		slog.String("operation", operation),
		slog.String("status", status),
		slog.Duration("duration", duration),
	}
	if err != nil {
		all = append(all, slog.String("error", err.Error()))

		var validationErrs ValidationErrors
		if errors.As(err, &validationErrs) {
			all = append(all, slog.Any("fields", validationErrs.Fields()))
		}
	}
	all = append(all, attrs...)

	l.logger.LogAttrs(ctx, level, fmt.Sprintf("%s operation %s", operation, status), all...)
}
