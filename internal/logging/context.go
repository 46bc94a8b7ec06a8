package logging

import (
	"context"
	"log/slog"

	"shelfscan/internal/services"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldCorrelationID is the standardized structured logging key for request correlation identifiers.
	FieldCorrelationID = "correlation_id"
	// FieldBarcode is the standardized structured logging key for the barcode under resolution.
	FieldBarcode = "barcode"
	// FieldStage is the standardized structured logging key for lookup stage names.
	FieldStage = "stage"
	// FieldSource names the catalog or service that produced a value.
	FieldSource = "source"
	// FieldEventType classifies warnings and errors for filtering.
	FieldEventType = "event_type"
	// FieldErrorHint suggests the next step an operator should take.
	FieldErrorHint = "error_hint"
	// FieldImpact is the user-facing consequence of a warning.
	FieldImpact = "impact"
)

// WithContext adds the request id, barcode and stage carried by ctx to logger.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	if ctx == nil {
		return logger
	}
	var fields []any
	if rid, ok := services.RequestIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldCorrelationID, rid))
	}
	if code, ok := services.BarcodeFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldBarcode, code))
	}
	if stage, ok := services.StageFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldStage, stage))
	}
	if len(fields) == 0 {
		return logger
	}
	return logger.With(fields...)
}
