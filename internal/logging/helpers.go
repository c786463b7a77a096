package logging

import (
	"maps"
	"strings"

	"github.com/goliatone/go-cms-workflow/pkg/interfaces"
	"github.com/google/uuid"
)

const (
	fieldItemID  = "item_id"
	fieldPath    = "folder_path"
	fieldOutcome = "outcome"
)

// WithFields attaches a copy of fields when the logger implements
// FieldsLogger. Other loggers, nil loggers and empty maps pass through.
func WithFields(logger interfaces.Logger, fields map[string]any) interfaces.Logger {
	if logger == nil || len(fields) == 0 {
		return logger
	}
	fieldsLogger, ok := logger.(interfaces.FieldsLogger)
	if !ok {
		return logger
	}
	return fieldsLogger.WithFields(maps.Clone(fields))
}

// WithWalkContext enriches the logger with bulk walk fields. Empty values are ignored.
func WithWalkContext(logger interfaces.Logger, path, outcome string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(path); trimmed != "" {
		fields[fieldPath] = trimmed
	}
	if trimmed := strings.TrimSpace(outcome); trimmed != "" {
		fields[fieldOutcome] = trimmed
	}
	return WithFields(logger, fields)
}

// WithItem attaches the item identifier to the logger.
func WithItem(logger interfaces.Logger, itemID uuid.UUID) interfaces.Logger {
	if itemID == uuid.Nil {
		return logger
	}
	return WithFields(logger, map[string]any{fieldItemID: itemID.String()})
}
