package logger

import "context"

type contextKey string

const logFieldsKey contextKey = "log_fields"

// LogFields are attached to every record logged with a context carrying them.
type LogFields struct {
	TeamID    *int64
	UserID    *int64
	MessageID *int64
	TaskID    *int64
	Component string
}

// WithLogFields merges fields into the context. Newer non-nil values win.
func WithLogFields(ctx context.Context, fields LogFields) context.Context {
	merged := mergeFields(GetLogFields(ctx), fields)
	return context.WithValue(ctx, logFieldsKey, merged)
}

func GetLogFields(ctx context.Context) LogFields {
	if fields, ok := ctx.Value(logFieldsKey).(LogFields); ok {
		return fields
	}
	return LogFields{}
}

func mergeFields(existing, next LogFields) LogFields {
	result := existing
	if next.TeamID != nil {
		result.TeamID = next.TeamID
	}
	if next.UserID != nil {
		result.UserID = next.UserID
	}
	if next.MessageID != nil {
		result.MessageID = next.MessageID
	}
	if next.TaskID != nil {
		result.TaskID = next.TaskID
	}
	if next.Component != "" {
		result.Component = next.Component
	}
	return result
}

func Ptr[T any](v T) *T {
	return &v
}

// Truncate shortens s to maxLen bytes, appending "..." when cut.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
