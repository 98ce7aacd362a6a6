package logging

import "context"

type contextKey string

const logFieldsKey contextKey = "log_fields"

// LogFields are added to every record logged with a context that carries
// them.
type LogFields struct {
	EventName string
	WebhookID string
	JobID     string
	Component string
}

// WithLogFields enriches ctx with fields. Multiple calls merge, with newer
// non-empty values taking precedence.
func WithLogFields(ctx context.Context, fields LogFields) context.Context {
	merged := mergeFields(GetLogFields(ctx), fields)
	return context.WithValue(ctx, logFieldsKey, merged)
}

// GetLogFields retrieves log fields from ctx.
func GetLogFields(ctx context.Context) LogFields {
	if fields, ok := ctx.Value(logFieldsKey).(LogFields); ok {
		return fields
	}
	return LogFields{}
}

func mergeFields(existing, next LogFields) LogFields {
	result := existing

	if next.EventName != "" {
		result.EventName = next.EventName
	}
	if next.WebhookID != "" {
		result.WebhookID = next.WebhookID
	}
	if next.JobID != "" {
		result.JobID = next.JobID
	}
	if next.Component != "" {
		result.Component = next.Component
	}

	return result
}
