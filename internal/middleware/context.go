package middleware

// Context keys used to stash request-scoped metadata on the echo context.
const (
	ContextKeyTraceID = "trace_id"
)
