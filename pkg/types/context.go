package types

// contextKey is a private type for context values set by the HTTP layer.
type contextKey string

// ContextKeyRequestID carries the per-request id into logs and telemetry.
const ContextKeyRequestID contextKey = "request_id"
