package logger

import "context"

// contextKey keeps this package's context values from colliding with
// other packages' string keys
type contextKey string

// RequestIDKey carries the request id through the request context so
// lower layers, the gorm logger in particular, can tag their output
const RequestIDKey contextKey = "request_id"

// WithRequestID stores the request id in the context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// GetRequestID returns the request id from the context, or ""
func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(RequestIDKey).(string); ok {
		return requestID
	}
	return ""
}
