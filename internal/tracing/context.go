package tracing

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	oteltrace "go.opentelemetry.io/otel/trace"
)

// ContextKey represents keys used for context values
type ContextKey string

const (
	// RequestIDKey is the context key for request IDs
	RequestIDKey ContextKey = "request_id"
	// StartTimeKey is the context key for request start time
	StartTimeKey ContextKey = "start_time"
)

// RequestInfo contains tracing information for a request
type RequestInfo struct {
	RequestID string    `json:"request_id"`
	TraceID   string    `json:"trace_id"`
	SpanID    string    `json:"span_id"`
	StartTime time.Time `json:"start_time"`
}

// GenerateRequestID generates a unique request ID
func GenerateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		// Fallback to timestamp-based ID if crypto rand fails
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return fmt.Sprintf("req_%s", hex.EncodeToString(bytes))
}

// WithRequestID adds a request ID to the context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// WithStartTime adds a start time to the context
func WithStartTime(ctx context.Context, startTime time.Time) context.Context {
	return context.WithValue(ctx, StartTimeKey, startTime)
}

// GetRequestID extracts the request ID from context
func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(RequestIDKey).(string); ok {
		return requestID
	}
	return ""
}

// GetStartTime extracts the start time from context
func GetStartTime(ctx context.Context) time.Time {
	if startTime, ok := ctx.Value(StartTimeKey).(time.Time); ok {
		return startTime
	}
	return time.Time{}
}

// GetRequestInfo extracts all tracing information from context. Trace and
// span IDs come from the active OpenTelemetry span when one is recording.
func GetRequestInfo(ctx context.Context) *RequestInfo {
	info := &RequestInfo{
		RequestID: GetRequestID(ctx),
		StartTime: GetStartTime(ctx),
	}

	span := oteltrace.SpanFromContext(ctx)
	if span.SpanContext().IsValid() {
		info.TraceID = span.SpanContext().TraceID().String()
		info.SpanID = span.SpanContext().SpanID().String()
	}
	return info
}

// Duration calculates the duration since the start time in context
func Duration(ctx context.Context) time.Duration {
	startTime := GetStartTime(ctx)
	if startTime.IsZero() {
		return 0
	}
	return time.Since(startTime)
}
