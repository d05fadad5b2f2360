package middleware

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"ransomsim/internal/metrics"
	"ransomsim/internal/tracing"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Observability adds metrics collection and tracing to HTTP requests
func Observability(logger *logrus.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := tracing.StartSpan(r.Context(), "http_request")
			defer span.End()

			requestID := tracing.GenerateRequestID()
			ctx = tracing.WithRequestID(ctx, requestID)
			ctx = tracing.WithStartTime(ctx, time.Now())

			r = r.WithContext(ctx)

			tracing.AddSpanAttributes(ctx,
				attribute.String("http.method", r.Method),
				attribute.String("http.route", r.URL.Path),
				attribute.String("http.host", r.Host),
				attribute.String("client.address", clientIP(r)),
			)

			requestInfo := tracing.GetRequestInfo(ctx)

			wrapper := &responseWrapper{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}

			logger.WithFields(logrus.Fields{
				"request_id": requestInfo.RequestID,
				"trace_id":   requestInfo.TraceID,
				"method":     r.Method,
				"url":        r.URL.Path,
				"remote_ip":  clientIP(r),
			}).Debug("HTTP request started")

			metrics.IncrementCounter("http_requests_total", map[string]string{
				"method":   r.Method,
				"endpoint": r.URL.Path,
			}, "Total HTTP requests")

			next.ServeHTTP(wrapper, r)

			duration := tracing.Duration(ctx)

			tracing.AddSpanAttributes(ctx,
				attribute.Int("http.response.status_code", wrapper.statusCode),
				attribute.Int64("http.response.size", wrapper.responseSize),
				attribute.Int64("http.request.duration_ms", duration.Milliseconds()),
			)

			if wrapper.statusCode >= 400 {
				tracing.SetSpanStatus(ctx, codes.Error, fmt.Sprintf("HTTP %d", wrapper.statusCode))
			} else {
				tracing.SetSpanStatus(ctx, codes.Ok, "")
			}

			metrics.RecordTimer("http_request_duration", duration, map[string]string{
				"method":      r.Method,
				"endpoint":    r.URL.Path,
				"status_code": strconv.Itoa(wrapper.statusCode),
			}, "HTTP request duration")

			metrics.IncrementCounter("http_responses_total", map[string]string{
				"method":      r.Method,
				"endpoint":    r.URL.Path,
				"status_code": strconv.Itoa(wrapper.statusCode),
			}, "HTTP responses by status code")

			logLevel := logrus.InfoLevel
			if wrapper.statusCode >= 400 && wrapper.statusCode < 500 {
				logLevel = logrus.WarnLevel
			} else if wrapper.statusCode >= 500 {
				logLevel = logrus.ErrorLevel
			}

			logger.WithFields(logrus.Fields{
				"request_id":  requestInfo.RequestID,
				"trace_id":    requestInfo.TraceID,
				"method":      r.Method,
				"url":         r.URL.Path,
				"status_code": wrapper.statusCode,
				"duration_ms": duration.Milliseconds(),
				"size":        wrapper.responseSize,
			}).Log(logLevel, "HTTP request completed")
		})
	}
}

// clientIP extracts the remote client address, preferring proxy headers
func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		return strings.TrimSpace(parts[0])
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// responseWrapper captures response metrics
type responseWrapper struct {
	http.ResponseWriter
	statusCode   int
	responseSize int64
}

func (rw *responseWrapper) WriteHeader(statusCode int) {
	rw.statusCode = statusCode
	rw.ResponseWriter.WriteHeader(statusCode)
}

func (rw *responseWrapper) Write(data []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(data)
	rw.responseSize += int64(n)
	return n, err
}

// Hijack passes connection takeover through to the underlying writer
// so websocket upgrades work behind this middleware.
func (rw *responseWrapper) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := rw.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("underlying ResponseWriter does not support hijacking")
	}
	return hijacker.Hijack()
}

func (rw *responseWrapper) Flush() {
	if flusher, ok := rw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}
