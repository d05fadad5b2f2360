package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"ransomsim/internal/constants"
)

// withBusyRetry executes a store operation with retries for transient
// SQLite failures. Appends from concurrent delayed replies can hit
// "database is locked"; those are safe to retry because each append is
// atomic.
func withBusyRetry(ctx context.Context, operationName string, operation func() error) error {
	var lastErr error

	maxAttempts := constants.DefaultDatabaseRetryAttempts
	initialBackoff := time.Duration(constants.DefaultRetryBackoffMs) * time.Millisecond

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		err := operation()
		if err == nil {
			return nil
		}

		lastErr = err

		if !isRetryableDBError(err) {
			return fmt.Errorf("%s failed: %w", operationName, err)
		}

		if attempt == maxAttempts {
			break
		}

		backoff := time.Duration(attempt) * initialBackoff
		if max := time.Duration(constants.DefaultMaxBackoffMs) * time.Millisecond; backoff > max {
			backoff = max
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxAttempts, lastErr)
}

func isRetryableDBError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	errStr := err.Error()
	if strings.Contains(errStr, "database is locked") {
		return true
	}
	if strings.Contains(errStr, "database table is locked") {
		return true
	}
	if strings.Contains(errStr, "disk I/O error") {
		return true
	}
	return false
}
