package errors

import (
	"github.com/sirupsen/logrus"
)

// LogError logs an error through the given logger with its structured
// context attached. Retryable errors are logged at warn level.
func LogError(logger *logrus.Logger, err error, message string) {
	entry := logger.WithError(err)

	if appErr, ok := err.(*AppError); ok {
		entry = entry.WithFields(logrus.Fields{
			"error_code": appErr.Code,
			"retryable":  appErr.Retryable,
		})
		for k, v := range appErr.Context {
			entry = entry.WithField(k, v)
		}
	}

	if IsRetryable(err) {
		entry.Warn(message)
	} else {
		entry.Error(message)
	}
}
