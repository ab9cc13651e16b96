// Package s3 implements blob storage backed by Amazon S3 or S3-compatible
// services such as MinIO.
//
// This file contains retry, backoff and error-classification helpers shared
// by all S3 operations.
package s3

import (
	"context"
	"errors"
	"net"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/marmos91/dittodrive/internal/logger"
	"github.com/marmos91/dittodrive/pkg/drive/fault"
)

// isRetryableError returns true if the error is transient and the operation
// should be retried.
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	// Context errors are not retryable
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	// Network errors are retryable
	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}

	// Check for AWS API errors
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		code := apiErr.ErrorCode()

		// Throttling errors - retryable
		if code == "Throttling" || code == "ThrottlingException" ||
			code == "RequestThrottled" || code == "SlowDown" ||
			code == "ProvisionedThroughputExceededException" {
			return true
		}

		// Server errors (5xx) - retryable
		if code == "InternalError" || code == "ServiceUnavailable" ||
			code == "ServiceException" || code == "InternalServiceException" {
			return true
		}

		// Client-side failures will not heal on retry.
		if code == "NoSuchKey" || code == "NotFound" ||
			code == "AccessDenied" || code == "Forbidden" ||
			code == "InvalidRange" || code == "InvalidRequest" {
			return false
		}
	}

	// Check error message for common patterns
	errStr := err.Error()
	if strings.Contains(errStr, "connection reset") ||
		strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "i/o timeout") ||
		strings.Contains(errStr, "temporary failure") ||
		strings.Contains(errStr, "503") ||
		strings.Contains(errStr, "500") {
		return true
	}

	return false
}

// isNotFoundError returns true if the error indicates the object doesn't
// exist.
func isNotFoundError(err error) bool {
	if err == nil {
		return false
	}

	// Check typed errors
	var noSuchKey *types.NoSuchKey
	var notFound *types.NotFound
	if errors.As(err, &noSuchKey) || errors.As(err, &notFound) {
		return true
	}

	// Check AWS API error code
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		code := apiErr.ErrorCode()
		if code == "NoSuchKey" || code == "NotFound" || code == "404" {
			return true
		}
	}

	// Check error message for 404 patterns
	errStr := err.Error()
	return strings.Contains(errStr, "StatusCode: 404") ||
		strings.Contains(errStr, "NotFound") ||
		strings.Contains(errStr, "NoSuchKey")
}

// calculateBackoff returns the backoff duration for a given attempt using
// the store's retry config.
func (s *S3Store) calculateBackoff(attempt int) time.Duration {
	backoff := float64(s.retry.initialBackoff)
	for i := 0; i < attempt; i++ {
		backoff *= s.retry.backoffMultiplier
	}
	if backoff > float64(s.retry.maxBackoff) {
		backoff = float64(s.retry.maxBackoff)
	}
	return time.Duration(backoff)
}

// withRetry runs op, retrying transient errors with exponential backoff.
// The operation name only feeds logs.
func (s *S3Store) withRetry(ctx context.Context, operation, key string, op func() error) error {
	var lastErr error

	for attempt := 0; attempt <= int(s.retry.maxRetries); attempt++ {
		if attempt > 0 {
			backoff := s.calculateBackoff(attempt - 1)
			logger.Debug("Retrying S3 operation",
				"operation", operation,
				"backoff", backoff,
				"attempt", attempt,
				"max_retries", s.retry.maxRetries,
				"key", key)

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}

		lastErr = op()
		if lastErr == nil {
			return nil
		}

		if !isRetryableError(lastErr) {
			break
		}

		logger.Debug("Transient S3 error",
			"operation", operation,
			"attempt", attempt+1,
			"max_retries", s.retry.maxRetries+1,
			"key", key,
			"error", lastErr)
	}

	return lastErr
}

// classifyError maps S3 driver errors onto the fault taxonomy. Faults pass
// through unchanged.
func classifyError(err error, operation, key string) error {
	if err == nil {
		return nil
	}
	var f *fault.Fault
	if errors.As(err, &f) {
		return err
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return fault.Timeout(operation)
	case errors.Is(err, context.Canceled):
		return err
	case isNotFoundError(err):
		return fault.NotFound("object", key)
	case isRetryableError(err):
		// Retry budget exhausted on a transient error
		return fault.Unavailable("object store unreachable")
	default:
		return fault.Internal("object store operation failed: "+err.Error(), key)
	}
}
