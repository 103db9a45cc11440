package gdoc

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
	"time"

	gapi "google.golang.org/api/googleapi"
)

const (
	retryAttempts  = 5
	retryBaseDelay = 1 * time.Second
	retryMaxDelay  = 30 * time.Second
)

// retryOnQuota retries fn on 429 and transient 5xx responses with
// exponential backoff and jitter. Non-retryable errors return immediately.
func retryOnQuota(ctx context.Context, fn func() error) error {
	var lastErr error
	for attempt := 0; attempt <= retryAttempts; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		if !isRetryableError(err) {
			return err
		}
		if attempt == retryAttempts {
			return fmt.Errorf("after %d retries: %w", retryAttempts, lastErr)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoffDelay(attempt)):
		}
	}
	return lastErr
}

// backoffDelay computes the attempt's delay: capped exponential with
// 50-100% jitter.
func backoffDelay(attempt int) time.Duration {
	delay := retryBaseDelay * time.Duration(1<<uint(attempt))
	if delay > retryMaxDelay {
		delay = retryMaxDelay
	}
	half := int64(delay / 2)
	if half <= 0 {
		return delay
	}
	var buf [8]byte
	_, _ = rand.Read(buf[:])
	jitter := time.Duration(binary.LittleEndian.Uint64(buf[:]) % uint64(half)) //nolint:gosec // bounded jitter
	return delay/2 + jitter
}

// isRetryableError reports whether err is a transient Google API failure
// (rate limit or server-side) that is safe to retry.
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *gapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case 429, 500, 502, 503:
			return true
		}
	}
	// Some quota errors surface without a googleapi.Error wrapper.
	msg := err.Error()
	return strings.Contains(msg, "rateLimitExceeded") || strings.Contains(msg, "429")
}
