package gdoc

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gapi "google.golang.org/api/googleapi"
)

func TestIsRetryableError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"rate limit", &gapi.Error{Code: 429}, true},
		{"server error", &gapi.Error{Code: 500}, true},
		{"bad gateway", &gapi.Error{Code: 502}, true},
		{"unavailable", &gapi.Error{Code: 503}, true},
		{"bad request", &gapi.Error{Code: 400}, false},
		{"not found", &gapi.Error{Code: 404}, false},
		{"string fallback", errors.New("googleapi: rateLimitExceeded"), true},
		{"plain error", errors.New("boom"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isRetryableError(tt.err))
		})
	}
}

func TestRetryOnQuotaNonRetryableReturnsImmediately(t *testing.T) {
	calls := 0
	wantErr := &gapi.Error{Code: 400}
	err := retryOnQuota(context.Background(), func() error {
		calls++
		return wantErr
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestRetryOnQuotaSuccessFirstTry(t *testing.T) {
	calls := 0
	err := retryOnQuota(context.Background(), func() error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestRetryOnQuotaHonorsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	calls := 0
	err := retryOnQuota(ctx, func() error {
		calls++
		return &gapi.Error{Code: 429}
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestBackoffDelayBounded(t *testing.T) {
	for attempt := 0; attempt < 10; attempt++ {
		d := backoffDelay(attempt)
		assert.GreaterOrEqual(t, d, retryBaseDelay/2)
		assert.LessOrEqual(t, d, retryMaxDelay)
	}
}
