package schedule

import (
	"context"
	"time"

	"github.com/fwojciec/classload"
)

// FetchFunc is the signature for a fetch function.
type FetchFunc func(ctx context.Context, url string) (string, error)

// LogFunc is the signature for a logging function.
type LogFunc func(format string, args ...any)

// DefaultRetryDelays returns the delays between fetch attempts: 1s, 3s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 3 * time.Second}
}

// FetchWithRetryDelays attempts fetch once plus one retry per delay.
// EINVALID errors, such as a closed fetcher, are returned without retrying.
// The logger, if provided, is called before each retry.
func FetchWithRetryDelays(ctx context.Context, url string, fetch FetchFunc, logger LogFunc, delays []time.Duration) (string, error) {
	maxAttempts := len(delays) + 1

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		html, err := fetch(ctx, url)
		if err == nil {
			return html, nil
		}
		lastErr = err

		if classload.ErrorCode(err) == classload.EINVALID || attempt >= maxAttempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}

		if logger != nil {
			logger("retry %s (attempt %d): %v", url, attempt+2, err)
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(delays[attempt]):
		}
	}

	return "", lastErr
}
