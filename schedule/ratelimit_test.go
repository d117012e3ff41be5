package schedule_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fwojciec/classload"
	"github.com/fwojciec/classload/schedule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainLimiter(t *testing.T) {
	t.Parallel()

	t.Run("implements classload.DomainLimiter interface", func(t *testing.T) {
		t.Parallel()
		var _ classload.DomainLimiter = schedule.NewDomainLimiter(1)
	})

	t.Run("allows immediate request when under limit", func(t *testing.T) {
		t.Parallel()

		limiter := schedule.NewDomainLimiter(10)

		start := time.Now()
		err := limiter.Wait(context.Background(), "webapps.sfsu.edu")
		elapsed := time.Since(start)

		require.NoError(t, err)
		assert.Less(t, elapsed, 50*time.Millisecond, "first request should be immediate")
	})

	t.Run("rate limits requests to same domain", func(t *testing.T) {
		t.Parallel()

		limiter := schedule.NewDomainLimiter(10)

		err := limiter.Wait(context.Background(), "webapps.sfsu.edu")
		require.NoError(t, err)

		start := time.Now()
		err = limiter.Wait(context.Background(), "webapps.sfsu.edu")
		elapsed := time.Since(start)

		require.NoError(t, err)
		assert.GreaterOrEqual(t, elapsed, 80*time.Millisecond, "should wait for rate limit")
	})

	t.Run("different domains have independent limits", func(t *testing.T) {
		t.Parallel()

		limiter := schedule.NewDomainLimiter(10)

		err := limiter.Wait(context.Background(), "webapps.sfsu.edu")
		require.NoError(t, err)

		start := time.Now()
		err = limiter.Wait(context.Background(), "www.sfsu.edu")
		elapsed := time.Since(start)

		require.NoError(t, err)
		assert.Less(t, elapsed, 50*time.Millisecond, "different domain should not wait")
	})

	t.Run("defaults to one request per second", func(t *testing.T) {
		t.Parallel()

		limiter := schedule.NewDomainLimiter(0)
		require.NoError(t, limiter.Wait(context.Background(), "webapps.sfsu.edu"))

		ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
		defer cancel()

		assert.Error(t, limiter.Wait(ctx, "webapps.sfsu.edu"), "second request within a second should wait")
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		t.Parallel()

		limiter := schedule.NewDomainLimiter(1)

		err := limiter.Wait(context.Background(), "webapps.sfsu.edu")
		require.NoError(t, err)

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		err = limiter.Wait(ctx, "webapps.sfsu.edu")
		assert.Error(t, err, "should fail when context times out")
	})

	t.Run("concurrent requests are serialized per domain", func(t *testing.T) {
		t.Parallel()

		limiter := schedule.NewDomainLimiter(100)

		var wg sync.WaitGroup
		var completed atomic.Int32

		for range 5 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				err := limiter.Wait(context.Background(), "webapps.sfsu.edu")
				if err == nil {
					completed.Add(1)
				}
			}()
		}

		wg.Wait()
		assert.Equal(t, int32(5), completed.Load(), "all requests should complete")
	})
}
