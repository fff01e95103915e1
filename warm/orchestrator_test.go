package warm

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testRefresherName = "test-refresher"

func TestOrchestrator_New(t *testing.T) {
	t.Parallel()

	t.Run("default orchestrator", func(t *testing.T) {
		t.Parallel()

		o := New()

		require.NotNil(t, o)

		assert.NotNil(t, o.logger)
		assert.Equal(t, time.Second, o.queryInterval)
		assert.Equal(t, time.Second*10, o.retryInterval)
	})

	t.Run("query interval", func(t *testing.T) {
		t.Parallel()

		o := New(WithQueryInterval(time.Minute))

		require.NotNil(t, o)
		assert.Equal(t, time.Minute, o.queryInterval)
	})

	t.Run("retry interval", func(t *testing.T) {
		t.Parallel()

		o := New(WithRetryInterval(time.Millisecond * 20))

		require.NotNil(t, o)
		assert.Equal(t, time.Millisecond*20, o.retryInterval)
	})
}

func TestOrchestrator_Register(t *testing.T) {
	t.Parallel()

	t.Run("nil refresher", func(t *testing.T) {
		t.Parallel()

		o := New()

		assert.ErrorIs(t, o.Register(nil), errInvalidRefresher)
	})

	t.Run("empty name", func(t *testing.T) {
		t.Parallel()

		var (
			o = New()

			refresher = &mockRefresher{
				nameFn: func() string {
					return ""
				},
				intervalFn: func() time.Duration {
					return time.Hour
				},
			}
		)

		assert.ErrorIs(t, o.Register(refresher), errInvalidRefresher)
	})

	t.Run("zero interval", func(t *testing.T) {
		t.Parallel()

		var (
			o = New()

			refresher = &mockRefresher{
				nameFn: func() string {
					return testRefresherName
				},
				intervalFn: func() time.Duration {
					return 0
				},
			}
		)

		assert.ErrorIs(t, o.Register(refresher), errInvalidInterval)
	})

	t.Run("valid refresher", func(t *testing.T) {
		t.Parallel()

		var (
			o = New()

			refresher = &mockRefresher{
				nameFn: func() string {
					return testRefresherName
				},
				intervalFn: func() time.Duration {
					return time.Hour
				},
			}
		)

		require.NoError(t, o.Register(refresher))

		// Verify the refresher was registered
		var count int

		o.registeredRefreshers.Range(
			func(_, _ any) bool {
				count++

				return true
			},
		)

		assert.Equal(t, 1, count)

		// The first run is scheduled immediately
		require.Equal(t, 1, o.q.Len())
		assert.True(t, o.q.Index(0).at.Before(time.Now().Add(time.Second)))
	})
}

func TestOrchestrator_Start(t *testing.T) {
	t.Parallel()

	t.Run("ctx canceled", func(t *testing.T) {
		t.Parallel()

		var (
			o     = New(WithQueryInterval(time.Millisecond * 10))
			errCh = make(chan error, 1)
		)

		ctx, cancel := context.WithCancel(context.Background())

		go func() {
			errCh <- o.Start(ctx)
		}()

		cancel()

		select {
		case err := <-errCh:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Fatal("orchestrator did not shut down in time")
		}
	})

	t.Run("in-flight refresh survives shutdown", func(t *testing.T) {
		t.Parallel()

		var (
			started = make(chan struct{})
			release = make(chan struct{})

			refresher = &mockRefresher{
				nameFn: func() string {
					return testRefresherName
				},
				intervalFn: func() time.Duration {
					return time.Hour
				},
				refreshFn: func(_ context.Context) error {
					close(started)
					<-release

					return nil
				},
			}

			o     = New(WithQueryInterval(time.Millisecond * 10))
			errCh = make(chan error, 1)
		)

		require.NoError(t, o.Register(refresher))

		ctx, cancel := context.WithCancel(context.Background())

		go func() {
			errCh <- o.Start(ctx)
		}()

		// Wait for the refresh to be mid-flight, then shut down under it
		select {
		case <-started:
		case <-time.After(5 * time.Second):
			t.Fatal("timeout waiting for refresh to start")
		}

		cancel()
		require.NoError(t, <-errCh)

		// Let the worker finish and deliver its response after the
		// orchestrator has already stopped; the late send must not panic
		close(release)

		time.Sleep(time.Millisecond * 50)
	})

	t.Run("refresher executed and rescheduled", func(t *testing.T) {
		t.Parallel()

		var (
			refreshCount atomic.Int32
			refreshDone  = make(chan struct{})

			refresher = &mockRefresher{
				nameFn: func() string {
					return testRefresherName
				},
				intervalFn: func() time.Duration {
					return time.Millisecond * 50
				},
				refreshFn: func(_ context.Context) error {
					if refreshCount.Add(1) == 2 {
						close(refreshDone)
					}

					return nil
				},
			}

			o     = New(WithQueryInterval(time.Millisecond * 10))
			errCh = make(chan error, 1)
		)

		require.NoError(t, o.Register(refresher))

		ctx, cancel := context.WithCancel(context.Background())

		go func() {
			errCh <- o.Start(ctx)
		}()

		select {
		case <-refreshDone:
			// Success
		case <-time.After(5 * time.Second):
			t.Fatal("timeout waiting for reschedule")
		}

		cancel()
		require.NoError(t, <-errCh)

		assert.GreaterOrEqual(t, refreshCount.Load(), int32(2))
	})

	t.Run("retries on refresh error", func(t *testing.T) {
		t.Parallel()

		var (
			refreshCount atomic.Int32
			retryDone    = make(chan struct{})

			refresher = &mockRefresher{
				nameFn: func() string {
					return testRefresherName
				},
				intervalFn: func() time.Duration {
					return time.Hour
				},
				refreshFn: func(_ context.Context) error {
					if refreshCount.Add(1) == 2 {
						close(retryDone)
					}

					return errors.New("refresh error")
				},
			}

			o = New(
				WithQueryInterval(time.Millisecond*10),
				WithRetryInterval(time.Millisecond*20),
			)

			errCh = make(chan error, 1)
		)

		require.NoError(t, o.Register(refresher))

		ctx, cancel := context.WithCancel(context.Background())

		go func() {
			errCh <- o.Start(ctx)
		}()

		select {
		case <-retryDone:
			// Success
		case <-time.After(5 * time.Second):
			t.Fatal("timeout waiting for retry")
		}

		cancel()
		require.NoError(t, <-errCh)

		assert.GreaterOrEqual(t, refreshCount.Load(), int32(2))
	})

	t.Run("multiple refreshers", func(t *testing.T) {
		t.Parallel()

		var (
			firstDone  = make(chan struct{})
			secondDone = make(chan struct{})
			errCh      = make(chan error, 1)

			refreshers = []*mockRefresher{
				{
					nameFn: func() string {
						return "refresher-1"
					},
					intervalFn: func() time.Duration {
						return time.Hour
					},
					refreshFn: func(_ context.Context) error {
						close(firstDone)

						return nil
					},
				},
				{
					nameFn: func() string {
						return "refresher-2"
					},
					intervalFn: func() time.Duration {
						return time.Hour
					},
					refreshFn: func(_ context.Context) error {
						close(secondDone)

						return nil
					},
				},
			}

			o = New(WithQueryInterval(time.Millisecond * 10))
		)

		for _, r := range refreshers {
			require.NoError(t, o.Register(r))
		}

		ctx, cancel := context.WithCancel(context.Background())

		go func() {
			errCh <- o.Start(ctx)
		}()

		for _, done := range []chan struct{}{firstDone, secondDone} {
			select {
			case <-done:
				// Success
			case <-time.After(5 * time.Second):
				t.Fatal("timeout waiting for refreshers")
			}
		}

		cancel()
		require.NoError(t, <-errCh)
	})
}
