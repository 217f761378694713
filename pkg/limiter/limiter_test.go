package limiter

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClampsLimit(t *testing.T) {
	assert.Equal(t, 1, New(0).Limit())
	assert.Equal(t, 1, New(-3).Limit())
	assert.Equal(t, 4, New(4).Limit())
}

func TestLimiterBoundsConcurrency(t *testing.T) {
	l := New(2)
	ctx := context.Background()

	durations := []time.Duration{60 * time.Millisecond, 60 * time.Millisecond, 10 * time.Millisecond, 10 * time.Millisecond}
	var (
		active  atomic.Int32
		peak    atomic.Int32
		wg      sync.WaitGroup
		results = make([]string, len(durations))
	)

	for i, d := range durations {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := Run(ctx, l, func(context.Context) (string, error) {
				n := active.Add(1)
				for {
					p := peak.Load()
					if n <= p || peak.CompareAndSwap(p, n) {
						break
					}
				}
				time.Sleep(d)
				active.Add(-1)
				return fmt.Sprintf("unit-%d", i), nil
			})
			assert.NoError(t, err)
			results[i] = v
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, peak.Load(), int32(2))
	for i, r := range results {
		assert.Equal(t, fmt.Sprintf("unit-%d", i), r)
	}
	assert.Equal(t, 0, l.Running())
	assert.Equal(t, 0, l.Waiting())
}

func TestLimiterIsolatesFailures(t *testing.T) {
	l := New(1)
	ctx := context.Background()
	boom := errors.New("boom")

	var wg sync.WaitGroup
	errs := make([]error, 3)
	for i := range errs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = l.Do(ctx, func(context.Context) error {
				if i == 0 {
					return boom
				}
				return nil
			})
		}()
	}
	wg.Wait()

	assert.ErrorIs(t, errs[0], boom)
	assert.NoError(t, errs[1])
	assert.NoError(t, errs[2])
}

func TestLimiterFIFO(t *testing.T) {
	l := New(1)
	ctx := context.Background()

	release := make(chan struct{})
	started := make(chan struct{})
	go func() {
		_ = l.Do(ctx, func(context.Context) error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started

	var (
		mu    sync.Mutex
		order []int
		wg    sync.WaitGroup
	)
	for i := range 5 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = l.Do(ctx, func(context.Context) error {
				mu.Lock()
				order = append(order, i)
				mu.Unlock()
				return nil
			})
		}()
		require.Eventually(t, func() bool { return l.Waiting() == i+1 }, time.Second, time.Millisecond)
		// Waiting counts before the semaphore enqueues; give it a moment.
		time.Sleep(5 * time.Millisecond)
	}

	close(release)
	wg.Wait()
	assert.Equal(t, []int{0, 1, 2, 3, 4}, order)
}

func TestLimiterContextCancelledWhileQueued(t *testing.T) {
	l := New(1)
	release := make(chan struct{})
	started := make(chan struct{})
	go func() {
		_ = l.Do(context.Background(), func(context.Context) error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	ran := false
	err := l.Do(ctx, func(context.Context) error {
		ran = true
		return nil
	})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, ran)
}
