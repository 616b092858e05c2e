package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type countingExpirer struct {
	calls atomic.Int32
	err   error
}

func (c *countingExpirer) ExpireDue(context.Context) (int, error) {
	c.calls.Add(1)
	return 1, c.err
}

func runWorker(t *testing.T, w *SubscriptionExpiryWorker) (stop func()) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		w.Start(ctx)
	}()
	return func() {
		cancel()
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("worker did not stop")
		}
	}
}

func TestSubscriptionExpiryWorker_RunsOnStartAndTick(t *testing.T) {
	defer goleak.VerifyNone(t)

	exp := &countingExpirer{}
	stop := runWorker(t, NewSubscriptionExpiryWorker(exp, 10*time.Millisecond))

	require.Eventually(t, func() bool { return exp.calls.Load() >= 3 }, time.Second, 5*time.Millisecond)
	stop()
}

func TestSubscriptionExpiryWorker_SurvivesErrors(t *testing.T) {
	defer goleak.VerifyNone(t)

	exp := &countingExpirer{err: errors.New("db down")}
	stop := runWorker(t, NewSubscriptionExpiryWorker(exp, 10*time.Millisecond))

	require.Eventually(t, func() bool { return exp.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
	stop()
}

func TestNewSubscriptionExpiryWorker_DefaultsInterval(t *testing.T) {
	w := NewSubscriptionExpiryWorker(&countingExpirer{}, 0)
	assert.Equal(t, time.Hour, w.interval)
}
