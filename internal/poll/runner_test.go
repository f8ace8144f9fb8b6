package poll

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/albapepper/dci-recap/internal/provider/competitionsuite"
)

func TestRunner_RejectsOverlappingCycles(t *testing.T) {
	fetcher := &fakeFetcher{
		events:  []competitionsuite.Event{showOne()},
		details: map[string]string{"A1": bluecoatsGE1},
		block:   make(chan struct{}),
	}
	r := NewRunner(newCycle(fetcher, &memStore{}, &fakePublisher{}, defaultOptions()))

	done := make(chan error, 1)
	go func() {
		_, err := r.Run(context.Background())
		done <- err
	}()

	// Wait until the first cycle holds the lock.
	require.Eventually(t, func() bool {
		if r.run.TryLock() {
			r.run.Unlock()
			return false
		}
		return true
	}, time.Second, time.Millisecond)

	_, err := r.Run(context.Background())
	assert.ErrorIs(t, err, ErrCycleInProgress)

	close(fetcher.block)
	require.NoError(t, <-done)

	last := r.Last()
	require.NotNil(t, last.Result)
	assert.Equal(t, 1, last.Result.Published)
	assert.NoError(t, last.Err)
	assert.False(t, last.At.IsZero())
}

func TestStartWorker_RunsImmediatelyAndStops(t *testing.T) {
	store := &memStore{}
	fetcher := &fakeFetcher{
		events:  []competitionsuite.Event{showOne()},
		details: map[string]string{"A1": bluecoatsGE1},
	}
	r := NewRunner(newCycle(fetcher, store, &fakePublisher{}, defaultOptions()))

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		StartWorker(ctx, r, time.Hour, discard)
		close(stopped)
	}()

	require.Eventually(t, func() bool { return r.Last().Result != nil }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"A1"}, store.ids())

	cancel()
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}
