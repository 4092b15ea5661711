package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type countingPurger struct {
	calls atomic.Int64
	err   error
}

func (p *countingPurger) PurgeExpired(context.Context) (int64, error) {
	p.calls.Add(1)
	return 1, p.err
}

func TestPurgeWorkerRunsUntilCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	purger := &countingPurger{}

	done := StartPurgeWorker(ctx, purger, 5*time.Millisecond, zap.NewNop())

	assert.Eventually(t, func() bool { return purger.calls.Load() >= 3 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}

func TestPurgeWorkerSurvivesErrors(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	purger := &countingPurger{err: errors.New("db down")}

	StartPurgeWorker(ctx, purger, 5*time.Millisecond, zap.NewNop())

	assert.Eventually(t, func() bool { return purger.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
}

func TestPurgeWorkerDisabled(t *testing.T) {
	done := StartPurgeWorker(context.Background(), nil, time.Second, zap.NewNop())
	_, open := <-done
	assert.False(t, open)

	done = StartPurgeWorker(context.Background(), &countingPurger{}, 0, zap.NewNop())
	_, open = <-done
	assert.False(t, open)
}
