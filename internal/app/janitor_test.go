// internal/app/janitor_test.go
package app

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
)

type fakeSweeper struct {
	sweeps int64
	err    error
}

func (f *fakeSweeper) SweepExpired(ctx context.Context) (int64, error) {
	atomic.AddInt64(&f.sweeps, 1)
	if f.err != nil {
		return 0, f.err
	}
	return 2, nil
}

func TestJanitor_SweepsOnTick(t *testing.T) {
	sweeper := &fakeSweeper{}
	j := NewJanitor(sweeper, 10*time.Millisecond, zap.NewNop())

	j.Start()

	deadline := time.After(2 * time.Second)
	for atomic.LoadInt64(&sweeper.sweeps) < 2 {
		select {
		case <-deadline:
			t.Fatal("janitor never swept")
		case <-time.After(5 * time.Millisecond):
		}
	}

	j.Stop()
	after := atomic.LoadInt64(&sweeper.sweeps)
	time.Sleep(50 * time.Millisecond)
	if got := atomic.LoadInt64(&sweeper.sweeps); got != after {
		t.Errorf("janitor kept sweeping after Stop: %d -> %d", after, got)
	}
}

func TestJanitor_SurvivesSweepErrors(t *testing.T) {
	sweeper := &fakeSweeper{err: errors.New("db down")}
	j := NewJanitor(sweeper, 10*time.Millisecond, zap.NewNop())

	j.Start()

	deadline := time.After(2 * time.Second)
	for atomic.LoadInt64(&sweeper.sweeps) < 3 {
		select {
		case <-deadline:
			t.Fatal("janitor stopped after an error")
		case <-time.After(5 * time.Millisecond):
		}
	}

	j.Stop()
}

func TestJanitor_DefaultInterval(t *testing.T) {
	j := NewJanitor(&fakeSweeper{}, 0, zap.NewNop())
	if j.interval != 30*time.Minute {
		t.Errorf("interval = %v, want 30m", j.interval)
	}
}
