// internal/app/janitor.go
package app

import (
	"context"
	"time"

	"go.uber.org/zap"
)

type expiredSweeper interface {
	SweepExpired(ctx context.Context) (int64, error)
}

// Janitor periodically removes expired session rows. Expired sessions are
// already rejected at authentication time, so the sweep is purely hygiene.
type Janitor struct {
	sessions expiredSweeper
	interval time.Duration
	logger   *zap.Logger
	stop     chan struct{}
	done     chan struct{}
}

func NewJanitor(sessions expiredSweeper, interval time.Duration, logger *zap.Logger) *Janitor {
	if interval <= 0 {
		interval = 30 * time.Minute
	}
	return &Janitor{
		sessions: sessions,
		interval: interval,
		logger:   logger,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

func (j *Janitor) Start() {
	go j.run()
}

func (j *Janitor) Stop() {
	close(j.stop)
	<-j.done
}

func (j *Janitor) run() {
	defer close(j.done)

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			j.sweep()
		case <-j.stop:
			return
		}
	}
}

func (j *Janitor) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	count, err := j.sessions.SweepExpired(ctx)
	if err != nil {
		j.logger.Error("session sweep failed", zap.Error(err))
		return
	}
	if count > 0 {
		j.logger.Info("expired sessions swept", zap.Int64("count", count))
	}
}
