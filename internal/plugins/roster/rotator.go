package roster

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"
)

// Rotator drives backdrop rotation. It advances a monotonically increasing
// tick on a fixed interval; the current backdrop for any list is the tick
// taken modulo the list length, so every client that asks at the same
// moment sees the same image without per-client state.
type Rotator struct {
	interval time.Duration
	tick     atomic.Int64
}

// NewRotator creates a rotator with the given advance interval.
func NewRotator(interval time.Duration) *Rotator {
	return &Rotator{interval: interval}
}

// Run advances the tick until ctx is cancelled. Blocking; run it in its
// own goroutine.
func (r *Rotator) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	slog.Info("backdrop rotator started", slog.Duration("interval", r.interval))

	for {
		select {
		case <-ctx.Done():
			slog.Info("backdrop rotator stopped")
			return
		case <-ticker.C:
			r.tick.Add(1)
		}
	}
}

// Tick returns the current rotation tick.
func (r *Rotator) Tick() int {
	return int(r.tick.Load())
}
