package health

import (
	"context"
	"runtime"
	"runtime/debug"
	"time"

	"github.com/go-faster/errors"
)

// Pinger is a dependency that can report its own reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingCheck adapts a Pinger into a CheckFunc, naming the target in errors.
func PingCheck(target string, p Pinger) CheckFunc {
	return func(ctx context.Context) error {
		if err := p.Ping(ctx); err != nil {
			return errors.Wrapf(err, "ping %s", target)
		}
		return nil
	}
}

// GoroutineCountCheck fails when more than threshold goroutines are
// running, which points at a leak.
func GoroutineCountCheck(threshold int) CheckFunc {
	return func(_ context.Context) error {
		if count := runtime.NumGoroutine(); count > threshold {
			return errors.Errorf("goroutine count %d exceeds threshold %d", count, threshold)
		}
		return nil
	}
}

// GCMaxPauseCheck fails when a GC pause since the previous run exceeded
// threshold. Older pauses are ignored so the check recovers once the heap
// settles. The returned CheckFunc must not be called concurrently; the
// Health scheduler runs each check from a single goroutine.
func GCMaxPauseCheck(threshold time.Duration) CheckFunc {
	var lastNumGC int64
	return func(_ context.Context) error {
		var stats debug.GCStats
		debug.ReadGCStats(&stats)

		// stats.Pause is most recent first and holds a bounded history.
		fresh := min(stats.NumGC-lastNumGC, int64(len(stats.Pause)))
		lastNumGC = stats.NumGC
		for _, pause := range stats.Pause[:fresh] {
			if pause > threshold {
				return errors.Errorf("GC pause %s exceeds threshold %s", pause, threshold)
			}
		}
		return nil
	}
}
