package gshapes

import (
	"context"
	"errors"
	"time"
)

// ErrStopped is returned by a Scheduler that will deliver no more frames.
var ErrStopped = errors.New("gshapes: scheduler stopped")

// Scheduler paces the animation loop. NextFrame blocks until the next frame
// is due and returns its timestamp in milliseconds.
type Scheduler interface {
	NextFrame(ctx context.Context) (ms float64, err error)
}

// TickerScheduler delivers frames at a fixed wall clock period. Timestamps
// count from the scheduler's creation.
type TickerScheduler struct {
	ticker *time.Ticker
	start  time.Time
}

// NewTickerScheduler returns a scheduler ticking every period. Call Stop
// to release it.
func NewTickerScheduler(period time.Duration) *TickerScheduler {
	return &TickerScheduler{ticker: time.NewTicker(period), start: time.Now()}
}

func (ts *TickerScheduler) NextFrame(ctx context.Context) (float64, error) {
	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	case now := <-ts.ticker.C:
		return float64(now.Sub(ts.start).Nanoseconds()) / 1e6, nil
	}
}

func (ts *TickerScheduler) Stop() { ts.ticker.Stop() }

// Limit returns a scheduler delivering at most n frames of s before
// returning [ErrStopped].
func Limit(s Scheduler, n int) Scheduler {
	return &limited{sched: s, left: n}
}

type limited struct {
	sched Scheduler
	left  int
}

func (l *limited) NextFrame(ctx context.Context) (float64, error) {
	if l.left <= 0 {
		return 0, ErrStopped
	}
	ms, err := l.sched.NextFrame(ctx)
	if err == nil {
		l.left--
	}
	return ms, err
}

// ReplayScheduler delivers a recorded sequence of timestamps without
// waiting and then stops.
type ReplayScheduler struct {
	Timestamps []float64
	next       int
}

// FixedSteps returns a replay of n frames starting at zero and spaced
// periodMs apart.
func FixedSteps(n int, periodMs float64) *ReplayScheduler {
	ts := make([]float64, n)
	for i := range ts {
		ts[i] = float64(i) * periodMs
	}
	return &ReplayScheduler{Timestamps: ts}
}

func (rs *ReplayScheduler) NextFrame(ctx context.Context) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if rs.next >= len(rs.Timestamps) {
		return 0, ErrStopped
	}
	ms := rs.Timestamps[rs.next]
	rs.next++
	return ms, nil
}

// Rewind restarts the replay from the first timestamp.
func (rs *ReplayScheduler) Rewind() { rs.next = 0 }
