package session

import (
	"context"
	"errors"
	"log"
	"time"
)

// Sweeper periodically removes expired rows. Reads already ignore expired
// sessions, so the sweeper only keeps the table small.
type Sweeper struct {
	store    Store
	interval time.Duration
}

func NewSweeper(store Store, interval time.Duration) *Sweeper {
	return &Sweeper{store: store, interval: interval}
}

// Run blocks until ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	log.Printf("[session] sweeper started, interval=%s", s.interval)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.SweepOnce(ctx)
		case <-ctx.Done():
			log.Println("[session] sweeper stopped")
			return
		}
	}
}

// SweepOnce runs a single pass bounded by half the interval.
func (s *Sweeper) SweepOnce(ctx context.Context) int64 {
	sweepCtx, cancel := context.WithTimeout(ctx, s.interval/2)
	defer cancel()

	n, err := s.store.DeleteExpired(sweepCtx)
	if err != nil {
		if !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
			log.Printf("[session] sweep failed: %v", err)
		}
		return 0
	}
	if n > 0 {
		log.Printf("[session] swept %d expired sessions", n)
	}
	return n
}
