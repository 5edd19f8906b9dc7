package booking

import (
	"context"
	"log"
	"time"
)

type expirer interface {
	ExpireOverdue(ctx context.Context) (int, error)
}

// Sweeper expires overdue bookings on a timer. Reads still expire lazily,
// the sweeper only keeps rows that nobody reads from lingering.
type Sweeper struct {
	svc expirer
}

func NewSweeper(svc expirer) *Sweeper {
	return &Sweeper{svc: svc}
}

// RunOnce performs a single pass and logs its outcome.
func (s *Sweeper) RunOnce(ctx context.Context) (int, error) {
	started := time.Now()
	n, err := s.svc.ExpireOverdue(ctx)
	if err != nil {
		log.Printf("booking_sweep_failed err=%v", err)
		return 0, err
	}
	log.Printf("booking_sweep_done expired=%d took=%v", n, time.Since(started))
	return n, nil
}

// Start runs a pass every interval until ctx is done or the returned
// channel is closed. A non-positive interval disables the sweeper.
func (s *Sweeper) Start(ctx context.Context, interval time.Duration) chan struct{} {
	if interval <= 0 {
		log.Println("booking sweeper disabled")
		return nil
	}

	stopCh := make(chan struct{})
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				_, _ = s.RunOnce(ctx)
			case <-stopCh:
				log.Println("booking sweeper stopped")
				return
			case <-ctx.Done():
				log.Println("booking sweeper stopped (context done)")
				return
			}
		}
	}()

	log.Printf("booking sweeper started interval=%v", interval)
	return stopCh
}
