package shareroute

import (
	"context"
	"log"
	"time"
)

// StartReaper sweeps expired records on a fixed interval until ctx is done.
// A single time-indexed DELETE per sweep; per-record timers do not scale with
// the record creation rate.
func (s *Service) StartReaper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := s.Reap(ctx)
			if err != nil {
				log.Printf("shared route reap error: %v", err)
				continue
			}
			if removed > 0 {
				log.Printf("reaped %d expired shared routes", removed)
			}
		}
	}
}
