// Package worker runs background jobs beside the HTTP server.
package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/cinefront/ticketing/internal/repository"
)

// StartHoldSweeper schedules a periodic job that releases lapsed seat
// holds. Availability queries already treat expired holds as free, so the
// sweeper only keeps the seats table tidy; running it late costs nothing
// but stale rows. Returns the scheduler so main can Shutdown it.
func StartHoldSweeper(seats *repository.SeatRepo, every time.Duration) (gocron.Scheduler, error) {
	if every <= 0 {
		every = time.Minute
	}
	s, err := gocron.NewScheduler(gocron.WithLocation(time.UTC))
	if err != nil {
		return nil, err
	}
	_, err = s.NewJob(
		gocron.DurationJob(every),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			released, err := seats.ReleaseExpiredHolds(ctx)
			if err != nil {
				slog.Error("hold sweeper failed", "err", err)
				return
			}
			if released > 0 {
				slog.Info("released expired seat holds", "count", released)
			}
		}),
	)
	if err != nil {
		return nil, err
	}
	s.Start()
	slog.Info("hold sweeper started", "interval", every)
	return s, nil
}
