package vraseniors

import (
	"fmt"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"
)

// startSweeper schedules the periodic removal of expired editing sessions.
func (a *App) startSweeper() error {
	s, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("create scheduler: %w", err)
	}
	if _, err := s.NewJob(
		gocron.DurationJob(a.Config.SweepInterval),
		gocron.NewTask(func() { a.sweepSessions() }),
		gocron.WithName("editor-session-sweep"),
	); err != nil {
		_ = s.Shutdown()
		return fmt.Errorf("schedule session sweep: %w", err)
	}
	s.Start()
	a.scheduler = s
	return nil
}

func (a *App) sweepSessions() int {
	n := a.Sessions.Sweep(a.now())
	if n > 0 {
		a.logger.Info("expired editing sessions removed", zap.Int("count", n), zap.Int("open", a.Sessions.Len()))
	}
	return n
}
