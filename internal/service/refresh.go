package service

// refresh.go reloads the sheet on a fixed interval so long-running
// processes pick up edits without a restart. Failures are logged and the
// previous dataset stays published.

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// StartAutoRefresh reloads the dataset every interval until ctx is
// cancelled. It blocks; run it on its own goroutine. A non-positive interval
// returns immediately.
func (s *Service) StartAutoRefresh(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	slog.Info("auto refresh started", "interval", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("auto refresh stopped")
			return
		case <-ticker.C:
			s.refresh(ctx)
		}
	}
}

// refresh performs one reload cycle.
func (s *Service) refresh(ctx context.Context) {
	start := time.Now()
	ds, err := s.Reload(ctx)
	switch {
	case errors.Is(err, ErrSuperseded):
		slog.Debug("auto refresh superseded")
	case err != nil && ctx.Err() == nil:
		slog.Error("auto refresh failed", "error", err)
	case err == nil:
		slog.Info("auto refresh completed",
			"records", ds.Len(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}
