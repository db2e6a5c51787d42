package retention

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// SessionPurger purges closed attendance sessions older than a cutoff.
type SessionPurger interface {
	PurgeClosedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// AuditPurger purges audit events older than a cutoff.
type AuditPurger interface {
	PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type Config struct {
	SessionMaxAge time.Duration
	AuditMaxAge   time.Duration
	Interval      time.Duration
}

type Worker struct {
	sessions SessionPurger
	audit    AuditPurger
	cfg      Config
	logger   *zap.Logger
}

func NewWorker(sessions SessionPurger, audit AuditPurger, cfg Config, logger ...*zap.Logger) *Worker {
	l := zap.L().Named("retention.worker")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("retention.worker")
	}
	if cfg.Interval <= 0 {
		cfg.Interval = time.Hour
	}
	return &Worker{sessions: sessions, audit: audit, cfg: cfg, logger: l}
}

// Run purges on a ticker until ctx is cancelled. It only ever touches
// rows in terminal state (signedOut sessions, audit rows), so it is
// safe to run alongside live sign-in/out traffic. One failing purge is
// logged and does not stop the other, or the loop.
func (w *Worker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.Interval)
	defer ticker.Stop()

	w.logger.Info("retention worker started",
		zap.Duration("interval", w.cfg.Interval),
		zap.Duration("session_max_age", w.cfg.SessionMaxAge),
		zap.Duration("audit_max_age", w.cfg.AuditMaxAge),
	)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("retention worker stopped")
			return
		case <-ticker.C:
			w.RunOnce(ctx)
		}
	}
}

// RunOnce runs a single purge pass and reports what was removed.
func (w *Worker) RunOnce(ctx context.Context) (sessionsPurged, eventsPurged int64) {
	now := time.Now().UTC()

	if w.cfg.SessionMaxAge > 0 {
		count, err := w.sessions.PurgeClosedBefore(ctx, now.Add(-w.cfg.SessionMaxAge))
		if err != nil {
			w.logger.Error("session purge failed", zap.Error(err))
		} else {
			sessionsPurged = count
			if count > 0 {
				w.logger.Info("purged closed sessions", zap.Int64("count", count))
			}
		}
	}

	if w.cfg.AuditMaxAge > 0 {
		count, err := w.audit.PurgeBefore(ctx, now.Add(-w.cfg.AuditMaxAge))
		if err != nil {
			w.logger.Error("audit purge failed", zap.Error(err))
		} else {
			eventsPurged = count
			if count > 0 {
				w.logger.Info("purged audit events", zap.Int64("count", count))
			}
		}
	}

	return sessionsPurged, eventsPurged
}
