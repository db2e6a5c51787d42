package retention

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeSessionPurger struct {
	err     error
	count   int64
	cutoffs []time.Time
}

func (f *fakeSessionPurger) PurgeClosedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	f.cutoffs = append(f.cutoffs, cutoff)
	return f.count, f.err
}

type fakeAuditPurger struct {
	err     error
	count   int64
	cutoffs []time.Time
}

func (f *fakeAuditPurger) PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	f.cutoffs = append(f.cutoffs, cutoff)
	return f.count, f.err
}

func TestWorker_RunOnce(t *testing.T) {
	sessions := &fakeSessionPurger{count: 7}
	audit := &fakeAuditPurger{count: 40}

	w := NewWorker(sessions, audit, Config{
		SessionMaxAge: 90 * 24 * time.Hour,
		AuditMaxAge:   180 * 24 * time.Hour,
	}, zap.NewNop())

	purgedSessions, purgedEvents := w.RunOnce(context.Background())
	assert.Equal(t, int64(7), purgedSessions)
	assert.Equal(t, int64(40), purgedEvents)

	assert.Len(t, sessions.cutoffs, 1)
	assert.Len(t, audit.cutoffs, 1)

	// The session cutoff is ~90 days back from now.
	expected := time.Now().UTC().Add(-90 * 24 * time.Hour)
	assert.WithinDuration(t, expected, sessions.cutoffs[0], time.Minute)
}

func TestWorker_SessionPurgeFailureDoesNotStopAuditPurge(t *testing.T) {
	sessions := &fakeSessionPurger{err: errors.New("deadlock detected")}
	audit := &fakeAuditPurger{count: 3}

	w := NewWorker(sessions, audit, Config{
		SessionMaxAge: 24 * time.Hour,
		AuditMaxAge:   24 * time.Hour,
	}, zap.NewNop())

	purgedSessions, purgedEvents := w.RunOnce(context.Background())
	assert.Equal(t, int64(0), purgedSessions)
	assert.Equal(t, int64(3), purgedEvents)
	assert.Len(t, audit.cutoffs, 1)
}

func TestWorker_ZeroMaxAgeSkipsPurge(t *testing.T) {
	sessions := &fakeSessionPurger{count: 5}
	audit := &fakeAuditPurger{count: 5}

	w := NewWorker(sessions, audit, Config{}, zap.NewNop())

	purgedSessions, purgedEvents := w.RunOnce(context.Background())
	assert.Equal(t, int64(0), purgedSessions)
	assert.Equal(t, int64(0), purgedEvents)
	assert.Empty(t, sessions.cutoffs)
	assert.Empty(t, audit.cutoffs)
}
