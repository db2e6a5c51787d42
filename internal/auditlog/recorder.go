package auditlog

import (
	"context"
	"encoding/json"
	"time"

	"go-clubhouse/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Entry is what callers hand to the recorder. PersonID may be empty
// when the subject could not be resolved. Detail is marshalled into
// the additional_data column; use the typed payloads where one fits.
type Entry struct {
	PersonID      string
	Action        string
	Status        string
	SourceAddress string
	UserAgent     string
	Detail        any
}

// Recorder is the write-side seam the attendance service depends on.
// Recording is best-effort: an audit failure must never fail the
// caller's primary operation, so Record reports success as a bool and
// keeps errors to itself.
//
//go:generate mockgen -source=recorder.go -destination=mock/recorder_mock.go -package=mock
type Recorder interface {
	Record(ctx context.Context, e Entry) bool
}

type recorder struct {
	repo   Repository
	logger *zap.Logger
}

func NewRecorder(repo Repository, logger ...*zap.Logger) Recorder {
	l := zap.L().Named("auditlog.recorder")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auditlog.recorder")
	}
	return &recorder{repo: repo, logger: l}
}

func (r *recorder) Record(ctx context.Context, e Entry) bool {
	log := contextutil.GetLogger(ctx, r.logger)
	meta := contextutil.ExtractMetadata(ctx)

	event := &ActivityEvent{
		ID:        uuid.New(),
		Action:    e.Action,
		Status:    e.Status,
		IPAddress: e.SourceAddress,
		UserAgent: e.UserAgent,
		Timestamp: time.Now().UTC(),
	}

	if e.PersonID != "" {
		if pid, err := uuid.Parse(e.PersonID); err == nil {
			event.UserID = &pid
		}
	}

	if e.Detail != nil {
		payload, err := json.Marshal(e.Detail)
		if err != nil {
			log.Warn("audit detail marshal failed",
				zap.String("action", e.Action),
				zap.Error(err),
			)
		} else {
			event.AdditionalData = payload
		}
	}

	if err := r.repo.Append(ctx, event); err != nil {
		log.Error("audit append failed",
			zap.String("action", e.Action),
			zap.String("status", e.Status),
			zap.String("person_id", e.PersonID),
			zap.String("request_id", meta.RequestID),
			zap.Error(err),
		)
		return false
	}

	return true
}
