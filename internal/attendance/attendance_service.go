package attendance

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"math"
	"time"

	attendanceerrors "go-clubhouse/internal/attendance/errors"
	"go-clubhouse/internal/auditlog"
	"go-clubhouse/internal/events"
	"go-clubhouse/internal/messaging/kafka"
	"go-clubhouse/internal/person"
	"go-clubhouse/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=attendance_service.go -destination=mock/attendance_service_mock.go -package=mock
type Service interface {
	SignIn(ctx context.Context, personID string, reqCtx RequestContext) (SignInResult, error)
	SignOut(ctx context.Context, personID string, reqCtx RequestContext) (SignOutResult, error)
	CurrentOccupancy(ctx context.Context) ([]PersonSummary, error)
	History(ctx context.Context, personID string, limit int) ([]SessionResponse, error)
	Stats(ctx context.Context, date string) (StatsResponse, error)
	Search(ctx context.Context, query string, limit int, from, to string) ([]SessionResponse, error)
}

type service struct {
	db         *sql.DB
	repo       Repository
	persons    person.Repository
	audit      auditlog.Recorder
	outboxRepo kafka.OutboxRepository
	logger     *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	persons person.Repository,
	audit auditlog.Recorder,
	logger ...*zap.Logger,
) Service {
	return NewServiceWithOutbox(db, repo, persons, audit, nil, logger...)
}

func NewServiceWithOutbox(
	db *sql.DB,
	repo Repository,
	persons person.Repository,
	audit auditlog.Recorder,
	outboxRepo kafka.OutboxRepository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("attendance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.service")
	}
	return &service{
		db:         db,
		repo:       repo,
		persons:    persons,
		audit:      audit,
		outboxRepo: outboxRepo,
		logger:     l,
	}
}

func (s *service) SignIn(ctx context.Context, personID string, reqCtx RequestContext) (SignInResult, error) {
	personUUID, err := uuid.Parse(personID)
	if err != nil {
		return SignInResult{}, attendanceerrors.ErrInvalidPersonID
	}

	if _, err := s.persons.FindByID(ctx, personID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.recordFailure(ctx, "", auditlog.ActionSignInFailed, auditlog.ReasonPersonNotFound, reqCtx)
			return SignInResult{}, attendanceerrors.ErrPersonNotFound
		}
		s.logger.Error("sign-in person lookup failed", zap.String("person_id", personID), zap.Error(err))
		return SignInResult{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("sign-in begin tx failed", zap.String("person_id", personID), zap.Error(err))
		return SignInResult{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	now := time.Now().UTC()

	// Courtesy pre-check only: it gives the common duplicate a clean
	// failure without burning an insert. The partial unique index is
	// what actually holds the invariant when two sign-ins race.
	signedIn, err := qtx.IsSignedIn(ctx, personID)
	if err != nil {
		s.logger.Error("sign-in state check failed", zap.String("person_id", personID), zap.Error(err))
		return SignInResult{}, err
	}
	if signedIn {
		s.recordFailure(ctx, personID, auditlog.ActionSignInFailed, auditlog.ReasonAlreadySignedIn, reqCtx)
		return SignInResult{}, attendanceerrors.ErrAlreadySignedIn
	}

	row := &AttendanceSession{
		ID:           uuid.New(),
		PersonID:     personUUID,
		CheckedIn:    now,
		SignInStatus: StatusSignedIn,
	}

	if err := qtx.Create(ctx, row); err != nil {
		mapped := mapRepositoryError(err)
		if errors.Is(mapped, attendanceerrors.ErrAlreadySignedIn) {
			s.recordFailure(ctx, personID, auditlog.ActionSignInFailed, auditlog.ReasonAlreadySignedIn, reqCtx)
			return SignInResult{}, mapped
		}
		s.logger.Error("sign-in insert failed", zap.String("person_id", personID), zap.Error(err))
		s.recordFailure(ctx, personID, auditlog.ActionSignInFailed, auditlog.ReasonStoreError, reqCtx)
		return SignInResult{}, mapped
	}

	if err := s.enqueueEvent(ctx, tx, row.ID.String(), personID, events.TypeSignedIn, now, nil); err != nil {
		s.logger.Error("sign-in outbox write failed", zap.String("person_id", personID), zap.Error(err))
		return SignInResult{}, err
	}

	if err := tx.Commit(); err != nil {
		mapped := mapRepositoryError(err)
		if errors.Is(mapped, attendanceerrors.ErrAlreadySignedIn) {
			s.recordFailure(ctx, personID, auditlog.ActionSignInFailed, auditlog.ReasonAlreadySignedIn, reqCtx)
			return SignInResult{}, mapped
		}
		s.logger.Error("sign-in commit failed", zap.String("person_id", personID), zap.Error(err))
		return SignInResult{}, mapped
	}

	// The session is durable at this point. Audit is a side channel:
	// a failed append is logged inside the recorder and nothing more.
	s.audit.Record(ctx, auditlog.Entry{
		PersonID:      personID,
		Action:        auditlog.ActionSignIn,
		Status:        auditlog.StatusSuccess,
		SourceAddress: reqCtx.SourceAddress,
		UserAgent:     reqCtx.UserAgent,
		Detail: auditlog.SignInDetail{
			SessionID: row.ID.String(),
			Method:    reqCtx.Method,
		},
	})

	return SignInResult{
		SessionID:  row.ID.String(),
		PersonID:   personID,
		SignInTime: now.Format(time.RFC3339),
	}, nil
}

func (s *service) SignOut(ctx context.Context, personID string, reqCtx RequestContext) (SignOutResult, error) {
	if _, err := uuid.Parse(personID); err != nil {
		return SignOutResult{}, attendanceerrors.ErrInvalidPersonID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("sign-out begin tx failed", zap.String("person_id", personID), zap.Error(err))
		return SignOutResult{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	now := time.Now().UTC()

	row, err := qtx.CloseActive(ctx, personID, now)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.recordFailure(ctx, personID, auditlog.ActionSignOutFailed, auditlog.ReasonNotSignedIn, reqCtx)
			return SignOutResult{}, attendanceerrors.ErrNotSignedIn
		}
		s.logger.Error("sign-out close failed", zap.String("person_id", personID), zap.Error(err))
		s.recordFailure(ctx, personID, auditlog.ActionSignOutFailed, auditlog.ReasonStoreError, reqCtx)
		return SignOutResult{}, err
	}

	minutes := durationMinutes(row.CheckedIn, now)

	if err := s.enqueueEvent(ctx, tx, row.ID.String(), personID, events.TypeSignedOut, now, &minutes); err != nil {
		s.logger.Error("sign-out outbox write failed", zap.String("person_id", personID), zap.Error(err))
		return SignOutResult{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("sign-out commit failed", zap.String("person_id", personID), zap.Error(err))
		return SignOutResult{}, err
	}

	s.audit.Record(ctx, auditlog.Entry{
		PersonID:      personID,
		Action:        auditlog.ActionSignOut,
		Status:        auditlog.StatusSuccess,
		SourceAddress: reqCtx.SourceAddress,
		UserAgent:     reqCtx.UserAgent,
		Detail: auditlog.SignInDetail{
			SessionID:       row.ID.String(),
			Method:          reqCtx.Method,
			DurationMinutes: &minutes,
		},
	})

	return SignOutResult{
		SessionID:       row.ID.String(),
		PersonID:        personID,
		SignOutTime:     now.Format(time.RFC3339),
		DurationMinutes: minutes,
	}, nil
}

func (s *service) CurrentOccupancy(ctx context.Context) ([]PersonSummary, error) {
	rows, err := s.repo.ListSignedIn(ctx)
	if err != nil {
		s.logger.Error("occupancy query failed", zap.Error(err))
		return nil, err
	}

	res := make([]PersonSummary, 0, len(rows))
	for _, r := range rows {
		entry := PersonSummary{
			PersonID:  r.PersonID.String(),
			CheckedIn: r.CheckedIn.Format(time.RFC3339),
		}
		if r.Person != nil {
			entry.FullName = r.Person.FullName
			entry.Username = r.Person.Username
			entry.Category = r.Person.Category
		}
		res = append(res, entry)
	}
	return res, nil
}

func (s *service) History(ctx context.Context, personID string, limit int) ([]SessionResponse, error) {
	if _, err := uuid.Parse(personID); err != nil {
		return nil, attendanceerrors.ErrInvalidPersonID
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	rows, err := s.repo.HistoryByPerson(ctx, personID, limit)
	if err != nil {
		s.logger.Error("history query failed", zap.String("person_id", personID), zap.Error(err))
		return nil, err
	}

	res := make([]SessionResponse, len(rows))
	for i, r := range rows {
		res[i] = mapToSessionResponse(r)
	}
	return res, nil
}

func (s *service) Stats(ctx context.Context, date string) (StatsResponse, error) {
	day := time.Now().UTC().Truncate(24 * time.Hour)
	if date != "" {
		parsed, err := time.Parse("2006-01-02", date)
		if err != nil {
			return StatsResponse{}, attendanceerrors.ErrInvalidDateFormat
		}
		day = parsed
	}

	stats, err := s.repo.DailyStats(ctx, day)
	if err != nil {
		s.logger.Error("stats query failed", zap.String("date", day.Format("2006-01-02")), zap.Error(err))
		return StatsResponse{}, err
	}

	return StatsResponse{
		Date:              day.Format("2006-01-02"),
		CurrentlySignedIn: stats.CurrentlySignedIn,
		TotalVisited:      stats.TotalVisited,
		UniqueVisitors:    stats.UniqueVisitors,
	}, nil
}

func (s *service) Search(ctx context.Context, query string, limit int, from, to string) ([]SessionResponse, error) {
	if query == "" {
		return nil, attendanceerrors.ErrEmptyQuery
	}
	if limit <= 0 || limit > 100 {
		limit = 25
	}

	fromTime, toTime, err := parseDateRange(from, to)
	if err != nil {
		return nil, err
	}

	matches, err := s.persons.Search(ctx, query, limit)
	if err != nil {
		s.logger.Error("search person lookup failed", zap.String("query", query), zap.Error(err))
		return nil, err
	}
	if len(matches) == 0 {
		return []SessionResponse{}, nil
	}

	ids := make([]string, len(matches))
	for i, p := range matches {
		ids[i] = p.ID.String()
	}

	rows, err := s.repo.SessionsByPersons(ctx, ids, fromTime, toTime, limit)
	if err != nil {
		s.logger.Error("search session query failed", zap.String("query", query), zap.Error(err))
		return nil, err
	}

	res := make([]SessionResponse, len(rows))
	for i, r := range rows {
		res[i] = mapToSessionResponse(r)
	}
	return res, nil
}

func (s *service) recordFailure(ctx context.Context, personID, action, reason string, reqCtx RequestContext) {
	s.audit.Record(ctx, auditlog.Entry{
		PersonID:      personID,
		Action:        action,
		Status:        auditlog.StatusFailed,
		SourceAddress: reqCtx.SourceAddress,
		UserAgent:     reqCtx.UserAgent,
		Detail: auditlog.FailureDetail{
			Reason: reason,
			Method: reqCtx.Method,
		},
	})
}

func (s *service) enqueueEvent(
	ctx context.Context,
	tx *sql.Tx,
	sessionID, personID, eventType string,
	occurredAt time.Time,
	minutes *int,
) error {
	if s.outboxRepo == nil {
		return nil
	}

	payload, err := json.Marshal(events.AttendanceSessionEvent{
		EventType:       eventType,
		SessionID:       sessionID,
		PersonID:        personID,
		OccurredAt:      occurredAt,
		DurationMinutes: minutes,
	})
	if err != nil {
		return err
	}

	return s.outboxRepo.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.New().String(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "attendance_session",
		AggregateID:   sessionID,
		EventType:     eventType,
		Topic:         events.AttendanceSessionTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

// durationMinutes rounds the session length to the nearest minute.
func durationMinutes(in, out time.Time) int {
	return int(math.Round(out.Sub(in).Minutes()))
}

func parseDateRange(from, to string) (*time.Time, *time.Time, error) {
	var fromTime, toTime *time.Time

	if from != "" {
		parsed, err := time.Parse("2006-01-02", from)
		if err != nil {
			return nil, nil, attendanceerrors.ErrInvalidDateFormat
		}
		fromTime = &parsed
	}
	if to != "" {
		parsed, err := time.Parse("2006-01-02", to)
		if err != nil {
			return nil, nil, attendanceerrors.ErrInvalidDateFormat
		}
		// inclusive end of day
		end := parsed.Add(24 * time.Hour)
		toTime = &end
	}
	if fromTime != nil && toTime != nil && toTime.Before(*fromTime) {
		return nil, nil, attendanceerrors.ErrInvalidDateRange
	}

	return fromTime, toTime, nil
}
