package attendance

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DailyStats is the aggregate row behind the stats endpoint.
type DailyStats struct {
	CurrentlySignedIn int64
	TotalVisited      int64
	UniqueVisitors    int64
}

//go:generate mockgen -source=attendance_repo.go -destination=mock/attendance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	IsSignedIn(ctx context.Context, personID string) (bool, error)
	Create(ctx context.Context, s *AttendanceSession) error
	CloseActive(ctx context.Context, personID string, at time.Time) (*AttendanceSession, error)
	ListSignedIn(ctx context.Context) ([]AttendanceSession, error)
	HistoryByPerson(ctx context.Context, personID string, limit int) ([]AttendanceSession, error)
	SessionsByPersons(ctx context.Context, personIDs []string, from, to *time.Time, limit int) ([]AttendanceSession, error)
	DailyStats(ctx context.Context, date time.Time) (DailyStats, error)
	PurgeClosedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

// conn binds queries to the enclosing transaction when one is set.
func (r *repository) conn(ctx context.Context) *gorm.DB {
	db := r.db.WithContext(ctx)
	if r.tx != nil {
		db = db.Session(&gorm.Session{Context: ctx, NewDB: true})
		db.Statement.ConnPool = r.tx
	}
	return db
}

func (r *repository) IsSignedIn(ctx context.Context, personID string) (bool, error) {
	var count int64
	err := r.conn(ctx).
		Model(&AttendanceSession{}).
		Where("person_id = ?", personID).
		Where("sign_in_status = ?", StatusSignedIn).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) Create(ctx context.Context, s *AttendanceSession) error {
	return r.conn(ctx).Create(s).Error
}

// CloseActive transitions the unique signedIn row for personID in a
// single UPDATE. Zero affected rows means the person is not signed in;
// that is reported as gorm.ErrRecordNotFound so the service can map it
// to the domain outcome. Because the predicate and the write are one
// statement, two concurrent sign-outs cannot both succeed.
func (r *repository) CloseActive(ctx context.Context, personID string, at time.Time) (*AttendanceSession, error) {
	var s AttendanceSession
	res := r.conn(ctx).
		Model(&s).
		Clauses(clause.Returning{}).
		Where("person_id = ?", personID).
		Where("sign_in_status = ?", StatusSignedIn).
		Updates(map[string]interface{}{
			"sign_in_status": StatusSignedOut,
			"checked_out":    at,
			"updated_at":     at,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &s, nil
}

func (r *repository) ListSignedIn(ctx context.Context) ([]AttendanceSession, error) {
	var rows []AttendanceSession
	err := r.conn(ctx).
		Preload("Person").
		Where("sign_in_status = ?", StatusSignedIn).
		Order("checked_in DESC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) HistoryByPerson(ctx context.Context, personID string, limit int) ([]AttendanceSession, error) {
	var rows []AttendanceSession
	err := r.conn(ctx).
		Where("person_id = ?", personID).
		Order("checked_in DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (r *repository) SessionsByPersons(ctx context.Context, personIDs []string, from, to *time.Time, limit int) ([]AttendanceSession, error) {
	if len(personIDs) == 0 {
		return nil, nil
	}

	q := r.conn(ctx).
		Preload("Person").
		Where("person_id IN ?", personIDs)
	if from != nil {
		q = q.Where("checked_in >= ?", *from)
	}
	if to != nil {
		q = q.Where("checked_in < ?", *to)
	}

	var rows []AttendanceSession
	err := q.Order("checked_in DESC").Limit(limit).Find(&rows).Error
	return rows, err
}

func (r *repository) DailyStats(ctx context.Context, date time.Time) (DailyStats, error) {
	var stats DailyStats
	day := date.UTC().Truncate(24 * time.Hour)
	next := day.Add(24 * time.Hour)

	err := r.conn(ctx).
		Model(&AttendanceSession{}).
		Where("sign_in_status = ?", StatusSignedIn).
		Count(&stats.CurrentlySignedIn).Error
	if err != nil {
		return DailyStats{}, err
	}

	err = r.conn(ctx).
		Model(&AttendanceSession{}).
		Where("checked_in >= ? AND checked_in < ?", day, next).
		Count(&stats.TotalVisited).Error
	if err != nil {
		return DailyStats{}, err
	}

	err = r.conn(ctx).
		Model(&AttendanceSession{}).
		Distinct("person_id").
		Where("checked_in >= ? AND checked_in < ?", day, next).
		Count(&stats.UniqueVisitors).Error
	if err != nil {
		return DailyStats{}, err
	}

	return stats, nil
}

// PurgeClosedBefore deletes signedOut sessions with a check-out older
// than cutoff. Open sessions are never touched regardless of age.
func (r *repository) PurgeClosedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.conn(ctx).
		Where("sign_in_status = ?", StatusSignedOut).
		Where("checked_out < ?", cutoff).
		Delete(&AttendanceSession{})
	return res.RowsAffected, res.Error
}
