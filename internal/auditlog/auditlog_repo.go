package auditlog

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// DaySummary is one row of the per-day activity rollup.
type DaySummary struct {
	Date          time.Time `gorm:"column:day"`
	SignIns       int64     `gorm:"column:signins"`
	SignOuts      int64     `gorm:"column:signouts"`
	Failures      int64     `gorm:"column:failures"`
	UniquePersons int64     `gorm:"column:unique_persons"`
}

//go:generate mockgen -source=auditlog_repo.go -destination=mock/auditlog_repo_mock.go -package=mock
type Repository interface {
	Append(ctx context.Context, e *ActivityEvent) error
	Recent(ctx context.Context, limit int, personID string) ([]ActivityEvent, error)
	CountFailedLoginAttempts(ctx context.Context, personID string, window time.Duration) (int64, error)
	SummaryByDay(ctx context.Context, windowDays int) ([]DaySummary, error)
	PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Append(ctx context.Context, e *ActivityEvent) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *repository) Recent(ctx context.Context, limit int, personID string) ([]ActivityEvent, error) {
	if limit <= 0 {
		limit = 50
	}

	q := r.db.WithContext(ctx).Model(&ActivityEvent{})
	if personID != "" {
		q = q.Where("user_id = ?", personID)
	}

	var rows []ActivityEvent
	err := q.Order("timestamp DESC").Limit(limit).Find(&rows).Error
	return rows, err
}

// CountFailedLoginAttempts supplies the raw count behind the externally
// owned lockout policy. Login events themselves are appended by the
// auth system through the same generic Append.
func (r *repository) CountFailedLoginAttempts(ctx context.Context, personID string, window time.Duration) (int64, error) {
	since := time.Now().UTC().Add(-window)

	var count int64
	err := r.db.WithContext(ctx).
		Model(&ActivityEvent{}).
		Where("user_id = ?", personID).
		Where("status = ?", StatusFailed).
		Where("action LIKE ?", "login%").
		Where("timestamp >= ?", since).
		Count(&count).Error
	return count, err
}

func (r *repository) SummaryByDay(ctx context.Context, windowDays int) ([]DaySummary, error) {
	if windowDays <= 0 {
		windowDays = 7
	}
	since := time.Now().UTC().Truncate(24 * time.Hour).AddDate(0, 0, -(windowDays - 1))

	var rows []DaySummary
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			date_trunc('day', timestamp) AS day,
			COUNT(*) FILTER (WHERE action = ? AND status = ?) AS signins,
			COUNT(*) FILTER (WHERE action = ? AND status = ?) AS signouts,
			COUNT(*) FILTER (WHERE status = ?) AS failures,
			COUNT(DISTINCT user_id) AS unique_persons
		FROM activity_events
		WHERE timestamp >= ?
		GROUP BY day
		ORDER BY day DESC
	`, ActionSignIn, StatusSuccess, ActionSignOut, StatusSuccess, StatusFailed, since).
		Scan(&rows).Error
	return rows, err
}

func (r *repository) PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("timestamp < ?", cutoff).
		Delete(&ActivityEvent{})
	return res.RowsAffected, res.Error
}
