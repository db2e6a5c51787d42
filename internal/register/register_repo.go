package register

import (
	"context"
	"time"

	"go-clubhouse/internal/attendance"

	"gorm.io/gorm"
)

type categoryCount struct {
	Category string `gorm:"column:category"`
	Count    int64  `gorm:"column:count"`
}

//go:generate mockgen -source=register_repo.go -destination=mock/register_repo_mock.go -package=mock
type Repository interface {
	SessionsOnDate(ctx context.Context, date time.Time) ([]attendance.AttendanceSession, error)
	CountsByCategory(ctx context.Context, date time.Time) (map[string]int64, error)
	ActiveDates(ctx context.Context, limit int) ([]string, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) SessionsOnDate(ctx context.Context, date time.Time) ([]attendance.AttendanceSession, error) {
	day := date.UTC().Truncate(24 * time.Hour)
	next := day.Add(24 * time.Hour)

	var rows []attendance.AttendanceSession
	err := r.db.WithContext(ctx).
		Preload("Person").
		Where("checked_in >= ? AND checked_in < ?", day, next).
		Order("checked_in ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) CountsByCategory(ctx context.Context, date time.Time) (map[string]int64, error) {
	day := date.UTC().Truncate(24 * time.Hour)
	next := day.Add(24 * time.Hour)

	var rows []categoryCount
	err := r.db.WithContext(ctx).Raw(`
		SELECT p.category AS category, COUNT(*) AS count
		FROM attendance_sessions s
		JOIN persons p ON p.id = s.person_id
		WHERE s.checked_in >= ? AND s.checked_in < ?
		GROUP BY p.category
	`, day, next).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Category] = row.Count
	}
	return counts, nil
}

// ActiveDates lists the distinct dates that have at least one session,
// newest first, as YYYY-MM-DD strings.
func (r *repository) ActiveDates(ctx context.Context, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 30
	}

	var dates []string
	err := r.db.WithContext(ctx).Raw(`
		SELECT to_char(date_trunc('day', checked_in), 'YYYY-MM-DD') AS day
		FROM attendance_sessions
		GROUP BY day
		ORDER BY day DESC
		LIMIT ?
	`, limit).Scan(&dates).Error
	return dates, err
}
