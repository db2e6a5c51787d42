package register

import (
	"context"
	"encoding/json"
	"math"
	"sort"
	"time"

	attendanceerrors "go-clubhouse/internal/attendance/errors"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	// TotalKey is always present in CountsByCategory and equals the sum
	// of every category count.
	TotalKey = "total"

	activeDatesCacheKey = "register:active_dates"
	activeDatesCacheTTL = 60 * time.Second
)

//go:generate mockgen -source=register_service.go -destination=mock/register_service_mock.go -package=mock
type Service interface {
	ByDate(ctx context.Context, date string) ([]EntryResponse, error)
	CountsByCategory(ctx context.Context, date string) (CountsResponse, error)
	ActiveDates(ctx context.Context, limit int) (ActiveDatesResponse, error)
}

type service struct {
	repo   Repository
	rdb    *redis.Client
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(repo Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("register.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("register.service")
	}
	return &service{
		repo:   repo,
		rdb:    rdb,
		sf:     &singleflight.Group{},
		logger: l,
	}
}

func (s *service) ByDate(ctx context.Context, date string) ([]EntryResponse, error) {
	day, err := parseDate(date)
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.SessionsOnDate(ctx, day)
	if err != nil {
		s.logger.Error("register by-date query failed", zap.String("date", date), zap.Error(err))
		return nil, err
	}

	res := make([]EntryResponse, len(rows))
	for i, r := range rows {
		entry := EntryResponse{
			SessionID:    r.ID.String(),
			PersonID:     r.PersonID.String(),
			CheckedIn:    r.CheckedIn.Format(time.RFC3339),
			SignInStatus: r.SignInStatus,
		}
		if r.Person != nil {
			entry.PersonName = r.Person.FullName
			entry.Username = r.Person.Username
			entry.Category = r.Person.Category
		}
		if r.CheckedOut != nil {
			v := r.CheckedOut.Format(time.RFC3339)
			entry.CheckedOut = &v
			minutes := int(math.Round(r.CheckedOut.Sub(r.CheckedIn).Minutes()))
			entry.DurationMinutes = &minutes
		}
		res[i] = entry
	}

	// Register ordering: category first, then name.
	sort.SliceStable(res, func(i, j int) bool {
		if res[i].Category != res[j].Category {
			return res[i].Category < res[j].Category
		}
		return res[i].PersonName < res[j].PersonName
	})

	return res, nil
}

func (s *service) CountsByCategory(ctx context.Context, date string) (CountsResponse, error) {
	day, err := parseDate(date)
	if err != nil {
		return CountsResponse{}, err
	}

	counts, err := s.repo.CountsByCategory(ctx, day)
	if err != nil {
		s.logger.Error("register counts query failed", zap.String("date", date), zap.Error(err))
		return CountsResponse{}, err
	}
	if counts == nil {
		counts = make(map[string]int64)
	}

	var total int64
	for _, c := range counts {
		total += c
	}
	counts[TotalKey] = total

	return CountsResponse{
		Date:   day.Format("2006-01-02"),
		Counts: counts,
	}, nil
}

// ActiveDates serves the date navigation without re-scanning history on
// every request: results are cached in redis for a minute and
// concurrent cache misses collapse into one query via singleflight.
func (s *service) ActiveDates(ctx context.Context, limit int) (ActiveDatesResponse, error) {
	if limit <= 0 || limit > 365 {
		limit = 30
	}

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, activeDatesCacheKey).Result(); err == nil {
			var dates []string
			if err := json.Unmarshal([]byte(cached), &dates); err == nil {
				return trimDates(dates, limit), nil
			}
		}
	}

	v, err, _ := s.sf.Do(activeDatesCacheKey, func() (interface{}, error) {
		dates, err := s.repo.ActiveDates(ctx, 365)
		if err != nil {
			return nil, err
		}

		if s.rdb != nil {
			if payload, marshalErr := json.Marshal(dates); marshalErr == nil {
				if setErr := s.rdb.Set(ctx, activeDatesCacheKey, payload, activeDatesCacheTTL).Err(); setErr != nil {
					s.logger.Warn("active dates cache set failed", zap.Error(setErr))
				}
			}
		}

		return dates, nil
	})
	if err != nil {
		s.logger.Error("active dates query failed", zap.Error(err))
		return ActiveDatesResponse{}, err
	}

	return trimDates(v.([]string), limit), nil
}

func trimDates(dates []string, limit int) ActiveDatesResponse {
	if len(dates) > limit {
		dates = dates[:limit]
	}
	return ActiveDatesResponse{Dates: dates}
}

func parseDate(date string) (time.Time, error) {
	if date == "" {
		return time.Now().UTC().Truncate(24 * time.Hour), nil
	}
	parsed, err := time.Parse("2006-01-02", date)
	if err != nil {
		return time.Time{}, attendanceerrors.ErrInvalidDateFormat
	}
	return parsed, nil
}
