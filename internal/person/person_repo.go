package person

import (
	"context"
	"strings"

	"gorm.io/gorm"
)

//go:generate mockgen -source=person_repo.go -destination=mock/person_repo_mock.go -package=mock
type Repository interface {
	FindByID(ctx context.Context, id string) (*Person, error)
	FindByIDs(ctx context.Context, ids []string) ([]Person, error)
	Search(ctx context.Context, query string, limit int) ([]Person, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindByID(ctx context.Context, id string) (*Person, error) {
	var p Person
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&p).Error
	return &p, err
}

func (r *repository) FindByIDs(ctx context.Context, ids []string) ([]Person, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []Person
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&rows).Error
	return rows, err
}

// Search does a case-insensitive substring match over the small fixed
// field set used by attendance search: full name, username, category.
func (r *repository) Search(ctx context.Context, query string, limit int) ([]Person, error) {
	if limit <= 0 {
		limit = 25
	}
	pattern := "%" + strings.TrimSpace(query) + "%"

	var rows []Person
	err := r.db.WithContext(ctx).
		Where(
			r.db.Where("full_name ILIKE ?", pattern).
				Or("username ILIKE ?", pattern).
				Or("category ILIKE ?", pattern),
		).
		Order("full_name ASC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}
