package postgres

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"leettrack/internal/domain"
)

type problemRepository struct {
	db *gorm.DB
}

func NewProblemRepository(db *gorm.DB) *problemRepository {
	return &problemRepository{db: db}
}

func (r *problemRepository) Upsert(ctx context.Context, problem *domain.ProblemMetadata) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slug"}},
		UpdateAll: true,
	}).Create(problem).Error
}

func (r *problemRepository) GetBySlug(ctx context.Context, slug string) (*domain.ProblemMetadata, error) {
	var problem domain.ProblemMetadata
	err := r.db.WithContext(ctx).First(&problem, "slug = ?", slug).Error
	if err != nil {
		return nil, err
	}
	return &problem, nil
}
