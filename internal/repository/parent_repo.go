package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/edutrack/edutrack-api/internal/models"
)

// ParentRepository resolves parent-child relations.
type ParentRepository interface {
	ListChildren(ctx context.Context, parentID uint) ([]models.ParentChildRelation, error)
}

type parentRepository struct {
	db *gorm.DB
}

// NewParentRepository constructs a GORM-backed parent repository.
func NewParentRepository(db *gorm.DB) ParentRepository {
	return &parentRepository{db: db}
}

func (r *parentRepository) ListChildren(ctx context.Context, parentID uint) ([]models.ParentChildRelation, error) {
	var relations []models.ParentChildRelation
	if err := r.db.WithContext(ctx).
		Preload("Child.User").
		Where("parent_id = ?", parentID).
		Order("id ASC").
		Find(&relations).Error; err != nil {
		return nil, err
	}

	return relations, nil
}
