package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/edutrack/edutrack-api/internal/models"
)

// CommentRepository persists submission comment threads.
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	ListBySubmission(ctx context.Context, submissionID uint) ([]models.Comment, error)
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository constructs a GORM-backed comment repository.
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Omit("Author").Create(comment).Error
}

// ListBySubmission returns the thread in ascending creation order.
func (r *commentRepository) ListBySubmission(ctx context.Context, submissionID uint) ([]models.Comment, error) {
	var comments []models.Comment
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Where("submission_id = ?", submissionID).
		Order("created_at ASC, id ASC").
		Find(&comments).Error; err != nil {
		return nil, err
	}

	return comments, nil
}
