package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/edutrack/edutrack-api/internal/models"
)

// RankingRepository reads and maintains the cached points aggregates.
type RankingRepository interface {
	GetByStudent(ctx context.Context, studentID uint) (models.Ranking, error)
	GlobalTop(ctx context.Context, limit int) ([]models.Ranking, error)
	ListByGroup(ctx context.Context, groupID uint) ([]models.Ranking, error)
	RecomputeForStudent(ctx context.Context, studentID uint) error
}

type rankingRepository struct {
	db *gorm.DB
}

// NewRankingRepository constructs a GORM-backed ranking repository.
func NewRankingRepository(db *gorm.DB) RankingRepository {
	return &rankingRepository{db: db}
}

func (r *rankingRepository) GetByStudent(ctx context.Context, studentID uint) (models.Ranking, error) {
	var ranking models.Ranking
	if err := r.db.WithContext(ctx).
		Preload("Student.User").
		Where("student_id = ?", studentID).
		First(&ranking).Error; err != nil {
		return models.Ranking{}, err
	}

	return ranking, nil
}

func (r *rankingRepository) GlobalTop(ctx context.Context, limit int) ([]models.Ranking, error) {
	var rankings []models.Ranking
	if err := r.db.WithContext(ctx).
		Preload("Student.User").
		Order("points DESC, student_id ASC").
		Limit(limit).
		Find(&rankings).Error; err != nil {
		return nil, err
	}

	return rankings, nil
}

// ListByGroup returns the full ordered ranking list for one group. The
// caller slices the top entries and locates the requester's position in
// the unsliced sequence.
func (r *rankingRepository) ListByGroup(ctx context.Context, groupID uint) ([]models.Ranking, error) {
	var rankings []models.Ranking
	if err := r.db.WithContext(ctx).
		Preload("Student.User").
		Joins("JOIN student_profiles ON student_profiles.id = rankings.student_id").
		Where("student_profiles.group_id = ?", groupID).
		Order("rankings.points DESC, rankings.student_id ASC").
		Find(&rankings).Error; err != nil {
		return nil, err
	}

	return rankings, nil
}

func (r *rankingRepository) RecomputeForStudent(ctx context.Context, studentID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return recomputePoints(tx, studentID)
	})
}

// recomputePoints refreshes the cached aggregate for one student by
// resumming the grades of their graded submissions. It must run inside
// the same transaction as the submission write that triggered it so that
// readers never observe a half-applied grade update. The ranking row is
// created lazily on first use.
func recomputePoints(tx *gorm.DB, studentID uint) error {
	var total int64
	if err := tx.Model(&models.Submission{}).
		Where("student_id = ? AND grade IS NOT NULL", studentID).
		Select("COALESCE(SUM(grade), 0)").
		Scan(&total).Error; err != nil {
		return err
	}

	var ranking models.Ranking
	err := tx.Where("student_id = ?", studentID).First(&ranking).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		ranking = models.Ranking{StudentID: studentID, Points: int(total)}
		return tx.Create(&ranking).Error
	}
	if err != nil {
		return err
	}

	return tx.Model(&ranking).Update("points", int(total)).Error
}
