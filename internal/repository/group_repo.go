package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/edutrack/edutrack-api/internal/models"
)

// GroupRepository defines persistence operations for groups.
type GroupRepository interface {
	GetByID(ctx context.Context, id uint) (models.Group, error)
	GetOwnedByTeacher(ctx context.Context, id, teacherID uint) (models.Group, error)
	ListStudentsByTeacher(ctx context.Context, teacherID uint) ([]models.StudentProfile, error)
}

type groupRepository struct {
	db *gorm.DB
}

// NewGroupRepository constructs a GORM-backed group repository.
func NewGroupRepository(db *gorm.DB) GroupRepository {
	return &groupRepository{db: db}
}

func (r *groupRepository) GetByID(ctx context.Context, id uint) (models.Group, error) {
	var group models.Group
	if err := r.db.WithContext(ctx).
		Preload("Students.User").
		First(&group, id).Error; err != nil {
		return models.Group{}, err
	}

	return group, nil
}

// GetOwnedByTeacher scopes the lookup to groups owned by the teacher, so
// foreign groups are indistinguishable from missing ones.
func (r *groupRepository) GetOwnedByTeacher(ctx context.Context, id, teacherID uint) (models.Group, error) {
	var group models.Group
	if err := r.db.WithContext(ctx).
		Preload("Students.User").
		Where("id = ? AND teacher_id = ?", id, teacherID).
		First(&group).Error; err != nil {
		return models.Group{}, err
	}

	return group, nil
}

func (r *groupRepository) ListStudentsByTeacher(ctx context.Context, teacherID uint) ([]models.StudentProfile, error) {
	var students []models.StudentProfile
	if err := r.db.WithContext(ctx).
		Preload("User").
		Joins("JOIN groups ON groups.id = student_profiles.group_id").
		Where("groups.teacher_id = ?", teacherID).
		Order("student_profiles.id ASC").
		Find(&students).Error; err != nil {
		return nil, err
	}

	return students, nil
}
