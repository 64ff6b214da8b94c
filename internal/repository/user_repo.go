package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/edutrack/edutrack-api/internal/models"
)

// UserRepository resolves user accounts and their role profiles.
type UserRepository interface {
	GetByID(ctx context.Context, id uint) (models.User, error)
	GetStudentProfileByUserID(ctx context.Context, userID uint) (models.StudentProfile, error)
	GetTeacherProfileByUserID(ctx context.Context, userID uint) (models.TeacherProfile, error)
	GetParentProfileByUserID(ctx context.Context, userID uint) (models.ParentProfile, error)
	GetStudentProfile(ctx context.Context, id uint) (models.StudentProfile, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository constructs a GORM-backed user repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return models.User{}, err
	}

	return user, nil
}

func (r *userRepository) GetStudentProfileByUserID(ctx context.Context, userID uint) (models.StudentProfile, error) {
	var profile models.StudentProfile
	if err := r.db.WithContext(ctx).Preload("User").Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return models.StudentProfile{}, err
	}

	return profile, nil
}

func (r *userRepository) GetTeacherProfileByUserID(ctx context.Context, userID uint) (models.TeacherProfile, error) {
	var profile models.TeacherProfile
	if err := r.db.WithContext(ctx).Preload("User").Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return models.TeacherProfile{}, err
	}

	return profile, nil
}

func (r *userRepository) GetParentProfileByUserID(ctx context.Context, userID uint) (models.ParentProfile, error) {
	var profile models.ParentProfile
	if err := r.db.WithContext(ctx).Preload("User").Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return models.ParentProfile{}, err
	}

	return profile, nil
}

func (r *userRepository) GetStudentProfile(ctx context.Context, id uint) (models.StudentProfile, error) {
	var profile models.StudentProfile
	if err := r.db.WithContext(ctx).Preload("User").First(&profile, id).Error; err != nil {
		return models.StudentProfile{}, err
	}

	return profile, nil
}
