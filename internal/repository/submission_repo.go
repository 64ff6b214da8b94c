package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/edutrack/edutrack-api/internal/models"
)

// SubmissionRepository defines data operations for submissions. Save runs
// the write together with the ranking recomputation in one transaction.
type SubmissionRepository interface {
	GetByID(ctx context.Context, id uint) (models.Submission, error)
	GetByTaskAndStudent(ctx context.Context, taskID, studentID uint) (models.Submission, error)
	Save(ctx context.Context, submission *models.Submission) error
	ListByStudent(ctx context.Context, studentID uint) ([]models.Submission, error)
	ListGradedByStudent(ctx context.Context, studentID uint) ([]models.Submission, error)
	ListByTaskCreator(ctx context.Context, teacherID uint) ([]models.Submission, error)
}

type submissionRepository struct {
	db *gorm.DB
}

// NewSubmissionRepository instantiates the repository.
func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

func (r *submissionRepository) baseQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Submission{}).
		Preload("Task").
		Preload("Student.User")
}

func (r *submissionRepository) GetByID(ctx context.Context, id uint) (models.Submission, error) {
	var submission models.Submission
	if err := r.baseQuery(ctx).First(&submission, id).Error; err != nil {
		return models.Submission{}, err
	}

	return submission, nil
}

func (r *submissionRepository) GetByTaskAndStudent(ctx context.Context, taskID, studentID uint) (models.Submission, error) {
	var submission models.Submission
	if err := r.baseQuery(ctx).
		Where("task_id = ?", taskID).
		Where("student_id = ?", studentID).
		First(&submission).Error; err != nil {
		return models.Submission{}, err
	}

	return submission, nil
}

// Save persists the submission and refreshes the student's ranking as one
// atomic unit. Either both halves commit or neither does.
func (r *submissionRepository) Save(ctx context.Context, submission *models.Submission) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Task", "Student", "Comments").Save(submission).Error; err != nil {
			return err
		}

		return recomputePoints(tx, submission.StudentID)
	})
}

func (r *submissionRepository) ListByStudent(ctx context.Context, studentID uint) ([]models.Submission, error) {
	var submissions []models.Submission
	if err := r.baseQuery(ctx).
		Where("student_id = ?", studentID).
		Order("created_at ASC").
		Find(&submissions).Error; err != nil {
		return nil, err
	}

	return submissions, nil
}

func (r *submissionRepository) ListGradedByStudent(ctx context.Context, studentID uint) ([]models.Submission, error) {
	var submissions []models.Submission
	if err := r.baseQuery(ctx).
		Where("student_id = ? AND grade IS NOT NULL", studentID).
		Order("created_at ASC").
		Find(&submissions).Error; err != nil {
		return nil, err
	}

	return submissions, nil
}

// ListByTaskCreator returns submissions for tasks created by the teacher.
// Scoping happens in the query so foreign submissions never reach the
// caller.
func (r *submissionRepository) ListByTaskCreator(ctx context.Context, teacherID uint) ([]models.Submission, error) {
	var submissions []models.Submission
	if err := r.baseQuery(ctx).
		Joins("JOIN tasks ON tasks.id = submissions.task_id").
		Where("tasks.created_by_id = ?", teacherID).
		Order("submissions.updated_at DESC").
		Find(&submissions).Error; err != nil {
		return nil, err
	}

	return submissions, nil
}
