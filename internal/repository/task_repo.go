package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/edutrack/edutrack-api/internal/models"
)

// TaskRepository defines persistence operations for tasks.
type TaskRepository interface {
	GetByID(ctx context.Context, id uint) (models.Task, error)
	CreateWithAssignments(ctx context.Context, task *models.Task, students []models.StudentProfile) error
	ListAssignedToStudent(ctx context.Context, studentID uint) ([]models.Task, error)
	Count(ctx context.Context) (int64, error)
}

type taskRepository struct {
	db *gorm.DB
}

// NewTaskRepository instantiates a GORM-backed task repository.
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &taskRepository{db: db}
}

func (r *taskRepository) GetByID(ctx context.Context, id uint) (models.Task, error) {
	var task models.Task
	if err := r.db.WithContext(ctx).First(&task, id).Error; err != nil {
		return models.Task{}, err
	}

	return task, nil
}

// CreateWithAssignments stores the task, assigns the given students and
// seeds one pending submission per student, all in one transaction.
func (r *taskRepository) CreateWithAssignments(ctx context.Context, task *models.Task, students []models.StudentProfile) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("AssignedStudents", "Submissions", "CreatedBy").Create(task).Error; err != nil {
			return err
		}

		if len(students) == 0 {
			return nil
		}

		if err := tx.Model(task).Omit("AssignedStudents.*").Association("AssignedStudents").Append(&students); err != nil {
			return err
		}

		seeded := make([]models.Submission, 0, len(students))
		for _, student := range students {
			seeded = append(seeded, models.Submission{
				TaskID:    task.ID,
				StudentID: student.ID,
				Status:    models.SubmissionStatusPending,
			})
		}

		return tx.Create(&seeded).Error
	})
}

func (r *taskRepository) ListAssignedToStudent(ctx context.Context, studentID uint) ([]models.Task, error) {
	var tasks []models.Task
	if err := r.db.WithContext(ctx).
		Joins("JOIN task_assignments ON task_assignments.task_id = tasks.id").
		Where("task_assignments.student_profile_id = ?", studentID).
		Order("tasks.created_at ASC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}

	return tasks, nil
}

func (r *taskRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Task{}).Count(&total).Error; err != nil {
		return 0, err
	}

	return total, nil
}
