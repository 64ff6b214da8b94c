package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/edutrack/edutrack-api/internal/auth"
	"github.com/edutrack/edutrack-api/internal/dto"
	"github.com/edutrack/edutrack-api/internal/models"
	"github.com/edutrack/edutrack-api/internal/repository"
)

// ErrTeacherProfileRequired indicates the operation needs a teacher profile.
var ErrTeacherProfileRequired = errors.New("teacher profile required")

// TaskService exposes task creation and the per-student task feed.
type TaskService interface {
	CreateForGroup(ctx context.Context, principal auth.Principal, payload dto.TaskCreateRequest) (dto.TaskCreateResponse, error)
	MyTasks(ctx context.Context, principal auth.Principal) ([]dto.MyTaskResponse, error)
	Roster(ctx context.Context, principal auth.Principal) ([]dto.StudentLite, error)
}

type taskService struct {
	tasks       repository.TaskRepository
	groups      repository.GroupRepository
	submissions repository.SubmissionRepository
	validator   *validator.Validate
	logger      zerolog.Logger
}

// NewTaskService constructs a TaskService instance.
func NewTaskService(taskRepo repository.TaskRepository, groupRepo repository.GroupRepository, subRepo repository.SubmissionRepository, validate *validator.Validate, logger zerolog.Logger) TaskService {
	return &taskService{
		tasks:       taskRepo,
		groups:      groupRepo,
		submissions: subRepo,
		validator:   validate,
		logger:      logger.With().Str("component", "task_service").Logger(),
	}
}

// CreateForGroup creates a task for a group the teacher owns, assigns
// every group member and seeds one pending submission per member. Groups
// owned by other teachers are reported as not found.
func (s *taskService) CreateForGroup(ctx context.Context, principal auth.Principal, payload dto.TaskCreateRequest) (dto.TaskCreateResponse, error) {
	if principal.Teacher == nil {
		return dto.TaskCreateResponse{}, ErrTeacherProfileRequired
	}

	if err := s.validator.Struct(payload); err != nil {
		return dto.TaskCreateResponse{}, err
	}

	group, err := s.groups.GetOwnedByTeacher(ctx, payload.GroupID, principal.Teacher.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.TaskCreateResponse{}, ErrGroupNotFound
		}
		return dto.TaskCreateResponse{}, err
	}

	teacherID := principal.Teacher.ID
	task := models.Task{
		Name:        payload.Name,
		Description: payload.Description,
		Deadline:    payload.Deadline,
		CreatedByID: &teacherID,
	}

	if err := s.tasks.CreateWithAssignments(ctx, &task, group.Students); err != nil {
		return dto.TaskCreateResponse{}, err
	}

	names := make([]string, 0, len(group.Students))
	for _, student := range group.Students {
		names = append(names, student.User.Username)
	}

	s.logger.Info().
		Uint("task_id", task.ID).
		Uint("group_id", group.ID).
		Int("seeded", len(names)).
		Msg("task created")

	return dto.TaskCreateResponse{
		ID:             task.ID,
		Name:           task.Name,
		GroupID:        group.ID,
		Deadline:       task.Deadline,
		SeededStudents: names,
	}, nil
}

// MyTasks lists the tasks assigned to the student, each annotated with
// the state of the student's submission.
func (s *taskService) MyTasks(ctx context.Context, principal auth.Principal) ([]dto.MyTaskResponse, error) {
	if principal.Student == nil {
		return nil, ErrStudentProfileRequired
	}

	tasks, err := s.tasks.ListAssignedToStudent(ctx, principal.Student.ID)
	if err != nil {
		return nil, err
	}

	submissions, err := s.submissions.ListByStudent(ctx, principal.Student.ID)
	if err != nil {
		return nil, err
	}

	byTask := make(map[uint]models.Submission, len(submissions))
	for _, submission := range submissions {
		byTask[submission.TaskID] = submission
	}

	feed := make([]dto.MyTaskResponse, 0, len(tasks))
	for _, task := range tasks {
		if submission, ok := byTask[task.ID]; ok {
			feed = append(feed, dto.NewMyTaskResponse(task, &submission))
			continue
		}
		feed = append(feed, dto.NewMyTaskResponse(task, nil))
	}

	return feed, nil
}

// Roster lists the students of the teacher's groups. Scoping happens in
// the query; students outside the teacher's groups are never loaded.
func (s *taskService) Roster(ctx context.Context, principal auth.Principal) ([]dto.StudentLite, error) {
	if principal.Teacher == nil {
		return nil, ErrTeacherProfileRequired
	}

	students, err := s.groups.ListStudentsByTeacher(ctx, principal.Teacher.ID)
	if err != nil {
		return nil, err
	}

	roster := make([]dto.StudentLite, 0, len(students))
	for _, student := range students {
		roster = append(roster, dto.StudentLite{ID: student.ID, Name: student.User.Username})
	}

	return roster, nil
}
