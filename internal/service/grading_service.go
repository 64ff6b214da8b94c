package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/gorm"

	"github.com/edutrack/edutrack-api/internal/auth"
	"github.com/edutrack/edutrack-api/internal/dto"
	"github.com/edutrack/edutrack-api/internal/repository"
)

// ErrGradeForbidden indicates the principal is not the teacher who
// created the submission's task.
var ErrGradeForbidden = errors.New("only the owning teacher may grade")

// GradingService encapsulates grade assignment by teachers.
type GradingService interface {
	SetGrade(ctx context.Context, principal auth.Principal, submissionID uint, payload dto.GradeRequest) (dto.SubmissionResponse, error)
}

type gradingService struct {
	submissions repository.SubmissionRepository
	validator   *validator.Validate
	activity    ActivityRecorder
	leaderboard LeaderboardInvalidator
	logger      zerolog.Logger
	now         func() time.Time
}

// NewGradingService constructs the grading service. Both activity and
// leaderboard may be nil.
func NewGradingService(subRepo repository.SubmissionRepository, validate *validator.Validate, activity ActivityRecorder, leaderboard LeaderboardInvalidator, logger zerolog.Logger) GradingService {
	return &gradingService{
		submissions: subRepo,
		validator:   validate,
		activity:    activity,
		leaderboard: leaderboard,
		logger:      logger.With().Str("component", "grading_service").Logger(),
		now:         time.Now,
	}
}

// SetGrade assigns a grade to a submission. Only the teacher who created
// the submission's task may grade it; the write and the ranking
// recomputation commit together.
func (s *gradingService) SetGrade(ctx context.Context, principal auth.Principal, submissionID uint, payload dto.GradeRequest) (dto.SubmissionResponse, error) {
	tracer := otel.Tracer("github.com/edutrack/edutrack-api/internal/service/grading")
	ctx, span := tracer.Start(ctx, "grading.set_grade")
	span.SetAttributes(
		attribute.Int64("grading.submission_id", int64(submissionID)),
		attribute.Int64("grading.actor_id", int64(principal.User.ID)),
	)
	defer span.End()

	if err := s.validator.Struct(payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation_failed")
		return dto.SubmissionResponse{}, err
	}

	submission, err := s.submissions.GetByID(ctx, submissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			span.SetStatus(codes.Error, "submission_not_found")
			return dto.SubmissionResponse{}, ErrSubmissionNotFound
		}
		span.RecordError(err)
		return dto.SubmissionResponse{}, err
	}

	if principal.Teacher == nil || submission.Task.CreatedByID == nil || *submission.Task.CreatedByID != principal.Teacher.ID {
		span.SetStatus(codes.Error, "grade_forbidden")
		return dto.SubmissionResponse{}, ErrGradeForbidden
	}

	if submission.Grade != nil && *submission.Grade == *payload.Grade {
		span.SetAttributes(attribute.Bool("grading.idempotent", true))
		return dto.NewSubmissionResponse(submission), nil
	}

	grade := *payload.Grade
	submission.Grade = &grade

	if err := s.submissions.Save(ctx, &submission); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "submission_update_failed")
		return dto.SubmissionResponse{}, err
	}

	if s.leaderboard != nil {
		s.leaderboard.InvalidateGlobal(ctx)
	}

	if s.activity != nil {
		_, _ = s.activity.Record(ctx, ActivityEntry{
			ActorID:    principal.User.ID,
			ActorRole:  principal.Role(),
			Action:     "submission.graded",
			EntityType: "submission",
			EntityID:   &submission.ID,
			Metadata: map[string]interface{}{
				"submission_id": submission.ID,
				"student_id":    submission.StudentID,
				"task_id":       submission.TaskID,
				"grade":         grade,
			},
		})
	}

	span.SetAttributes(attribute.Int("grading.grade", grade))

	s.logger.Info().
		Uint("submission_id", submission.ID).
		Uint("student_id", submission.StudentID).
		Int("grade", grade).
		Msg("submission graded")

	updated, err := s.submissions.GetByID(ctx, submission.ID)
	if err != nil {
		return dto.SubmissionResponse{}, err
	}

	return dto.NewSubmissionResponse(updated), nil
}
