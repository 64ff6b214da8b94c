package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/edutrack/edutrack-api/internal/auth"
	"github.com/edutrack/edutrack-api/internal/dto"
	"github.com/edutrack/edutrack-api/internal/models"
	"github.com/edutrack/edutrack-api/internal/repository"
)

// FileUploader stores submission files and returns a stable URL.
type FileUploader interface {
	Upload(ctx context.Context, name string, reader io.Reader) (string, error)
}

// ErrTaskNotFound indicates the referenced task does not exist.
var ErrTaskNotFound = errors.New("task not found")

// ErrSubmissionNotFound indicates a submission could not be found.
var ErrSubmissionNotFound = errors.New("submission not found")

// ErrSubmissionForbidden indicates the principal may not touch the
// submission. It deliberately carries no detail about what exists.
var ErrSubmissionForbidden = errors.New("submission access denied")

// ErrStudentProfileRequired indicates the operation needs a student profile.
var ErrStudentProfileRequired = errors.New("student profile required")

// ErrEmptyComment indicates the comment text was empty after sanitization.
var ErrEmptyComment = errors.New("comment text is empty")

// SubmissionService orchestrates the submit-and-feedback workflow.
type SubmissionService interface {
	Submit(ctx context.Context, principal auth.Principal, payload dto.SubmitTaskRequest, file *multipart.FileHeader) (dto.SubmissionResponse, bool, error)
	AddComment(ctx context.Context, principal auth.Principal, submissionID uint, payload dto.CommentCreateRequest) ([]dto.CommentResponse, error)
	ListComments(ctx context.Context, principal auth.Principal, submissionID uint) ([]dto.CommentResponse, error)
	ListForTeacher(ctx context.Context, principal auth.Principal) ([]dto.SubmissionResponse, error)
}

type submissionService struct {
	submissions repository.SubmissionRepository
	tasks       repository.TaskRepository
	comments    repository.CommentRepository
	validator   *validator.Validate
	uploader    FileUploader
	sanitizer   *bluemonday.Policy
	tracer      trace.Tracer
	logger      zerolog.Logger
	now         func() time.Time
}

// NewSubmissionService constructs a SubmissionService instance.
func NewSubmissionService(subRepo repository.SubmissionRepository, taskRepo repository.TaskRepository, commentRepo repository.CommentRepository, validate *validator.Validate, uploader FileUploader, logger zerolog.Logger) SubmissionService {
	return &submissionService{
		submissions: subRepo,
		tasks:       taskRepo,
		comments:    commentRepo,
		validator:   validate,
		uploader:    uploader,
		sanitizer:   bluemonday.UGCPolicy(),
		tracer:      otel.Tracer("github.com/edutrack/edutrack-api/internal/service/submission"),
		logger:      logger.With().Str("component", "submission_service").Logger(),
		now:         time.Now,
	}
}

// Submit upserts the student's submission for a task. The (task, student)
// pair identifies the row: a resubmission replaces the file and refreshes
// the timestamp on the existing row, preserving its grade and comments.
// The second return value reports whether a new row was created.
func (s *submissionService) Submit(ctx context.Context, principal auth.Principal, payload dto.SubmitTaskRequest, file *multipart.FileHeader) (dto.SubmissionResponse, bool, error) {
	if principal.Student == nil {
		return dto.SubmissionResponse{}, false, ErrStudentProfileRequired
	}

	if err := s.validator.Struct(payload); err != nil {
		return dto.SubmissionResponse{}, false, err
	}

	if file == nil {
		return dto.SubmissionResponse{}, false, fmt.Errorf("submission file is required")
	}

	if _, err := s.tasks.GetByID(ctx, payload.TaskID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, false, ErrTaskNotFound
		}
		return dto.SubmissionResponse{}, false, err
	}

	if err := validateFileType(file); err != nil {
		return dto.SubmissionResponse{}, false, err
	}

	reader, err := file.Open()
	if err != nil {
		return dto.SubmissionResponse{}, false, fmt.Errorf("failed to open file: %w", err)
	}
	defer reader.Close()

	// Upload before touching the database: a storage failure must leave
	// no partial submission behind.
	uploadURL, err := s.uploader.Upload(ctx, file.Filename, reader)
	if err != nil {
		return dto.SubmissionResponse{}, false, fmt.Errorf("failed to upload file: %w", err)
	}

	submittedAt := s.now()
	created := false

	submission, err := s.submissions.GetByTaskAndStudent(ctx, payload.TaskID, principal.Student.ID)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		created = true
		submission = models.Submission{
			TaskID:    payload.TaskID,
			StudentID: principal.Student.ID,
		}
	case err != nil:
		return dto.SubmissionResponse{}, false, err
	}

	submission.FileURL = uploadURL
	submission.Status = models.SubmissionStatusSubmitted
	submission.SubmittedAt = &submittedAt

	if err := s.submissions.Save(ctx, &submission); err != nil {
		return dto.SubmissionResponse{}, false, err
	}

	saved, err := s.submissions.GetByID(ctx, submission.ID)
	if err != nil {
		return dto.SubmissionResponse{}, false, err
	}

	s.logger.Info().
		Uint("submission_id", saved.ID).
		Uint("task_id", saved.TaskID).
		Uint("student_id", saved.StudentID).
		Bool("created", created).
		Msg("submission stored")

	return dto.NewSubmissionResponse(saved), created, nil
}

// AddComment appends to the submission's thread and returns the full
// thread in ascending creation order. Author and role snapshot come from
// the principal, never from the payload.
func (s *submissionService) AddComment(ctx context.Context, principal auth.Principal, submissionID uint, payload dto.CommentCreateRequest) ([]dto.CommentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return nil, err
	}

	submission, err := s.loadAccessible(ctx, principal, submissionID)
	if err != nil {
		return nil, err
	}

	text := strings.TrimSpace(s.sanitizer.Sanitize(payload.Text))
	if text == "" {
		return nil, ErrEmptyComment
	}

	spanCtx, span := s.tracer.Start(ctx, "submission.add_comment", trace.WithAttributes(
		attribute.Int64("submission.id", int64(submission.ID)),
		attribute.String("comment.role", principal.CommentRole()),
	))
	defer span.End()

	comment := models.Comment{
		SubmissionID: submission.ID,
		AuthorID:     principal.User.ID,
		Role:         principal.CommentRole(),
		Text:         text,
	}

	if err := s.comments.Create(spanCtx, &comment); err != nil {
		span.RecordError(err)
		return nil, err
	}

	thread, err := s.comments.ListBySubmission(spanCtx, submission.ID)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Uint("submission_id", submission.ID).
		Uint("comment_id", comment.ID).
		Str("role", comment.Role).
		Msg("comment added")

	return dto.NewCommentResponseSlice(thread), nil
}

func (s *submissionService) ListComments(ctx context.Context, principal auth.Principal, submissionID uint) ([]dto.CommentResponse, error) {
	submission, err := s.loadAccessible(ctx, principal, submissionID)
	if err != nil {
		return nil, err
	}

	thread, err := s.comments.ListBySubmission(ctx, submission.ID)
	if err != nil {
		return nil, err
	}

	return dto.NewCommentResponseSlice(thread), nil
}

// ListForTeacher returns the submissions for tasks the teacher created.
func (s *submissionService) ListForTeacher(ctx context.Context, principal auth.Principal) ([]dto.SubmissionResponse, error) {
	if principal.Teacher == nil {
		return nil, ErrSubmissionForbidden
	}

	submissions, err := s.submissions.ListByTaskCreator(ctx, principal.Teacher.ID)
	if err != nil {
		return nil, err
	}

	return dto.NewSubmissionResponseSlice(submissions), nil
}

func (s *submissionService) loadAccessible(ctx context.Context, principal auth.Principal, submissionID uint) (models.Submission, error) {
	submission, err := s.submissions.GetByID(ctx, submissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Submission{}, ErrSubmissionNotFound
		}
		return models.Submission{}, err
	}

	if !principal.CanAccessSubmission(submission) {
		return models.Submission{}, ErrSubmissionForbidden
	}

	return submission, nil
}

func validateFileType(file *multipart.FileHeader) error {
	reader, err := file.Open()
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer reader.Close()

	mime, err := mimetype.DetectReader(reader)
	if err != nil {
		return fmt.Errorf("failed to detect file type: %w", err)
	}

	allowed := []string{"application/pdf", "application/zip", "application/x-zip-compressed", "text/plain", "image/png", "image/jpeg"}
	for _, a := range allowed {
		if mime.Is(a) {
			return nil
		}
	}

	return fmt.Errorf("unsupported file type: %s", mime.String())
}
