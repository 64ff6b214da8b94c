package dto

import (
	"time"

	"github.com/edutrack/edutrack-api/internal/models"
)

// TaskCreateRequest is the payload for the teacher task-creation endpoint.
type TaskCreateRequest struct {
	GroupID     uint       `json:"group_id" validate:"required,gt=0"`
	Name        string     `json:"name" validate:"required,min=1,max=255"`
	Description string     `json:"description"`
	Deadline    *time.Time `json:"deadline"`
}

// TaskCreateResponse confirms a created task and the students whose
// submissions were seeded.
type TaskCreateResponse struct {
	ID             uint       `json:"id"`
	Name           string     `json:"name"`
	GroupID        uint       `json:"group_id"`
	Deadline       *time.Time `json:"deadline"`
	SeededStudents []string   `json:"seeded_students"`
}

// MyTaskResponse is one entry of a student's task feed, annotated with
// the state of their submission for that task.
type MyTaskResponse struct {
	ID               uint       `json:"id"`
	Name             string     `json:"name"`
	Description      string     `json:"description"`
	Deadline         *time.Time `json:"deadline"`
	CreatedAt        time.Time  `json:"created_at"`
	SubmissionID     *uint      `json:"submission_id"`
	SubmissionStatus string     `json:"submission_status"`
	Grade            *int       `json:"grade"`
	Submitted        bool       `json:"submitted"`
}

// NewMyTaskResponse annotates a task with the student's submission, if any.
func NewMyTaskResponse(task models.Task, submission *models.Submission) MyTaskResponse {
	response := MyTaskResponse{
		ID:          task.ID,
		Name:        task.Name,
		Description: task.Description,
		Deadline:    task.Deadline,
		CreatedAt:   task.CreatedAt,
	}

	if submission != nil {
		id := submission.ID
		response.SubmissionID = &id
		response.SubmissionStatus = submission.Status
		response.Grade = submission.Grade
		response.Submitted = submission.Status == models.SubmissionStatusSubmitted
	}

	return response
}
