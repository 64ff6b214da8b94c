package dto

import (
	"time"

	"github.com/edutrack/edutrack-api/internal/models"
)

// SubmitTaskRequest describes the multipart payload for uploading work.
type SubmitTaskRequest struct {
	TaskID uint `form:"task_id" validate:"required,gt=0"`
}

// GradeRequest carries a grade assignment. The scale is 0 to 6 inclusive.
type GradeRequest struct {
	Grade *int `json:"grade" validate:"required,gte=0,lte=6"`
}

// SubmissionResponse is returned to API clients when viewing submissions.
type SubmissionResponse struct {
	ID          uint        `json:"id"`
	TaskID      uint        `json:"task_id"`
	StudentID   uint        `json:"student_id"`
	FileURL     string      `json:"file_url"`
	Grade       *int        `json:"grade"`
	Status      string      `json:"status"`
	SubmittedAt *time.Time  `json:"submitted_at"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
	Task        TaskLite    `json:"task"`
	Student     StudentLite `json:"student"`
}

// TaskLite summarizes a task in submission responses.
type TaskLite struct {
	ID       uint       `json:"id"`
	Name     string     `json:"name"`
	Deadline *time.Time `json:"deadline"`
}

// StudentLite summarizes a student without exposing full profile data.
type StudentLite struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// NewSubmissionResponse converts a Submission model into a DTO.
func NewSubmissionResponse(model models.Submission) SubmissionResponse {
	response := SubmissionResponse{
		ID:          model.ID,
		TaskID:      model.TaskID,
		StudentID:   model.StudentID,
		FileURL:     model.FileURL,
		Grade:       model.Grade,
		Status:      model.Status,
		SubmittedAt: model.SubmittedAt,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}

	if model.Task.ID != 0 {
		response.Task = TaskLite{
			ID:       model.Task.ID,
			Name:     model.Task.Name,
			Deadline: model.Task.Deadline,
		}
	}

	if model.Student.ID != 0 {
		response.Student = StudentLite{
			ID:   model.Student.ID,
			Name: model.Student.User.Username,
		}
	}

	return response
}

// NewSubmissionResponseSlice converts submission models into DTOs.
func NewSubmissionResponseSlice(models []models.Submission) []SubmissionResponse {
	responses := make([]SubmissionResponse, 0, len(models))
	for _, submission := range models {
		responses = append(responses, NewSubmissionResponse(submission))
	}

	return responses
}
