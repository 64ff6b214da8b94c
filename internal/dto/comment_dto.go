package dto

import (
	"time"

	"github.com/edutrack/edutrack-api/internal/models"
)

// CommentCreateRequest carries the text of a new comment. Author and role
// are captured from the session, never from the payload.
type CommentCreateRequest struct {
	Text string `json:"text" validate:"required,min=1"`
}

// CommentResponse serializes one entry of a submission's comment thread.
type CommentResponse struct {
	ID           uint      `json:"id"`
	SubmissionID uint      `json:"submission_id"`
	AuthorID     uint      `json:"author_id"`
	AuthorName   string    `json:"author_name"`
	Role         string    `json:"role"`
	Text         string    `json:"text"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewCommentResponse converts a Comment model into a DTO.
func NewCommentResponse(model models.Comment) CommentResponse {
	return CommentResponse{
		ID:           model.ID,
		SubmissionID: model.SubmissionID,
		AuthorID:     model.AuthorID,
		AuthorName:   model.Author.Username,
		Role:         model.Role,
		Text:         model.Text,
		CreatedAt:    model.CreatedAt,
	}
}

// NewCommentResponseSlice converts comment models into DTOs, preserving
// the input ordering.
func NewCommentResponseSlice(models []models.Comment) []CommentResponse {
	responses := make([]CommentResponse, 0, len(models))
	for _, comment := range models {
		responses = append(responses, NewCommentResponse(comment))
	}

	return responses
}
