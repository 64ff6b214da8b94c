package models

import "time"

// Submission records one student's work against one task. The
// (task, student) pair is logically unique; resubmissions mutate the
// existing row instead of creating a new one.
type Submission struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	TaskID      uint           `gorm:"not null;uniqueIndex:idx_submissions_task_student" json:"task_id"`
	StudentID   uint           `gorm:"not null;uniqueIndex:idx_submissions_task_student" json:"student_id"`
	FileURL     string         `gorm:"size:512" json:"file_url"`
	Grade       *int           `json:"grade"`
	Status      string         `gorm:"size:32;not null" json:"status"`
	SubmittedAt *time.Time     `json:"submitted_at"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	Task        Task           `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"task"`
	Student     StudentProfile `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"student"`
	Comments    []Comment      `json:"comments,omitempty"`
}

const (
	// SubmissionStatusPending indicates the submission was seeded for an
	// assigned student and no file has been uploaded yet.
	SubmissionStatusPending = "pending"
	// SubmissionStatusSubmitted indicates the student has uploaded work.
	SubmissionStatusSubmitted = "submitted"
)

// GradeMin and GradeMax bound the accepted grade scale, inclusive.
const (
	GradeMin = 0
	GradeMax = 6
)

// IsGraded reports whether a grade has been assigned.
func (s Submission) IsGraded() bool {
	return s.Grade != nil
}
