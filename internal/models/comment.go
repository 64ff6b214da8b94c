package models

import "time"

// Comment roles recorded on feedback entries. The role is a snapshot
// taken at creation time, never recomputed from the author's current
// profile set.
const (
	CommentRoleStudent = "student"
	CommentRoleTeacher = "teacher"
)

// Comment is a feedback entry on a submission, attributed to the author
// user and the role they held when posting.
type Comment struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	SubmissionID uint      `gorm:"not null" json:"submission_id"`
	AuthorID     uint      `gorm:"not null" json:"author_id"`
	Role         string    `gorm:"size:20;not null" json:"role"`
	Text         string    `gorm:"type:text;not null" json:"text"`
	CreatedAt    time.Time `json:"created_at"`
	Author       User      `gorm:"foreignKey:AuthorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"author"`
}
