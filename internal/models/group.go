package models

import "time"

// Group is a teacher-owned roster of students used for task distribution
// and leaderboard scoping. A student belongs to at most one group.
type Group struct {
	ID        uint             `gorm:"primaryKey" json:"id"`
	Name      string           `gorm:"size:255;not null" json:"name"`
	TeacherID uint             `gorm:"not null" json:"teacher_id"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
	Teacher   TeacherProfile   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"teacher"`
	Students  []StudentProfile `json:"students,omitempty"`
}
