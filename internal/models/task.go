package models

import "time"

// Task is an assignment created by a teacher. The creator reference is
// nullable so the task survives teacher deletion. Assignment is tracked
// per student and is independent of group membership.
type Task struct {
	ID               uint             `gorm:"primaryKey" json:"id"`
	Name             string           `gorm:"size:255;not null" json:"name"`
	Description      string           `gorm:"type:text" json:"description"`
	Deadline         *time.Time       `json:"deadline"`
	CreatedByID      *uint            `json:"created_by_id"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
	CreatedBy        *TeacherProfile  `gorm:"foreignKey:CreatedByID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"created_by,omitempty"`
	AssignedStudents []StudentProfile `gorm:"many2many:task_assignments" json:"assigned_students,omitempty"`
	Submissions      []Submission     `json:"submissions,omitempty"`
}
