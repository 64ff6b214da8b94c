package models

import "time"

// Ranking caches the total graded points for one student. It is never
// authoritative: the value is always recomputable by summing the grades
// of the student's graded submissions, and every submission write
// refreshes it within the same transaction.
type Ranking struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	StudentID uint           `gorm:"uniqueIndex;not null" json:"student_id"`
	Points    int            `gorm:"not null;default:0" json:"points"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	Student   StudentProfile `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"student"`
}
