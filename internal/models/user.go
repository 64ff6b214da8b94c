package models

import "time"

// Role values a user account can hold. The role is assigned at account
// creation and drives which profile entity the user owns.
const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
	RoleParent  = "parent"
)

// User is the identity record shared by all three roles.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"size:150;uniqueIndex;not null" json:"username"`
	Email     string    `gorm:"size:255" json:"email"`
	Role      string    `gorm:"size:20;not null" json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StudentProfile extends a user with student-specific state.
// Points is a legacy denormalized counter; Ranking is authoritative for
// leaderboards.
type StudentProfile struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	Points    uint      `gorm:"default:0" json:"points"`
	GroupID   *uint     `json:"group_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	User      User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"user"`
	Group     *Group    `json:"group,omitempty"`
}

// TeacherProfile extends a user with teacher-specific state.
type TeacherProfile struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	Bio       string    `gorm:"type:text" json:"bio"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	User      User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"user"`
}

// ParentProfile extends a user with parent-specific state.
type ParentProfile struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	User      User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"user"`
}

// ParentChildRelation links a parent to one of their children. The
// (parent, child) pair is unique.
type ParentChildRelation struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	ParentID  uint           `gorm:"not null;uniqueIndex:idx_parent_child" json:"parent_id"`
	ChildID   uint           `gorm:"not null;uniqueIndex:idx_parent_child" json:"child_id"`
	CreatedAt time.Time      `json:"created_at"`
	Parent    ParentProfile  `gorm:"foreignKey:ParentID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"parent"`
	Child     StudentProfile `gorm:"foreignKey:ChildID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"child"`
}
