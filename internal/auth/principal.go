package auth

import "github.com/edutrack/edutrack-api/internal/models"

// Principal is the acting user together with the role profile resolved
// once per request. At most one of Student, Teacher and Parent is set,
// matching the user's role.
type Principal struct {
	User    models.User
	Student *models.StudentProfile
	Teacher *models.TeacherProfile
	Parent  *models.ParentProfile
}

// Role returns the role recorded on the underlying user account.
func (p Principal) Role() string {
	return p.User.Role
}

// CommentRole returns the role snapshot to record on a comment authored
// by this principal. Teachers are attributed as teachers, everyone else
// as students.
func (p Principal) CommentRole() string {
	if p.Teacher != nil {
		return models.CommentRoleTeacher
	}
	return models.CommentRoleStudent
}

// CanAccessSubmission reports whether the principal may view or mutate
// the given submission. Access is granted to the submission's student and
// to the teacher who created the submission's task; all other principals
// are denied. The submission must carry its preloaded Task.
func (p Principal) CanAccessSubmission(submission models.Submission) bool {
	if p.Student != nil && p.Student.ID == submission.StudentID {
		return true
	}

	if p.Teacher != nil && submission.Task.CreatedByID != nil && *submission.Task.CreatedByID == p.Teacher.ID {
		return true
	}

	return false
}
