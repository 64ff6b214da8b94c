package dto

// ChildOverview summarizes one linked child for a parent, with their
// current ranking points.
type ChildOverview struct {
	StudentID uint   `json:"student_id"`
	Name      string `json:"name"`
	GroupID   *uint  `json:"group_id"`
	Points    int    `json:"points"`
}
