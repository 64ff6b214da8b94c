package dto

import "github.com/edutrack/edutrack-api/internal/models"

// RankingEntry is one row of a leaderboard.
type RankingEntry struct {
	ID          uint   `json:"id"`
	StudentID   uint   `json:"student_id"`
	StudentName string `json:"student_name"`
	Points      int    `json:"points"`
}

// MyPosition locates the requesting student inside a group leaderboard.
// Rank is 1-based within the full ordered group list, not the truncated
// top slice.
type MyPosition struct {
	Rank int          `json:"rank"`
	Data RankingEntry `json:"data"`
}

// GroupLeaderboardResponse is the group-scoped leaderboard payload.
// MyPosition is null when the requester has no ranking row in the group.
type GroupLeaderboardResponse struct {
	GroupID    uint           `json:"group_id"`
	Top        []RankingEntry `json:"top"`
	MyPosition *MyPosition    `json:"my_position"`
}

// ProgressResponse summarizes a student's graded work.
type ProgressResponse struct {
	Submitted int     `json:"submitted"`
	Total     int64   `json:"total"`
	Points    int     `json:"points"`
	Average   float64 `json:"average"`
}

// NewRankingEntry converts a Ranking model into a leaderboard row.
func NewRankingEntry(model models.Ranking) RankingEntry {
	return RankingEntry{
		ID:          model.ID,
		StudentID:   model.StudentID,
		StudentName: model.Student.User.Username,
		Points:      model.Points,
	}
}

// NewRankingEntrySlice converts ranking models into leaderboard rows.
func NewRankingEntrySlice(models []models.Ranking) []RankingEntry {
	entries := make([]RankingEntry, 0, len(models))
	for _, ranking := range models {
		entries = append(entries, NewRankingEntry(ranking))
	}

	return entries
}
