package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/edutrack/edutrack-api/internal/auth"
	"github.com/edutrack/edutrack-api/internal/dto"
	"github.com/edutrack/edutrack-api/internal/repository"
)

// GlobalTopSize is the number of entries on the global leaderboard.
const GlobalTopSize = 10

// GroupTopSize is the number of entries on a group leaderboard.
const GroupTopSize = 3

const globalTopCacheKey = "leaderboard:global"

// ErrGroupNotFound indicates the group does not exist.
var ErrGroupNotFound = errors.New("group not found")

// LeaderboardInvalidator drops cached leaderboard views after a ranking
// write so readers never see a graded submission missing from the board
// beyond the cache TTL.
type LeaderboardInvalidator interface {
	InvalidateGlobal(ctx context.Context)
}

// RankingService surfaces the aggregated points views.
type RankingService interface {
	LeaderboardInvalidator
	GlobalTop(ctx context.Context) ([]dto.RankingEntry, error)
	GroupLeaderboard(ctx context.Context, principal auth.Principal, groupID uint) (dto.GroupLeaderboardResponse, error)
	StudentProgress(ctx context.Context, studentID uint) (dto.ProgressResponse, error)
}

type rankingService struct {
	rankings    repository.RankingRepository
	groups      repository.GroupRepository
	submissions repository.SubmissionRepository
	tasks       repository.TaskRepository
	cache       *redis.Client
	cacheTTL    time.Duration
	logger      zerolog.Logger
}

// NewRankingService builds the leaderboard service. The cache client may
// be nil, in which case every read hits the database.
func NewRankingService(rankings repository.RankingRepository, groups repository.GroupRepository, submissions repository.SubmissionRepository, tasks repository.TaskRepository, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) RankingService {
	return &rankingService{
		rankings:    rankings,
		groups:      groups,
		submissions: submissions,
		tasks:       tasks,
		cache:       cache,
		cacheTTL:    ttl,
		logger:      logger.With().Str("component", "ranking_service").Logger(),
	}
}

func (s *rankingService) GlobalTop(ctx context.Context) ([]dto.RankingEntry, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, globalTopCacheKey).Result(); err == nil {
			var entries []dto.RankingEntry
			if unmarshalErr := json.Unmarshal([]byte(cached), &entries); unmarshalErr == nil {
				s.logger.Debug().Msg("global leaderboard cache hit")
				return entries, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read leaderboard cache")
		}
	}

	rankings, err := s.rankings.GlobalTop(ctx, GlobalTopSize)
	if err != nil {
		return nil, err
	}

	entries := dto.NewRankingEntrySlice(rankings)

	if s.cache != nil {
		if payload, err := json.Marshal(entries); err == nil {
			if err := s.cache.Set(ctx, globalTopCacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store leaderboard cache")
			}
		}
	}

	return entries, nil
}

// InvalidateGlobal drops the cached global leaderboard. Called after every
// grade write so the next read reflects the new aggregate.
func (s *rankingService) InvalidateGlobal(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, globalTopCacheKey).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to invalidate leaderboard cache")
	}
}

// GroupLeaderboard returns the group's top entries plus the requester's
// own rank. The rank is located in the full ordered list, not the
// truncated slice, and is null when the requester has no ranking row in
// the group.
func (s *rankingService) GroupLeaderboard(ctx context.Context, principal auth.Principal, groupID uint) (dto.GroupLeaderboardResponse, error) {
	if _, err := s.groups.GetByID(ctx, groupID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.GroupLeaderboardResponse{}, ErrGroupNotFound
		}
		return dto.GroupLeaderboardResponse{}, err
	}

	ordered, err := s.rankings.ListByGroup(ctx, groupID)
	if err != nil {
		return dto.GroupLeaderboardResponse{}, err
	}

	response := dto.GroupLeaderboardResponse{GroupID: groupID}

	top := ordered
	if len(top) > GroupTopSize {
		top = top[:GroupTopSize]
	}
	response.Top = dto.NewRankingEntrySlice(top)

	if principal.Student != nil {
		for index, ranking := range ordered {
			if ranking.StudentID == principal.Student.ID {
				response.MyPosition = &dto.MyPosition{
					Rank: index + 1,
					Data: dto.NewRankingEntry(ranking),
				}
				break
			}
		}
	}

	return response, nil
}

// StudentProgress summarizes a student's graded submissions against the
// total task volume.
func (s *rankingService) StudentProgress(ctx context.Context, studentID uint) (dto.ProgressResponse, error) {
	graded, err := s.submissions.ListGradedByStudent(ctx, studentID)
	if err != nil {
		return dto.ProgressResponse{}, err
	}

	total, err := s.tasks.Count(ctx)
	if err != nil {
		return dto.ProgressResponse{}, err
	}

	response := dto.ProgressResponse{
		Submitted: len(graded),
		Total:     total,
	}

	for _, submission := range graded {
		if submission.Grade != nil {
			response.Points += *submission.Grade
		}
	}

	if len(graded) > 0 {
		response.Average = float64(response.Points) / float64(len(graded))
	}

	return response, nil
}
