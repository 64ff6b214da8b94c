package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/edutrack/edutrack-api/internal/auth"
	"github.com/edutrack/edutrack-api/internal/dto"
	"github.com/edutrack/edutrack-api/internal/repository"
)

// ErrParentProfileRequired indicates the operation needs a parent profile.
var ErrParentProfileRequired = errors.New("parent profile required")

// ParentService exposes the parent-facing overview of linked children.
type ParentService interface {
	Children(ctx context.Context, principal auth.Principal) ([]dto.ChildOverview, error)
}

type parentService struct {
	parents  repository.ParentRepository
	rankings repository.RankingRepository
	logger   zerolog.Logger
}

// NewParentService constructs a ParentService instance.
func NewParentService(parentRepo repository.ParentRepository, rankingRepo repository.RankingRepository, logger zerolog.Logger) ParentService {
	return &parentService{
		parents:  parentRepo,
		rankings: rankingRepo,
		logger:   logger.With().Str("component", "parent_service").Logger(),
	}
}

// Children lists the principal's linked children with their current
// ranking points. Children without a ranking row report zero points.
func (s *parentService) Children(ctx context.Context, principal auth.Principal) ([]dto.ChildOverview, error) {
	if principal.Parent == nil {
		return nil, ErrParentProfileRequired
	}

	relations, err := s.parents.ListChildren(ctx, principal.Parent.ID)
	if err != nil {
		return nil, err
	}

	children := make([]dto.ChildOverview, 0, len(relations))
	for _, relation := range relations {
		overview := dto.ChildOverview{
			StudentID: relation.ChildID,
			Name:      relation.Child.User.Username,
			GroupID:   relation.Child.GroupID,
		}

		ranking, err := s.rankings.GetByStudent(ctx, relation.ChildID)
		switch {
		case err == nil:
			overview.Points = ranking.Points
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return nil, err
		}

		children = append(children, overview)
	}

	return children, nil
}
