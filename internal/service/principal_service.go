package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/edutrack/edutrack-api/internal/auth"
	"github.com/edutrack/edutrack-api/internal/models"
	"github.com/edutrack/edutrack-api/internal/repository"
)

// ErrUserNotFound indicates the authenticated user id resolves to nothing.
var ErrUserNotFound = errors.New("user not found")

// PrincipalResolver turns an authenticated user id into a Principal with
// its role profile loaded. Resolution happens once per request; downstream
// code switches on the explicit variant instead of probing profiles.
type PrincipalResolver interface {
	Resolve(ctx context.Context, userID uint) (auth.Principal, error)
}

type principalService struct {
	users  repository.UserRepository
	logger zerolog.Logger
}

// NewPrincipalService constructs a PrincipalResolver backed by the user
// repository.
func NewPrincipalService(users repository.UserRepository, logger zerolog.Logger) PrincipalResolver {
	return &principalService{
		users:  users,
		logger: logger.With().Str("component", "principal_service").Logger(),
	}
}

func (s *principalService) Resolve(ctx context.Context, userID uint) (auth.Principal, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return auth.Principal{}, ErrUserNotFound
		}
		return auth.Principal{}, err
	}

	principal := auth.Principal{User: user}

	// A profile missing for the account's role is treated as an
	// unprovisioned account, not an error: such principals simply fail
	// every ownership check.
	switch user.Role {
	case models.RoleStudent:
		profile, err := s.users.GetStudentProfileByUserID(ctx, userID)
		if err == nil {
			principal.Student = &profile
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return auth.Principal{}, err
		}
	case models.RoleTeacher:
		profile, err := s.users.GetTeacherProfileByUserID(ctx, userID)
		if err == nil {
			principal.Teacher = &profile
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return auth.Principal{}, err
		}
	case models.RoleParent:
		profile, err := s.users.GetParentProfileByUserID(ctx, userID)
		if err == nil {
			principal.Parent = &profile
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return auth.Principal{}, err
		}
	}

	return principal, nil
}
