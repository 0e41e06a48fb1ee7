package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/rimba/nft-store/internal/core/domain"
	"github.com/rimba/nft-store/internal/core/ports"
)

// UserService implements the admin-facing account operations.
type UserService struct {
	repo   ports.UserRepository
	logger zerolog.Logger
}

func NewUserService(repo ports.UserRepository, logger zerolog.Logger) *UserService {
	return &UserService{repo: repo, logger: logger}
}

// List returns active accounts; soft-deleted users stay in the store but are
// excluded here.
func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	return s.repo.List(ctx, true)
}

func (s *UserService) Update(ctx context.Context, id string, upd ports.UserUpdate) (*domain.User, error) {
	if upd.Role != "" && !domain.ValidRole(upd.Role) {
		return nil, domain.ErrInvalidRegistration
	}

	user, err := s.repo.Update(ctx, id, upd)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", id).Msg("user updated")
	return user, nil
}

func (s *UserService) Deactivate(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.repo.SetActive(ctx, id, false)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", id).Msg("user soft-deleted")
	return user, nil
}

func (s *UserService) Reactivate(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.repo.SetActive(ctx, id, true)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", id).Msg("user reactivated")
	return user, nil
}
