package ports

import (
	"context"

	"github.com/rimba/nft-store/internal/core/domain"
)

type UserService interface {
	// List returns active accounts only; soft-deleted users are excluded.
	List(ctx context.Context) ([]domain.User, error)
	Update(ctx context.Context, id string, upd UserUpdate) (*domain.User, error)
	// Deactivate soft-deletes the account (active=false).
	Deactivate(ctx context.Context, id string) (*domain.User, error)
	Reactivate(ctx context.Context, id string) (*domain.User, error)
}
