package ports

import (
	"context"

	"github.com/rimba/nft-store/internal/core/domain"
)

// UserRepository defines the persistence surface for user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// List returns users, restricted to active accounts when activeOnly is set.
	List(ctx context.Context, activeOnly bool) ([]domain.User, error)
	// Update overwrites only the non-empty fields of upd on the stored record.
	Update(ctx context.Context, id string, upd UserUpdate) (*domain.User, error)
	// SetActive flips the soft-delete flag. Returns ErrUserNotFound when no
	// record matches id.
	SetActive(ctx context.Context, id string, active bool) (*domain.User, error)
}

// UserUpdate holds the mutable user fields; empty values are left untouched.
type UserUpdate struct {
	Username string
	Role     string
}
