package ports

import (
	"context"

	"github.com/rimba/nft-store/internal/core/domain"
)

type AuthService interface {
	Register(ctx context.Context, username, password, role, chainAddress string) (*domain.User, error)
	Login(ctx context.Context, username, password string) (string, error)
}
