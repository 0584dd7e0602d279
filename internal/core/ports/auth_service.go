package ports

import (
	"context"

	"github.com/shopstack/catalog-api/internal/core/domain"
)

type AuthService interface {
	Register(ctx context.Context, email, password, name string) (string, *domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	CurrentUser(ctx context.Context, userID string) (*domain.User, error)
}
