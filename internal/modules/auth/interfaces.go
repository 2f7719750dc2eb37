package auth

import (
	"context"
	"time"

	"hotelbooking/internal/domain"
	"hotelbooking/internal/repository"
)

// TokenStore is the refresh-token gateway; rotation uses its transaction.
type TokenStore = repository.TokenStore

type UserStore interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
}

type ResetStore interface {
	Create(ctx context.Context, p *domain.PasswordReset) error
	GetByHash(ctx context.Context, hash string) (*domain.PasswordReset, error)
	DeleteByUser(ctx context.Context, userID int64) error
}

type tokenSigner interface {
	GenerateToken(userID int64, role string) (string, time.Time, error)
}

// Mailer delivers password-reset tokens. The dev implementation just logs.
type Mailer interface {
	SendPasswordReset(ctx context.Context, email, token string) error
}
