package repository

import (
	"context"
	"time"

	"faceauth/internal/auth/domain"

	"github.com/google/uuid"
)

//go:generate mockgen -destination=../test/mock_user_repository.go -package=test faceauth/internal/auth/repository UserRepository
type UserRepository interface {
	CreateUser(ctx context.Context, account *domain.Account) (*domain.Account, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.Account, error)
	GetUserByID(ctx context.Context, accountID uuid.UUID) (*domain.Account, error)
	DeleteUser(ctx context.Context, accountID uuid.UUID) error
	ListAccounts(ctx context.Context) ([]*domain.Account, error)
	SetVerificationCode(ctx context.Context, accountID uuid.UUID, codeHash string, expiresAt time.Time) error
	MarkVerified(ctx context.Context, accountID uuid.UUID) error
	UpdateLastLoginAt(ctx context.Context, accountID uuid.UUID) error
	UpdatePhotoURL(ctx context.Context, accountID uuid.UUID, photoURL string) error
	CreateSession(ctx context.Context, session *domain.Session) error
	GetSessionByToken(ctx context.Context, token string) (*domain.Session, error)
	DeleteSessionByToken(ctx context.Context, token string) error
}
