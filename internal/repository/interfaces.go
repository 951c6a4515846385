package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"leettrack/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByDisplayName(ctx context.Context, displayName string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
}

type ProblemRepository interface {
	Upsert(ctx context.Context, problem *domain.ProblemMetadata) error
	GetBySlug(ctx context.Context, slug string) (*domain.ProblemMetadata, error)
}

type SessionRepository interface {
	Create(ctx context.Context, session *domain.LeetCodeSession) error
	// GetActiveByUserID returns the most recently used session that is
	// active and unexpired as of now, or gorm.ErrRecordNotFound.
	GetActiveByUserID(ctx context.Context, userID uuid.UUID, now time.Time) (*domain.LeetCodeSession, error)
	// DeactivateByUserID flips is_active off for every session of the
	// user. Zero matched rows is not an error.
	DeactivateByUserID(ctx context.Context, userID uuid.UUID) error
	TouchLastUsed(ctx context.Context, id uuid.UUID, now time.Time) error
	// RotateActive deactivates all of the user's sessions and inserts the
	// new one in a single transaction.
	RotateActive(ctx context.Context, session *domain.LeetCodeSession) error
}

type Repositories struct {
	User    UserRepository
	Problem ProblemRepository
	Session SessionRepository
}
