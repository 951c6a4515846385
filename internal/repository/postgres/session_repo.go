package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"leettrack/internal/domain"
)

type sessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *sessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Create(ctx context.Context, session *domain.LeetCodeSession) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *sessionRepository) GetActiveByUserID(ctx context.Context, userID uuid.UUID, now time.Time) (*domain.LeetCodeSession, error) {
	var session domain.LeetCodeSession
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_active = ?", userID, true).
		Where("expires_at IS NULL OR expires_at > ?", now).
		Order("last_used_at DESC").
		First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepository) DeactivateByUserID(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&domain.LeetCodeSession{}).
		Where("user_id = ?", userID).
		Update("is_active", false).Error
}

func (r *sessionRepository) TouchLastUsed(ctx context.Context, id uuid.UUID, now time.Time) error {
	return r.db.WithContext(ctx).
		Model(&domain.LeetCodeSession{}).
		Where("id = ?", id).
		Update("last_used_at", now).Error
}

// RotateActive deactivates every session of the owning user and inserts the
// new one. The transaction keeps at most one active session visible per
// user.
func (r *sessionRepository) RotateActive(ctx context.Context, session *domain.LeetCodeSession) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&domain.LeetCodeSession{}).
			Where("user_id = ?", session.UserID).
			Update("is_active", false).Error
		if err != nil {
			return err
		}
		return tx.Create(session).Error
	})
}
