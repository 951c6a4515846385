package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"leettrack/internal/domain"
	"leettrack/internal/leetcode"
	"leettrack/internal/repository"
	"leettrack/internal/secrets"
)

// SessionService manages LeetCode sessions: encrypted storage, reuse,
// advisory validation and invalidation. At most one session per user is
// active at any time.
type SessionService struct {
	sessionRepo repository.SessionRepository
	box         *secrets.Box
	client      *leetcode.Client
}

func NewSessionService(sessionRepo repository.SessionRepository, box *secrets.Box, client *leetcode.Client) *SessionService {
	return &SessionService{
		sessionRepo: sessionRepo,
		box:         box,
		client:      client,
	}
}

// GetActiveSession returns the user's most recently used active session
// and bumps its last-used timestamp. The payload stays encrypted; callers
// decrypt on demand via DecryptCredential.
func (s *SessionService) GetActiveSession(ctx context.Context, userID uuid.UUID) (*domain.LeetCodeSession, error) {
	now := time.Now()
	session, err := s.sessionRepo.GetActiveByUserID(ctx, userID, now)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNoActiveSession
		}
		return nil, fmt.Errorf("failed to look up session for user %s: %w", userID, err)
	}

	if err := s.sessionRepo.TouchLastUsed(ctx, session.ID, now); err != nil {
		return nil, fmt.Errorf("failed to touch session %s: %w", session.ID, err)
	}
	session.LastUsedAt = now
	return session, nil
}

type StoreSessionInput struct {
	UserID     uuid.UUID
	RawPayload string
	RawCSRF    string // optional
	ExpiresAt  *time.Time
}

// StoreSession encrypts the session material and swaps it in as the user's
// single active session. Prior sessions are deactivated in the same
// transaction as the insert.
func (s *SessionService) StoreSession(ctx context.Context, input StoreSessionInput) (*domain.LeetCodeSession, error) {
	if input.RawPayload == "" {
		return nil, fmt.Errorf("session payload must not be empty")
	}

	encryptedPayload, err := s.box.Encrypt([]byte(input.RawPayload))
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt session payload: %w", err)
	}

	var encryptedCSRF []byte
	if input.RawCSRF != "" {
		encryptedCSRF, err = s.box.Encrypt([]byte(input.RawCSRF))
		if err != nil {
			return nil, fmt.Errorf("failed to encrypt csrf token: %w", err)
		}
	}

	now := time.Now()
	session := &domain.LeetCodeSession{
		ID:               uuid.New(),
		UserID:           input.UserID,
		EncryptedPayload: encryptedPayload,
		EncryptedCSRF:    encryptedCSRF,
		IsActive:         true,
		ExpiresAt:        input.ExpiresAt,
		LastUsedAt:       now,
		CreatedAt:        now,
	}

	if err := s.sessionRepo.RotateActive(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to store session for user %s: %w", input.UserID, err)
	}
	return session, nil
}

// DecryptCredential opens a stored session into a credential usable for
// authenticated LeetCode calls.
func (s *SessionService) DecryptCredential(session *domain.LeetCodeSession) (*leetcode.Credential, error) {
	payload, err := s.box.Decrypt(session.EncryptedPayload)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt session %s: %w", session.ID, err)
	}

	cred := &leetcode.Credential{SessionToken: string(payload)}
	if len(session.EncryptedCSRF) > 0 {
		csrf, err := s.box.Decrypt(session.EncryptedCSRF)
		if err != nil {
			return nil, fmt.Errorf("failed to decrypt csrf token of session %s: %w", session.ID, err)
		}
		cred.CSRFToken = string(csrf)
	}
	return cred, nil
}

// ValidateSession probes LeetCode with a cheap calendar query. Advisory
// only: every transport or auth failure is reported as false, never as an
// error.
func (s *SessionService) ValidateSession(ctx context.Context, cred *leetcode.Credential, username string) bool {
	calendar, err := s.client.UserCalendar(ctx, username, time.Now().Year(), cred)
	if err != nil {
		log.Printf("WARN [SessionService.ValidateSession] probe for %q failed: %v", username, err)
		return false
	}
	return calendar != nil && calendar.SubmissionCalendar != ""
}

// InvalidateSession deactivates all of the user's sessions. Idempotent; a
// user with no sessions is a no-op.
func (s *SessionService) InvalidateSession(ctx context.Context, userID uuid.UUID) error {
	if err := s.sessionRepo.DeactivateByUserID(ctx, userID); err != nil {
		return fmt.Errorf("failed to invalidate sessions for user %s: %w", userID, err)
	}
	return nil
}
