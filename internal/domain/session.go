package domain

import (
	"time"

	"github.com/google/uuid"
)

// LeetCodeSession stores a user's LeetCode cookie material. Payload and
// CSRF token are AEAD ciphertext; plaintext never reaches the database.
type LeetCodeSession struct {
	ID               uuid.UUID  `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID           uuid.UUID  `json:"userId" gorm:"type:uuid;not null;index"`
	EncryptedPayload []byte     `json:"-" gorm:"not null"`
	EncryptedCSRF    []byte     `json:"-"`
	IsActive         bool       `json:"isActive" gorm:"not null;default:true"`
	ExpiresAt        *time.Time `json:"expiresAt"`
	LastUsedAt       time.Time  `json:"lastUsedAt" gorm:"not null"`
	CreatedAt        time.Time  `json:"createdAt"`
}

// Usable reports whether the session is eligible for reuse.
func (s *LeetCodeSession) Usable(now time.Time) bool {
	if !s.IsActive {
		return false
	}
	return s.ExpiresAt == nil || s.ExpiresAt.After(now)
}
