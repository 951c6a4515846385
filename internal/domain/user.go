package domain

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID               uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	PasswordHash     string    `json:"-" gorm:"not null"`
	DisplayName      string    `json:"displayName" gorm:"uniqueIndex;not null"`
	LeetCodeUsername string    `json:"leetcodeUsername"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}
