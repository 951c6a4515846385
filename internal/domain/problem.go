package domain

import (
	"time"

	"gorm.io/datatypes"
)

// MetadataFreshFor is how long a cached problem record is served without
// re-fetching from LeetCode.
const MetadataFreshFor = 7 * 24 * time.Hour

type Difficulty string

const (
	DifficultyEasy    Difficulty = "Easy"
	DifficultyMedium  Difficulty = "Medium"
	DifficultyHard    Difficulty = "Hard"
	DifficultyUnknown Difficulty = "Unknown"
)

// ParseDifficulty normalizes a remote difficulty string, falling back to
// Unknown for anything unrecognized.
func ParseDifficulty(s string) Difficulty {
	switch s {
	case string(DifficultyEasy), string(DifficultyMedium), string(DifficultyHard):
		return Difficulty(s)
	default:
		return DifficultyUnknown
	}
}

type ProblemMetadata struct {
	Slug           string         `json:"slug" gorm:"primaryKey"`            // e.g., "two-sum"
	QuestionID     int            `json:"questionId" gorm:"not null"`        // LeetCode frontend question id
	Title          string         `json:"title" gorm:"not null"`             // Display title
	Difficulty     Difficulty     `json:"difficulty" gorm:"not null"`        // Easy/Medium/Hard/Unknown
	AcceptanceRate *float64       `json:"acceptanceRate"`                    // nil when LeetCode omits it
	Likes          int            `json:"likes"`
	Dislikes       int            `json:"dislikes"`
	PaidOnly       bool           `json:"paidOnly"`
	TopicTags      datatypes.JSON `json:"topicTags" gorm:"type:jsonb"`       // ["Array", "Hash Table"]
	LastFetchedAt  time.Time      `json:"lastFetchedAt" gorm:"not null"`
}

func (ProblemMetadata) TableName() string {
	return "problem_metadata"
}

// Fresh reports whether the record is recent enough to serve without a
// remote refresh.
func (p *ProblemMetadata) Fresh(now time.Time) bool {
	return now.Sub(p.LastFetchedAt) < MetadataFreshFor
}
