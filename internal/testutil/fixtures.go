package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"leettrack/internal/domain"
	"leettrack/internal/secrets"
)

// UserBuilder creates test users with a builder pattern
type UserBuilder struct {
	displayName      string
	password         string
	leetcodeUsername string
}

// NewUserBuilder creates a new UserBuilder with default values
func NewUserBuilder() *UserBuilder {
	return &UserBuilder{
		displayName:      fmt.Sprintf("testuser_%s", uuid.New().String()[:8]),
		password:         "testpassword123",
		leetcodeUsername: "alice",
	}
}

// WithDisplayName sets the display name
func (b *UserBuilder) WithDisplayName(name string) *UserBuilder {
	b.displayName = name
	return b
}

// WithPassword sets the password
func (b *UserBuilder) WithPassword(password string) *UserBuilder {
	b.password = password
	return b
}

// WithLeetCodeUsername sets the linked LeetCode username
func (b *UserBuilder) WithLeetCodeUsername(username string) *UserBuilder {
	b.leetcodeUsername = username
	return b
}

// Build creates the user in the database and returns the user with the raw password
func (b *UserBuilder) Build(t *testing.T, db *gorm.DB) (*domain.User, string) {
	t.Helper()

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(b.password), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &domain.User{
		ID:               uuid.New(),
		DisplayName:      b.displayName,
		PasswordHash:     string(hashedPassword),
		LeetCodeUsername: b.leetcodeUsername,
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user, b.password
}

// BuildAndAuthenticate creates a user via the API and returns it with an
// access token.
func (b *UserBuilder) BuildAndAuthenticate(t *testing.T, ts *TestServer) (*domain.User, string) {
	t.Helper()

	reqBody := map[string]string{
		"displayName":      b.displayName,
		"password":         b.password,
		"leetcodeUsername": b.leetcodeUsername,
	}
	body, _ := json.Marshal(reqBody)

	resp, err := http.Post(ts.APIURL("/auth/register"), "application/json", bytes.NewBuffer(body))
	if err != nil {
		t.Fatalf("failed to register user: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status code: %d", resp.StatusCode)
	}

	var authResp struct {
		User struct {
			ID               string `json:"id"`
			DisplayName      string `json:"displayName"`
			LeetCodeUsername string `json:"leetcodeUsername"`
		} `json:"user"`
		AccessToken string `json:"accessToken"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&authResp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	userID, _ := uuid.Parse(authResp.User.ID)
	user := &domain.User{
		ID:               userID,
		DisplayName:      authResp.User.DisplayName,
		LeetCodeUsername: authResp.User.LeetCodeUsername,
	}

	return user, authResp.AccessToken
}

// ProblemBuilder creates cached problem metadata rows
type ProblemBuilder struct {
	slug          string
	questionID    int
	title         string
	difficulty    domain.Difficulty
	paidOnly      bool
	topicTags     []string
	lastFetchedAt time.Time
}

func NewProblemBuilder(slug string) *ProblemBuilder {
	return &ProblemBuilder{
		slug:          slug,
		questionID:    1,
		title:         slug,
		difficulty:    domain.DifficultyEasy,
		topicTags:     []string{"Array"},
		lastFetchedAt: time.Now(),
	}
}

func (b *ProblemBuilder) WithQuestionID(id int) *ProblemBuilder {
	b.questionID = id
	return b
}

func (b *ProblemBuilder) WithTitle(title string) *ProblemBuilder {
	b.title = title
	return b
}

func (b *ProblemBuilder) WithDifficulty(difficulty domain.Difficulty) *ProblemBuilder {
	b.difficulty = difficulty
	return b
}

func (b *ProblemBuilder) WithPaidOnly(paidOnly bool) *ProblemBuilder {
	b.paidOnly = paidOnly
	return b
}

func (b *ProblemBuilder) WithTopicTags(tags ...string) *ProblemBuilder {
	b.topicTags = tags
	return b
}

// FetchedAt backdates the record; use it to seed stale cache entries.
func (b *ProblemBuilder) FetchedAt(at time.Time) *ProblemBuilder {
	b.lastFetchedAt = at
	return b
}

func (b *ProblemBuilder) Build(t *testing.T, db *gorm.DB) *domain.ProblemMetadata {
	t.Helper()

	tagsJSON, _ := json.Marshal(b.topicTags)
	problem := &domain.ProblemMetadata{
		Slug:          b.slug,
		QuestionID:    b.questionID,
		Title:         b.title,
		Difficulty:    b.difficulty,
		PaidOnly:      b.paidOnly,
		TopicTags:     datatypes.JSON(tagsJSON),
		LastFetchedAt: b.lastFetchedAt,
	}

	if err := db.Create(problem).Error; err != nil {
		t.Fatalf("failed to create problem metadata: %v", err)
	}
	return problem
}

// SessionBuilder creates LeetCode session rows with encrypted payloads
type SessionBuilder struct {
	userID     uuid.UUID
	payload    string
	csrf       string
	isActive   bool
	expiresAt  *time.Time
	lastUsedAt time.Time
}

func NewSessionBuilder(userID uuid.UUID) *SessionBuilder {
	return &SessionBuilder{
		userID:     userID,
		payload:    "session-token",
		isActive:   true,
		lastUsedAt: time.Now(),
	}
}

func (b *SessionBuilder) WithPayload(payload string) *SessionBuilder {
	b.payload = payload
	return b
}

func (b *SessionBuilder) WithCSRF(csrf string) *SessionBuilder {
	b.csrf = csrf
	return b
}

func (b *SessionBuilder) Inactive() *SessionBuilder {
	b.isActive = false
	return b
}

func (b *SessionBuilder) ExpiresAt(at time.Time) *SessionBuilder {
	b.expiresAt = &at
	return b
}

func (b *SessionBuilder) LastUsedAt(at time.Time) *SessionBuilder {
	b.lastUsedAt = at
	return b
}

func (b *SessionBuilder) Build(t *testing.T, db *gorm.DB, box *secrets.Box) *domain.LeetCodeSession {
	t.Helper()

	encryptedPayload, err := box.Encrypt([]byte(b.payload))
	if err != nil {
		t.Fatalf("failed to encrypt session payload: %v", err)
	}
	var encryptedCSRF []byte
	if b.csrf != "" {
		encryptedCSRF, err = box.Encrypt([]byte(b.csrf))
		if err != nil {
			t.Fatalf("failed to encrypt csrf token: %v", err)
		}
	}

	session := &domain.LeetCodeSession{
		ID:               uuid.New(),
		UserID:           b.userID,
		EncryptedPayload: encryptedPayload,
		EncryptedCSRF:    encryptedCSRF,
		IsActive:         b.isActive,
		ExpiresAt:        b.expiresAt,
		LastUsedAt:       b.lastUsedAt,
		CreatedAt:        time.Now(),
	}

	if err := db.Create(session).Error; err != nil {
		t.Fatalf("failed to create session: %v", err)
	}
	return session
}
