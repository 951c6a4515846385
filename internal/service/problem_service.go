package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"leettrack/internal/domain"
	"leettrack/internal/leetcode"
	"leettrack/internal/repository"
)

// ProblemService is the metadata cache. It serves problem metadata from
// the store and refreshes from LeetCode when a record is absent or older
// than domain.MetadataFreshFor.
type ProblemService struct {
	problemRepo repository.ProblemRepository
	client      *leetcode.Client
}

func NewProblemService(problemRepo repository.ProblemRepository, client *leetcode.Client) *ProblemService {
	return &ProblemService{
		problemRepo: problemRepo,
		client:      client,
	}
}

// GetOrRefreshMetadata returns cached metadata for the slug, refreshing
// from LeetCode when the record is absent or stale. A failed refresh of a
// stale record falls back to the stale value; a failed fetch of an unknown
// slug surfaces the classified error (404 becomes ErrProblemNotFound).
func (s *ProblemService) GetOrRefreshMetadata(ctx context.Context, slug string, cred *leetcode.Credential) (*domain.ProblemMetadata, error) {
	if slug == "" {
		return nil, domain.ErrEmptySlug
	}

	cached, err := s.problemRepo.GetBySlug(ctx, slug)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to look up problem %q: %w", slug, err)
	}

	now := time.Now()
	if cached != nil && cached.Fresh(now) {
		return cached, nil
	}

	fetched, err := s.fetchRemote(ctx, slug, cred, now)
	if err != nil {
		if cached != nil {
			// Stale beats nothing: keep serving the old record.
			log.Printf("WARN [ProblemService.GetOrRefreshMetadata] refresh of %q failed, serving stale record: %v", slug, err)
			return cached, nil
		}
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%q: %w", slug, domain.ErrProblemNotFound)
		}
		return nil, err
	}

	if err := s.problemRepo.Upsert(ctx, fetched); err != nil {
		return nil, fmt.Errorf("failed to store metadata for %q: %w", slug, err)
	}
	return fetched, nil
}

func (s *ProblemService) fetchRemote(ctx context.Context, slug string, cred *leetcode.Credential, now time.Time) (*domain.ProblemMetadata, error) {
	question, err := s.client.ProblemDetails(ctx, slug, cred)
	if err != nil {
		return nil, err
	}

	questionID, _ := strconv.Atoi(question.QuestionFrontendID)
	tags := make([]string, 0, len(question.TopicTags))
	for _, tag := range question.TopicTags {
		tags = append(tags, tag.Name)
	}
	tagsJSON, _ := json.Marshal(tags)

	return &domain.ProblemMetadata{
		Slug:           slug,
		QuestionID:     questionID,
		Title:          question.Title,
		Difficulty:     domain.ParseDifficulty(question.Difficulty),
		AcceptanceRate: question.AcRate,
		Likes:          question.Likes,
		Dislikes:       question.Dislikes,
		PaidOnly:       question.IsPaidOnly,
		TopicTags:      datatypes.JSON(tagsJSON),
		LastFetchedAt:  now,
	}, nil
}
