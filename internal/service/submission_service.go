package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"leettrack/internal/domain"
	"leettrack/internal/leetcode"
)

const DefaultSubmissionLimit = 10

// SubmissionService is the enrichment pipeline: it fetches recent accepted
// submissions and left-joins each onto cached problem metadata. A failed
// join degrades the row, never the batch.
type SubmissionService struct {
	problems *ProblemService
	client   *leetcode.Client
}

func NewSubmissionService(problems *ProblemService, client *leetcode.Client) *SubmissionService {
	return &SubmissionService{
		problems: problems,
		client:   client,
	}
}

// FetchEnrichedSubmissions returns up to limit most recent accepted
// submissions for the username, each enriched with cached metadata where
// resolvable. Rows come back in upstream order, most recent first.
func (s *SubmissionService) FetchEnrichedSubmissions(ctx context.Context, username string, limit int, cred *leetcode.Credential) ([]domain.EnrichedSubmission, error) {
	if limit <= 0 {
		limit = DefaultSubmissionLimit
	}

	submissions, err := s.client.RecentAcceptedSubmissions(ctx, username, limit, cred)
	if err != nil {
		return nil, err
	}

	return s.enrich(ctx, submissions, cred), nil
}

// FetchSubmissionHistory pages through the user's full submission history.
// Requires an authenticated credential.
func (s *SubmissionService) FetchSubmissionHistory(ctx context.Context, username string, offset, limit int, cred *leetcode.Credential) ([]domain.EnrichedSubmission, error) {
	if limit <= 0 {
		limit = DefaultSubmissionLimit
	}

	submissions, err := s.client.UserSubmissions(ctx, username, offset, limit, cred)
	if err != nil {
		return nil, err
	}

	return s.enrich(ctx, submissions, cred), nil
}

func (s *SubmissionService) enrich(ctx context.Context, submissions []domain.Submission, cred *leetcode.Credential) []domain.EnrichedSubmission {
	enriched := make([]domain.EnrichedSubmission, 0, len(submissions))
	for _, sub := range submissions {
		row := domain.EnrichedSubmission{
			ID:            sub.ID,
			Title:         sub.Title,
			TitleSlug:     sub.TitleSlug,
			SubmittedAt:   time.Unix(sub.Timestamp, 0).UTC(),
			StatusDisplay: sub.StatusDisplay,
			Lang:          sub.Lang,
			Difficulty:    domain.DifficultyUnknown,
			TopicTags:     []string{},
		}

		metadata, err := s.problems.GetOrRefreshMetadata(ctx, sub.TitleSlug, cred)
		if err != nil {
			// Partial data beats no data: emit the raw row.
			log.Printf("WARN [SubmissionService.enrich] metadata for %q unavailable: %v", sub.TitleSlug, err)
			enriched = append(enriched, row)
			continue
		}

		questionID := metadata.QuestionID
		row.Difficulty = metadata.Difficulty
		row.QuestionID = &questionID
		row.PaidOnly = metadata.PaidOnly
		if len(metadata.TopicTags) > 0 {
			var tags []string
			if err := json.Unmarshal(metadata.TopicTags, &tags); err == nil {
				row.TopicTags = tags
			}
		}
		enriched = append(enriched, row)
	}
	return enriched
}
