package service_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leettrack/internal/domain"
	"leettrack/internal/leetcode"
	"leettrack/internal/repository/postgres"
	"leettrack/internal/service"
	"leettrack/internal/testutil"
)

func newSubmissionService(t *testing.T) (*service.SubmissionService, *testutil.TestDB, *testutil.FakeLeetCode) {
	t.Helper()

	testDB := testutil.NewTestDB(t)
	remote := testutil.NewFakeLeetCode(t)
	client := leetcode.NewClient(remote.URL())
	problems := service.NewProblemService(postgres.NewProblemRepository(testDB.DB), client)
	svc := service.NewSubmissionService(problems, client)
	return svc, testDB, remote
}

func TestSubmissionService_EnrichesFromCache(t *testing.T) {
	svc, testDB, remote := newSubmissionService(t)
	ctx := context.Background()

	testutil.NewProblemBuilder("two-sum").
		WithQuestionID(1).
		WithDifficulty(domain.DifficultyEasy).
		WithTopicTags("Array", "Hash Table").
		Build(t, testDB.DB)

	remote.SetSubmissions(testutil.FakeSubmission{
		ID:            "1001",
		Title:         "Two Sum",
		TitleSlug:     "two-sum",
		Timestamp:     "1700000000",
		StatusDisplay: "Accepted",
		Lang:          "golang",
	})

	rows, err := svc.FetchEnrichedSubmissions(ctx, "alice", 10, nil)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, domain.DifficultyEasy, row.Difficulty)
	require.NotNil(t, row.QuestionID)
	assert.Equal(t, 1, *row.QuestionID)
	assert.Equal(t, []string{"Array", "Hash Table"}, row.TopicTags)
	assert.Equal(t, time.Unix(1700000000, 0).UTC(), row.SubmittedAt)

	// Cache hit: no metadata call went out
	assert.Equal(t, 0, remote.Calls("questionDetails"))
}

func TestSubmissionService_OneFailedJoinDegradesOnlyThatRow(t *testing.T) {
	svc, testDB, remote := newSubmissionService(t)
	ctx := context.Background()

	testutil.NewProblemBuilder("two-sum").
		WithQuestionID(1).
		WithDifficulty(domain.DifficultyEasy).
		Build(t, testDB.DB)
	testutil.NewProblemBuilder("median-of-two-sorted-arrays").
		WithQuestionID(4).
		WithDifficulty(domain.DifficultyHard).
		Build(t, testDB.DB)

	remote.FailProblem("broken-slug", http.StatusInternalServerError)
	remote.SetSubmissions(
		testutil.FakeSubmission{ID: "3", TitleSlug: "two-sum", Title: "Two Sum", Timestamp: "1700000300", StatusDisplay: "Accepted", Lang: "golang"},
		testutil.FakeSubmission{ID: "2", TitleSlug: "broken-slug", Title: "Broken", Timestamp: "1700000200", StatusDisplay: "Accepted", Lang: "golang"},
		testutil.FakeSubmission{ID: "1", TitleSlug: "median-of-two-sorted-arrays", Title: "Median of Two Sorted Arrays", Timestamp: "1700000100", StatusDisplay: "Accepted", Lang: "python3"},
	)

	rows, err := svc.FetchEnrichedSubmissions(ctx, "alice", 10, nil)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	// Upstream order preserved
	assert.Equal(t, "3", rows[0].ID)
	assert.Equal(t, "2", rows[1].ID)
	assert.Equal(t, "1", rows[2].ID)

	assert.Equal(t, domain.DifficultyEasy, rows[0].Difficulty)
	assert.Equal(t, domain.DifficultyHard, rows[2].Difficulty)

	// The broken row degrades to raw fields plus defaults
	degraded := rows[1]
	assert.Equal(t, domain.DifficultyUnknown, degraded.Difficulty)
	assert.Nil(t, degraded.QuestionID)
	assert.False(t, degraded.PaidOnly)
	assert.Empty(t, degraded.TopicTags)
	assert.Equal(t, "Broken", degraded.Title)
	assert.Equal(t, time.Unix(1700000200, 0).UTC(), degraded.SubmittedAt)
}

func TestSubmissionService_EmptyRemoteResult(t *testing.T) {
	svc, _, _ := newSubmissionService(t)

	rows, err := svc.FetchEnrichedSubmissions(context.Background(), "alice", 10, nil)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestSubmissionService_RemoteFailurePropagates(t *testing.T) {
	svc, _, remote := newSubmissionService(t)

	tests := []struct {
		name    string
		status  int
		wantErr error
	}{
		{name: "rate limited", status: http.StatusTooManyRequests, wantErr: domain.ErrRateLimited},
		{name: "auth expired", status: http.StatusUnauthorized, wantErr: domain.ErrAuthExpired},
		{name: "server error", status: http.StatusBadGateway, wantErr: domain.ErrRemote},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			remote.FailAll(tt.status)

			_, err := svc.FetchEnrichedSubmissions(context.Background(), "alice", 10, nil)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestSubmissionService_MissingSlugFetchedAndCached(t *testing.T) {
	svc, testDB, remote := newSubmissionService(t)
	ctx := context.Background()

	remote.SetProblem("two-sum", testutil.FakeProblem{
		QuestionFrontendID: "1",
		Title:              "Two Sum",
		Difficulty:         "Easy",
		TopicTags:          []string{"Array"},
	})
	remote.SetSubmissions(testutil.FakeSubmission{
		ID: "1", TitleSlug: "two-sum", Title: "Two Sum", Timestamp: "1700000000", StatusDisplay: "Accepted", Lang: "golang",
	})

	rows, err := svc.FetchEnrichedSubmissions(ctx, "alice", 10, nil)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, domain.DifficultyEasy, rows[0].Difficulty)
	assert.Equal(t, 1, remote.Calls("questionDetails"))

	// The join populated the cache for next time
	var stored domain.ProblemMetadata
	require.NoError(t, testDB.DB.First(&stored, "slug = ?", "two-sum").Error)
	assert.Equal(t, "Two Sum", stored.Title)

	_, err = svc.FetchEnrichedSubmissions(ctx, "alice", 10, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, remote.Calls("questionDetails"))
}

func TestSubmissionService_FetchSubmissionHistory(t *testing.T) {
	svc, testDB, remote := newSubmissionService(t)
	ctx := context.Background()

	testutil.NewProblemBuilder("two-sum").
		WithDifficulty(domain.DifficultyEasy).
		Build(t, testDB.DB)
	remote.SetSubmissions(testutil.FakeSubmission{
		ID: "1", TitleSlug: "two-sum", Title: "Two Sum", Timestamp: "1700000000", StatusDisplay: "Wrong Answer", Lang: "golang",
	})

	cred := &leetcode.Credential{SessionToken: "cookie"}
	rows, err := svc.FetchSubmissionHistory(ctx, "alice", 0, 20, cred)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Wrong Answer", rows[0].StatusDisplay)
	assert.Equal(t, domain.DifficultyEasy, rows[0].Difficulty)
}
