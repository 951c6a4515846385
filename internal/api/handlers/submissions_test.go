package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"leettrack/internal/domain"
	"leettrack/internal/testutil"
)

type enrichedSubmissionResponse struct {
	ID         string   `json:"id"`
	TitleSlug  string   `json:"titleSlug"`
	Difficulty string   `json:"difficulty"`
	QuestionID *int     `json:"questionId"`
	TopicTags  []string `json:"topicTags"`
}

func TestSubmissionHandler_Recent(t *testing.T) {
	ts := testutil.NewTestServer(t)
	_, token := testutil.NewUserBuilder().WithLeetCodeUsername("alice").BuildAndAuthenticate(t, ts)

	testutil.NewProblemBuilder("two-sum").
		WithQuestionID(1).
		WithDifficulty(domain.DifficultyEasy).
		WithTopicTags("Array").
		Build(t, ts.DB.DB)

	ts.Remote.SetSubmissions(
		testutil.FakeSubmission{ID: "2", TitleSlug: "two-sum", Title: "Two Sum", Timestamp: "1700000200", StatusDisplay: "Accepted", Lang: "golang"},
		testutil.FakeSubmission{ID: "1", TitleSlug: "unseen-problem", Title: "Unseen", Timestamp: "1700000100", StatusDisplay: "Accepted", Lang: "golang"},
	)

	resp := authedRequest(t, http.MethodGet, ts.APIURL("/submissions/recent"), token, nil)
	defer resp.Body.Close()
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	var rows []enrichedSubmissionResponse
	testutil.AssertJSONResponse(t, resp, &rows)
	assert.Len(t, rows, 2)

	// Cached slug fully enriched; the unseen slug (remote serves nothing
	// for it) degrades to Unknown without dropping the row
	assert.Equal(t, "Easy", rows[0].Difficulty)
	assert.Equal(t, []string{"Array"}, rows[0].TopicTags)
	assert.Equal(t, "Unknown", rows[1].Difficulty)
	assert.Nil(t, rows[1].QuestionID)
}

func TestSubmissionHandler_Recent_NoLinkedUsername(t *testing.T) {
	ts := testutil.NewTestServer(t)
	_, token := testutil.NewUserBuilder().WithLeetCodeUsername("").BuildAndAuthenticate(t, ts)

	resp := authedRequest(t, http.MethodGet, ts.APIURL("/submissions/recent"), token, nil)
	defer resp.Body.Close()
	testutil.AssertErrorResponse(t, resp, http.StatusBadRequest, "No LeetCode username linked")
}

func TestSubmissionHandler_Recent_RateLimited(t *testing.T) {
	ts := testutil.NewTestServer(t)
	_, token := testutil.NewUserBuilder().WithLeetCodeUsername("alice").BuildAndAuthenticate(t, ts)

	ts.Remote.FailAll(http.StatusTooManyRequests)

	resp := authedRequest(t, http.MethodGet, ts.APIURL("/submissions/recent"), token, nil)
	defer resp.Body.Close()
	testutil.AssertStatusCode(t, resp, http.StatusTooManyRequests)
}

func TestSubmissionHandler_History_RequiresSession(t *testing.T) {
	ts := testutil.NewTestServer(t)
	_, token := testutil.NewUserBuilder().WithLeetCodeUsername("alice").BuildAndAuthenticate(t, ts)

	resp := authedRequest(t, http.MethodGet, ts.APIURL("/submissions/history"), token, nil)
	defer resp.Body.Close()
	testutil.AssertStatusCode(t, resp, http.StatusUnauthorized)
}

func TestProblemHandler_Get(t *testing.T) {
	ts := testutil.NewTestServer(t)

	testutil.NewProblemBuilder("two-sum").
		WithQuestionID(1).
		WithTitle("Two Sum").
		WithDifficulty(domain.DifficultyEasy).
		Build(t, ts.DB.DB)

	resp, err := http.Get(ts.APIURL("/problems/two-sum"))
	assert.NoError(t, err)
	defer resp.Body.Close()
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	var metadata struct {
		Slug       string `json:"slug"`
		Title      string `json:"title"`
		Difficulty string `json:"difficulty"`
	}
	testutil.AssertJSONResponse(t, resp, &metadata)
	assert.Equal(t, "two-sum", metadata.Slug)
	assert.Equal(t, "Easy", metadata.Difficulty)
}

func TestProblemHandler_Get_NotFound(t *testing.T) {
	ts := testutil.NewTestServer(t)

	resp, err := http.Get(ts.APIURL("/problems/no-such-problem"))
	assert.NoError(t, err)
	defer resp.Body.Close()
	testutil.AssertStatusCode(t, resp, http.StatusNotFound)
}
