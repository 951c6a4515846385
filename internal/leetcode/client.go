package leetcode

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"leettrack/internal/domain"
)

const defaultBaseURL = "https://leetcode.com"

// Credential is decrypted session material attached per call. The zero
// value means unauthenticated.
type Credential struct {
	SessionToken string
	CSRFToken    string
}

func (c *Credential) empty() bool {
	return c == nil || c.SessionToken == ""
}

// Client executes named GraphQL operations against LeetCode and maps
// transport outcomes onto the domain error taxonomy.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type graphQLRequest struct {
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables"`
	OperationName string         `json:"operationName,omitempty"`
}

type graphQLEnvelope struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

func (c *Client) execute(ctx context.Context, operation, query string, variables map[string]any, cred *Credential, out any) error {
	body, err := json.Marshal(graphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("failed to encode %s request: %w", operation, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/graphql", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", operation, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Referer", c.baseURL)
	if !cred.empty() {
		cookie := "LEETCODE_SESSION=" + cred.SessionToken
		if cred.CSRFToken != "" {
			cookie += "; csrftoken=" + cred.CSRFToken
			req.Header.Set("X-Csrftoken", cred.CSRFToken)
		}
		req.Header.Set("Cookie", cookie)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return classifyTransportError(operation, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("%s: %w", operation, domain.ErrRateLimited)
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%s: %w", operation, domain.ErrAuthExpired)
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%s: %w", operation, domain.ErrNotFound)
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("%s: unexpected status %d: %w", operation, resp.StatusCode, domain.ErrRemote)
	}

	var envelope graphQLEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("%s: failed to decode response: %w", operation, domain.ErrRemote)
	}
	if len(envelope.Errors) > 0 {
		return &domain.GraphQLError{Operation: operation, Message: envelope.Errors[0].Message}
	}
	if len(envelope.Data) == 0 || string(envelope.Data) == "null" {
		// Empty envelope: each operation decides via its own nil checks.
		return nil
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("%s: failed to decode data: %w", operation, domain.ErrRemote)
	}
	return nil
}

func classifyTransportError(operation string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", operation, domain.ErrRemoteTimeout)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%s: %w", operation, domain.ErrRemoteTimeout)
	}
	return fmt.Errorf("%s: %v: %w", operation, err, domain.ErrRemote)
}

// RecentAcceptedSubmissions fetches up to limit most recent accepted
// submissions for the username. A missing list yields an empty slice, not
// an error.
func (c *Client) RecentAcceptedSubmissions(ctx context.Context, username string, limit int, cred *Credential) ([]domain.Submission, error) {
	var resp recentAcceptedSubmissionsResponse
	variables := map[string]any{"username": username, "limit": limit}
	if err := c.execute(ctx, "recentAcSubmissionList", recentAcceptedSubmissionsQuery, variables, cred, &resp); err != nil {
		return nil, err
	}
	return toSubmissions(resp.RecentAcSubmissionList), nil
}

// ProblemDetails fetches metadata for a single problem slug. An absent
// question maps to domain.ErrNotFound.
func (c *Client) ProblemDetails(ctx context.Context, titleSlug string, cred *Credential) (*QuestionDetails, error) {
	var resp problemDetailsResponse
	variables := map[string]any{"titleSlug": titleSlug}
	if err := c.execute(ctx, "questionDetails", problemDetailsQuery, variables, cred, &resp); err != nil {
		return nil, err
	}
	if resp.Question == nil {
		return nil, fmt.Errorf("questionDetails %q: %w", titleSlug, domain.ErrNotFound)
	}
	return resp.Question, nil
}

// UserCalendar fetches the yearly submission calendar. Used as the session
// validation probe.
func (c *Client) UserCalendar(ctx context.Context, username string, year int, cred *Credential) (*UserCalendar, error) {
	var resp userCalendarResponse
	variables := map[string]any{"username": username, "year": year}
	if err := c.execute(ctx, "userProfileCalendar", userCalendarQuery, variables, cred, &resp); err != nil {
		return nil, err
	}
	if resp.MatchedUser == nil || resp.MatchedUser.UserCalendar == nil {
		return nil, fmt.Errorf("userProfileCalendar %q: %w", username, domain.ErrNotFound)
	}
	return resp.MatchedUser.UserCalendar, nil
}

// UserSubmissions fetches a page of the user's full submission history.
// Requires an authenticated credential on leetcode.com.
func (c *Client) UserSubmissions(ctx context.Context, username string, offset, limit int, cred *Credential) ([]domain.Submission, error) {
	var resp userSubmissionsResponse
	variables := map[string]any{"username": username, "offset": offset, "limit": limit}
	if err := c.execute(ctx, "submissionList", userSubmissionsQuery, variables, cred, &resp); err != nil {
		return nil, err
	}
	if resp.QuestionSubmissionList == nil {
		return nil, nil
	}
	return toSubmissions(resp.QuestionSubmissionList.Submissions), nil
}

func toSubmissions(raw []RawSubmission) []domain.Submission {
	submissions := make([]domain.Submission, 0, len(raw))
	for _, s := range raw {
		ts, _ := strconv.ParseInt(s.Timestamp, 10, 64)
		submissions = append(submissions, domain.Submission{
			ID:            s.ID,
			Title:         s.Title,
			TitleSlug:     s.TitleSlug,
			Timestamp:     ts,
			StatusDisplay: s.StatusDisplay,
			Lang:          s.Lang,
		})
	}
	return submissions
}
