package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// FakeProblem is the remote-side view of a problem served by FakeLeetCode.
type FakeProblem struct {
	QuestionFrontendID string
	Title              string
	Difficulty         string
	AcRate             *float64
	Likes              int
	Dislikes           int
	IsPaidOnly         bool
	TopicTags          []string
}

// FakeSubmission mirrors the remote submission shape (epoch seconds as a
// string, as LeetCode serves it).
type FakeSubmission struct {
	ID            string
	Title         string
	TitleSlug     string
	Timestamp     string
	StatusDisplay string
	Lang          string
}

// FakeLeetCode is an httptest-backed stand-in for LeetCode's /graphql
// endpoint. Tests seed problems and submissions and inject failures per
// operation or per slug.
type FakeLeetCode struct {
	server *httptest.Server

	mu            sync.Mutex
	calls         map[string]int
	problems      map[string]FakeProblem
	problemStatus map[string]int // slug -> forced HTTP status
	submissions   []FakeSubmission
	calendar      string // submissionCalendar payload; "" means no matched user
	failStatus    int    // nonzero forces this status for every request
}

func NewFakeLeetCode(t *testing.T) *FakeLeetCode {
	t.Helper()

	f := &FakeLeetCode{
		calls:         make(map[string]int),
		problems:      make(map[string]FakeProblem),
		problemStatus: make(map[string]int),
	}
	f.server = httptest.NewServer(http.HandlerFunc(f.handle))
	t.Cleanup(f.server.Close)
	return f
}

func (f *FakeLeetCode) URL() string {
	return f.server.URL
}

func (f *FakeLeetCode) SetProblem(slug string, problem FakeProblem) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.problems[slug] = problem
}

// FailProblem makes lookups of the slug answer with the given HTTP status.
func (f *FakeLeetCode) FailProblem(slug string, status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.problemStatus[slug] = status
}

// FailAll forces every request to answer with the given HTTP status; 0
// restores normal behavior.
func (f *FakeLeetCode) FailAll(status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failStatus = status
}

func (f *FakeLeetCode) SetSubmissions(submissions ...FakeSubmission) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submissions = submissions
}

// SetCalendar seeds the submission calendar served to the validation
// probe. An empty string means the user has no calendar (null matchedUser).
func (f *FakeLeetCode) SetCalendar(calendar string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calendar = calendar
}

// Calls reports how many requests arrived for the operation.
func (f *FakeLeetCode) Calls(operation string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[operation]
}

func (f *FakeLeetCode) handle(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Query     string         `json:"query"`
		Variables map[string]any `json:"variables"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	operation := operationOf(req.Query)

	f.mu.Lock()
	f.calls[operation]++
	failStatus := f.failStatus
	f.mu.Unlock()

	if failStatus != 0 {
		http.Error(w, http.StatusText(failStatus), failStatus)
		return
	}

	switch operation {
	case "recentAcSubmissionList":
		f.serveSubmissions(w, "recentAcSubmissionList", nil)
	case "questionDetails":
		slug, _ := req.Variables["titleSlug"].(string)
		f.serveProblem(w, slug)
	case "userProfileCalendar":
		f.serveCalendar(w)
	case "submissionList":
		f.serveSubmissions(w, "questionSubmissionList", map[string]any{})
	default:
		writeGraphQLError(w, fmt.Sprintf("unknown operation %q", operation))
	}
}

func operationOf(query string) string {
	for _, op := range []string{"recentAcSubmissionList", "questionDetails", "userProfileCalendar", "submissionList"} {
		if strings.Contains(query, op) {
			return op
		}
	}
	return ""
}

func (f *FakeLeetCode) serveProblem(w http.ResponseWriter, slug string) {
	f.mu.Lock()
	status, forced := f.problemStatus[slug]
	problem, found := f.problems[slug]
	f.mu.Unlock()

	if forced {
		http.Error(w, http.StatusText(status), status)
		return
	}
	if !found {
		writeData(w, map[string]any{"question": nil})
		return
	}

	tags := make([]map[string]string, 0, len(problem.TopicTags))
	for _, tag := range problem.TopicTags {
		tags = append(tags, map[string]string{"name": tag})
	}
	writeData(w, map[string]any{
		"question": map[string]any{
			"questionFrontendId": problem.QuestionFrontendID,
			"title":              problem.Title,
			"difficulty":         problem.Difficulty,
			"acRate":             problem.AcRate,
			"likes":              problem.Likes,
			"dislikes":           problem.Dislikes,
			"isPaidOnly":         problem.IsPaidOnly,
			"topicTags":          tags,
		},
	})
}

func (f *FakeLeetCode) serveSubmissions(w http.ResponseWriter, field string, wrap map[string]any) {
	f.mu.Lock()
	submissions := make([]map[string]any, 0, len(f.submissions))
	for _, s := range f.submissions {
		submissions = append(submissions, map[string]any{
			"id":            s.ID,
			"title":         s.Title,
			"titleSlug":     s.TitleSlug,
			"timestamp":     s.Timestamp,
			"statusDisplay": s.StatusDisplay,
			"lang":          s.Lang,
		})
	}
	f.mu.Unlock()

	if wrap != nil {
		writeData(w, map[string]any{field: map[string]any{"submissions": submissions}})
		return
	}
	writeData(w, map[string]any{field: submissions})
}

func (f *FakeLeetCode) serveCalendar(w http.ResponseWriter) {
	f.mu.Lock()
	calendar := f.calendar
	f.mu.Unlock()

	if calendar == "" {
		writeData(w, map[string]any{"matchedUser": nil})
		return
	}
	writeData(w, map[string]any{
		"matchedUser": map[string]any{
			"userCalendar": map[string]any{
				"activeYears":        []int{2026},
				"streak":             1,
				"totalActiveDays":    1,
				"submissionCalendar": calendar,
			},
		},
	})
}

func writeData(w http.ResponseWriter, data map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"data": data})
}

func writeGraphQLError(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"data":   nil,
		"errors": []map[string]string{{"message": message}},
	})
}
