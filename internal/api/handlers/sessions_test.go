package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leettrack/internal/testutil"
)

func authedRequest(t *testing.T, method, url, token string, body any) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

type sessionStatus struct {
	Linked bool `json:"linked"`
}

func TestSessionHandler_LinkStatusUnlink(t *testing.T) {
	ts := testutil.NewTestServer(t)
	_, token := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)

	// Nothing linked yet
	resp := authedRequest(t, http.MethodGet, ts.APIURL("/leetcode/session"), token, nil)
	defer resp.Body.Close()
	testutil.AssertStatusCode(t, resp, http.StatusOK)
	var status sessionStatus
	testutil.AssertJSONResponse(t, resp, &status)
	assert.False(t, status.Linked)

	// Link with a session LeetCode accepts
	ts.Remote.SetCalendar(`{"1700000000":2}`)
	resp = authedRequest(t, http.MethodPost, ts.APIURL("/leetcode/session"), token, map[string]string{
		"sessionToken": "cookie-value",
		"csrfToken":    "csrf-value",
	})
	defer resp.Body.Close()
	testutil.AssertStatusCode(t, resp, http.StatusOK)
	testutil.AssertJSONResponse(t, resp, &status)
	assert.True(t, status.Linked)

	// Status reflects the link
	resp = authedRequest(t, http.MethodGet, ts.APIURL("/leetcode/session"), token, nil)
	defer resp.Body.Close()
	testutil.AssertJSONResponse(t, resp, &status)
	assert.True(t, status.Linked)

	// Unlink, then status is clean again
	resp = authedRequest(t, http.MethodDelete, ts.APIURL("/leetcode/session"), token, nil)
	defer resp.Body.Close()
	testutil.AssertStatusCode(t, resp, http.StatusNoContent)

	resp = authedRequest(t, http.MethodGet, ts.APIURL("/leetcode/session"), token, nil)
	defer resp.Body.Close()
	testutil.AssertJSONResponse(t, resp, &status)
	assert.False(t, status.Linked)
}

func TestSessionHandler_LinkRejectedByLeetCode(t *testing.T) {
	ts := testutil.NewTestServer(t)
	_, token := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)

	// No calendar: the validation probe finds no matched user
	resp := authedRequest(t, http.MethodPost, ts.APIURL("/leetcode/session"), token, map[string]string{
		"sessionToken": "bad-cookie",
	})
	defer resp.Body.Close()
	testutil.AssertStatusCode(t, resp, http.StatusUnprocessableEntity)
}

func TestSessionHandler_RequiresAuth(t *testing.T) {
	ts := testutil.NewTestServer(t)

	resp := authedRequest(t, http.MethodGet, ts.APIURL("/leetcode/session"), "", nil)
	defer resp.Body.Close()
	testutil.AssertStatusCode(t, resp, http.StatusUnauthorized)
}

func TestSessionHandler_LinkRequiresUsername(t *testing.T) {
	ts := testutil.NewTestServer(t)
	_, token := testutil.NewUserBuilder().WithLeetCodeUsername("").BuildAndAuthenticate(t, ts)

	resp := authedRequest(t, http.MethodPost, ts.APIURL("/leetcode/session"), token, map[string]string{
		"sessionToken": "cookie-value",
	})
	defer resp.Body.Close()
	testutil.AssertStatusCode(t, resp, http.StatusBadRequest)
}
