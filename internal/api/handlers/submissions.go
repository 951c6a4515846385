package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"leettrack/internal/api/middleware"
	"leettrack/internal/domain"
	"leettrack/internal/leetcode"
	"leettrack/internal/service"
)

type SubmissionHandler struct {
	submissionService *service.SubmissionService
	sessionService    *service.SessionService
	authService       *service.AuthService
}

func NewSubmissionHandler(submissionService *service.SubmissionService, sessionService *service.SessionService, authService *service.AuthService) *SubmissionHandler {
	return &SubmissionHandler{
		submissionService: submissionService,
		sessionService:    sessionService,
		authService:       authService,
	}
}

// Recent returns the caller's most recent accepted submissions, enriched
// with cached problem metadata. The username query param overrides the
// account's linked LeetCode username.
func (h *SubmissionHandler) Recent(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	username := r.URL.Query().Get("username")
	if username == "" {
		user, err := h.authService.GetUserByID(r.Context(), userID)
		if err != nil || user.LeetCodeUsername == "" {
			http.Error(w, "No LeetCode username linked to this account", http.StatusBadRequest)
			return
		}
		username = user.LeetCodeUsername
	}

	limit := service.DefaultSubmissionLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	cred := h.credentialFor(r)

	submissions, err := h.submissionService.FetchEnrichedSubmissions(r.Context(), username, limit, cred)
	if err != nil {
		h.writeRemoteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(submissions)
}

// History pages through the caller's full submission history. Requires a
// linked LeetCode session.
func (h *SubmissionHandler) History(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	user, err := h.authService.GetUserByID(r.Context(), userID)
	if err != nil || user.LeetCodeUsername == "" {
		http.Error(w, "No LeetCode username linked to this account", http.StatusBadRequest)
		return
	}

	cred := h.credentialFor(r)
	if cred == nil {
		http.Error(w, "No active LeetCode session", http.StatusUnauthorized)
		return
	}

	offset := 0
	if raw := r.URL.Query().Get("offset"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed >= 0 {
			offset = parsed
		}
	}
	limit := service.DefaultSubmissionLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	submissions, err := h.submissionService.FetchSubmissionHistory(r.Context(), user.LeetCodeUsername, offset, limit, cred)
	if err != nil {
		h.writeRemoteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(submissions)
}

func (h *SubmissionHandler) credentialFor(r *http.Request) *leetcode.Credential {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		return nil
	}

	session, err := h.sessionService.GetActiveSession(r.Context(), userID)
	if err != nil {
		return nil
	}
	cred, err := h.sessionService.DecryptCredential(session)
	if err != nil {
		log.Printf("ERROR [SubmissionHandler.credentialFor] %v", err)
		return nil
	}
	return cred
}

func (h *SubmissionHandler) writeRemoteError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrRateLimited):
		http.Error(w, "Rate limited by LeetCode", http.StatusTooManyRequests)
	case errors.Is(err, domain.ErrAuthExpired):
		http.Error(w, "LeetCode session expired", http.StatusUnauthorized)
	case errors.Is(err, domain.ErrNotFound):
		http.Error(w, "LeetCode user not found", http.StatusNotFound)
	case errors.Is(err, domain.ErrRemoteTimeout):
		http.Error(w, "LeetCode request timed out", http.StatusGatewayTimeout)
	default:
		log.Printf("ERROR [SubmissionHandler] %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
