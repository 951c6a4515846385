package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"leettrack/internal/api/middleware"
	"leettrack/internal/domain"
	"leettrack/internal/leetcode"
	"leettrack/internal/service"
)

type ProblemHandler struct {
	problemService *service.ProblemService
	sessionService *service.SessionService
}

func NewProblemHandler(problemService *service.ProblemService, sessionService *service.SessionService) *ProblemHandler {
	return &ProblemHandler{
		problemService: problemService,
		sessionService: sessionService,
	}
}

// Get returns cached metadata for a slug, refreshing from LeetCode when
// the record is absent or stale. Uses the caller's stored session when one
// exists so paid-only problems resolve.
func (h *ProblemHandler) Get(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if slug == "" {
		http.Error(w, "Problem slug is required", http.StatusBadRequest)
		return
	}

	cred := h.credentialFor(r)

	metadata, err := h.problemService.GetOrRefreshMetadata(r.Context(), slug, cred)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrProblemNotFound):
			http.Error(w, "Problem not found", http.StatusNotFound)
		case errors.Is(err, domain.ErrRateLimited):
			http.Error(w, "Rate limited by LeetCode", http.StatusTooManyRequests)
		case errors.Is(err, domain.ErrAuthExpired):
			http.Error(w, "LeetCode session expired", http.StatusUnauthorized)
		case errors.Is(err, domain.ErrRemoteTimeout):
			http.Error(w, "LeetCode request timed out", http.StatusGatewayTimeout)
		default:
			log.Printf("ERROR [ProblemHandler.Get] %v", err)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(metadata)
}

// credentialFor resolves the caller's stored LeetCode credential, if any.
// Anonymous lookups are fine for free problems.
func (h *ProblemHandler) credentialFor(r *http.Request) *leetcode.Credential {
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
		log.Printf("ERROR [ProblemHandler.credentialFor] %v", err)
		return nil
	}
	return cred
}
