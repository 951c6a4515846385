package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"leettrack/internal/api/middleware"
	"leettrack/internal/domain"
	"leettrack/internal/leetcode"
	"leettrack/internal/service"
)

type SessionHandler struct {
	sessionService *service.SessionService
	authService    *service.AuthService
}

func NewSessionHandler(sessionService *service.SessionService, authService *service.AuthService) *SessionHandler {
	return &SessionHandler{
		sessionService: sessionService,
		authService:    authService,
	}
}

type LinkSessionRequest struct {
	SessionToken string     `json:"sessionToken"`
	CSRFToken    string     `json:"csrfToken"`
	ExpiresAt    *time.Time `json:"expiresAt"`
}

type SessionStatusResponse struct {
	Linked     bool       `json:"linked"`
	ExpiresAt  *time.Time `json:"expiresAt,omitempty"`
	LastUsedAt *time.Time `json:"lastUsedAt,omitempty"`
	CreatedAt  *time.Time `json:"createdAt,omitempty"`
}

// Link validates the supplied LeetCode cookie material against the user's
// linked account and stores it encrypted as the single active session.
func (h *SessionHandler) Link(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req LinkSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.SessionToken == "" {
		http.Error(w, "Session token is required", http.StatusBadRequest)
		return
	}

	user, err := h.authService.GetUserByID(r.Context(), userID)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if user.LeetCodeUsername == "" {
		http.Error(w, "Link a LeetCode username before adding a session", http.StatusBadRequest)
		return
	}

	cred := &leetcode.Credential{SessionToken: req.SessionToken, CSRFToken: req.CSRFToken}
	if !h.sessionService.ValidateSession(r.Context(), cred, user.LeetCodeUsername) {
		http.Error(w, "LeetCode rejected the session", http.StatusUnprocessableEntity)
		return
	}

	session, err := h.sessionService.StoreSession(r.Context(), service.StoreSessionInput{
		UserID:     userID,
		RawPayload: req.SessionToken,
		RawCSRF:    req.CSRFToken,
		ExpiresAt:  req.ExpiresAt,
	})
	if err != nil {
		log.Printf("ERROR [SessionHandler.Link] %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(SessionStatusResponse{
		Linked:     true,
		ExpiresAt:  session.ExpiresAt,
		LastUsedAt: &session.LastUsedAt,
		CreatedAt:  &session.CreatedAt,
	})
}

// Status reports whether the caller has an active session without touching
// the encrypted payload.
func (h *SessionHandler) Status(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	session, err := h.sessionService.GetActiveSession(r.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrNoActiveSession) {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(SessionStatusResponse{Linked: false})
			return
		}
		log.Printf("ERROR [SessionHandler.Status] %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(SessionStatusResponse{
		Linked:     true,
		ExpiresAt:  session.ExpiresAt,
		LastUsedAt: &session.LastUsedAt,
		CreatedAt:  &session.CreatedAt,
	})
}

// Unlink deactivates all of the caller's sessions. Safe to call when none
// exist.
func (h *SessionHandler) Unlink(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := h.sessionService.InvalidateSession(r.Context(), userID); err != nil {
		log.Printf("ERROR [SessionHandler.Unlink] %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
