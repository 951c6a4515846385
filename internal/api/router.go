package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"leettrack/internal/api/handlers"
	"leettrack/internal/api/middleware"
	"leettrack/internal/config"
	"leettrack/internal/service"
)

func NewRouter(services *service.Services, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(middleware.CORS)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(services.Auth)
	problemHandler := handlers.NewProblemHandler(services.Problem, services.Session)
	sessionHandler := handlers.NewSessionHandler(services.Session, services.Auth)
	submissionHandler := handlers.NewSubmissionHandler(services.Submission, services.Session, services.Auth)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public auth routes
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)

			// Protected auth routes
			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(services.Auth))
				r.Get("/me", authHandler.Me)
				r.Put("/me/leetcode-username", authHandler.UpdateLeetCodeUsername)
			})
		})

		// Problem metadata (public; authenticated callers get paid-only
		// resolution through their stored session)
		r.Group(func(r chi.Router) {
			r.Use(middleware.OptionalAuth(services.Auth))
			r.Get("/problems/{slug}", problemHandler.Get)
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(services.Auth))

			// LeetCode session lifecycle
			r.Route("/leetcode/session", func(r chi.Router) {
				r.Post("/", sessionHandler.Link)
				r.Get("/", sessionHandler.Status)
				r.Delete("/", sessionHandler.Unlink)
			})

			// Submissions
			r.Route("/submissions", func(r chi.Router) {
				r.Get("/recent", submissionHandler.Recent)
				r.Get("/history", submissionHandler.History)
			})
		})
	})

	return r
}
