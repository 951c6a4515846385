package service

import (
	"leettrack/internal/config"
	"leettrack/internal/leetcode"
	"leettrack/internal/repository"
	"leettrack/internal/secrets"
)

type Services struct {
	Auth       *AuthService
	Problem    *ProblemService
	Session    *SessionService
	Submission *SubmissionService
}

func NewServices(repos *repository.Repositories, client *leetcode.Client, box *secrets.Box, cfg *config.Config) *Services {
	problems := NewProblemService(repos.Problem, client)
	return &Services{
		Auth:       NewAuthService(repos.User, cfg),
		Problem:    problems,
		Session:    NewSessionService(repos.Session, box, client),
		Submission: NewSubmissionService(problems, client),
	}
}
