package domain

import (
	"errors"
	"fmt"
)

// Remote call classification. The leetcode client maps transport outcomes
// onto these so callers can branch with errors.Is.
var (
	ErrRateLimited   = errors.New("leetcode rate limited the request")
	ErrAuthExpired   = errors.New("leetcode session is expired or unauthorized")
	ErrNotFound      = errors.New("requested resource not found")
	ErrRemoteTimeout = errors.New("leetcode request timed out")
	ErrRemote        = errors.New("leetcode request failed")
)

// Problem cache errors
var (
	ErrProblemNotFound = errors.New("problem not found")
	ErrEmptySlug       = errors.New("problem slug must not be empty")
)

// Session errors
var (
	ErrNoActiveSession = errors.New("no active leetcode session")
)

// GraphQLError carries the first message of a structured GraphQL error
// payload. It matches ErrRemote under errors.Is.
type GraphQLError struct {
	Operation string
	Message   string
}

func (e *GraphQLError) Error() string {
	return fmt.Sprintf("graphql operation %s failed: %s", e.Operation, e.Message)
}

func (e *GraphQLError) Unwrap() error {
	return ErrRemote
}
