package domain

import "time"

// Submission is a raw accepted submission as returned by LeetCode. It is
// never persisted; the enrichment pipeline consumes it in-flight.
type Submission struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	TitleSlug     string `json:"titleSlug"`
	Timestamp     int64  `json:"timestamp"` // epoch seconds
	StatusDisplay string `json:"statusDisplay"`
	Lang          string `json:"lang"`
}

// EnrichedSubmission is a Submission left-joined onto cached problem
// metadata. When the join fails the enrichment fields keep their defaults
// and Difficulty is Unknown.
type EnrichedSubmission struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	TitleSlug     string     `json:"titleSlug"`
	SubmittedAt   time.Time  `json:"submittedAt"`
	StatusDisplay string     `json:"statusDisplay"`
	Lang          string     `json:"lang"`
	Difficulty    Difficulty `json:"difficulty"`
	QuestionID    *int       `json:"questionId"`
	PaidOnly      bool       `json:"paidOnly"`
	TopicTags     []string   `json:"topicTags"`
}
