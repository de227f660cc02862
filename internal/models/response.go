package models

import "time"

// ErrorResponse is the JSON error payload returned by the hiring-side API.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// implements the error interface so validators can return it directly
func (e *ErrorResponse) Error() string {
	return e.Message
}

// InterviewListResponse wraps a company's interview records together with
// per-status counts for the dashboard cards.
type InterviewListResponse struct {
	Total        int               `json:"total"`
	Items        []InterviewRecord `json:"items"`
	StatusCounts map[Status]int    `json:"status_counts"`
}

// InterviewStatsResponse summarises a company's pipeline.
type InterviewStatsResponse struct {
	Total         int            `json:"total"`
	StatusCounts  map[Status]int `json:"status_counts"`
	EvaluatedAvg  float64        `json:"evaluated_avg_score"`
	EvaluatedDone int            `json:"evaluated_count"`
}

// SendResponse is returned when an invitation goes out. NotificationSent is
// informational only; the record is sent either way.
type SendResponse struct {
	Interview        *InterviewRecord `json:"interview"`
	ChallengeLink    string           `json:"challenge_link"`
	NotificationSent bool             `json:"notification_sent"`
}

// CandidateChallengeView is the candidate-facing projection of a record and
// its challenge. Internal statuses and error kinds are never included.
type CandidateChallengeView struct {
	State     CandidateState          `json:"state"`
	Position  string                  `json:"position"`
	Challenge *CandidateChallengeInfo `json:"challenge,omitempty"`

	ExpiresAt          *time.Time `json:"expires_at,omitempty"`
	StartedAt          *time.Time `json:"started_at,omitempty"`
	SubmissionDeadline *time.Time `json:"submission_deadline,omitempty"`

	// ServerNow lets the UI render an advisory countdown without trusting
	// the client clock. The stored deadline remains authoritative.
	ServerNow time.Time `json:"server_now"`
}

type CandidateChallengeInfo struct {
	Title             string     `json:"title"`
	Description       string     `json:"description"`
	Instructions      string     `json:"instructions"`
	EstimatedDuration int        `json:"estimated_duration"`
	TechStack         StringList `json:"tech_stack"`
	StarterCodeZipURL string     `json:"starter_code_zip_url,omitempty"`
}

// CandidateErrorResponse is the coarse error payload for candidates.
type CandidateErrorResponse struct {
	State   CandidateState `json:"state"`
	Message string         `json:"message"`
}
