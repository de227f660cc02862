package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// InterviewRecord tracks one candidate's take-home challenge from creation
// through evaluation. The status column together with the version column is
// the concurrency control for every transition: writers update with a
// WHERE id = ? AND status = ? guard and bump version atomically, so of two
// racing writers exactly one wins.
type InterviewRecord struct {
	ID             string `gorm:"primaryKey" json:"id"`
	CandidateName  string `gorm:"not null" json:"candidate_name"`
	CandidateEmail string `gorm:"not null" json:"candidate_email"`
	Position       string `gorm:"not null" json:"position"`
	CompanyID      string `gorm:"not null;index" json:"company_id"`
	CreatedBy      string `gorm:"not null" json:"created_by"`
	ChallengeID    string `gorm:"not null;index" json:"challenge_id"`

	Status  Status `gorm:"not null;index" json:"status"`
	Version int64  `gorm:"not null;default:0" json:"-"`

	SentAt             *time.Time `json:"sent_at,omitempty"`
	ExpiresAt          *time.Time `json:"expires_at,omitempty"`
	StartedAt          *time.Time `json:"started_at,omitempty"`
	SubmissionDeadline *time.Time `json:"submission_deadline,omitempty"`
	SubmittedAt        *time.Time `json:"submitted_at,omitempty"`

	SubmissionArtifactRef string `json:"submission_artifact_ref,omitempty"`
	SubmissionNotes       string `gorm:"type:text" json:"submission_notes,omitempty"`

	Evaluation *Evaluation `gorm:"type:text" json:"evaluation,omitempty"`

	Notes string `gorm:"type:text" json:"notes,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Evaluation is the structured AI assessment attached when a record reaches
// evaluated. Stored as a JSON column on the interview row.
type Evaluation struct {
	AIAnalysis     string         `json:"ai_analysis"`
	Recommendation Recommendation `json:"recommendation"`
	OverallScore   float64        `json:"overall_score"`
}

func (e *Evaluation) Validate() error {
	if e == nil {
		return errors.New("evaluation is missing")
	}
	if e.AIAnalysis == "" {
		return errors.New("evaluation analysis is empty")
	}
	if !ValidRecommendations[e.Recommendation] {
		return fmt.Errorf("invalid recommendation %q", e.Recommendation)
	}
	if e.OverallScore < 0 || e.OverallScore > 10 {
		return fmt.Errorf("overall score %.1f out of range 0-10", e.OverallScore)
	}
	return nil
}

func (e *Evaluation) Value() (driver.Value, error) {
	if e == nil {
		return nil, nil
	}
	return json.Marshal(e)
}

func (e *Evaluation) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, e)
	case string:
		return json.Unmarshal([]byte(v), e)
	default:
		return fmt.Errorf("cannot scan %T into Evaluation", value)
	}
}
