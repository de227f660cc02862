package models

import "strings"

// CreateInterviewRequest creates a record in status created.
type CreateInterviewRequest struct {
	CandidateName  string `json:"candidate_name"`
	CandidateEmail string `json:"candidate_email"`
	Position       string `json:"position"`
	ChallengeID    string `json:"challenge_id"`
	CompanyID      string `json:"company_id"`
	CreatedBy      string `json:"created_by"`
	Notes          string `json:"notes"`
}

// implements the Validator interface
func (r *CreateInterviewRequest) Validate() error {
	if r.CandidateName == "" {
		return &ErrorResponse{Code: "missing_candidate_name", Message: "candidate_name is required"}
	}
	if r.CandidateEmail == "" || !strings.Contains(r.CandidateEmail, "@") {
		return &ErrorResponse{Code: "invalid_candidate_email", Message: "a valid candidate_email is required"}
	}
	if r.Position == "" {
		return &ErrorResponse{Code: "missing_position", Message: "position is required"}
	}
	if r.ChallengeID == "" {
		return &ErrorResponse{Code: "missing_challenge_id", Message: "challenge_id is required"}
	}
	if r.CompanyID == "" || r.CreatedBy == "" {
		return &ErrorResponse{Code: "missing_owner", Message: "company_id and created_by are required"}
	}
	return nil
}

// ChallengeRequest creates or updates a challenge.
type ChallengeRequest struct {
	Title             string     `json:"title"`
	Description       string     `json:"description"`
	Instructions      string     `json:"instructions"`
	Difficulty        string     `json:"difficulty"`
	Category          string     `json:"category"`
	EstimatedDuration int        `json:"estimated_duration"`
	TechStack         StringList `json:"tech_stack"`
	StarterCodeZipURL string     `json:"starter_code_zip_url"`
}

func (r *ChallengeRequest) Validate() error {
	if r.Title == "" {
		return &ErrorResponse{Code: "missing_title", Message: "title is required"}
	}
	if r.Instructions == "" {
		return &ErrorResponse{Code: "missing_instructions", Message: "instructions are required"}
	}
	if r.EstimatedDuration <= 0 {
		return &ErrorResponse{Code: "invalid_duration", Message: "estimated_duration must be a positive number of minutes"}
	}
	if r.Difficulty == "" {
		r.Difficulty = "mid"
	}
	if r.Category == "" {
		r.Category = "fullstack"
	}
	return nil
}

// CompleteEvaluationRequest attaches a manually supplied evaluation outcome,
// used when the analysis ran out of band.
type CompleteEvaluationRequest struct {
	AIAnalysis     string  `json:"ai_analysis"`
	Recommendation string  `json:"recommendation"`
	OverallScore   float64 `json:"overall_score"`
}

func (r *CompleteEvaluationRequest) Validate() error {
	ev := Evaluation{
		AIAnalysis:     r.AIAnalysis,
		Recommendation: Recommendation(r.Recommendation),
		OverallScore:   r.OverallScore,
	}
	if err := ev.Validate(); err != nil {
		return &ErrorResponse{Code: "invalid_evaluation", Message: err.Error()}
	}
	return nil
}
