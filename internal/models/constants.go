package models

// Status is the lifecycle state of an interview record.
type Status string

const (
	StatusCreated    Status = "created"
	StatusSent       Status = "sent"
	StatusStarted    Status = "started"
	StatusSubmitted  Status = "submitted"
	StatusEvaluating Status = "evaluating"
	StatusEvaluated  Status = "evaluated"
	StatusExpired    Status = "expired"
)

// ValidStatuses contains all lifecycle statuses (in lowercase)
var ValidStatuses = map[Status]bool{
	StatusCreated:    true,
	StatusSent:       true,
	StatusStarted:    true,
	StatusSubmitted:  true,
	StatusEvaluating: true,
	StatusEvaluated:  true,
	StatusExpired:    true,
}

// IsTerminal reports whether no further transition is possible.
func (s Status) IsTerminal() bool {
	return s == StatusEvaluated || s == StatusExpired
}

// Recommendation is the hiring recommendation attached by an evaluation.
type Recommendation string

const (
	RecommendationStrongHire   Recommendation = "strong_hire"
	RecommendationHire         Recommendation = "hire"
	RecommendationNoHire       Recommendation = "no_hire"
	RecommendationStrongNoHire Recommendation = "strong_no_hire"
)

var ValidRecommendations = map[Recommendation]bool{
	RecommendationStrongHire:   true,
	RecommendationHire:         true,
	RecommendationNoHire:       true,
	RecommendationStrongNoHire: true,
}

func ValidRecommendationsList() []string {
	return []string{"strong_hire", "hire", "no_hire", "strong_no_hire"}
}

// CandidateState is the coarse state shown on the candidate-facing path.
// Candidates never see the internal status or error taxonomy.
type CandidateState string

const (
	CandidateStateInvited    CandidateState = "invited"
	CandidateStateInProgress CandidateState = "in_progress"
	CandidateStateSubmitted  CandidateState = "submitted"
	CandidateStateExpired    CandidateState = "expired"
	CandidateStateError      CandidateState = "error"
)

// CandidateStateFor maps an internal status onto the coarse candidate view.
// A record that was never sent has no candidate-visible state.
func CandidateStateFor(s Status) CandidateState {
	switch s {
	case StatusSent:
		return CandidateStateInvited
	case StatusStarted:
		return CandidateStateInProgress
	case StatusSubmitted, StatusEvaluating, StatusEvaluated:
		return CandidateStateSubmitted
	case StatusExpired:
		return CandidateStateExpired
	default:
		return CandidateStateError
	}
}
