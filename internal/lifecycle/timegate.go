package lifecycle

import (
	"time"

	"github.com/gabeliss/kandidly/internal/models"
)

// GateResult classifies a record against the wall clock.
type GateResult int

const (
	// GateActive means the record is inside its time window (or has no
	// window to enforce in its current status).
	GateActive GateResult = iota
	// GateExpiredBeforeStart means the send-link window closed before the
	// candidate started.
	GateExpiredBeforeStart
	// GateExpiredBeforeSubmit means the submission deadline passed before
	// the candidate submitted.
	GateExpiredBeforeSubmit
)

func (g GateResult) Expired() bool { return g != GateActive }

// EvaluateGate is the single expiry predicate. Both the lazy candidate-read
// path and the periodic sweep use it, so the two paths always agree.
// Pure: callers decide whether to persist the resulting expired transition.
func EvaluateGate(rec *models.InterviewRecord, now time.Time) GateResult {
	switch rec.Status {
	case models.StatusSent:
		if rec.ExpiresAt != nil && now.After(*rec.ExpiresAt) {
			return GateExpiredBeforeStart
		}
	case models.StatusStarted:
		if rec.SubmissionDeadline != nil && now.After(*rec.SubmissionDeadline) {
			return GateExpiredBeforeSubmit
		}
	}
	// submitted, evaluating, evaluated and expired records never expire
	// out from under anyone; created records have no window yet.
	return GateActive
}
