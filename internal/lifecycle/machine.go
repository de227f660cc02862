package lifecycle

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/gabeliss/kandidly/internal/metrics"
	"github.com/gabeliss/kandidly/internal/models"
)

// RecordStore is the persistence port for interview records. TryUpdate is a
// conditional write: it applies the patch only while the stored status still
// matches expected, returning ErrStaleTransition otherwise. That single
// guarantee linearizes all concurrent transitions on a record.
type RecordStore interface {
	GetRecord(id string) (*models.InterviewRecord, error)
	TryUpdate(id string, expected models.Status, patch map[string]interface{}) (*models.InterviewRecord, error)
}

// ChallengeStore is the read-only port for challenge lookups.
type ChallengeStore interface {
	GetChallenge(id string) (*models.Challenge, error)
}

// Machine validates and applies lifecycle transitions. It holds no state of
// its own between calls; all coordination happens through the conditional
// update discipline on the stored record.
type Machine struct {
	store      RecordStore
	challenges ChallengeStore
	clock      Clock
	sendExpiry time.Duration
	logger     *zap.Logger
}

func NewMachine(store RecordStore, challenges ChallengeStore, clock Clock, sendExpiry time.Duration, logger *zap.Logger) *Machine {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Machine{
		store:      store,
		challenges: challenges,
		clock:      clock,
		sendExpiry: sendExpiry,
		logger:     logger,
	}
}

// Get reads a record without evaluating the time gate.
func (m *Machine) Get(id string) (*models.InterviewRecord, error) {
	return m.store.GetRecord(id)
}

// GetCurrent reads a record and lazily applies the expired transition if its
// time window has closed. Losing the expiry race to another writer is
// non-fatal: the fresh read already reflects the winner's write.
func (m *Machine) GetCurrent(id string) (*models.InterviewRecord, error) {
	rec, err := m.store.GetRecord(id)
	if err != nil {
		return nil, err
	}
	for attempt := 0; attempt < 2; attempt++ {
		gate := EvaluateGate(rec, m.clock.Now())
		if !gate.Expired() {
			return rec, nil
		}
		updated, err := m.expire(rec, gate)
		if err == nil {
			return updated, nil
		}
		if !errors.Is(err, ErrStaleTransition) {
			return nil, err
		}
		if rec, err = m.store.GetRecord(id); err != nil {
			return nil, err
		}
	}
	return rec, nil
}

// Send moves created -> sent, stamping sentAt and the absolute deadline to
// start. Notification happens after this returns; a failed email never rolls
// the transition back.
func (m *Machine) Send(id string) (*models.InterviewRecord, error) {
	rec, err := m.store.GetRecord(id)
	if err != nil {
		return nil, err
	}
	if rec.Status != models.StatusCreated {
		metrics.RecordTransition("send", "rejected")
		return nil, fmt.Errorf("send from status %q: %w", rec.Status, ErrInvalidState)
	}

	now := m.clock.Now()
	expires := now.Add(m.sendExpiry)
	updated, err := m.store.TryUpdate(id, models.StatusCreated, map[string]interface{}{
		"status":     models.StatusSent,
		"sent_at":    &now,
		"expires_at": &expires,
	})
	if err != nil {
		metrics.RecordTransition("send", outcomeFor(err))
		return nil, err
	}
	metrics.RecordTransition("send", "ok")
	m.logger.Info("interview sent",
		zap.String("interview_id", id),
		zap.Time("expires_at", expires))
	return updated, nil
}

// Start moves sent -> started. startedAt is written exactly once; the
// submission deadline is derived from it and the challenge duration and is
// never re-derived afterwards.
func (m *Machine) Start(id string) (*models.InterviewRecord, error) {
	rec, err := m.store.GetRecord(id)
	if err != nil {
		return nil, err
	}

	now := m.clock.Now()
	if gate := EvaluateGate(rec, now); gate == GateExpiredBeforeStart {
		if _, err := m.expireIgnoringRace(rec, gate); err != nil {
			return nil, err
		}
		metrics.RecordTransition("start", "expired")
		return nil, fmt.Errorf("link expired at %s: %w", rec.ExpiresAt.Format(time.RFC3339), ErrExpired)
	}
	if rec.Status != models.StatusSent {
		metrics.RecordTransition("start", "rejected")
		return nil, fmt.Errorf("start from status %q: %w", rec.Status, ErrInvalidState)
	}

	challenge, err := m.challenges.GetChallenge(rec.ChallengeID)
	if err != nil {
		return nil, err
	}

	deadline := now.Add(challenge.Duration())
	updated, err := m.store.TryUpdate(id, models.StatusSent, map[string]interface{}{
		"status":              models.StatusStarted,
		"started_at":          &now,
		"submission_deadline": &deadline,
	})
	if err != nil {
		metrics.RecordTransition("start", outcomeFor(err))
		return nil, err
	}
	metrics.RecordTransition("start", "ok")
	m.logger.Info("challenge started",
		zap.String("interview_id", id),
		zap.String("challenge_id", rec.ChallengeID),
		zap.Time("submission_deadline", deadline))
	return updated, nil
}

// Submit moves started -> submitted, storing the artifact reference and
// notes. A submission arriving past the deadline is rejected with ErrExpired
// and the record is pushed to expired so it reflects truth.
func (m *Machine) Submit(id, artifactRef, notes string) (*models.InterviewRecord, error) {
	if artifactRef == "" {
		return nil, fmt.Errorf("empty artifact reference: %w", ErrInvalidArtifact)
	}

	rec, err := m.store.GetRecord(id)
	if err != nil {
		return nil, err
	}
	if rec.Status != models.StatusStarted {
		metrics.RecordTransition("submit", "rejected")
		return nil, fmt.Errorf("submit from status %q: %w", rec.Status, ErrInvalidState)
	}

	now := m.clock.Now()
	if gate := EvaluateGate(rec, now); gate == GateExpiredBeforeSubmit {
		if _, err := m.expireIgnoringRace(rec, gate); err != nil {
			return nil, err
		}
		metrics.RecordTransition("submit", "expired")
		return nil, fmt.Errorf("submission deadline %s passed: %w",
			rec.SubmissionDeadline.Format(time.RFC3339), ErrExpired)
	}

	updated, err := m.store.TryUpdate(id, models.StatusStarted, map[string]interface{}{
		"status":                  models.StatusSubmitted,
		"submitted_at":            &now,
		"submission_artifact_ref": artifactRef,
		"submission_notes":        notes,
	})
	if err != nil {
		metrics.RecordTransition("submit", outcomeFor(err))
		return nil, err
	}
	metrics.RecordTransition("submit", "ok")
	m.logger.Info("submission received",
		zap.String("interview_id", id),
		zap.String("artifact_ref", artifactRef))
	return updated, nil
}

// BeginAnalysis moves submitted -> evaluating. This runs before the external
// analysis is invoked so a crash mid-analysis leaves a visibly stuck record
// instead of silently reverting.
func (m *Machine) BeginAnalysis(id string) (*models.InterviewRecord, error) {
	rec, err := m.store.GetRecord(id)
	if err != nil {
		return nil, err
	}
	if rec.Status != models.StatusSubmitted {
		metrics.RecordTransition("analyze", "rejected")
		return nil, fmt.Errorf("analyze from status %q: %w", rec.Status, ErrInvalidState)
	}
	updated, err := m.store.TryUpdate(id, models.StatusSubmitted, map[string]interface{}{
		"status": models.StatusEvaluating,
	})
	if err != nil {
		metrics.RecordTransition("analyze", outcomeFor(err))
		return nil, err
	}
	metrics.RecordTransition("analyze", "ok")
	return updated, nil
}

// CompleteAnalysis moves evaluating -> evaluated, attaching the evaluation.
func (m *Machine) CompleteAnalysis(id string, eval models.Evaluation) (*models.InterviewRecord, error) {
	if err := eval.Validate(); err != nil {
		return nil, fmt.Errorf("analysis result rejected: %v: %w", err, ErrUpstream)
	}
	rec, err := m.store.GetRecord(id)
	if err != nil {
		return nil, err
	}
	if rec.Status != models.StatusEvaluating {
		metrics.RecordTransition("analysis-complete", "rejected")
		return nil, fmt.Errorf("analysis-complete from status %q: %w", rec.Status, ErrInvalidState)
	}
	updated, err := m.store.TryUpdate(id, models.StatusEvaluating, map[string]interface{}{
		"status":     models.StatusEvaluated,
		"evaluation": &eval,
	})
	if err != nil {
		metrics.RecordTransition("analysis-complete", outcomeFor(err))
		return nil, err
	}
	metrics.RecordTransition("analysis-complete", "ok")
	m.logger.Info("evaluation attached",
		zap.String("interview_id", id),
		zap.String("recommendation", string(eval.Recommendation)),
		zap.Float64("overall_score", eval.OverallScore))
	return updated, nil
}

// FailAnalysis moves evaluating -> submitted so the analysis can be retried.
// A supervisor may also call this for records stuck in evaluating.
func (m *Machine) FailAnalysis(id string) (*models.InterviewRecord, error) {
	rec, err := m.store.GetRecord(id)
	if err != nil {
		return nil, err
	}
	if rec.Status != models.StatusEvaluating {
		metrics.RecordTransition("analysis-failed", "rejected")
		return nil, fmt.Errorf("analysis-failed from status %q: %w", rec.Status, ErrInvalidState)
	}
	updated, err := m.store.TryUpdate(id, models.StatusEvaluating, map[string]interface{}{
		"status": models.StatusSubmitted,
	})
	if err != nil {
		metrics.RecordTransition("analysis-failed", outcomeFor(err))
		return nil, err
	}
	metrics.RecordTransition("analysis-failed", "ok")
	m.logger.Warn("analysis failed, record returned for retry",
		zap.String("interview_id", id))
	return updated, nil
}

// expire applies the expired transition guarded on the status the gate saw.
func (m *Machine) expire(rec *models.InterviewRecord, gate GateResult) (*models.InterviewRecord, error) {
	from := models.StatusSent
	if gate == GateExpiredBeforeSubmit {
		from = models.StatusStarted
	}
	updated, err := m.store.TryUpdate(rec.ID, from, map[string]interface{}{
		"status": models.StatusExpired,
	})
	if err != nil {
		metrics.RecordTransition("expire", outcomeFor(err))
		return nil, err
	}
	metrics.RecordTransition("expire", "ok")
	m.logger.Info("interview expired",
		zap.String("interview_id", rec.ID),
		zap.String("from_status", string(from)))
	return updated, nil
}

// expireIgnoringRace persists an expiry but treats losing the race as
// success: whoever won has already moved the record off the gated status.
func (m *Machine) expireIgnoringRace(rec *models.InterviewRecord, gate GateResult) (*models.InterviewRecord, error) {
	updated, err := m.expire(rec, gate)
	if errors.Is(err, ErrStaleTransition) {
		return m.store.GetRecord(rec.ID)
	}
	return updated, err
}

func outcomeFor(err error) string {
	switch {
	case errors.Is(err, ErrStaleTransition):
		return "stale"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	default:
		return "error"
	}
}
