package lifecycle

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/gabeliss/kandidly/internal/models"
)

// Analyzer is the port to the external AI analysis process. It is opaque:
// rate limiting and provider retries live behind it.
type Analyzer interface {
	Analyze(ctx context.Context, challenge *models.Challenge, submissionNotes, artifactRef string) (*models.Evaluation, error)
}

// Evaluator drives the analyze / analysis-complete / analysis-failed
// transitions around an external analysis call.
type Evaluator struct {
	machine    *Machine
	challenges ChallengeStore
	analyzer   Analyzer
	logger     *zap.Logger
}

func NewEvaluator(machine *Machine, challenges ChallengeStore, analyzer Analyzer, logger *zap.Logger) *Evaluator {
	return &Evaluator{
		machine:    machine,
		challenges: challenges,
		analyzer:   analyzer,
		logger:     logger,
	}
}

// Run moves the record to evaluating, invokes the analysis, and finishes
// with evaluated on success or back to submitted on failure. The record is
// in evaluating while the external call is in flight; no lock is held.
func (e *Evaluator) Run(ctx context.Context, id string) (*models.InterviewRecord, error) {
	rec, err := e.machine.BeginAnalysis(id)
	if err != nil {
		return nil, err
	}

	challenge, err := e.challenges.GetChallenge(rec.ChallengeID)
	if err != nil {
		return nil, e.fail(id, fmt.Errorf("challenge lookup: %v: %w", err, ErrUpstream))
	}

	eval, err := e.analyzer.Analyze(ctx, challenge, rec.SubmissionNotes, rec.SubmissionArtifactRef)
	if err != nil {
		return nil, e.fail(id, fmt.Errorf("analysis: %v: %w", err, ErrUpstream))
	}

	updated, err := e.machine.CompleteAnalysis(id, *eval)
	if err != nil {
		return nil, e.fail(id, err)
	}
	return updated, nil
}

// fail converts an analysis failure into the analysis-failed transition so
// the record lands back in a stable, retryable state, then surfaces cause.
func (e *Evaluator) fail(id string, cause error) error {
	if _, err := e.machine.FailAnalysis(id); err != nil {
		e.logger.Error("could not revert record after failed analysis",
			zap.String("interview_id", id),
			zap.Error(err))
	}
	e.logger.Error("analysis failed",
		zap.String("interview_id", id),
		zap.Error(cause))
	return cause
}
