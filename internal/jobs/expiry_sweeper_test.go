package jobs

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gabeliss/kandidly/internal/lifecycle"
	"github.com/gabeliss/kandidly/internal/models"
	"github.com/gabeliss/kandidly/internal/repositories"
	"github.com/gabeliss/kandidly/internal/testhelpers"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

func newSweeperFixture(t *testing.T) (*ExpirySweeper, *repositories.InterviewRepository, time.Time) {
	t.Helper()
	db := testhelpers.SetupTestDB(t)
	repo := &repositories.InterviewRepository{DB: db}
	challenges := &repositories.ChallengeRepository{DB: db}
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	clock := fixedClock{now: now}
	machine := lifecycle.NewMachine(repo, challenges, clock, 7*24*time.Hour, zap.NewNop())
	sweeper := NewExpirySweeper(repo, machine, clock, "@every 5m", zap.NewNop())
	return sweeper, repo, now
}

func seed(t *testing.T, repo *repositories.InterviewRepository, status models.Status, mutate func(*models.InterviewRecord)) *models.InterviewRecord {
	t.Helper()
	rec := &models.InterviewRecord{
		ID:             uuid.New().String(),
		CandidateName:  "Alan Turing",
		CandidateEmail: "alan@example.com",
		Position:       "Engineer",
		CompanyID:      "company-1",
		CreatedBy:      "user-1",
		ChallengeID:    "ch-1",
		Status:         status,
	}
	if mutate != nil {
		mutate(rec)
	}
	require.NoError(t, repo.Create(rec))
	return rec
}

func TestRunSweepExpiresOverdueRecords(t *testing.T) {
	sweeper, repo, now := newSweeperFixture(t)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	overdueSent := seed(t, repo, models.StatusSent, func(r *models.InterviewRecord) {
		r.ExpiresAt = &past
	})
	overdueStarted := seed(t, repo, models.StatusStarted, func(r *models.InterviewRecord) {
		r.SubmissionDeadline = &past
	})
	activeSent := seed(t, repo, models.StatusSent, func(r *models.InterviewRecord) {
		r.ExpiresAt = &future
	})
	submitted := seed(t, repo, models.StatusSubmitted, func(r *models.InterviewRecord) {
		r.SubmissionDeadline = &past
	})

	require.NoError(t, sweeper.RunSweep())

	for _, tc := range []struct {
		id   string
		want models.Status
	}{
		{overdueSent.ID, models.StatusExpired},
		{overdueStarted.ID, models.StatusExpired},
		{activeSent.ID, models.StatusSent},
		{submitted.ID, models.StatusSubmitted},
	} {
		got, err := repo.GetRecord(tc.id)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got.Status)
	}
}

func TestRunSweepEmptyIsNoop(t *testing.T) {
	sweeper, _, _ := newSweeperFixture(t)

	assert.NoError(t, sweeper.RunSweep())
}

func TestRunSweepIsIdempotent(t *testing.T) {
	sweeper, repo, now := newSweeperFixture(t)
	past := now.Add(-time.Hour)

	rec := seed(t, repo, models.StatusSent, func(r *models.InterviewRecord) {
		r.ExpiresAt = &past
	})

	require.NoError(t, sweeper.RunSweep())
	require.NoError(t, sweeper.RunSweep())

	got, err := repo.GetRecord(rec.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusExpired, got.Status)
}
