package lifecycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/gabeliss/kandidly/internal/models"
)

func TestEvaluateGate(t *testing.T) {
	deadline := time.Date(2025, 6, 8, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		rec  models.InterviewRecord
		now  time.Time
		want GateResult
	}{
		{
			name: "sent inside window",
			rec:  models.InterviewRecord{Status: models.StatusSent, ExpiresAt: &deadline},
			now:  deadline.Add(-time.Second),
			want: GateActive,
		},
		{
			name: "sent exactly at deadline is still active",
			rec:  models.InterviewRecord{Status: models.StatusSent, ExpiresAt: &deadline},
			now:  deadline,
			want: GateActive,
		},
		{
			name: "sent past window",
			rec:  models.InterviewRecord{Status: models.StatusSent, ExpiresAt: &deadline},
			now:  deadline.Add(time.Second),
			want: GateExpiredBeforeStart,
		},
		{
			name: "started inside deadline",
			rec:  models.InterviewRecord{Status: models.StatusStarted, SubmissionDeadline: &deadline},
			now:  deadline.Add(-time.Second),
			want: GateActive,
		},
		{
			name: "started past deadline",
			rec:  models.InterviewRecord{Status: models.StatusStarted, SubmissionDeadline: &deadline},
			now:  deadline.Add(time.Second),
			want: GateExpiredBeforeSubmit,
		},
		{
			name: "created has no window",
			rec:  models.InterviewRecord{Status: models.StatusCreated},
			now:  deadline.Add(365 * 24 * time.Hour),
			want: GateActive,
		},
		{
			name: "submitted never expires",
			rec:  models.InterviewRecord{Status: models.StatusSubmitted, SubmissionDeadline: &deadline},
			now:  deadline.Add(time.Hour),
			want: GateActive,
		},
		{
			name: "evaluated never expires",
			rec:  models.InterviewRecord{Status: models.StatusEvaluated, ExpiresAt: &deadline},
			now:  deadline.Add(time.Hour),
			want: GateActive,
		},
		{
			name: "expired stays as-is",
			rec:  models.InterviewRecord{Status: models.StatusExpired, ExpiresAt: &deadline},
			now:  deadline.Add(time.Hour),
			want: GateActive,
		},
		{
			name: "sent without expiry stamp never gates",
			rec:  models.InterviewRecord{Status: models.StatusSent},
			now:  deadline.Add(time.Hour),
			want: GateActive,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EvaluateGate(&tt.rec, tt.now)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want != GateActive, got.Expired())
		})
	}
}
