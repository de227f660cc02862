package jobs

import (
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/gabeliss/kandidly/internal/lifecycle"
	"github.com/gabeliss/kandidly/internal/metrics"
	"github.com/gabeliss/kandidly/internal/models"
)

// ExpirableLister finds records whose time window has already closed.
type ExpirableLister interface {
	ListExpirable(now time.Time) ([]models.InterviewRecord, error)
}

// ExpirySweeper eagerly expires records the candidate never reopens. The
// lazy candidate-read path applies the same gate, so the sweep is a safety
// net, not the sole authority. Losing a sweep cycle is non-fatal; the next
// cycle or the next candidate read catches it.
type ExpirySweeper struct {
	lister   ExpirableLister
	machine  *lifecycle.Machine
	clock    lifecycle.Clock
	schedule string
	cron     *cron.Cron
	logger   *zap.Logger
}

func NewExpirySweeper(lister ExpirableLister, machine *lifecycle.Machine, clock lifecycle.Clock, schedule string, logger *zap.Logger) *ExpirySweeper {
	if clock == nil {
		clock = lifecycle.SystemClock{}
	}
	return &ExpirySweeper{
		lister:   lister,
		machine:  machine,
		clock:    clock,
		schedule: schedule,
		cron:     cron.New(),
		logger:   logger,
	}
}

// Start begins the scheduled sweep.
func (s *ExpirySweeper) Start() error {
	_, err := s.cron.AddFunc(s.schedule, func() {
		if err := s.RunSweep(); err != nil {
			s.logger.Error("expiry sweep failed", zap.Error(err))
		}
	})
	if err != nil {
		return err
	}
	s.cron.Start()
	s.logger.Info("expiry sweeper started", zap.String("schedule", s.schedule))
	return nil
}

// Stop stops the scheduled sweep.
func (s *ExpirySweeper) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

// RunSweep performs a single sweep cycle. GetCurrent re-reads each record
// and applies the shared gate predicate through a conditional update, with
// one built-in retry on a stale transition.
func (s *ExpirySweeper) RunSweep() error {
	candidates, err := s.lister.ListExpirable(s.clock.Now())
	if err != nil {
		metrics.RecordSweep("error")
		return err
	}
	if len(candidates) == 0 {
		metrics.RecordSweep("noop")
		return nil
	}

	expired := 0
	for _, rec := range candidates {
		updated, err := s.machine.GetCurrent(rec.ID)
		if err != nil {
			// record may have been deleted between list and read
			s.logger.Warn("sweep skipped record",
				zap.String("interview_id", rec.ID),
				zap.Error(err))
			continue
		}
		if updated.Status == models.StatusExpired {
			expired++
		}
	}

	metrics.RecordSweep("ok")
	s.logger.Info("expiry sweep finished",
		zap.Int("candidates", len(candidates)),
		zap.Int("expired", expired))
	return nil
}
