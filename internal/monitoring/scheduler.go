package monitoring

import (
	"context"
	"fmt"
	"time"

	"github.com/isdelr/fintrack-be/internal/models"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

type passRunner interface {
	RunPass(ctx context.Context) (models.PassSummary, error)
}

// Scheduler triggers balance check passes on a cron schedule.
type Scheduler struct {
	runner  passRunner
	cron    *cron.Cron
	spec    string
	timeout time.Duration
	done    chan struct{}
}

// NewScheduler creates a scheduler firing runner on spec (standard five-field
// cron) evaluated in loc. Each pass is bounded by timeout when positive.
func NewScheduler(runner passRunner, spec string, loc *time.Location, timeout time.Duration) (*Scheduler, error) {
	if loc == nil {
		loc = time.UTC
	}
	s := &Scheduler{
		runner:  runner,
		cron:    cron.New(cron.WithLocation(loc)),
		spec:    spec,
		timeout: timeout,
		done:    make(chan struct{}),
	}
	if _, err := s.cron.AddFunc(spec, s.runPass); err != nil {
		return nil, fmt.Errorf("invalid alert schedule %q: %w", spec, err)
	}
	return s, nil
}

// Run starts the cron loop and blocks until Stop is called.
func (s *Scheduler) Run() {
	log.Info().Str("schedule", s.spec).Msg("Starting balance check scheduler...")
	s.cron.Start()
	<-s.done
}

// Stop halts the scheduler and waits for a running pass to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	close(s.done)
	log.Info().Msg("Stopped balance check scheduler.")
}

// Next reports when the next pass will run.
func (s *Scheduler) Next() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

func (s *Scheduler) runPass() {
	ctx := context.Background()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	log.Info().Msg("Scheduler: running daily balance check")
	summary, err := s.runner.RunPass(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Scheduler: balance check pass failed")
		return
	}
	log.Info().
		Int("evaluated", summary.Evaluated).
		Int("sent", summary.Sent).
		Int("failed", summary.Failed).
		Dur("took", summary.Duration).
		Msg("Scheduler: balance check pass finished")
}
