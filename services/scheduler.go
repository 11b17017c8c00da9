package services

import (
	"context"
	"fmt"
	"log"

	"github.com/robfig/cron/v3"

	"autoapply/models"
)

// Scheduler runs batches on a cron expression, for the overnight "apply to
// everything new in the jobs directory" workflow. Each tick reloads the
// jobs directory so new listings are picked up without a restart; the
// ledger keeps re-scanned jobs from being applied to twice.
type Scheduler struct {
	runner  *Runner
	jobsDir string
	cron    *cron.Cron
}

func NewScheduler(runner *Runner, jobsDir string) *Scheduler {
	return &Scheduler{
		runner:  runner,
		jobsDir: jobsDir,
		cron:    cron.New(),
	}
}

// Start registers the batch job on the given cron spec and starts the
// scheduler. Blocks until ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context, spec string) error {
	_, err := s.cron.AddFunc(spec, func() {
		jobs, err := models.LoadJobs(s.jobsDir)
		if err != nil {
			log.Printf("⚠️ Scheduled run: loading jobs from %s: %v", s.jobsDir, err)
			return
		}
		if len(jobs) == 0 {
			log.Printf("Scheduled run: no jobs in %s", s.jobsDir)
			return
		}
		if _, err := s.runner.RunBatch(ctx, jobs); err != nil {
			log.Printf("⚠️ Scheduled run failed: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid cron spec %q: %v", spec, err)
	}

	log.Printf("✓ Scheduler started with spec %q, watching %s", spec, s.jobsDir)
	s.cron.Start()
	<-ctx.Done()

	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
	log.Printf("✓ Scheduler stopped")
	return nil
}
