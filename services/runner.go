package services

import (
	"context"
	"database/sql"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"autoapply/config"
	"autoapply/models"
	"autoapply/utils"
)

// RunSummary totals one batch run.
type RunSummary struct {
	RunID     string
	Processed int
	Submitted int
	Ready     int
	Failed    int
	Skipped   int
	Elapsed   time.Duration
}

// Runner executes a batch of jobs: one browser, up to MaxTabs concurrent
// tabs, a per-job timeout, and an optional Postgres trail of every attempt.
type Runner struct {
	cfg      config.AppConfig
	profile  *models.Profile
	ledger   *SubmissionLedger
	prompter Prompter

	engine     *DecisionEngine
	compliance *ComplianceRules
	strategies *StrategyResolver
	cache      *AnswerCache

	attempts *models.ApplicationAttemptModel
	fetcher  *ResumeFetcher

	// AutoSubmit is passed through to each orchestrator.
	AutoSubmit bool
}

// NewRunner wires the full engine from configuration. db may be nil;
// attempt history is then skipped.
func NewRunner(cfg config.AppConfig, profile *models.Profile, ledger *SubmissionLedger, db *sql.DB, prompter Prompter) *Runner {
	cache := NewAnswerCacheWithRedis(cfg.RedisURL)
	ai := NewAIClient(cfg.AI)
	limiter := NewRateLimiter(cfg.AI.MaxCalls, cfg.AI.Window)
	heuristic := NewHeuristicSelector(profile)

	r := &Runner{
		cfg:        cfg,
		profile:    profile,
		ledger:     ledger,
		prompter:   prompter,
		engine:     NewDecisionEngine(ai, cache, heuristic, limiter, profile),
		compliance: NewComplianceRules(profile),
		strategies: NewStrategyResolver(),
		cache:      cache,
	}

	if db != nil {
		r.attempts = &models.ApplicationAttemptModel{DB: db}
		if err := r.attempts.EnsureTable(); err != nil {
			log.Printf("⚠️ Attempt history disabled: %v", err)
			r.attempts = nil
		}
	}

	if profile.ResumeS3Key != "" {
		fetcher, err := NewResumeFetcher(cfg.AWSRegion, cfg.AWSBucket)
		if err != nil {
			log.Printf("⚠️ S3 resume fetch disabled: %v", err)
		} else {
			r.fetcher = fetcher
		}
	}

	return r
}

// RunBatch processes every job, at most MaxTabs at a time, and returns the
// batch totals. Individual job failures never abort the batch.
func (r *Runner) RunBatch(ctx context.Context, jobs []models.Job) (*RunSummary, error) {
	start := time.Now()
	summary := &RunSummary{RunID: uuid.New().String()}
	log.Printf("=== RUN %s: %d jobs ===", summary.RunID, len(jobs))

	runLog, err := utils.NewRunLog(filepath.Join("logs", "run-"+summary.RunID+".jsonl"))
	if err != nil {
		log.Printf("⚠️ Run log disabled: %v", err)
	}
	defer runLog.Close()
	runLog.Info("run_started", "", "batch started", map[string]int{"jobs": len(jobs)})

	browser, err := LaunchBrowser(r.cfg.Browser)
	if err != nil {
		runLog.Error("browser_launch", "", err.Error())
		return nil, err
	}
	defer browser.Close()
	defer r.cache.Close()

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.MaxTabs)

	for _, job := range jobs {
		job := job
		g.Go(func() error {
			result := r.processOne(gctx, browser, job, summary.RunID)
			logResult(runLog, job, result)
			mu.Lock()
			summary.Processed++
			switch result.State {
			case StateSubmitted:
				summary.Submitted++
			case StateReadyForReview:
				summary.Ready++
			case StateSkipped:
				summary.Skipped++
			default:
				summary.Failed++
			}
			mu.Unlock()
			return nil
		})
	}
	g.Wait()

	summary.Elapsed = time.Since(start)
	log.Printf("=== RUN %s COMPLETE: %d submitted, %d ready, %d failed, %d skipped in %s ===",
		summary.RunID, summary.Submitted, summary.Ready, summary.Failed, summary.Skipped,
		summary.Elapsed.Round(time.Second))
	runLog.Info("run_complete", "", "batch complete", summary)
	return summary, nil
}

func logResult(runLog *utils.RunLog, job models.Job, result FillResult) {
	msg := job.Title + " @ " + job.Company
	switch result.State {
	case StateFailed:
		errMsg := ""
		if result.Err != nil {
			errMsg = result.Err.Error()
		}
		runLog.Error("job_failed", job.ID(), msg, errMsg)
	case StateSubmitted:
		runLog.Info("job_submitted", job.ID(), msg, result.Evidence)
	default:
		runLog.Info("job_"+string(result.State), job.ID(), msg)
	}
}

func (r *Runner) processOne(ctx context.Context, browser *Browser, job models.Job, runID string) FillResult {
	jobCtx, cancel := context.WithTimeout(ctx, r.cfg.JobTimeout)
	defer cancel()

	page, err := browser.NewPage()
	if err != nil {
		log.Printf("⚠️ Could not open tab for %s: %v", job.ApplyURL, err)
		return FillResult{State: StateFailed, Err: err}
	}
	// In review mode the tab stays open so the human can submit.
	keepOpen := false
	defer func() {
		if !keepOpen {
			page.Close()
		}
	}()

	resumePath, cleanup := r.resumeFor(job)
	defer cleanup()

	orch := NewFormFillOrchestrator(page, r.strategies, r.engine, r.compliance, r.ledger, r.prompter, r.profile)
	orch.AutoSubmit = r.AutoSubmit

	result := orch.ProcessJob(jobCtx, job, resumePath)
	keepOpen = result.State == StateReadyForReview
	r.recordAttempt(job, runID, result)
	return result
}

// resumeFor resolves the resume to attach: a PDF next to the job listing
// first, then the profile's S3 key. The cleanup removes any temp download.
func (r *Runner) resumeFor(job models.Job) (string, func()) {
	noop := func() {}
	if path := job.ResumePath(); path != "" {
		return path, noop
	}
	if r.fetcher != nil && r.profile.ResumeS3Key != "" {
		path, err := r.fetcher.Fetch(r.profile.ResumeS3Key)
		if err != nil {
			log.Printf("⚠️ Resume download failed: %v", err)
			return "", noop
		}
		return path, func() { os.Remove(path) }
	}
	return "", noop
}

func (r *Runner) recordAttempt(job models.Job, runID string, result FillResult) {
	if r.attempts == nil {
		return
	}
	attempt := &models.ApplicationAttempt{
		RunID:    runID,
		JobID:    job.ID(),
		Company:  job.Company,
		Title:    job.Title,
		ApplyURL: job.ApplyURL,
		State:    string(result.State),
	}
	if result.Err != nil {
		attempt.ErrorMsg = result.Err.Error()
	}
	if result.Report != nil {
		attempt.Accuracy = result.Report.Accuracy
	}
	if err := r.attempts.Create(attempt); err != nil {
		log.Printf("⚠️ Could not record attempt for %s: %v", job.ID(), err)
	}
}
