package cli

import (
	"fmt"
	"log"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"autoapply/models"
)

var (
	autoSubmit bool
	noPrompt   bool
	jobLimit   int
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Process every job in the jobs directory once",
	RunE: func(cmd *cobra.Command, args []string) error {
		runner, _, db, err := buildRunner(autoSubmit, noPrompt)
		if err != nil {
			return err
		}
		if db != nil {
			defer db.Close()
		}

		jobs, err := models.LoadJobs(jobsDir)
		if err != nil {
			return fmt.Errorf("loading jobs from %s: %w", jobsDir, err)
		}
		if len(jobs) == 0 {
			log.Printf("No jobs found in %s", jobsDir)
			return nil
		}
		if jobLimit > 0 && len(jobs) > jobLimit {
			jobs = jobs[:jobLimit]
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		summary, err := runner.RunBatch(ctx, jobs)
		if err != nil {
			return err
		}
		fmt.Printf("Run %s: %d processed, %d submitted, %d ready for review, %d failed, %d skipped\n",
			summary.RunID, summary.Processed, summary.Submitted, summary.Ready,
			summary.Failed, summary.Skipped)
		return nil
	},
}

func init() {
	runCmd.Flags().BoolVar(&autoSubmit, "submit", false, "actually click submit instead of stopping at review")
	runCmd.Flags().BoolVar(&noPrompt, "no-prompt", false, "fail on login walls instead of waiting for a human")
	runCmd.Flags().IntVar(&jobLimit, "limit", 0, "process at most N jobs (0 = all)")
}
