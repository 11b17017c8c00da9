package cli

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"autoapply/services"
)

var cronSpec string

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run batches on a cron schedule until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		// Scheduled runs are unattended: no human to clear login walls,
		// and submission stays opt-in via --submit.
		runner, _, db, err := buildRunner(autoSubmit, true)
		if err != nil {
			return err
		}
		if db != nil {
			defer db.Close()
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		scheduler := services.NewScheduler(runner, jobsDir)
		return scheduler.Start(ctx, cronSpec)
	},
}

func init() {
	scheduleCmd.Flags().StringVar(&cronSpec, "cron", "0 2 * * *", "cron expression for batch runs")
	scheduleCmd.Flags().BoolVar(&autoSubmit, "submit", false, "actually click submit instead of stopping at review")
}
