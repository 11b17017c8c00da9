package cli

import (
	"database/sql"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"autoapply/config"
	"autoapply/database"
	"autoapply/models"
	"autoapply/services"
)

var (
	profilePath string
	jobsDir     string
)

var rootCmd = &cobra.Command{
	Use:   "autoapply",
	Short: "Adaptive form automation for job applications",
	Long: `autoapply drives a real browser through job application forms across
Greenhouse, Lever, Workday, Taleo and generic career sites, answering
questions from your profile with AI assistance and leaving each form
ready for your review (or submitting it, when you ask it to).`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&profilePath, "profile", "profile.json", "path to the candidate profile JSON")
	rootCmd.PersistentFlags().StringVar(&jobsDir, "jobs", "jobs", "directory of job listings to process")
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(scheduleCmd)
	rootCmd.AddCommand(statsCmd)
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

// buildRunner loads config, profile, ledger and the optional database, and
// wires the engine.
func buildRunner(autoSubmit, noPrompt bool) (*services.Runner, *services.SubmissionLedger, *sql.DB, error) {
	cfg := config.GetAppConfig()

	profile, err := models.LoadProfile(profilePath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("loading profile: %w", err)
	}

	ledger, err := services.OpenSubmissionLedger(cfg.LedgerPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("opening ledger: %w", err)
	}

	var db *sql.DB
	if cfg.Database.Enabled() {
		db, err = database.Connect(cfg.Database)
		if err != nil {
			log.Printf("⚠️ Attempt history database unavailable: %v", err)
			db = nil
		}
	}

	var prompter services.Prompter = services.NewStdinPrompter()
	if noPrompt {
		prompter = services.NoopPrompter{}
	}

	runner := services.NewRunner(cfg, profile, ledger, db, prompter)
	runner.AutoSubmit = autoSubmit
	return runner, ledger, db, nil
}
