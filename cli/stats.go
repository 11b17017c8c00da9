package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"autoapply/config"
	"autoapply/models"
	"autoapply/services"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize the submission ledger",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.GetAppConfig()
		ledger, err := services.OpenSubmissionLedger(cfg.LedgerPath)
		if err != nil {
			return fmt.Errorf("opening ledger: %w", err)
		}

		submitted, failed := ledger.Stats()
		fmt.Printf("Submitted: %d\nFailed:    %d\n\n", submitted, failed)

		entries := ledger.Entries()
		ids := make([]string, 0, len(entries))
		for id := range entries {
			ids = append(ids, id)
		}
		sort.Strings(ids)

		for _, id := range ids {
			fmt.Println(entryLine(entries[id]))
		}
		return nil
	},
}

// entryLine renders one ledger entry for the listing. Timestamps are
// optional in the ledger schema, so a missing one never panics the summary.
func entryLine(e models.SubmissionEntry) string {
	switch e.Status {
	case models.StatusSubmitted:
		when := "date unknown"
		if e.SubmittedAt != nil {
			when = e.SubmittedAt.Format("2006-01-02")
		}
		return fmt.Sprintf("  ✓ %s @ %s (%s)", e.JobTitle, e.Company, when)
	default:
		return fmt.Sprintf("  ✗ %s @ %s: %s", e.JobTitle, e.Company, e.Error)
	}
}
