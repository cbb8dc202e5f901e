// Package cmd - github command
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/CruGlobal/datadog-custom-costs/internal/config"
	"github.com/CruGlobal/datadog-custom-costs/internal/errors"
	"github.com/CruGlobal/datadog-custom-costs/providers/github"
)

var (
	githubDate   string
	githubYear   int
	githubMonth  int
	githubDay    int
	githubDryRun bool
	githubOutput string
)

// githubCmd represents the github command
var githubCmd = &cobra.Command{
	Use:   "github",
	Short: "Process GitHub billing usage costs",
	Long: `Fetch organization billing usage from the GitHub API and upload
FOCUS records to Datadog.

The scope is a single day by default; --year (optionally with --month and
--day) widens it. Month and year scopes pin the charge period to the first
day of the scope.

Examples:
  custom-costs github --dry-run
  custom-costs github --date 2025-12-22
  custom-costs github --year 2025 --month 12`,
	RunE: runGitHub,
}

func init() {
	githubCmd.Flags().StringVar(&githubDate, "date", "", "billing date in YYYY-MM-DD format (default: yesterday)")
	githubCmd.Flags().IntVar(&githubYear, "year", 0, "year to fetch")
	githubCmd.Flags().IntVar(&githubMonth, "month", 0, "month to fetch (1-12, requires --year)")
	githubCmd.Flags().IntVar(&githubDay, "day", 0, "day to fetch (1-31, requires --month)")
	githubCmd.Flags().BoolVar(&githubDryRun, "dry-run", false, "calculate and print costs without uploading")
	githubCmd.Flags().StringVarP(&githubOutput, "output", "o", "table", "output format (table, json)")
}

func runGitHub(cmd *cobra.Command, args []string) error {
	if githubDate != "" && githubYear != 0 {
		return errors.Config("--date and --year are mutually exclusive")
	}

	var scope github.Scope
	if githubYear != 0 {
		scope = github.Scope{Year: githubYear, Month: githubMonth, Day: githubDay}
	} else {
		date, err := resolveDate(githubDate)
		if err != nil {
			return err
		}
		scope = github.ScopeForDate(date)
	}

	collector, err := github.NewCollectorWithScope(config.Get(), scope)
	if err != nil {
		return err
	}

	return runPipeline(collector, scope.ChargeDate(), githubDryRun, githubOutput)
}
