package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/rotator/journal"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Query trade journal data",
	Long: `Query and display trade journal records from SQLite database.

Subcommands:
  trades - List trades, optionally of one run
  trade  - Get details of a specific trade by ID
  day    - List trades closed on a specific day
  runs   - List stored backtest runs

Examples:
  rotator journal trades --run 01HQ3K8Y7Z...
  rotator journal trade <trade-id>
  rotator journal day 2024-01-15`,
}

var journalTradesCmd = &cobra.Command{
	Use:   "trades",
	Short: "List trades",
	Args:  cobra.NoArgs,
	RunE:  runJournalTrades,
}

var journalTradeCmd = &cobra.Command{
	Use:   "trade <trade-id>",
	Short: "Get details of a specific trade",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalTrade,
}

var journalDayCmd = &cobra.Command{
	Use:   "day <YYYY-MM-DD>",
	Short: "List trades closed on a specific day",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalDay,
}

var journalRunsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List stored backtest runs",
	Args:  cobra.NoArgs,
	RunE:  runJournalRuns,
}

var (
	journalDBPath string
	journalRunID  string
)

func init() {
	rootCmd.AddCommand(journalCmd)
	journalCmd.AddCommand(journalTradesCmd)
	journalCmd.AddCommand(journalTradeCmd)
	journalCmd.AddCommand(journalDayCmd)
	journalCmd.AddCommand(journalRunsCmd)

	journalCmd.PersistentFlags().StringVarP(&journalDBPath, "db", "d", "./rotator.sqlite", "path to SQLite journal DB")
	journalTradesCmd.Flags().StringVar(&journalRunID, "run", "", "only trades of this run ID")
}

func openJournalDB() (*journal.SQLite, error) {
	j, err := journal.NewSQLite(journalDBPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	return j, nil
}

func runJournalTrades(cmd *cobra.Command, args []string) error {
	j, err := openJournalDB()
	if err != nil {
		return err
	}
	defer j.Close()

	recs, err := j.ListTrades(journalRunID)
	if err != nil {
		return fmt.Errorf("query trades: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), journal.FormatTradesOrg(recs))
	return nil
}

func runJournalTrade(cmd *cobra.Command, args []string) error {
	j, err := openJournalDB()
	if err != nil {
		return err
	}
	defer j.Close()

	rec, err := j.GetTrade(args[0])
	if err != nil {
		return fmt.Errorf("get trade: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), journal.FormatTradeOrg(rec))
	return nil
}

func runJournalDay(cmd *cobra.Command, args []string) error {
	j, err := openJournalDB()
	if err != nil {
		return err
	}
	defer j.Close()

	start, end, err := dayBounds(args[0])
	if err != nil {
		return fmt.Errorf("date: %w", err)
	}

	recs, err := j.ListTradesClosedBetween(start, end)
	if err != nil {
		return fmt.Errorf("query trades: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), journal.FormatTradesOrg(recs))
	return nil
}

func runJournalRuns(cmd *cobra.Command, args []string) error {
	j, err := openJournalDB()
	if err != nil {
		return err
	}
	defer j.Close()

	runs, err := j.ListRuns()
	if err != nil {
		return fmt.Errorf("query runs: %w", err)
	}

	out := cmd.OutOrStdout()
	for _, r := range runs {
		s, err := journal.FormatRunOrg(r)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, s)
	}
	return nil
}

// dayBounds returns [day, day+1) in UTC; ledger dates are UTC calendar days.
func dayBounds(day string) (time.Time, time.Time, error) {
	start, err := time.Parse(time.DateOnly, day)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, start.AddDate(0, 0, 1), nil
}
