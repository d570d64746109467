package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rustyeddy/rotator/backtest"
	"github.com/rustyeddy/rotator/broker"
	"github.com/rustyeddy/rotator/config"
	"github.com/rustyeddy/rotator/internal/feed"
	"github.com/rustyeddy/rotator/internal/logger"
	"github.com/rustyeddy/rotator/journal"
	"github.com/rustyeddy/rotator/metrics"
)

var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Run the rotation backtest over CSV bar files",
	Long: `Backtest loads <data dir>/<TICKER>.csv for the benchmark and every
candidate, annotates them and replays the rotation day by day.

The trade ledger (trades_log.csv) and the per-trade return series
(returns.csv) are written to the report directory.

Example:
  rotator backtest -c rotation.yaml --start 2023-01-01 --end 2024-01-01`,
	RunE: runBacktest,
}

var (
	btConfigPath   string
	btDataDir      string
	btStart        string
	btEnd          string
	btMaxPositions int
	btOutDir       string
	btJournal      string
)

func init() {
	rootCmd.AddCommand(backtestCmd)

	backtestCmd.Flags().StringVarP(&btConfigPath, "config", "c", "", "config file (default settings when empty)")
	backtestCmd.Flags().StringVar(&btDataDir, "data", "", "directory holding <TICKER>.csv files")
	backtestCmd.Flags().StringVar(&btStart, "start", "", "first date to replay (YYYY-MM-DD)")
	backtestCmd.Flags().StringVar(&btEnd, "end", "", "end date, exclusive (YYYY-MM-DD)")
	backtestCmd.Flags().IntVarP(&btMaxPositions, "max-positions", "m", 0, "maximum concurrent positions")
	backtestCmd.Flags().StringVarP(&btOutDir, "out", "o", "", "report output directory")
	backtestCmd.Flags().StringVar(&btJournal, "journal", "", "journal type (none, csv, sqlite, postgres, paper)")
}

func loadBacktestConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()
	if btConfigPath != "" {
		var err error
		if cfg, err = config.LoadFromFile(btConfigPath); err != nil {
			return nil, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("data") {
		cfg.Data.Dir = btDataDir
	}
	if flags.Changed("start") {
		cfg.Data.Start = btStart
	}
	if flags.Changed("end") {
		cfg.Data.End = btEnd
	}
	if flags.Changed("max-positions") {
		cfg.Strategy.MaxPositions = btMaxPositions
	}
	if flags.Changed("out") {
		cfg.Report.Dir = btOutDir
	}
	if flags.Changed("journal") {
		cfg.Journal.Type = btJournal
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runBacktest(cmd *cobra.Command, args []string) error {
	cfg, err := loadBacktestConfig(cmd)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	defer log.Sync()

	start, end, err := cfg.Data.Range()
	if err != nil {
		return err
	}

	src := feed.NewCache(feed.CSVSource{Dir: cfg.Data.Dir})
	bench, cands, err := feed.LoadUniverse(cmd.Context(), src, feed.Request{
		Universe:  cfg.Strategy.Universe,
		Start:     start,
		End:       end,
		SMAWindow: cfg.Strategy.SMAWindow,
		ATRWindow: cfg.Strategy.ATRWindow,
	}, log)
	if err != nil {
		return fmt.Errorf("load data: %w", err)
	}

	j, store, err := openJournal(cmd, cfg, log)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer j.Close()

	var rec *metrics.Recorder
	if cfg.Metrics.Textfile != "" {
		rec = metrics.NewRecorder()
	}

	engine, err := backtest.NewEngine(cfg.Backtest(),
		backtest.WithLogger(log),
		backtest.WithJournal(j),
		backtest.WithMetrics(rec),
	)
	if err != nil {
		return err
	}

	res, err := engine.Run(bench, cands)
	if err != nil {
		return fmt.Errorf("backtest: %w", err)
	}

	if err := writeReports(cfg.Report.Dir, res); err != nil {
		return err
	}

	if store != nil {
		s := backtest.Summarize(res)
		err := store.RecordRun(journal.RunSummary{
			RunID:        res.RunID,
			Created:      time.Now().UTC(),
			Benchmark:    cfg.Strategy.Benchmark,
			Start:        res.Start,
			End:          res.End,
			MaxPositions: cfg.Strategy.MaxPositions,
			Trades:       s.Trades,
			Wins:         s.Wins,
			Losses:       s.Losses,
			NetPnL:       s.NetPnL,
			MaxDrawdown:  s.MaxDrawdown,
		})
		if err != nil {
			log.Warn("run summary not stored", zap.Error(err))
		}
	}

	if err := rec.WriteTextfile(cfg.Metrics.Textfile); err != nil {
		log.Warn("metrics textfile not written", zap.Error(err))
	}

	backtest.PrintSummary(cmd.OutOrStdout(), cfg.Backtest(), res)
	return nil
}

// openJournal returns the configured sink. store is set when the sink is
// the SQLite journal so the run summary can be added.
func openJournal(cmd *cobra.Command, cfg *config.Config, log *zap.Logger) (journal.Journal, *journal.SQLite, error) {
	j, store, err := openPrimaryJournal(cmd, cfg, log)
	if err != nil {
		return nil, nil, err
	}

	switch cfg.Journal.Type {
	case "none", "csv":
		return j, store, nil
	}
	if cfg.Journal.TradesFile == "" {
		return j, store, nil
	}

	ledger, err := journal.NewCSV(cfg.Journal.TradesFile)
	if err != nil {
		j.Close()
		return nil, nil, err
	}
	return journal.Multi{j, ledger}, store, nil
}

func openPrimaryJournal(cmd *cobra.Command, cfg *config.Config, log *zap.Logger) (j journal.Journal, store *journal.SQLite, err error) {
	switch cfg.Journal.Type {
	case "csv":
		j, err = journal.NewCSV(cfg.Journal.TradesFile)
	case "sqlite":
		store, err = journal.NewSQLite(cfg.Journal.DBPath)
		j = store
	case "postgres":
		j, err = journal.OpenPostgres(cmd.Context(), cfg.Journal.DSN, string(cfg.Strategy.OrderType), 10*time.Second)
	case "paper":
		j = broker.NewSink(broker.NewPaper(), cfg.Strategy.OrderType, cfg.Strategy.LimitPercent, log)
	default:
		j = journal.Noop{}
	}
	if err != nil {
		return nil, nil, err
	}
	return j, store, nil
}

func writeReports(dir string, res *backtest.Result) error {
	if dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("report dir: %w", err)
	}

	write := func(name string, fn func(*os.File) error) error {
		f, err := os.Create(filepath.Join(dir, name))
		if err != nil {
			return err
		}
		if err := fn(f); err != nil {
			f.Close()
			return fmt.Errorf("write %s: %w", name, err)
		}
		return f.Close()
	}

	if err := write("trades_log.csv", func(f *os.File) error { return backtest.WriteLedgerCSV(f, res) }); err != nil {
		return err
	}
	return write("returns.csv", func(f *os.File) error { return backtest.WriteReturnsCSV(f, res) })
}
