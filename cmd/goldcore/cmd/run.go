package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/evdnx/goldcore/broker/simulator"
	"github.com/evdnx/goldcore/config"
	"github.com/evdnx/goldcore/controller"
	"github.com/evdnx/goldcore/logging"
	"github.com/evdnx/goldcore/market"
	"github.com/evdnx/goldcore/metrics"
	"github.com/evdnx/goldcore/store"
	"github.com/evdnx/goldcore/uievents"
)

var (
	runConfigPath  string
	runStateDir    string
	runTicks       int
	runStartBalance float64
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Drive the controller against the simulator for N ticks",
	Long: `Run loads a configuration file, builds the controller against an
in-process simulated terminal, and advances it one tick at a time until
the requested tick count is reached or SIGINT/SIGTERM is received.

Example:
  goldcore run -f configs/xau.yaml -n 100`,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runConfigPath, "config", "f", "", "path to config file (YAML or JSON) (required)")
	runCmd.Flags().StringVarP(&runStateDir, "state-dir", "s", "./goldcore-state", "directory for the JSON snapshot, backup ring, and SQLite mirror")
	runCmd.Flags().IntVarP(&runTicks, "ticks", "n", 0, "number of ticks to run (0 = run until interrupted)")
	runCmd.Flags().Float64Var(&runStartBalance, "balance", 100_000, "starting simulator balance")
	runCmd.MarkFlagRequired("config")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromFile(runConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logging.New()
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer log.Sync()

	if err := os.MkdirAll(runStateDir, 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	st, err := store.New(runStateDir, filepath.Join(runStateDir, "trades.db"))
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	if err := st.Recover(); err != nil {
		log.Warn("state_recovery_failed", logging.Err(err))
	}

	if _, ok := market.Instruments[cfg.Symbol]; !ok {
		return fmt.Errorf("unknown instrument %q", cfg.Symbol)
	}

	term := simulator.New(runStartBalance, 0.05)

	period, err := cfg.PeriodDuration()
	if err != nil {
		return fmt.Errorf("parse period: %w", err)
	}
	term.LoadBars(cfg.Symbol, syntheticWarmupBars(cfg.Symbol, cfg.BarsToFetch, period))

	m := metrics.New()
	events := uievents.NewQueue(64)
	ctrl := controller.New(cfg, term, st, log, m, events)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ticker := time.NewTicker(time.Duration(cfg.TickSeconds) * time.Second)
	defer ticker.Stop()

	tickCount := 0
	for {
		select {
		case <-ctx.Done():
			log.Info("shutdown_signal_received")
			return st.Flush()
		case <-ticker.C:
			if err := ctrl.Tick(ctx); err != nil {
				log.Error("tick_failed", logging.Err(err))
			}
			tickCount++
			if runTicks > 0 && tickCount >= runTicks {
				return st.Flush()
			}
		}
	}
}

// syntheticWarmupBars seeds the simulator with a mildly uptrending series so
// the indicator pipeline has the history it needs before any live bars are
// fed in through a future live-terminal wiring. It is deliberately dull: no
// pattern is intended to form from it alone.
func syntheticWarmupBars(symbol string, n int, period time.Duration) []market.Bar {
	start := 1900.0
	now := time.Now().UTC().Add(-time.Duration(n) * period)
	bars := make([]market.Bar, n)
	price := start
	for i := 0; i < n; i++ {
		price += 0.05
		bars[i] = market.Bar{
			Time:  now.Add(time.Duration(i) * period),
			Open:  price - 0.1,
			High:  price + 0.2,
			Low:   price - 0.2,
			Close: price,
		}
	}
	return bars
}
