package cmd

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
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
	replayConfigPath  string
	replayBarsPath    string
	replayStateDir    string
	replayStartBalance float64
)

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Replay a CSV bar file through the controller",
	Long: `Replay feeds a CSV file of closed OHLC bars (time,open,high,low,close)
through the same decision path the live controller uses, against the
in-process simulator: the first Tick sees the first bars_to_fetch bars,
then one Tick runs per further bar as the window slides forward.

CSV rows may carry an optional header ("time,open,high,low,close").
Times are parsed as RFC3339, falling back to RFC3339Nano.

Example:
  goldcore replay -f configs/xau.yaml -b testdata/xau_1h.csv`,
	RunE: runReplay,
}

func init() {
	rootCmd.AddCommand(replayCmd)

	replayCmd.Flags().StringVarP(&replayConfigPath, "config", "f", "", "path to config file (YAML or JSON) (required)")
	replayCmd.Flags().StringVarP(&replayBarsPath, "bars", "b", "", "path to a CSV file of closed OHLC bars (required)")
	replayCmd.Flags().StringVarP(&replayStateDir, "state-dir", "s", "./goldcore-replay-state", "directory for the JSON snapshot, backup ring, and SQLite mirror")
	replayCmd.Flags().Float64Var(&replayStartBalance, "balance", 100_000, "starting simulator balance")
	replayCmd.MarkFlagRequired("config")
	replayCmd.MarkFlagRequired("bars")
}

func runReplay(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromFile(replayConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if _, ok := market.Instruments[cfg.Symbol]; !ok {
		return fmt.Errorf("unknown instrument %q", cfg.Symbol)
	}

	bars, err := loadBarCSV(replayBarsPath)
	if err != nil {
		return fmt.Errorf("load bars: %w", err)
	}
	if len(bars) < cfg.MinBarsRequired {
		return fmt.Errorf("replay file has %d bars, need at least %d", len(bars), cfg.MinBarsRequired)
	}

	log, err := logging.New()
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer log.Sync()

	if err := os.MkdirAll(replayStateDir, 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	st, err := store.New(replayStateDir, filepath.Join(replayStateDir, "trades.db"))
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	term := simulator.New(replayStartBalance, 0.05)
	m := metrics.New()
	events := uievents.NewQueue(256)
	ctrl := controller.New(cfg, term, st, log, m, events)

	ctx := context.Background()
	if _, err := term.Connect(ctx, "replay", "replay", "replay", ""); err != nil {
		return fmt.Errorf("connect simulator: %w", err)
	}

	window := cfg.BarsToFetch
	if window > len(bars) {
		window = len(bars)
	}

	ticksRun := 0
	for end := window; end <= len(bars); end++ {
		start := end - window
		term.LoadBars(cfg.Symbol, bars[start:end])
		if err := ctrl.Tick(ctx); err != nil {
			log.Error("tick_failed", logging.Err(err))
		}
		ticksRun++
	}

	if err := st.Flush(); err != nil {
		return fmt.Errorf("final flush: %w", err)
	}

	closed := st.GetClosedTrades()
	fmt.Printf("replay complete: %d ticks, %d closed trades\n", ticksRun, len(closed))
	return nil
}

// loadBarCSV parses a CSV file of closed OHLC bars into market.Bar values,
// skipping a header row if the first column reads "time" case-insensitively
// (mirrors the old tick-CSV replay's header-sniffing idiom).
func loadBarCSV(path string) ([]market.Bar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	var bars []market.Bar
	first := true
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", len(bars)+1, err)
		}
		if first {
			first = false
			if len(row) > 0 && strings.EqualFold(strings.TrimSpace(row[0]), "time") {
				continue
			}
		}
		bar, err := parseBarRow(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", len(bars)+1, err)
		}
		bars = append(bars, bar)
	}
	return bars, nil
}

func parseBarRow(row []string) (market.Bar, error) {
	if len(row) < 5 {
		return market.Bar{}, fmt.Errorf("expected at least 5 columns (time,open,high,low,close), got %d", len(row))
	}

	ts, err := time.Parse(time.RFC3339, strings.TrimSpace(row[0]))
	if err != nil {
		ts, err = time.Parse(time.RFC3339Nano, strings.TrimSpace(row[0]))
		if err != nil {
			return market.Bar{}, fmt.Errorf("parse time %q: %w", row[0], err)
		}
	}

	open, err := strconv.ParseFloat(strings.TrimSpace(row[1]), 64)
	if err != nil {
		return market.Bar{}, fmt.Errorf("parse open %q: %w", row[1], err)
	}
	high, err := strconv.ParseFloat(strings.TrimSpace(row[2]), 64)
	if err != nil {
		return market.Bar{}, fmt.Errorf("parse high %q: %w", row[2], err)
	}
	low, err := strconv.ParseFloat(strings.TrimSpace(row[3]), 64)
	if err != nil {
		return market.Bar{}, fmt.Errorf("parse low %q: %w", row[3], err)
	}
	closePx, err := strconv.ParseFloat(strings.TrimSpace(row[4]), 64)
	if err != nil {
		return market.Bar{}, fmt.Errorf("parse close %q: %w", row[4], err)
	}

	bar := market.Bar{Time: ts.UTC(), Open: open, High: high, Low: low, Close: closePx}
	if len(row) >= 6 {
		if vol, err := strconv.ParseFloat(strings.TrimSpace(row[5]), 64); err == nil {
			bar.Volume = vol
		}
	}
	return bar, nil
}
