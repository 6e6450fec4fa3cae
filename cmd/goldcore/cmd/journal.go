package cmd

import (
	"database/sql"
	"fmt"
	"text/tabwriter"
	"os"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/spf13/cobra"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Query closed trades mirrored into the SQLite trades table",
	Long: `Journal queries the SQLite tabular mirror the store writes on every
flush (see store/persistence.go). It never touches the JSON snapshot,
which remains the authoritative record.

Subcommands:
  trade  - show a single closed trade by ticket
  today  - list trades closed today
  day    - list trades closed on a specific day

Examples:
  goldcore journal trade 01HQZX3R7K
  goldcore journal today
  goldcore journal day 2024-01-15`,
}

var journalTradeCmd = &cobra.Command{
	Use:   "trade <ticket>",
	Short: "Show a single closed trade by ticket",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalTrade,
}

var journalTodayCmd = &cobra.Command{
	Use:   "today",
	Short: "List trades closed today",
	Args:  cobra.NoArgs,
	RunE:  runJournalToday,
}

var journalDayCmd = &cobra.Command{
	Use:   "day <YYYY-MM-DD>",
	Short: "List trades closed on a specific day",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalDay,
}

var journalDBPath string

func init() {
	rootCmd.AddCommand(journalCmd)
	journalCmd.AddCommand(journalTradeCmd)
	journalCmd.AddCommand(journalTodayCmd)
	journalCmd.AddCommand(journalDayCmd)

	journalCmd.PersistentFlags().StringVarP(&journalDBPath, "db", "d", "./goldcore-state/trades.db", "path to the SQLite trades mirror")
}

type closedTradeRow struct {
	Ticket     string
	EntryTime  time.Time
	ExitTime   time.Time
	EntryPrice float64
	ExitPrice  float64
	Profit     float64
	Volume     float64
	ExitReason string
	TP1Price   sql.NullFloat64
	TP2Price   sql.NullFloat64
	TP3Price   sql.NullFloat64
}

func openJournalDB() (*sql.DB, error) {
	db, err := sql.Open("sqlite3", journalDBPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	return db, nil
}

func scanTradeRow(row interface {
	Scan(dest ...any) error
}) (closedTradeRow, error) {
	var r closedTradeRow
	var entryTime, exitTime string
	err := row.Scan(
		&r.Ticket, &entryTime, &exitTime, &r.EntryPrice, &r.ExitPrice,
		&r.Profit, &r.Volume, &r.ExitReason, &r.TP1Price, &r.TP2Price, &r.TP3Price,
	)
	if err != nil {
		return closedTradeRow{}, err
	}
	r.EntryTime, err = time.Parse(time.RFC3339Nano, entryTime)
	if err != nil {
		return closedTradeRow{}, fmt.Errorf("parse entry_time: %w", err)
	}
	r.ExitTime, err = time.Parse(time.RFC3339Nano, exitTime)
	if err != nil {
		return closedTradeRow{}, fmt.Errorf("parse exit_time: %w", err)
	}
	return r, nil
}

const tradeSelectCols = `ticket, entry_time, exit_time, entry_price, exit_price, profit, volume, exit_reason, tp1_price, tp2_price, tp3_price`

func runJournalTrade(cmd *cobra.Command, args []string) error {
	db, err := openJournalDB()
	if err != nil {
		return err
	}
	defer db.Close()

	row := db.QueryRow(`SELECT `+tradeSelectCols+` FROM trades WHERE ticket = ?`, args[0])
	rec, err := scanTradeRow(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return fmt.Errorf("no trade found with ticket %q", args[0])
		}
		return fmt.Errorf("query trade: %w", err)
	}
	printTrades([]closedTradeRow{rec})
	return nil
}

func runJournalToday(cmd *cobra.Command, args []string) error {
	start, end, err := dayBounds(time.Local, time.Now().In(time.Local).Format("2006-01-02"))
	if err != nil {
		return fmt.Errorf("date: %w", err)
	}
	return runJournalRange(start, end)
}

func runJournalDay(cmd *cobra.Command, args []string) error {
	start, end, err := dayBounds(time.Local, args[0])
	if err != nil {
		return fmt.Errorf("date: %w", err)
	}
	return runJournalRange(start, end)
}

func runJournalRange(start, end time.Time) error {
	db, err := openJournalDB()
	if err != nil {
		return err
	}
	defer db.Close()

	rows, err := db.Query(`SELECT `+tradeSelectCols+` FROM trades WHERE exit_time >= ? AND exit_time < ? ORDER BY exit_time`,
		start.UTC().Format(time.RFC3339Nano), end.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("query trades: %w", err)
	}
	defer rows.Close()

	var recs []closedTradeRow
	for rows.Next() {
		rec, err := scanTradeRow(rows)
		if err != nil {
			return fmt.Errorf("scan trade: %w", err)
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate trades: %w", err)
	}
	printTrades(recs)
	return nil
}

func printTrades(recs []closedTradeRow) {
	if len(recs) == 0 {
		fmt.Println("no trades")
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 2, 2, ' ', 0)
	fmt.Fprintln(w, "TICKET\tENTRY\tEXIT\tENTRY PX\tEXIT PX\tPROFIT\tVOLUME\tREASON")
	for _, r := range recs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\t%.2f\t%.2f\t%.2f\t%s\n",
			r.Ticket,
			r.EntryTime.Format(time.RFC3339),
			r.ExitTime.Format(time.RFC3339),
			r.EntryPrice, r.ExitPrice, r.Profit, r.Volume, r.ExitReason,
		)
	}
	w.Flush()
}

func dayBounds(loc *time.Location, day string) (time.Time, time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", day, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	end := start.Add(24 * time.Hour)
	return start, end, nil
}
