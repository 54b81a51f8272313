package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/cryptobot/journal"
)

func newJournalCmd(rc *RootConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Query the trade journal (SQLite journal type only)",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "trade TRADE_ID",
			Short: "Show one trade record",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				j, err := openSQLiteJournal(rc)
				if err != nil {
					return err
				}
				defer j.Close()

				rec, err := j.GetTrade(args[0])
				if err != nil {
					return err
				}
				printTrade(rec)
				return nil
			},
		},
		&cobra.Command{
			Use:   "day YYYY-MM-DD",
			Short: "List trades for one day",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				start, end, err := dayBounds(time.Local, args[0])
				if err != nil {
					return fmt.Errorf("date: %w", err)
				}
				j, err := openSQLiteJournal(rc)
				if err != nil {
					return err
				}
				defer j.Close()

				recs, err := j.ListTradesBetween(start, end)
				if err != nil {
					return err
				}
				for _, rec := range recs {
					printTrade(rec)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "stats",
			Short: "Show realized performance metrics",
			RunE: func(cmd *cobra.Command, args []string) error {
				j, err := openSQLiteJournal(rc)
				if err != nil {
					return err
				}
				defer j.Close()

				recs, err := j.ListAllTrades()
				if err != nil {
					return err
				}
				m := journal.ComputeMetrics(recs)
				fmt.Printf("Trades:        %d (%d wins, %d losses)\n", m.TotalTrades, m.WinCount, m.LossCount)
				fmt.Printf("Win rate:      %.1f%%\n", m.WinRate)
				fmt.Printf("Profit factor: %.2f\n", m.ProfitFactor)
				fmt.Printf("Total P&L:     $%.2f (fees $%.2f)\n", m.TotalPnL, m.TotalFees)
				fmt.Printf("Avg win/loss:  $%.2f / $%.2f\n", m.AvgWin, m.AvgLoss)
				fmt.Printf("Max win/loss:  $%.2f / $%.2f\n", m.MaxWin, m.MaxLoss)
				fmt.Printf("Avg hold:      %.1fh\n", m.AvgHoldHours)
				return nil
			},
		},
	)

	return cmd
}

func openSQLiteJournal(rc *RootConfig) (*journal.SQLiteJournal, error) {
	cfg, err := loadConfig(rc)
	if err != nil {
		return nil, err
	}
	if cfg.JournalType != "sqlite" {
		return nil, fmt.Errorf("journal queries require journal_type=sqlite")
	}
	return journal.NewSQLite(cfg.JournalDBPath)
}

func printTrade(rec journal.TradeRecord) {
	fmt.Printf("%s %s %-4s %.6f @ $%.2f  pnl $%.2f (%.2f%%)  %s\n",
		rec.Time.Format("2006-01-02 15:04"), rec.ProductID, rec.Side,
		rec.Quantity, rec.Price, rec.NetPnL, rec.PnLPct, rec.Reason)
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
