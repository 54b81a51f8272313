package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

func newPositionsCmd(rc *RootConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "positions",
		Short: "Show capital state and open positions",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(rc)
			if err != nil {
				return err
			}
			log := buildLogger(cfg)
			defer log.Sync()

			ledger, err := buildLedger(cfg, log)
			if err != nil {
				return err
			}

			st := ledger.Stats()
			fmt.Printf("Capital: $%.2f (initial $%.2f)\n", st.CurrentCapital, st.InitialCapital)
			fmt.Printf("Daily P&L: $%.2f over %d trades | Drawdown: %.2f%%\n",
				st.DailyPnL, st.DailyTrades, st.TotalDrawdown*100)

			positions := ledger.Positions()
			if len(positions) == 0 {
				fmt.Println("No open positions")
				return nil
			}

			sort.Slice(positions, func(i, j int) bool {
				return positions[i].ProductID < positions[j].ProductID
			})

			fmt.Printf("\n%-12s %12s %12s %10s  %s\n", "PRODUCT", "QUANTITY", "ENTRY", "FEE", "OPENED")
			for _, p := range positions {
				fmt.Printf("%-12s %12.6f %12.2f %10.2f  %s\n",
					p.ProductID, p.Quantity, p.EntryPrice, p.EntryFee,
					p.OpenTime.Format("2006-01-02 15:04"))
			}
			return nil
		},
	}
}
