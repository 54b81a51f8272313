package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/cryptobot/broker"
	"github.com/rustyeddy/cryptobot/internal/id"
	"github.com/rustyeddy/cryptobot/journal"
)

// Manual trades against the paper executor. These go through the same
// sizing, admission and accounting path the bot uses.

func newOpenCmd(rc *RootConfig) *cobra.Command {
	var price, quantity float64
	var reason string

	cmd := &cobra.Command{
		Use:   "open PRODUCT_ID",
		Short: "Open a position at the given price",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			productID := args[0]

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

			if price <= 0 {
				return fmt.Errorf("--price must be positive")
			}

			balance := ledger.CurrentCapital()
			sizeUSD := quantity * price
			if quantity == 0 {
				sizeUSD = ledger.Size(balance)
				quantity = sizeUSD / price
			}

			if d := ledger.CanOpen(productID, sizeUSD, balance); !d.Allowed {
				return fmt.Errorf("cannot open position: %s", d.Reason)
			}

			exec := broker.NewPaper(cfg.TakerFee)
			fill, err := exec.Buy(context.Background(), productID, quantity, price)
			if err != nil {
				return err
			}

			if err := ledger.Open(productID, fill.Quantity, fill.Price, fill.Fee); err != nil {
				return err
			}

			j, err := buildJournal(cfg)
			if err != nil {
				return err
			}
			defer j.Close()

			if err := j.RecordTrade(journal.TradeRecord{
				TradeID:   id.New(),
				ProductID: productID,
				Side:      "BUY",
				Quantity:  fill.Quantity,
				Price:     fill.Price,
				ValueUSD:  fill.Quantity * fill.Price,
				FeeUSD:    fill.Fee,
				Time:      fill.Time,
				Reason:    reason,
				Notes:     "MANUAL",
			}); err != nil {
				return err
			}

			fmt.Printf("Opened %.6f %s @ $%.2f ($%.2f, fee $%.2f)\n",
				fill.Quantity, productID, fill.Price, fill.Quantity*fill.Price, fill.Fee)
			return nil
		},
	}

	cmd.Flags().Float64Var(&price, "price", 0, "Entry price (required)")
	cmd.Flags().Float64Var(&quantity, "quantity", 0, "Quantity (default: sized from available capital)")
	cmd.Flags().StringVar(&reason, "reason", "Manual", "Reason for opening")
	return cmd
}

func newCloseCmd(rc *RootConfig) *cobra.Command {
	var price float64
	var reason string

	cmd := &cobra.Command{
		Use:   "close PRODUCT_ID",
		Short: "Close an open position at the given price",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			productID := args[0]

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

			pos, ok := ledger.Position(productID)
			if !ok {
				return fmt.Errorf("no open position for %s", productID)
			}
			if price <= 0 {
				return fmt.Errorf("--price must be positive")
			}

			exec := broker.NewPaper(cfg.TakerFee)
			fill, err := exec.Sell(context.Background(), productID, pos.Quantity, price)
			if err != nil {
				return err
			}

			res, err := ledger.Close(productID, fill.Price, fill.Fee, reason)
			if err != nil {
				return err
			}

			j, err := buildJournal(cfg)
			if err != nil {
				return err
			}
			defer j.Close()

			if err := j.RecordTrade(journal.TradeRecord{
				TradeID:   id.New(),
				ProductID: productID,
				Side:      "SELL",
				Quantity:  res.Quantity,
				Price:     res.ExitPrice,
				ValueUSD:  res.ExitValue,
				FeeUSD:    fill.Fee,
				NetPnL:    res.NetPnL,
				PnLPct:    res.PnLPct,
				HoldHours: res.HoldTime.Hours(),
				Time:      fill.Time,
				Reason:    reason,
				Notes:     "MANUAL",
			}); err != nil {
				return err
			}

			fmt.Printf("Closed %s: $%.2f (%.2f%%) - %s\n",
				productID, res.NetPnL, res.PnLPct, reason)
			return nil
		},
	}

	cmd.Flags().Float64Var(&price, "price", 0, "Exit price (required)")
	cmd.Flags().StringVar(&reason, "reason", "Manual", "Reason for closing")
	return cmd
}
