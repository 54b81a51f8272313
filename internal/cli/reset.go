package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newResetCmd(rc *RootConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Administrative resets of ledger counters",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "daily",
			Short: "Clear daily P&L and trade count",
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
				ledger.ResetDaily()
				fmt.Println("Daily metrics reset")
				return nil
			},
		},
		&cobra.Command{
			Use:   "drawdown",
			Short: "Clear cumulative drawdown and re-arm trading",
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
				ledger.ResetDrawdown()
				fmt.Println("Drawdown reset")
				return nil
			},
		},
	)

	return cmd
}
