package cli

import (
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/rustyeddy/cryptobot/bot"
	"github.com/rustyeddy/cryptobot/broker"
)

func newRunCmd(rc *RootConfig) *cobra.Command {
	var pricesPath string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the trading loop",
		RunE: func(cmd *cobra.Command, args []string) error {
			// .env is optional; real deployments keep exchange keys there.
			_ = godotenv.Load()

			cfg, err := loadConfig(rc)
			if err != nil {
				return err
			}
			log := buildLogger(cfg)
			defer log.Sync()

			if !cfg.DryRun {
				return fmt.Errorf("live trading requires an exchange executor; only dry_run is supported here")
			}

			ledger, err := buildLedger(cfg, log)
			if err != nil {
				return err
			}

			j, err := buildJournal(cfg)
			if err != nil {
				return err
			}
			defer j.Close()

			if pricesPath == "" {
				return fmt.Errorf("--prices is required (CSV with product_id,price rows)")
			}
			feed, err := broker.NewCSVFeed(pricesPath)
			if err != nil {
				return err
			}

			if cfg.MetricsAddr != "" {
				mux := http.NewServeMux()
				mux.Handle("/metrics", promhttp.Handler())
				go func() {
					if err := http.ListenAndServe(cfg.MetricsAddr, mux); err != nil {
						log.Errorw("metrics server", "error", err)
					}
				}()
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			exec := broker.NewPaper(cfg.TakerFee)
			b := bot.New(cfg, ledger, feed, exec, j, log)

			err = b.Run(ctx)
			if err != nil && ctx.Err() != nil {
				return nil // clean shutdown on signal
			}
			return err
		},
	}

	cmd.Flags().StringVar(&pricesPath, "prices", "", "CSV price feed (replay/dry-run price source)")
	return cmd
}
