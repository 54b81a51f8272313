package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/cryptobot/config"
	"github.com/rustyeddy/cryptobot/internal/logging"
	"github.com/rustyeddy/cryptobot/journal"
	"github.com/rustyeddy/cryptobot/risk"
	"go.uber.org/zap"
)

// RootConfig carries flag state shared by all subcommands.
type RootConfig struct {
	ConfigPath string
	LogLevel   string
}

func NewRootCmd() *cobra.Command {
	rc := &RootConfig{}

	cmd := &cobra.Command{
		Use:           "cryptobot",
		Short:         "Position risk and capital accounting for a retail trading bot",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&rc.ConfigPath, "config", "", "Path to config file (optional; defaults apply)")
	cmd.PersistentFlags().StringVar(&rc.LogLevel, "log-level", "", "Override log level: debug|info|warn|error")

	cmd.AddCommand(
		newRunCmd(rc),
		newOpenCmd(rc),
		newCloseCmd(rc),
		newPositionsCmd(rc),
		newJournalCmd(rc),
		newConfigCmd(rc),
		newResetCmd(rc),
	)

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("cryptobot (dev)")
		},
	})

	return cmd
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func loadConfig(rc *RootConfig) (*config.Config, error) {
	cfg := config.Default()
	if rc.ConfigPath != "" {
		var err error
		cfg, err = config.LoadFromFile(rc.ConfigPath)
		if err != nil {
			return nil, err
		}
	}
	if rc.LogLevel != "" {
		cfg.LogLevel = rc.LogLevel
	}
	return cfg, nil
}

func buildLogger(cfg *config.Config) *zap.SugaredLogger {
	return logging.New(cfg.LogLevel, cfg.LogFormat)
}

func buildLedger(cfg *config.Config, log *zap.SugaredLogger) (*risk.Ledger, error) {
	store, err := risk.NewStore(cfg.PositionsFile, log)
	if err != nil {
		return nil, err
	}
	return risk.NewLedger(cfg, store, log), nil
}

func buildJournal(cfg *config.Config) (journal.Journal, error) {
	switch cfg.JournalType {
	case "sqlite":
		return journal.NewSQLite(cfg.JournalDBPath)
	default:
		return journal.NewCSV(cfg.TradesFile, cfg.CapitalFile)
	}
}
