package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/cryptobot/config"
)

func newConfigCmd(rc *RootConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and generate configuration",
	}

	var preset string
	initCmd := &cobra.Command{
		Use:   "init PATH",
		Short: "Write a config file with defaults or a named preset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Default()
			if preset != "" {
				if err := cfg.ApplyPreset(preset); err != nil {
					return err
				}
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if err := cfg.SaveToFile(args[0]); err != nil {
				return err
			}
			fmt.Printf("Wrote %s\n", args[0])
			return nil
		},
	}
	initCmd.Flags().StringVar(&preset, "preset", "", "Risk preset: conservative|moderate|aggressive")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(rc)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("config invalid: %w", err)
			}
			fmt.Printf("Capital:     $%.2f initial, %d max positions, %.0f%% per position\n",
				cfg.InitialCapital, cfg.MaxPositions, cfg.MaxPositionPct*100)
			fmt.Printf("Exits:       stop %.1f%%, take %.1f%%, trailing %v\n",
				cfg.StopLossPct*100, cfg.TakeProfitPct*100, cfg.TrailingStopEnabled)
			fmt.Printf("Breakers:    drawdown %.0f%%, daily loss %.0f%%\n",
				cfg.MaxDrawdownPct*100, cfg.MaxDailyLossPct*100)
			fmt.Printf("Journal:     %s\n", cfg.JournalType)
			fmt.Printf("Dry run:     %v\n", cfg.DryRun)
			return nil
		},
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "List available risk presets",
		Run: func(cmd *cobra.Command, args []string) {
			names := make([]string, 0, len(config.Presets))
			for name := range config.Presets {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				fmt.Println(name)
			}
		},
	}

	cmd.AddCommand(initCmd, showCmd, presetsCmd)
	return cmd
}
