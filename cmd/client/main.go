package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/JimmyToluene/cs528-hw2-pagerank/pkg/utils"
)

var rootCmd = &cobra.Command{
	Use:          "pagerank",
	Short:        "Rank the pages of a link graph",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "solver configuration file (json, yaml or toml)")
	rootCmd.PersistentFlags().Int("top", 0, "number of pages to print (default from configuration)")
	rootCmd.PersistentFlags().String("log-level", "warn", "log level: debug, info, warn or error")
	rootCmd.PersistentFlags().String("log-format", "text", "log format: text or json")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// loadConfig reads the configuration file named by --config and applies
// the --top override.
func loadConfig(cmd *cobra.Command) (utils.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	config, err := utils.LoadConfiguration(path)
	if err != nil {
		return config, err
	}
	if cmd.Flags().Changed("top") {
		config.Top, _ = cmd.Flags().GetInt("top")
		if err := config.Validate(); err != nil {
			return config, err
		}
	}
	return config, nil
}

func commandLogger(cmd *cobra.Command) *slog.Logger {
	level, _ := cmd.Flags().GetString("log-level")
	format, _ := cmd.Flags().GetString("log-format")
	return utils.NewLogger(cmd.ErrOrStderr(), level, format)
}
