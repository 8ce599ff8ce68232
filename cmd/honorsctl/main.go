package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/khoahotran/honors-hub/internal/config"
	"github.com/khoahotran/honors-hub/pkg/logger"
)

const programName = "honorsctl"

var globalFlags = struct {
	configDir string
	verbose   bool
}{}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           programName,
		Short:         "Operate the Honors Hub database",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&globalFlags.configDir, "config-dir", ".", "directory holding config.yaml")
	root.PersistentFlags().BoolVarP(&globalFlags.verbose, "verbose", "v", false, "log progress")

	root.AddCommand(newMigrateCmd(), newSeedCmd(), newAwardCmd())
	return root
}

// commonRun loads configuration and a logger for a subcommand.
func commonRun() (config.Config, logger.Logger, error) {
	cfg, err := config.LoadConfig(globalFlags.configDir)
	if err != nil {
		return cfg, nil, fmt.Errorf("load config: %w", err)
	}
	if cfg.DB.DSN == "" {
		return cfg, nil, fmt.Errorf("DB_DSN is not set")
	}
	log := logger.NewNopLogger()
	if globalFlags.verbose {
		log = logger.NewZapLogger(cfg.App.Env)
	}
	return cfg, log, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintf(os.Stderr, "%s: %v\n", programName, err)
		os.Exit(1)
	}
}
