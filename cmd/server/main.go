package main // Entry point package

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/iliyamo/parking-registry/internal/config"
	"github.com/iliyamo/parking-registry/internal/logger"
)

func main() {
	var cfg config.Config

	root := &cobra.Command{
		Use:           "parking-registry",
		Short:         "Registry of parking lots, their spots, schedules, payment methods and users",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cfg = config.Load()
			logger.Init(logger.Config{Env: cfg.Env, Level: cfg.LogLevel, Service: "parking-registry"})
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Sync()
		},
	}

	root.AddCommand(
		newServeCmd(&cfg),
		newMigrateCmd(&cfg),
		newSeedCmd(&cfg),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}
