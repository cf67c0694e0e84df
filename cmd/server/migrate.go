package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/iliyamo/parking-registry/internal/config"
)

func newMigrateCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.StoreDriver == config.DriverMemory {
				return errors.New("migrate needs STORE_DRIVER=mysql or postgres")
			}
			b, err := openBackend(*cfg)
			if err != nil {
				return err
			}
			defer b.Close()
			return b.migrate(cmd.Context())
		},
	}
}
