package main

import (
	"errors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/iliyamo/parking-registry/internal/catalog"
	"github.com/iliyamo/parking-registry/internal/config"
	"github.com/iliyamo/parking-registry/internal/database"
	"github.com/iliyamo/parking-registry/internal/logger"
	"github.com/iliyamo/parking-registry/internal/repository"
)

func newSeedCmd(cfg *config.Config) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the payment method and day classification catalogs from a YAML file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.StoreDriver == config.DriverMemory {
				return errors.New("seed needs STORE_DRIVER=mysql or postgres")
			}
			s, err := catalog.LoadSeed(file)
			if err != nil {
				return err
			}
			b, err := openBackend(*cfg)
			if err != nil {
				return err
			}
			defer b.Close()

			ctx := cmd.Context()
			log := logger.Named("seed")
			repo := repository.NewCatalogRepo(b.store, nil, 0, repository.WithLogger(log))
			res, err := catalog.Apply(ctx, repo, s)
			if err != nil {
				return err
			}
			if err := database.SyncSequences(ctx, b.db, b.dialect); err != nil {
				return err
			}
			log.Info("catalog seeded", zap.String("file", file), zap.Int("created", res.Created), zap.Int("skipped", res.Skipped))
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "seeds/catalog.yaml", "seed file")
	return cmd
}
