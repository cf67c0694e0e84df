package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/parking-registry/internal/config"
	"github.com/iliyamo/parking-registry/internal/database"
	"github.com/iliyamo/parking-registry/internal/logger"
	"github.com/iliyamo/parking-registry/internal/store"
	"github.com/iliyamo/parking-registry/internal/store/memstore"
	"github.com/iliyamo/parking-registry/internal/store/sqlstore"
)

// backend is the opened store together with the SQL handle behind it, which
// is nil for the in-memory store.
type backend struct {
	store   *store.Store
	db      *sql.DB
	dialect sqlstore.Dialect
}

func openBackend(cfg config.Config) (*backend, error) {
	if cfg.StoreDriver == config.DriverMemory {
		logger.Named("server").Warn("using the in-memory store; data is lost on exit")
		return &backend{store: memstore.New()}, nil
	}
	d, ok := sqlstore.DialectFor(cfg.StoreDriver)
	if !ok {
		return nil, fmt.Errorf("unsupported STORE_DRIVER %q", cfg.StoreDriver)
	}
	db, err := database.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.StoreDriver, err)
	}
	return &backend{store: sqlstore.New(db, d), db: db, dialect: d}, nil
}

// migrate applies pending migrations. It is a no-op for the in-memory store,
// whose schema is built in.
func (b *backend) migrate(ctx context.Context) error {
	if b.db == nil {
		return nil
	}
	start := time.Now()
	n, err := database.Migrate(ctx, b.db, b.dialect)
	if err != nil {
		return err
	}
	logger.Named("migrate").Info("migrations applied",
		zap.String("dialect", b.dialect.Name),
		zap.Int("count", n),
		zap.Duration("took", time.Since(start)))
	return nil
}

func (b *backend) Close() {
	if b.db != nil {
		_ = b.db.Close()
	}
}
