package database

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"net/url"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/iliyamo/parking-registry/internal/config"
)

// Open connects to the database selected by cfg.StoreDriver and verifies the
// connection.
func Open(cfg config.Config) (*sql.DB, error) {
	var driver, dsn string
	switch cfg.StoreDriver {
	case config.DriverMySQL:
		driver, dsn = "mysql", mysqlDSN(cfg)
	case config.DriverPostgres:
		driver, dsn = "pgx", postgresDSN(cfg)
	default:
		return nil, fmt.Errorf("database: driver %q has no SQL backend", cfg.StoreDriver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}

	// Pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(30 * time.Minute)

	// Ping with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// mysqlDSN builds the go-sql-driver DSN. DATETIME columns scan into
// time.Time in UTC, and UPDATE reports matched rather than changed rows so a
// no-op update is not mistaken for a missing row.
func mysqlDSN(cfg config.Config) string {
	mc := mysql.NewConfig()
	mc.User = cfg.DBUser
	mc.Passwd = cfg.DBPass
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(cfg.DBHost, cfg.DBPort)
	mc.DBName = cfg.DBName
	mc.ParseTime = true
	mc.Loc = time.UTC
	mc.ClientFoundRows = true
	mc.Params = map[string]string{"charset": "utf8mb4"}
	return mc.FormatDSN()
}

func postgresDSN(cfg config.Config) string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.DBUser, cfg.DBPass),
		Host:     net.JoinHostPort(cfg.DBHost, cfg.DBPort),
		Path:     "/" + cfg.DBName,
		RawQuery: "sslmode=disable&timezone=UTC",
	}
	return u.String()
}
