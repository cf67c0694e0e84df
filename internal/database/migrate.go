package database

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"time"

	"github.com/iliyamo/parking-registry/internal/store"
	"github.com/iliyamo/parking-registry/internal/store/sqlstore"
	mysqlmigrations "github.com/iliyamo/parking-registry/migrations/mysql"
	pgmigrations "github.com/iliyamo/parking-registry/migrations/postgres"
)

const migrationSuffix = "_up.sql"

// Migrations returns the embedded migration files for dialect d.
func Migrations(d sqlstore.Dialect) (fs.FS, error) {
	switch d.Name {
	case sqlstore.MySQL.Name:
		return mysqlmigrations.FS, nil
	case sqlstore.Postgres.Name:
		return pgmigrations.FS, nil
	}
	return nil, fmt.Errorf("database: no migrations for dialect %q", d.Name)
}

// Migrate applies every embedded migration not yet recorded in
// schema_migrations, in file name order, and returns how many were applied.
// Each file runs in its own transaction together with its bookkeeping row.
func Migrate(ctx context.Context, db *sql.DB, d sqlstore.Dialect) (int, error) {
	files, err := Migrations(d)
	if err != nil {
		return 0, err
	}

	createTable := `CREATE TABLE IF NOT EXISTS schema_migrations (
		version VARCHAR(255) NOT NULL PRIMARY KEY,
		applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`
	if _, err := db.ExecContext(ctx, createTable); err != nil {
		return 0, fmt.Errorf("create schema_migrations: %w", err)
	}

	applied := map[string]bool{}
	rows, err := db.QueryContext(ctx, "SELECT version FROM schema_migrations")
	if err != nil {
		return 0, fmt.Errorf("read schema_migrations: %w", err)
	}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			rows.Close()
			return 0, err
		}
		applied[v] = true
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, err
	}

	pending, err := pendingMigrations(files, applied)
	if err != nil {
		return 0, err
	}

	insert := fmt.Sprintf("INSERT INTO schema_migrations (version, applied_at) VALUES (%s, %s)",
		d.Placeholder(1), d.Placeholder(2))
	count := 0
	for _, name := range pending {
		content, err := fs.ReadFile(files, name)
		if err != nil {
			return count, fmt.Errorf("read migration %s: %w", name, err)
		}

		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return count, err
		}
		for _, stmt := range splitStatements(string(content)) {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				tx.Rollback()
				return count, fmt.Errorf("migration %s failed: %w", name, err)
			}
		}
		if _, err := tx.ExecContext(ctx, insert, name, time.Now().UTC()); err != nil {
			tx.Rollback()
			return count, fmt.Errorf("record migration %s: %w", name, err)
		}
		if err := tx.Commit(); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

func pendingMigrations(files fs.FS, applied map[string]bool) ([]string, error) {
	entries, err := fs.ReadDir(files, ".")
	if err != nil {
		return nil, fmt.Errorf("read migrations: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), migrationSuffix) || applied[e.Name()] {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

// splitStatements breaks a migration file into single statements. The
// drivers are opened without multi-statement support, so each one is sent
// separately. Line comments are dropped.
func splitStatements(sqlText string) []string {
	var b strings.Builder
	for _, line := range strings.Split(sqlText, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "--") {
			continue
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	var out []string
	for _, stmt := range strings.Split(b.String(), ";") {
		if s := strings.TrimSpace(stmt); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// identityTables are the tables whose key is generated by the database.
var identityTables = []string{
	store.TableLots,
	store.TablePaymentMethods,
	store.TableDayClassifications,
	store.TableUsers,
	store.TablePayments,
}

// SyncSequences moves PostgreSQL identity sequences past the highest stored
// id. Rows inserted with explicit ids (catalog seeds) do not advance them.
// MySQL adjusts AUTO_INCREMENT on its own, so it is a no-op there.
func SyncSequences(ctx context.Context, db *sql.DB, d sqlstore.Dialect) error {
	if d.Name != sqlstore.Postgres.Name {
		return nil
	}
	for _, t := range identityTables {
		q := fmt.Sprintf(
			"SELECT setval(pg_get_serial_sequence('%[1]s', 'id'), COALESCE(MAX(id), 0) + 1, false) FROM %[1]s", t)
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("sync sequence %s: %w", t, err)
		}
	}
	return nil
}
