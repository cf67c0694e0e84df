package database

import (
	"io/fs"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/parking-registry/internal/config"
	"github.com/iliyamo/parking-registry/internal/store"
	"github.com/iliyamo/parking-registry/internal/store/sqlstore"
)

func TestSplitStatements(t *testing.T) {
	src := `-- header comment
CREATE TABLE a (id INT);

  -- another
CREATE TABLE b (
  id INT
);
`
	got := splitStatements(src)
	require.Len(t, got, 2)
	assert.Equal(t, "CREATE TABLE a (id INT)", got[0])
	assert.True(t, strings.HasPrefix(got[1], "CREATE TABLE b ("))
}

func TestPendingMigrationsSkipsAppliedAndSorts(t *testing.T) {
	files := fstest.MapFS{
		"0002_spots_up.sql": {Data: []byte("x")},
		"0001_init_up.sql":  {Data: []byte("x")},
		"0003_more_up.sql":  {Data: []byte("x")},
		"embed.go":          {Data: []byte("package x")},
	}
	got, err := pendingMigrations(files, map[string]bool{"0002_spots_up.sql": true})
	require.NoError(t, err)
	assert.Equal(t, []string{"0001_init_up.sql", "0003_more_up.sql"}, got)
}

// Every table and named constraint the store schema relies on must be
// created by both migration sets.
func TestEmbeddedMigrationsDeclareSchema(t *testing.T) {
	names := []string{
		store.TableLots, store.TableSpots, store.TablePaymentMethods,
		store.TableDayClassifications, store.TableAcceptedMethods,
		store.TableSchedules, store.TableUsers, store.TablePayments,
		store.FKSpotLot, store.FKAcceptedLot, store.FKAcceptedPaymentMethod,
		store.FKScheduleLot, store.FKScheduleDay, store.FKPaymentAccepted,
		store.UniqueUserEmail, store.UniquePaymentMethodName, store.UniqueDayClassification,
	}
	for _, d := range []sqlstore.Dialect{sqlstore.MySQL, sqlstore.Postgres} {
		t.Run(d.Name, func(t *testing.T) {
			files, err := Migrations(d)
			require.NoError(t, err)
			pending, err := pendingMigrations(files, nil)
			require.NoError(t, err)
			require.NotEmpty(t, pending)

			var all strings.Builder
			for _, name := range pending {
				b, err := fs.ReadFile(files, name)
				require.NoError(t, err)
				all.Write(b)
			}
			for _, n := range names {
				assert.Contains(t, all.String(), n)
			}
		})
	}
}

func TestMySQLDSN(t *testing.T) {
	dsn := mysqlDSN(config.Config{DBUser: "app", DBPass: "s3cret", DBHost: "db", DBPort: "3306", DBName: "parking"})
	assert.True(t, strings.HasPrefix(dsn, "app:s3cret@tcp(db:3306)/parking?"))
	assert.Contains(t, dsn, "clientFoundRows=true")
	assert.Contains(t, dsn, "parseTime=true")
	assert.Contains(t, dsn, "charset=utf8mb4")
}

func TestPostgresDSN(t *testing.T) {
	dsn := postgresDSN(config.Config{DBUser: "app", DBPass: "p@ss", DBHost: "db", DBPort: "5432", DBName: "parking"})
	assert.Equal(t, "postgres://app:p%40ss@db:5432/parking?sslmode=disable&timezone=UTC", dsn)
}
