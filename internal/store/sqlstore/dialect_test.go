package sqlstore

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/parking-registry/internal/store"
)

func TestClassifyMySQL(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		kind       store.ConstraintKind
		table      string
		constraint string
	}{
		{
			name:       "duplicate primary key",
			err:        &mysql.MySQLError{Number: 1062, Message: "Duplicate entry '1-5' for key 'plazas.PRIMARY'"},
			kind:       store.UniqueViolation,
			table:      "plazas",
			constraint: store.PrimaryKey,
		},
		{
			name:       "duplicate unique index",
			err:        &mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'a@b.c' for key 'usuarios.uq_usuarios_email'"},
			kind:       store.UniqueViolation,
			table:      "usuarios",
			constraint: store.UniqueUserEmail,
		},
		{
			name:       "duplicate on older server without table prefix",
			err:        &mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'Cash' for key 'uq_metodos_pago_name'"},
			kind:       store.UniqueViolation,
			constraint: store.UniquePaymentMethodName,
		},
		{
			name: "restricted delete",
			err: &mysql.MySQLError{Number: 1451, Message: "Cannot delete or update a parent row: a foreign key constraint fails " +
				"(`parking`.`pagos`, CONSTRAINT `fk_pagos_amp` FOREIGN KEY (`lot_id`, `payment_method_id`) REFERENCES `acepta_metodo_pago` (`lot_id`, `payment_method_id`))"},
			kind:       store.ForeignKeyViolation,
			table:      "pagos",
			constraint: store.FKPaymentAccepted,
		},
		{
			name: "missing parent",
			err: &mysql.MySQLError{Number: 1452, Message: "Cannot add or update a child row: a foreign key constraint fails " +
				"(`parking`.`plazas`, CONSTRAINT `fk_plazas_playa` FOREIGN KEY (`lot_id`) REFERENCES `playas` (`id`) ON DELETE CASCADE)"},
			kind:       store.ForeignKeyViolation,
			table:      "plazas",
			constraint: store.FKSpotLot,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			wrapped := fmt.Errorf("exec: %w", tc.err)
			ce := classifyMySQL(wrapped)
			require.NotNil(t, ce)
			assert.Equal(t, tc.kind, ce.Kind)
			assert.Equal(t, tc.table, ce.Table)
			assert.Equal(t, tc.constraint, ce.Constraint)
			assert.ErrorIs(t, ce, tc.err)
		})
	}
}

func TestClassifyMySQLIgnoresOtherErrors(t *testing.T) {
	assert.Nil(t, classifyMySQL(&mysql.MySQLError{Number: 1045, Message: "Access denied"}))
	assert.Nil(t, classifyMySQL(errors.New("connection refused")))
}

func TestClassifyPostgres(t *testing.T) {
	pk := &pgconn.PgError{Code: "23505", TableName: "horarios", ConstraintName: "horarios_pkey"}
	ce := classifyPostgres(pk)
	require.NotNil(t, ce)
	assert.Equal(t, store.UniqueViolation, ce.Kind)
	assert.Equal(t, "horarios", ce.Table)
	assert.Equal(t, store.PrimaryKey, ce.Constraint)

	uq := &pgconn.PgError{Code: "23505", TableName: "usuarios", ConstraintName: store.UniqueUserEmail}
	ce = classifyPostgres(fmt.Errorf("insert: %w", uq))
	require.NotNil(t, ce)
	assert.Equal(t, store.UniqueUserEmail, ce.Constraint)

	fk := &pgconn.PgError{Code: "23503", TableName: "acepta_metodo_pago", ConstraintName: store.FKAcceptedPaymentMethod}
	ce = classifyPostgres(fk)
	require.NotNil(t, ce)
	assert.Equal(t, store.ForeignKeyViolation, ce.Kind)
	assert.Equal(t, store.FKAcceptedPaymentMethod, ce.Constraint)

	assert.Nil(t, classifyPostgres(&pgconn.PgError{Code: "57P01"}))
	assert.Nil(t, classifyPostgres(errors.New("eof")))
}

func TestDialectFor(t *testing.T) {
	for name, want := range map[string]string{"mysql": "mysql", "Postgres": "postgres", "pgx": "postgres"} {
		d, ok := DialectFor(name)
		require.True(t, ok, name)
		assert.Equal(t, want, d.Name)
	}
	_, ok := DialectFor("sqlite")
	assert.False(t, ok)

	assert.Equal(t, "?", MySQL.Placeholder(3))
	assert.Equal(t, "$3", Postgres.Placeholder(3))
}

func TestWrapFillsTableAndContext(t *testing.T) {
	tbl := NewTable(nil, MySQL, store.SpotSchema)

	err := tbl.wrap("insert", &mysql.MySQLError{Number: 1062, Message: "Duplicate entry '1-5' for key 'PRIMARY'"})
	ce, ok := store.AsConstraint(err)
	require.True(t, ok)
	assert.Equal(t, store.TableSpots, ce.Table)
	assert.Equal(t, store.PrimaryKey, ce.Constraint)

	err = tbl.wrap("get", errors.New("bad connection"))
	_, ok = store.AsConstraint(err)
	assert.False(t, ok)
	assert.EqualError(t, err, "sqlstore: get plazas: bad connection")
}
