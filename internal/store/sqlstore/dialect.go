package sqlstore

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/iliyamo/parking-registry/internal/store"
)

// Dialect captures the differences between the supported SQL backends:
// placeholder syntax, how generated keys are read back and how constraint
// violations are recognised.
type Dialect struct {
	Name string
	// Placeholder returns the bind parameter for the i-th (1-based) argument.
	Placeholder func(i int) string
	// Returning is true when generated keys are read with INSERT ... RETURNING
	// instead of LastInsertId.
	Returning bool
	// Classify converts a driver error into a *store.ConstraintError when it
	// is a constraint violation, returning nil otherwise.
	Classify func(err error) *store.ConstraintError
}

// MySQL error numbers.
const (
	mysqlDupEntry        = 1062 // ER_DUP_ENTRY
	mysqlRowIsReferenced = 1451 // ER_ROW_IS_REFERENCED_2
	mysqlNoReferencedRow = 1452 // ER_NO_REFERENCED_ROW_2
)

// PostgreSQL SQLSTATE codes.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

var (
	// Duplicate entry '1-5' for key 'plazas.PRIMARY'
	reMySQLDupKey = regexp.MustCompile(`for key '([^']+)'`)
	// Cannot delete or update a parent row: a foreign key constraint fails
	// (`db`.`pagos`, CONSTRAINT `fk_pagos_amp` FOREIGN KEY ...)
	reMySQLFK = regexp.MustCompile("`([^`]+)`, CONSTRAINT `([^`]+)`")
)

// MySQL is the dialect of go-sql-driver/mysql.
var MySQL = Dialect{
	Name:        "mysql",
	Placeholder: func(int) string { return "?" },
	Classify:    classifyMySQL,
}

// Postgres is the dialect of the pgx stdlib driver.
var Postgres = Dialect{
	Name:        "postgres",
	Placeholder: func(i int) string { return "$" + strconv.Itoa(i) },
	Returning:   true,
	Classify:    classifyPostgres,
}

// DialectFor returns the dialect registered under name.
func DialectFor(name string) (Dialect, bool) {
	switch strings.ToLower(name) {
	case "mysql":
		return MySQL, true
	case "postgres", "postgresql", "pgx":
		return Postgres, true
	}
	return Dialect{}, false
}

func classifyMySQL(err error) *store.ConstraintError {
	var me *mysql.MySQLError
	if !errors.As(err, &me) {
		return nil
	}
	switch me.Number {
	case mysqlDupEntry:
		name := store.PrimaryKey
		if m := reMySQLDupKey.FindStringSubmatch(me.Message); m != nil {
			name = m[1]
		}
		table := ""
		if i := strings.LastIndex(name, "."); i >= 0 {
			table, name = name[:i], name[i+1:]
		}
		return &store.ConstraintError{Kind: store.UniqueViolation, Table: table, Constraint: name, Err: err}
	case mysqlRowIsReferenced, mysqlNoReferencedRow:
		ce := &store.ConstraintError{Kind: store.ForeignKeyViolation, Err: err}
		if m := reMySQLFK.FindStringSubmatch(me.Message); m != nil {
			ce.Table, ce.Constraint = m[1], m[2]
		}
		return ce
	}
	return nil
}

func classifyPostgres(err error) *store.ConstraintError {
	var pe *pgconn.PgError
	if !errors.As(err, &pe) {
		return nil
	}
	switch pe.Code {
	case pgUniqueViolation:
		name := pe.ConstraintName
		if strings.HasSuffix(name, "_pkey") {
			name = store.PrimaryKey
		}
		return &store.ConstraintError{Kind: store.UniqueViolation, Table: pe.TableName, Constraint: name, Err: err}
	case pgForeignKeyViolation:
		return &store.ConstraintError{Kind: store.ForeignKeyViolation, Table: pe.TableName, Constraint: pe.ConstraintName, Err: err}
	}
	return nil
}
