package sqlstore

import (
	"context"
	"database/sql/driver"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/execution-hub/definition-registry/internal/domain/definition"
)

func TestTranslateMySQLDuplicate(t *testing.T) {
	err := translate(fmt.Errorf("insert: %w", &mysql.MySQLError{
		Number:  1062,
		Message: "Duplicate entry '7-a' for key 'process_definitions.process_definitions_project_name_key'",
	}))
	var ce *definition.ConstraintError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, definition.ConstraintProjectName, ce.Constraint)
	assert.ErrorIs(t, err, definition.ErrConstraintViolation)
}

func TestTranslateUnavailable(t *testing.T) {
	for _, err := range []error{
		driver.ErrBadConn,
		mysql.ErrInvalidConn,
		context.DeadlineExceeded,
		&mysql.MySQLError{Number: 1205, Message: "Lock wait timeout exceeded"},
	} {
		assert.ErrorIs(t, translate(err), definition.ErrStoreUnavailable, err.Error())
	}
}

func TestMySQLKeyName(t *testing.T) {
	assert.Equal(t, "process_definitions_code_key", mysqlKeyName("Duplicate entry '1' for key 'process_definitions_code_key'"))
	assert.Equal(t, "", mysqlKeyName("something else"))
}

func TestSQLiteConstraint(t *testing.T) {
	assert.Equal(t, definition.ConstraintProjectName,
		sqliteConstraint("UNIQUE constraint failed: process_definitions.project_code, process_definitions.name"))
	assert.Equal(t, definition.ConstraintCode, sqliteConstraint("UNIQUE constraint failed: process_definitions.code"))
	assert.Equal(t, definition.ConstraintLogVersion,
		sqliteConstraint("UNIQUE constraint failed: process_definition_logs.code, process_definition_logs.version"))
}

func TestNormalizeMySQLDSN(t *testing.T) {
	dsn, err := NormalizeMySQLDSN("root:secret@tcp(localhost:3306)/registry")
	require.NoError(t, err)
	cfg, err := mysql.ParseDSN(dsn)
	require.NoError(t, err)
	assert.True(t, cfg.ParseTime)
	assert.Equal(t, "registry", cfg.DBName)
}
