package sqlstore

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"net"
	"strings"

	"github.com/go-sql-driver/mysql"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/execution-hub/definition-registry/internal/domain/definition"
)

const (
	mysqlDuplicateEntry     = 1062
	mysqlTooManyConnections = 1040
	mysqlServerShutdown     = 1053
	mysqlLockWaitTimeout    = 1205
	mysqlQueryTimeout       = 3024
)

// translate maps MySQL and SQLite driver errors onto the definition sentinels.
func translate(err error) error {
	if err == nil {
		return nil
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case mysqlDuplicateEntry:
			return definition.NewConstraintError(mysqlKeyName(myErr.Message), err)
		case mysqlTooManyConnections, mysqlServerShutdown, mysqlLockWaitTimeout, mysqlQueryTimeout:
			return definition.Unavailable(err)
		}
		return err
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		code := liteErr.Code()
		switch {
		case code == sqlite3.SQLITE_CONSTRAINT_UNIQUE, code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY,
			code&0xff == sqlite3.SQLITE_CONSTRAINT && strings.Contains(liteErr.Error(), "UNIQUE"):
			return definition.NewConstraintError(sqliteConstraint(liteErr.Error()), err)
		case code&0xff == sqlite3.SQLITE_BUSY, code&0xff == sqlite3.SQLITE_LOCKED, code&0xff == sqlite3.SQLITE_CANTOPEN:
			return definition.Unavailable(err)
		}
		return err
	}

	var netErr net.Error
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, mysql.ErrInvalidConn) ||
		errors.Is(err, sql.ErrConnDone) || errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled) || errors.As(err, &netErr) {
		return definition.Unavailable(err)
	}
	return err
}

// mysqlKeyName extracts the index name from "Duplicate entry 'x' for key 'table.key'".
func mysqlKeyName(msg string) string {
	i := strings.LastIndex(msg, "for key '")
	if i < 0 {
		return ""
	}
	key := strings.TrimSuffix(msg[i+len("for key '"):], "'")
	if dot := strings.LastIndex(key, "."); dot >= 0 {
		key = key[dot+1:]
	}
	return key
}

// sqliteConstraint maps "UNIQUE constraint failed: table.col, ..." onto the
// constraint names the other stores report.
func sqliteConstraint(msg string) string {
	switch {
	case strings.Contains(msg, "process_definition_logs."):
		return definition.ConstraintLogVersion
	case strings.Contains(msg, "process_definitions.name"):
		return definition.ConstraintProjectName
	case strings.Contains(msg, "process_definitions.code"):
		return definition.ConstraintCode
	default:
		return ""
	}
}
