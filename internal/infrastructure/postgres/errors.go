package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/execution-hub/definition-registry/internal/domain/definition"
)

const (
	codeUniqueViolation = "23505"
	codeQueryCanceled   = "57014"
	codeAdminShutdown   = "57P01"
	codeCannotConnect   = "57P03"
)

// translate maps pgx errors onto the definition error sentinels.
func translate(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == codeUniqueViolation:
			return definition.NewConstraintError(pgErr.ConstraintName, err)
		case pgErr.Code == codeQueryCanceled, pgErr.Code == codeAdminShutdown, pgErr.Code == codeCannotConnect:
			return definition.Unavailable(err)
		case len(pgErr.Code) == 5 && pgErr.Code[:2] == "08":
			return definition.Unavailable(err)
		}
		return err
	}
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) || pgconn.Timeout(err) ||
		errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return definition.Unavailable(err)
	}
	return err
}
