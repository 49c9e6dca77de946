package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/execution-hub/definition-registry/internal/domain/definition"
)

func TestTranslateUniqueViolation(t *testing.T) {
	err := translate(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", ConstraintName: definition.ConstraintProjectName}))
	require.ErrorIs(t, err, definition.ErrConstraintViolation)

	var ce *definition.ConstraintError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, definition.ConstraintProjectName, ce.Constraint)
}

func TestTranslateUnavailable(t *testing.T) {
	for _, err := range []error{
		context.DeadlineExceeded,
		context.Canceled,
		&pgconn.PgError{Code: "57P01"},
		&pgconn.PgError{Code: "08006"},
	} {
		assert.ErrorIs(t, translate(err), definition.ErrStoreUnavailable, err.Error())
	}
}

func TestTranslatePassThrough(t *testing.T) {
	assert.NoError(t, translate(nil))

	other := &pgconn.PgError{Code: "42601"}
	assert.Same(t, other, translate(other))

	plain := errors.New("boom")
	assert.Equal(t, plain, translate(plain))
}
