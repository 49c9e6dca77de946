package sqlstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/execution-hub/definition-registry/internal/domain/definition"
	"github.com/execution-hub/definition-registry/internal/infrastructure/sqlquery"
	"github.com/execution-hub/definition-registry/internal/infrastructure/storetest"
)

func newSQLiteRepository(t *testing.T) *DefinitionRepository {
	t.Helper()
	db, err := Open(context.Background(), sqlquery.SQLite, ":memory:", 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, Migrate(db, sqlquery.SQLite, ""))
	return NewDefinitionRepository(db, sqlquery.SQLite, 5*time.Second)
}

func TestSQLiteDefinitionRepository(t *testing.T) {
	storetest.Run(t, func(t *testing.T) definition.Repository {
		return newSQLiteRepository(t)
	})
}

func TestSQLiteMigrateIsIdempotent(t *testing.T) {
	repo := newSQLiteRepository(t)
	require.NoError(t, Migrate(repo.db, sqlquery.SQLite, ""))
}

func TestSQLiteConstraintNames(t *testing.T) {
	repo := newSQLiteRepository(t)
	ctx := context.Background()

	first := storetest.NewDefinition(7, "a", 1)
	require.NoError(t, repo.Create(ctx, first))

	dupName := storetest.NewDefinition(7, "a", 1)
	var ce *definition.ConstraintError
	require.ErrorAs(t, repo.Create(ctx, dupName), &ce)
	assert.Equal(t, definition.ConstraintProjectName, ce.Constraint)

	dupCode := storetest.NewDefinition(7, "b", 1)
	dupCode.Code = first.Code
	require.ErrorAs(t, repo.Create(ctx, dupCode), &ce)
	assert.Equal(t, definition.ConstraintCode, ce.Constraint)
}

func TestCanceledContextIsUnavailable(t *testing.T) {
	repo := newSQLiteRepository(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.GetByCode(ctx, 1)
	assert.ErrorIs(t, err, definition.ErrStoreUnavailable)
}

func TestCreateRejectsInvalidBeforeQuery(t *testing.T) {
	repo := newSQLiteRepository(t)
	err := repo.Create(context.Background(), &definition.ProcessDefinition{Name: "x"})
	assert.ErrorIs(t, err, definition.ErrInvalidArgument)
}

func TestOpenRejectsPostgres(t *testing.T) {
	_, err := Open(context.Background(), sqlquery.Postgres, "postgres://x", 0)
	assert.ErrorIs(t, err, definition.ErrInvalidArgument)
}
