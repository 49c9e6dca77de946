package sqlquery

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/execution-hub/definition-registry/internal/domain/definition"
)

func TestParseDialect(t *testing.T) {
	for in, want := range map[string]Dialect{
		"pgx": Postgres, "PostgreSQL": Postgres, "mysql": MySQL, "sqlite3": SQLite, " sqlite ": SQLite,
	} {
		got, err := ParseDialect(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseDialect("oracle")
	assert.ErrorIs(t, err, definition.ErrInvalidArgument)
}

func TestPlaceholdersFollowDialect(t *testing.T) {
	pg, err := New(Postgres).DefinitionByCode(42)
	require.NoError(t, err)
	assert.Contains(t, pg.SQL, "WHERE code = $1")
	assert.Equal(t, []interface{}{int64(42)}, pg.Args)

	my, err := New(MySQL).DefinitionByCode(42)
	require.NoError(t, err)
	assert.Contains(t, my.SQL, "WHERE code = ?")
}

func TestInsertDefinitionReturning(t *testing.T) {
	def := &definition.ProcessDefinition{Code: 1, Name: "etl", Version: 1, ProjectCode: 9,
		ResourceIDs: []definition.ResourceID{3, 4}}
	Stamp(def, time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC))

	pg, err := New(Postgres).InsertDefinition(def)
	require.NoError(t, err)
	assert.Contains(t, pg.SQL, "RETURNING id")
	assert.Len(t, pg.Args, len(insertColumns))
	assert.Equal(t, "etl", pg.Args[len(pg.Args)-1])
	assert.Contains(t, pg.Args, "3,4")
	assert.Contains(t, pg.Args, "{}")
	assert.Contains(t, pg.Args, "[]")

	lite, err := New(SQLite).InsertDefinition(def)
	require.NoError(t, err)
	assert.NotContains(t, lite.SQL, "RETURNING")
}

func TestStampKeepsExistingTimes(t *testing.T) {
	created := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	def := &definition.ProcessDefinition{CreatedAt: created}
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	Stamp(def, now)
	assert.Equal(t, created, def.CreatedAt)
	assert.Equal(t, now, def.UpdatedAt)
}

func TestUpdateDefinitionLeavesVersionAlone(t *testing.T) {
	q, err := New(MySQL).UpdateDefinition(&definition.ProcessDefinition{ID: 5, Name: "n", Version: 9})
	require.NoError(t, err)
	assert.NotContains(t, q.SQL, "version")
	assert.NotContains(t, q.SQL, "code")
	assert.NotContains(t, q.SQL, "user_id")
	assert.NotContains(t, q.SQL, "release_state")
	assert.Contains(t, q.SQL, "search_name = ?")
	assert.Equal(t, 5, q.Args[len(q.Args)-1])
}

func TestUpdateReleaseStateTouchesOnlyState(t *testing.T) {
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	q, err := New(Postgres).UpdateReleaseStateByID(5, definition.ReleaseOnline, at)
	require.NoError(t, err)
	assert.Equal(t, "UPDATE process_definitions SET release_state = $1, updated_at = $2 WHERE id = $3", q.SQL)
	assert.Equal(t, []interface{}{1, at, 5}, q.Args)
}

func TestInsertDefinitionStoresSearchKey(t *testing.T) {
	q, err := New(SQLite).InsertDefinition(&definition.ProcessDefinition{Code: 1, Name: "Élan ETL", Version: 1, ProjectCode: 2})
	require.NoError(t, err)
	assert.Contains(t, q.SQL, "search_name")
	assert.Equal(t, "élan etl", q.Args[len(q.Args)-1])
}

func TestListPagedScope(t *testing.T) {
	b := New(Postgres)
	page := definition.PageSpec{PageNo: 3, PageSize: 10}

	list, count, err := b.ListPaged(page, definition.ListFilter{
		ProjectCode: 7,
		SearchVal:   "A_b",
		Scope:       definition.Owned(3),
	})
	require.NoError(t, err)
	assert.Contains(t, list.SQL, "project_code = $1")
	assert.Contains(t, list.SQL, "user_id = $2")
	assert.Contains(t, list.SQL, "search_name LIKE $3 ESCAPE '!'")
	assert.Contains(t, list.SQL, "ORDER BY updated_at DESC, id DESC")
	assert.Contains(t, list.SQL, "LIMIT 10")
	assert.Contains(t, list.SQL, "OFFSET 20")
	assert.Equal(t, []interface{}{int64(7), 3, "%a!_b%"}, list.Args)
	assert.Contains(t, count.SQL, "SELECT COUNT(*) FROM process_definitions")
	assert.Equal(t, list.Args, count.Args)

	list, _, err = b.ListPaged(page, definition.ListFilter{ProjectCode: 7, Scope: definition.AllInProject()})
	require.NoError(t, err)
	assert.NotContains(t, list.SQL, "user_id =")
	assert.NotContains(t, list.SQL, "LIKE")
	assert.Equal(t, []interface{}{int64(7)}, list.Args)
}

func TestSearchPatternEscapesWildcards(t *testing.T) {
	assert.Nil(t, SearchCondition(""))
	_, args, err := SearchCondition("50%!").ToSql()
	require.NoError(t, err)
	assert.Equal(t, []interface{}{"%50!%!!%"}, args)

	_, args, err = SearchCondition("ÉLAN").ToSql()
	require.NoError(t, err)
	assert.Equal(t, []interface{}{"%élan%"}, args)
}

func TestCountGroupByUser(t *testing.T) {
	q, err := New(MySQL).CountGroupByUser(definition.Owned(4), []definition.ProjectCode{1, 2})
	require.NoError(t, err)
	assert.Contains(t, q.SQL, "project_code IN (?,?)")
	assert.Contains(t, q.SQL, "user_id = ?")
	assert.Contains(t, q.SQL, "GROUP BY user_id")
	assert.Equal(t, []interface{}{int64(1), int64(2), 4}, q.Args)

	q, err = New(MySQL).CountGroupByUser(definition.AllInProject(), []definition.ProjectCode{1})
	require.NoError(t, err)
	assert.NotContains(t, q.SQL, "user_id =")
}

func TestVersionStatements(t *testing.T) {
	b := New(Postgres)
	max, err := b.MaxLogVersion(11)
	require.NoError(t, err)
	assert.Contains(t, max.SQL, "COALESCE(MAX(version), 0)")

	list, count, err := b.ListVersionsPaged(definition.PageSpec{PageNo: 1, PageSize: 5}, 11)
	require.NoError(t, err)
	assert.Contains(t, list.SQL, "FROM process_definition_logs")
	assert.Contains(t, list.SQL, "ORDER BY version DESC")
	assert.Contains(t, count.SQL, "COUNT(*)")

	del, err := b.DeleteLog(11, 2)
	require.NoError(t, err)
	assert.Contains(t, del.SQL, "DELETE FROM process_definition_logs")
	assert.ElementsMatch(t, []interface{}{int64(11), 2}, del.Args)

	log := definition.NewLog(&definition.ProcessDefinition{Code: 11, Name: "x", Version: 2, ProjectCode: 1}, 8, time.Now())
	ins, err := b.InsertLog(log)
	require.NoError(t, err)
	assert.Len(t, ins.Args, len(LogColumns)-1)
	assert.Contains(t, ins.SQL, "RETURNING id")
}

func TestResourceRefsOwner(t *testing.T) {
	owner := definition.UserID(6)
	q, err := New(SQLite).ResourceRefs(&owner)
	require.NoError(t, err)
	assert.Contains(t, q.SQL, "resource_ids <> ?")
	assert.Contains(t, q.SQL, "user_id = ?")
	assert.Equal(t, []interface{}{"", 6}, q.Args)

	q, err = New(SQLite).ResourceRefs(nil)
	require.NoError(t, err)
	assert.NotContains(t, q.SQL, "user_id")
}
