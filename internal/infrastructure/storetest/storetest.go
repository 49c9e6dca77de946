// Package storetest is a behavioural suite every definition.Repository
// implementation must pass. Store packages call Run from their own tests.
package storetest

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/execution-hub/definition-registry/internal/domain/definition"
)

// Factory returns an empty repository for one subtest.
type Factory func(t *testing.T) definition.Repository

var nextCode atomic.Int64

// NewDefinition returns a valid, unsaved definition with a fresh code.
func NewDefinition(project definition.ProjectCode, name string, owner definition.UserID) *definition.ProcessDefinition {
	return &definition.ProcessDefinition{
		Code:         definition.Code(1_000_000 + nextCode.Add(1)),
		Name:         name,
		Version:      1,
		ProjectCode:  project,
		Description:  "nightly load",
		GlobalParams: []byte(`[{"prop":"day","value":"1"}]`),
		Payload:      []byte(`{"tasks":[{"code":1}]}`),
		Timeout:      30,
		TenantID:     1,
		UserID:       owner,
	}
}

func create(t *testing.T, repo definition.Repository, def *definition.ProcessDefinition) *definition.ProcessDefinition {
	t.Helper()
	require.NoError(t, repo.Create(context.Background(), def))
	require.NotZero(t, def.ID)
	return def
}

// Run executes the suite against fresh repositories from newRepo.
func Run(t *testing.T, newRepo Factory) {
	tests := []struct {
		name string
		fn   func(t *testing.T, repo definition.Repository)
	}{
		{"AbsentCode", testAbsentCode},
		{"CreateAndLookup", testCreateAndLookup},
		{"VerifyByNameIsProjectScoped", testVerifyByName},
		{"UniqueProjectName", testUniqueProjectName},
		{"UniqueCode", testUniqueCode},
		{"SequentialEdits", testSequentialEdits},
		{"ListPagedScope", testListPagedScope},
		{"ListPagedSearch", testListPagedSearch},
		{"ListPagedSearchFoldsUnicode", testListPagedSearchFoldsUnicode},
		{"ListPagedRejectsBadPage", testListPagedRejectsBadPage},
		{"BatchLookupOmitsMissing", testBatchLookup},
		{"CountGroupByUser", testCountGroupByUser},
		{"UpdateVersionByID", testUpdateVersionByID},
		{"UpdateKeepsVersion", testUpdateKeepsVersion},
		{"UpdateRejectsNil", testUpdateRejectsNil},
		{"UpdateReleaseStateByID", testUpdateReleaseStateByID},
		{"ReleaseKeepsConcurrentEdit", testReleaseKeepsConcurrentEdit},
		{"PayloadBytesPreserved", testPayloadBytesPreserved},
		{"ListByProjectAndTenant", testListByProjectAndTenant},
		{"Resources", testResources},
		{"ProjectCodes", testProjectCodes},
		{"HasAssociatedDefinition", testHasAssociatedDefinition},
		{"DeleteRetainsHistory", testDeleteRetainsHistory},
		{"LogVersionUnique", testLogVersionUnique},
		{"TransactionRollback", testTransactionRollback},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.fn(t, newRepo(t))
		})
	}
}

func testAbsentCode(t *testing.T, repo definition.Repository) {
	ctx := context.Background()
	def, err := repo.GetByCode(ctx, 987654321)
	require.NoError(t, err)
	assert.Nil(t, def)

	for i := 0; i < 2; i++ {
		n, err := repo.DeleteByCode(ctx, 987654321)
		require.NoError(t, err)
		assert.Zero(t, n)
	}

	byID, err := repo.GetByID(ctx, 424242)
	require.NoError(t, err)
	assert.Nil(t, byID)

	log, err := repo.GetLog(ctx, 987654321, 1)
	require.NoError(t, err)
	assert.Nil(t, log)

	latest, err := repo.MaxLogVersion(ctx, 987654321)
	require.NoError(t, err)
	assert.Zero(t, latest)
}

func testCreateAndLookup(t *testing.T, repo definition.Repository) {
	ctx := context.Background()
	def := NewDefinition(7, "A", 1)
	def.ResourceIDs = []definition.ResourceID{3, 5}
	create(t, repo, def)

	got, err := repo.GetByCode(ctx, def.Code)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, def.ID, got.ID)
	assert.Equal(t, def.Name, got.Name)
	assert.Equal(t, 1, got.Version)
	assert.Equal(t, definition.ReleaseOffline, got.ReleaseState)
	assert.Equal(t, def.Description, got.Description)
	assert.JSONEq(t, string(def.GlobalParams), string(got.GlobalParams))
	assert.JSONEq(t, string(def.Payload), string(got.Payload))
	assert.Equal(t, def.ResourceIDs, got.ResourceIDs)
	assert.Equal(t, def.Timeout, got.Timeout)
	assert.WithinDuration(t, def.CreatedAt, got.CreatedAt, time.Millisecond)

	byID, err := repo.GetByID(ctx, def.ID)
	require.NoError(t, err)
	require.NotNil(t, byID)
	assert.Equal(t, def.Code, byID.Code)

	byName, err := repo.GetByName(ctx, 7, "A")
	require.NoError(t, err)
	require.NotNil(t, byName)
	assert.Equal(t, def.Code, byName.Code)
}

func testVerifyByName(t *testing.T, repo definition.Repository) {
	ctx := context.Background()
	def := create(t, repo, NewDefinition(7, "A", 1))

	found, err := repo.VerifyByName(ctx, 7, "A")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, def.Code, found.Code)

	other, err := repo.VerifyByName(ctx, 8, "A")
	require.NoError(t, err)
	assert.Nil(t, other)
}

func testUniqueProjectName(t *testing.T, repo definition.Repository) {
	create(t, repo, NewDefinition(7, "dup", 1))
	err := repo.Create(context.Background(), NewDefinition(7, "dup", 2))
	require.ErrorIs(t, err, definition.ErrConstraintViolation)

	var ce *definition.ConstraintError
	if errors.As(err, &ce) && ce.Constraint != "" {
		assert.Equal(t, definition.ConstraintProjectName, ce.Constraint)
	}

	create(t, repo, NewDefinition(8, "dup", 1))
}

func testUniqueCode(t *testing.T, repo definition.Repository) {
	first := create(t, repo, NewDefinition(7, "first", 1))
	second := NewDefinition(9, "second", 1)
	second.Code = first.Code
	err := repo.Create(context.Background(), second)
	require.ErrorIs(t, err, definition.ErrConstraintViolation)
}

// edit appends the next snapshot and advances the live version, as callers do.
func edit(t *testing.T, repo definition.Repository, def *definition.ProcessDefinition, operator definition.UserID) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, repo.WithinTx(ctx, func(tx definition.Repository) error {
		latest, err := tx.MaxLogVersion(ctx, def.Code)
		if err != nil {
			return err
		}
		next := latest + 1
		def.Version = next
		if err := tx.CreateLog(ctx, definition.NewLog(def, operator, time.Now())); err != nil {
			return err
		}
		return tx.UpdateVersionByID(ctx, def.ID, next)
	}))
}

func testSequentialEdits(t *testing.T, repo definition.Repository) {
	ctx := context.Background()
	def := create(t, repo, NewDefinition(7, "edited", 1))
	require.NoError(t, repo.CreateLog(ctx, definition.NewLog(def, 1, time.Now())))

	const n = 5
	for i := 1; i < n; i++ {
		edit(t, repo, def, 1)
	}

	live, err := repo.GetByCode(ctx, def.Code)
	require.NoError(t, err)
	assert.Equal(t, n, live.Version)

	page, err := repo.ListVersionsPaged(ctx, definition.PageSpec{PageNo: 1, PageSize: 100}, def.Code)
	require.NoError(t, err)
	assert.EqualValues(t, n, page.Total)
	require.Len(t, page.Items, n)
	for i := 1; i < len(page.Items); i++ {
		assert.Greater(t, page.Items[i-1].Version, page.Items[i].Version)
	}
	assert.Equal(t, n, page.Items[0].Version)

	second, err := repo.ListVersionsPaged(ctx, definition.PageSpec{PageNo: 2, PageSize: 2}, def.Code)
	require.NoError(t, err)
	require.Len(t, second.Items, 2)
	assert.Equal(t, n-2, second.Items[0].Version)

	snap, err := repo.GetLog(ctx, def.Code, 3)
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Equal(t, 3, snap.Version)
	assert.Equal(t, definition.UserID(1), snap.Operator)
	assert.Equal(t, def.Name, snap.Name)

	latest, err := repo.MaxLogVersion(ctx, def.Code)
	require.NoError(t, err)
	assert.Equal(t, n, latest)
}

func testListPagedScope(t *testing.T, repo definition.Repository) {
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		create(t, repo, NewDefinition(7, fmt.Sprintf("u1-%d", i), 1))
		create(t, repo, NewDefinition(7, fmt.Sprintf("u2-%d", i), 2))
	}
	create(t, repo, NewDefinition(8, "u1-other-project", 1))

	page := definition.PageSpec{PageNo: 1, PageSize: 2}
	owned, err := repo.ListPaged(ctx, page, definition.ListFilter{ProjectCode: 7, Scope: definition.ScopeFor(1, false)})
	require.NoError(t, err)
	assert.EqualValues(t, 3, owned.Total)
	assert.Len(t, owned.Items, 2)
	assert.Equal(t, 2, owned.TotalPages())

	for pageNo := 1; pageNo <= 2; pageNo++ {
		got, err := repo.ListPaged(ctx, definition.PageSpec{PageNo: pageNo, PageSize: 2},
			definition.ListFilter{ProjectCode: 7, Scope: definition.ScopeFor(1, false)})
		require.NoError(t, err)
		for _, def := range got.Items {
			assert.Equal(t, definition.UserID(1), def.UserID)
			assert.Equal(t, definition.ProjectCode(7), def.ProjectCode)
		}
	}

	all, err := repo.ListPaged(ctx, definition.PageSpec{PageNo: 1, PageSize: 10},
		definition.ListFilter{ProjectCode: 7, Scope: definition.ScopeFor(1, true)})
	require.NoError(t, err)
	assert.EqualValues(t, 6, all.Total)
	owners := map[definition.UserID]bool{}
	for _, def := range all.Items {
		owners[def.UserID] = true
		assert.Equal(t, definition.ProjectCode(7), def.ProjectCode)
	}
	assert.Len(t, owners, 2)

	beyond, err := repo.ListPaged(ctx, definition.PageSpec{PageNo: 9, PageSize: 10},
		definition.ListFilter{ProjectCode: 7, Scope: definition.AllInProject()})
	require.NoError(t, err)
	assert.EqualValues(t, 6, beyond.Total)
	assert.Empty(t, beyond.Items)
}

func testListPagedSearch(t *testing.T, repo definition.Repository) {
	ctx := context.Background()
	create(t, repo, NewDefinition(7, "Daily_Report", 1))
	create(t, repo, NewDefinition(7, "dailyXreport", 1))
	create(t, repo, NewDefinition(7, "weekly 100%", 1))

	search := func(val string) []string {
		page, err := repo.ListPaged(ctx, definition.PageSpec{PageNo: 1, PageSize: 10},
			definition.ListFilter{ProjectCode: 7, SearchVal: val, Scope: definition.AllInProject()})
		require.NoError(t, err)
		names := make([]string, 0, len(page.Items))
		for _, def := range page.Items {
			names = append(names, def.Name)
		}
		return names
	}

	assert.ElementsMatch(t, []string{"Daily_Report", "dailyXreport"}, search("DAILY"))
	assert.ElementsMatch(t, []string{"Daily_Report"}, search("y_r"))
	assert.ElementsMatch(t, []string{"weekly 100%"}, search("0%"))
	assert.Empty(t, search("monthly"))
	assert.Len(t, search(""), 3)
}

func testListPagedSearchFoldsUnicode(t *testing.T, repo definition.Repository) {
	ctx := context.Background()
	create(t, repo, NewDefinition(7, "Élan ETL", 1))
	create(t, repo, NewDefinition(7, "ÜBERSICHT", 1))
	create(t, repo, NewDefinition(7, "plain", 1))

	total := func(val string) int64 {
		page, err := repo.ListPaged(ctx, definition.PageSpec{PageNo: 1, PageSize: 10},
			definition.ListFilter{ProjectCode: 7, SearchVal: val, Scope: definition.AllInProject()})
		require.NoError(t, err)
		return page.Total
	}

	for _, val := range []string{"ÉLAN", "élan", "Élan", "etl"} {
		assert.EqualValues(t, 1, total(val), val)
	}
	assert.EqualValues(t, 1, total("übersicht"))
	assert.EqualValues(t, 1, total("Übersicht"))
	assert.Zero(t, total("elan"))
}

func testListPagedRejectsBadPage(t *testing.T, repo definition.Repository) {
	ctx := context.Background()
	for _, page := range []definition.PageSpec{{PageNo: 0, PageSize: 10}, {PageNo: 1, PageSize: -1}} {
		_, err := repo.ListPaged(ctx, page, definition.ListFilter{ProjectCode: 7})
		assert.ErrorIs(t, err, definition.ErrInvalidArgument)
		_, err = repo.ListVersionsPaged(ctx, page, 1)
		assert.ErrorIs(t, err, definition.ErrInvalidArgument)
	}
}

func testBatchLookup(t *testing.T, repo definition.Repository) {
	ctx := context.Background()
	a := create(t, repo, NewDefinition(7, "a", 1))
	b := create(t, repo, NewDefinition(7, "b", 1))

	got, err := repo.ListByCodes(ctx, []definition.Code{a.Code, 999999991, b.Code, 999999992})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.ElementsMatch(t, []definition.Code{a.Code, b.Code}, []definition.Code{got[0].Code, got[1].Code})

	byIDs, err := repo.ListByIDs(ctx, []definition.ID{a.ID, 999999})
	require.NoError(t, err)
	require.Len(t, byIDs, 1)
	assert.Equal(t, a.Code, byIDs[0].Code)

	empty, err := repo.ListByCodes(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func testCountGroupByUser(t *testing.T, repo definition.Repository) {
	ctx := context.Background()
	const p, u1, u2 = definition.ProjectCode(70), definition.UserID(11), definition.UserID(12)
	create(t, repo, NewDefinition(p, "x", u1))
	create(t, repo, NewDefinition(p, "y", u2))
	create(t, repo, NewDefinition(71, "z", u1))

	all, err := repo.CountGroupByUser(ctx, definition.ScopeFor(u1, true), []definition.ProjectCode{p})
	require.NoError(t, err)
	assert.Equal(t, []definition.DefinitionGroupByUser{{UserID: u1, Count: 1}, {UserID: u2, Count: 1}}, all)

	owned, err := repo.CountGroupByUser(ctx, definition.ScopeFor(u1, false), []definition.ProjectCode{p})
	require.NoError(t, err)
	assert.Equal(t, []definition.DefinitionGroupByUser{{UserID: u1, Count: 1}}, owned)

	both, err := repo.CountGroupByUser(ctx, definition.ScopeFor(u1, false), []definition.ProjectCode{p, 71})
	require.NoError(t, err)
	assert.Equal(t, []definition.DefinitionGroupByUser{{UserID: u1, Count: 2}}, both)

	none, err := repo.CountGroupByUser(ctx, definition.AllInProject(), nil)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func testUpdateVersionByID(t *testing.T, repo definition.Repository) {
	ctx := context.Background()
	def := create(t, repo, NewDefinition(7, "bump", 1))
	before, err := repo.GetByID(ctx, def.ID)
	require.NoError(t, err)

	require.NoError(t, repo.UpdateVersionByID(ctx, def.ID, 5))

	after, err := repo.GetByID(ctx, def.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, after.Version)
	after.Version = before.Version
	assert.Equal(t, before, after)
}

func testUpdateKeepsVersion(t *testing.T, repo definition.Repository) {
	ctx := context.Background()
	def := create(t, repo, NewDefinition(7, "content", 1))
	def.Name = "content-renamed"
	def.Version = 9
	def.ReleaseState = definition.ReleaseOnline
	def.Payload = []byte(`{"tasks":[]}`)
	n, err := repo.Update(ctx, def)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	got, err := repo.GetByCode(ctx, def.Code)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Version)
	assert.Equal(t, "content-renamed", got.Name)
	assert.Equal(t, definition.ReleaseOffline, got.ReleaseState)
	assert.JSONEq(t, `{"tasks":[]}`, string(got.Payload))

	taken := create(t, repo, NewDefinition(7, "taken", 1))
	taken.Name = "content-renamed"
	_, err = repo.Update(ctx, taken)
	assert.ErrorIs(t, err, definition.ErrConstraintViolation)
}

func testUpdateRejectsNil(t *testing.T, repo definition.Repository) {
	ctx := context.Background()
	_, err := repo.Update(ctx, nil)
	assert.ErrorIs(t, err, definition.ErrInvalidArgument)
	assert.ErrorIs(t, repo.Create(ctx, nil), definition.ErrInvalidArgument)
}

func testUpdateReleaseStateByID(t *testing.T, repo definition.Repository) {
	ctx := context.Background()
	def := create(t, repo, NewDefinition(7, "released", 1))
	before, err := repo.GetByID(ctx, def.ID)
	require.NoError(t, err)

	n, err := repo.UpdateReleaseStateByID(ctx, def.ID, definition.ReleaseOnline)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	after, err := repo.GetByID(ctx, def.ID)
	require.NoError(t, err)
	assert.Equal(t, definition.ReleaseOnline, after.ReleaseState)
	assert.Equal(t, before.Name, after.Name)
	assert.Equal(t, before.Version, after.Version)
	assert.Equal(t, before.Payload, after.Payload)

	// A content write afterwards leaves the release state alone.
	after.Description = "edited while online"
	after.ReleaseState = definition.ReleaseOffline
	_, err = repo.Update(ctx, after)
	require.NoError(t, err)
	again, err := repo.GetByID(ctx, def.ID)
	require.NoError(t, err)
	assert.Equal(t, definition.ReleaseOnline, again.ReleaseState)
	assert.Equal(t, "edited while online", again.Description)

	n, err = repo.UpdateReleaseStateByID(ctx, 999999, definition.ReleaseOnline)
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = repo.UpdateReleaseStateByID(ctx, def.ID, definition.ReleaseState(7))
	assert.ErrorIs(t, err, definition.ErrInvalidArgument)
}

// A release decided on a stale read must not roll back an edit that was
// committed in between.
func testReleaseKeepsConcurrentEdit(t *testing.T, repo definition.Repository) {
	ctx := context.Background()
	def := create(t, repo, NewDefinition(7, "before-edit", 1))
	require.NoError(t, repo.CreateLog(ctx, definition.NewLog(def, 1, time.Now())))

	stale, err := repo.GetByCode(ctx, def.Code)
	require.NoError(t, err)

	edited := *stale
	edited.Name = "after-edit"
	edited.Payload = []byte(`{"tasks":[{"code":2}]}`)
	_, err = repo.Update(ctx, &edited)
	require.NoError(t, err)
	edit(t, repo, &edited, 1)

	n, err := repo.UpdateReleaseStateByID(ctx, stale.ID, definition.ReleaseOnline)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	live, err := repo.GetByCode(ctx, def.Code)
	require.NoError(t, err)
	require.NotNil(t, live)
	assert.Equal(t, definition.ReleaseOnline, live.ReleaseState)
	assert.Equal(t, 2, live.Version)
	assert.Equal(t, "after-edit", live.Name)
	assert.JSONEq(t, `{"tasks":[{"code":2}]}`, string(live.Payload))

	snap, err := repo.GetLog(ctx, def.Code, live.Version)
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Equal(t, live.Name, snap.Name)
	assert.JSONEq(t, string(live.Payload), string(snap.Payload))
}

func testPayloadBytesPreserved(t *testing.T, repo definition.Repository) {
	ctx := context.Background()
	def := NewDefinition(7, "verbatim", 1)
	def.Payload = []byte(`{"b": 1,  "a": [2, 2], "b": 3}`)
	def.GlobalParams = []byte(`[ {"prop":"x"} ]`)
	create(t, repo, def)
	require.NoError(t, repo.CreateLog(ctx, definition.NewLog(def, 1, time.Now())))

	got, err := repo.GetByCode(ctx, def.Code)
	require.NoError(t, err)
	assert.Equal(t, string(def.Payload), string(got.Payload))
	assert.Equal(t, string(def.GlobalParams), string(got.GlobalParams))

	snap, err := repo.GetLog(ctx, def.Code, 1)
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Equal(t, string(def.Payload), string(snap.Payload))
}

func testListByProjectAndTenant(t *testing.T, repo definition.Repository) {
	ctx := context.Background()
	a := NewDefinition(7, "a", 1)
	a.TenantID = 3
	create(t, repo, a)
	b := create(t, repo, NewDefinition(7, "b", 2))
	create(t, repo, NewDefinition(8, "c", 1))

	project, err := repo.ListByProject(ctx, 7)
	require.NoError(t, err)
	require.Len(t, project, 2)
	assert.Equal(t, a.Code, project[0].Code)
	assert.Equal(t, b.Code, project[1].Code)

	tenant, err := repo.ListByTenant(ctx, 3)
	require.NoError(t, err)
	require.Len(t, tenant, 1)
	assert.Equal(t, a.Code, tenant[0].Code)

	none, err := repo.ListByProject(ctx, 99)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func testResources(t *testing.T, repo definition.Repository) {
	ctx := context.Background()
	a := NewDefinition(7, "a", 1)
	a.ResourceIDs = []definition.ResourceID{1, 2}
	b := NewDefinition(7, "b", 2)
	b.ResourceIDs = []definition.ResourceID{2, 3}
	create(t, repo, a)
	create(t, repo, b)
	create(t, repo, NewDefinition(7, "none", 1))

	all, err := repo.ListResources(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []definition.Code{a.Code}, all[1].DefinitionCodes)
	assert.ElementsMatch(t, []definition.Code{a.Code, b.Code}, all[2].DefinitionCodes)
	assert.Equal(t, definition.ResourceID(3), all[3].ResourceID)

	mine, err := repo.ListResourcesByUser(ctx, 2)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Contains(t, mine, definition.ResourceID(2))
	assert.Contains(t, mine, definition.ResourceID(3))
	assert.NotContains(t, mine, definition.ResourceID(1))
}

func testProjectCodes(t *testing.T, repo definition.Repository) {
	ctx := context.Background()
	create(t, repo, NewDefinition(30, "a", 1))
	create(t, repo, NewDefinition(10, "b", 1))
	create(t, repo, NewDefinition(30, "c", 1))

	codes, err := repo.ListProjectCodes(ctx)
	require.NoError(t, err)
	assert.Equal(t, []definition.ProjectCode{10, 30}, codes)
}

func testHasAssociatedDefinition(t *testing.T, repo definition.Repository) {
	ctx := context.Background()
	def := create(t, repo, NewDefinition(7, "assoc", 1))

	id, ok, err := repo.HasAssociatedDefinition(ctx, def.ID, 1)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, def.ID, id)

	_, ok, err = repo.HasAssociatedDefinition(ctx, def.ID, 2)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repo.UpdateVersionByID(ctx, def.ID, 2))
	_, ok, err = repo.HasAssociatedDefinition(ctx, def.ID, 1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func testDeleteRetainsHistory(t *testing.T, repo definition.Repository) {
	ctx := context.Background()
	def := create(t, repo, NewDefinition(7, "gone", 1))
	require.NoError(t, repo.CreateLog(ctx, definition.NewLog(def, 1, time.Now())))

	n, err := repo.DeleteByCode(ctx, def.Code)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	live, err := repo.GetByCode(ctx, def.Code)
	require.NoError(t, err)
	assert.Nil(t, live)

	log, err := repo.GetLog(ctx, def.Code, 1)
	require.NoError(t, err)
	require.NotNil(t, log)

	n, err = repo.DeleteLog(ctx, def.Code, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	n, err = repo.DeleteLog(ctx, def.Code, 1)
	require.NoError(t, err)
	assert.Zero(t, n)

	// The name is free again once the live row is gone.
	create(t, repo, NewDefinition(7, "gone", 1))
}

func testLogVersionUnique(t *testing.T, repo definition.Repository) {
	ctx := context.Background()
	def := create(t, repo, NewDefinition(7, "logged", 1))
	require.NoError(t, repo.CreateLog(ctx, definition.NewLog(def, 1, time.Now())))
	err := repo.CreateLog(ctx, definition.NewLog(def, 1, time.Now()))
	assert.ErrorIs(t, err, definition.ErrConstraintViolation)
}

func testTransactionRollback(t *testing.T, repo definition.Repository) {
	ctx := context.Background()
	def := create(t, repo, NewDefinition(7, "tx", 1))
	boom := errors.New("boom")

	err := repo.WithinTx(ctx, func(tx definition.Repository) error {
		def.Version = 2
		if err := tx.CreateLog(ctx, definition.NewLog(def, 1, time.Now())); err != nil {
			return err
		}
		if err := tx.UpdateVersionByID(ctx, def.ID, 2); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	live, err := repo.GetByCode(ctx, def.Code)
	require.NoError(t, err)
	assert.Equal(t, 1, live.Version)
	log, err := repo.GetLog(ctx, def.Code, 2)
	require.NoError(t, err)
	assert.Nil(t, log)
}
