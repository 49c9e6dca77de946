package definition

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/execution-hub/definition-registry/internal/domain/definition"
	"github.com/execution-hub/definition-registry/internal/domain/definition/mocks"
)

type fixedCodes struct{ next definition.Code }

func (f *fixedCodes) NextCode() definition.Code {
	f.next++
	return f.next
}

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newService(t *testing.T) (*Service, *mocks.MockRepository) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockRepository(ctrl)
	svc := NewService(repo, &fixedCodes{next: 100}, zerolog.Nop())
	svc.now = func() time.Time { return fixedNow }
	return svc, repo
}

// inTx makes WithinTx run its callback against the same mock.
func inTx(repo *mocks.MockRepository) {
	repo.EXPECT().WithinTx(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(definition.Repository) error) error {
			return fn(repo)
		})
}

func TestCreate(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()

	repo.EXPECT().VerifyByName(ctx, definition.ProjectCode(7), "etl").Return(nil, nil)
	inTx(repo)
	repo.EXPECT().Create(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, def *definition.ProcessDefinition) error {
			assert.Equal(t, definition.Code(101), def.Code)
			assert.Equal(t, 1, def.Version)
			assert.Equal(t, definition.ReleaseOffline, def.ReleaseState)
			assert.Equal(t, definition.UserID(3), def.UserID)
			def.ID = 9
			return nil
		})
	repo.EXPECT().CreateLog(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, log *definition.ProcessDefinitionLog) error {
			assert.Equal(t, definition.Code(101), log.Code)
			assert.Equal(t, 1, log.Version)
			assert.Equal(t, definition.UserID(3), log.Operator)
			assert.Zero(t, log.ID)
			return nil
		})

	def, err := svc.Create(ctx, 3, CreateInput{ProjectCode: 7, Name: "etl", Payload: []byte(`{}`)})
	require.NoError(t, err)
	assert.Equal(t, definition.ID(9), def.ID)
}

func TestCreateNameTaken(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()
	repo.EXPECT().VerifyByName(ctx, definition.ProjectCode(7), "etl").
		Return(&definition.ProcessDefinition{Code: 5}, nil)

	_, err := svc.Create(ctx, 3, CreateInput{ProjectCode: 7, Name: "etl"})
	var ce *definition.ConstraintError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, definition.ConstraintProjectName, ce.Constraint)
}

func TestCreateRejectsBadInputBeforeStorage(t *testing.T) {
	svc, _ := newService(t)
	_, err := svc.Create(context.Background(), 3, CreateInput{ProjectCode: 7, Name: " "})
	assert.ErrorIs(t, err, definition.ErrInvalidArgument)
	_, err = svc.Create(context.Background(), 3, CreateInput{Name: "x"})
	assert.ErrorIs(t, err, definition.ErrInvalidArgument)
}

func TestCreateRaceSurfacesConstraint(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()
	repo.EXPECT().VerifyByName(ctx, definition.ProjectCode(7), "etl").Return(nil, nil)
	repo.EXPECT().WithinTx(ctx, gomock.Any()).
		Return(definition.NewConstraintError(definition.ConstraintProjectName, errors.New("duplicate")))

	_, err := svc.Create(ctx, 3, CreateInput{ProjectCode: 7, Name: "etl"})
	assert.ErrorIs(t, err, definition.ErrConstraintViolation)
}

func live(code definition.Code, version int) *definition.ProcessDefinition {
	return &definition.ProcessDefinition{
		ID: 9, Code: code, Name: "etl", Version: version, ProjectCode: 7, UserID: 3,
		Payload: []byte(`{}`),
	}
}

func TestUpdateAdvancesVersion(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()

	inTx(repo)
	repo.EXPECT().GetByCode(ctx, definition.Code(42)).Return(live(42, 3), nil)
	repo.EXPECT().VerifyByName(ctx, definition.ProjectCode(7), "etl-v2").Return(nil, nil)
	repo.EXPECT().MaxLogVersion(ctx, definition.Code(42)).Return(3, nil)
	gomock.InOrder(
		repo.EXPECT().CreateLog(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, log *definition.ProcessDefinitionLog) error {
				assert.Equal(t, 4, log.Version)
				assert.Equal(t, "etl-v2", log.Name)
				assert.Equal(t, definition.UserID(8), log.Operator)
				return nil
			}),
		repo.EXPECT().Update(ctx, gomock.Any()).Return(int64(1), nil),
		repo.EXPECT().UpdateVersionByID(ctx, definition.ID(9), 4).Return(nil),
	)

	def, err := svc.Update(ctx, 8, 42, UpdateInput{Name: "etl-v2", Timeout: 5})
	require.NoError(t, err)
	assert.Equal(t, 4, def.Version)
	assert.Equal(t, 5, def.Timeout)
	assert.Equal(t, definition.UserID(3), def.UserID)
}

func TestUpdateUsesLiveVersionWhenHistoryLags(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()

	inTx(repo)
	repo.EXPECT().GetByCode(ctx, definition.Code(42)).Return(live(42, 6), nil)
	repo.EXPECT().VerifyByName(ctx, definition.ProjectCode(7), "etl").Return(live(42, 6), nil)
	repo.EXPECT().MaxLogVersion(ctx, definition.Code(42)).Return(2, nil)
	repo.EXPECT().CreateLog(ctx, gomock.Any()).Return(nil)
	repo.EXPECT().Update(ctx, gomock.Any()).Return(int64(1), nil)
	repo.EXPECT().UpdateVersionByID(ctx, definition.ID(9), 7).Return(nil)

	def, err := svc.Update(ctx, 3, 42, UpdateInput{Name: "etl"})
	require.NoError(t, err)
	assert.Equal(t, 7, def.Version)
}

func TestUpdateMissingOrOnline(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()

	inTx(repo)
	repo.EXPECT().GetByCode(ctx, definition.Code(42)).Return(nil, nil)
	_, err := svc.Update(ctx, 3, 42, UpdateInput{Name: "etl"})
	assert.ErrorIs(t, err, definition.ErrNotFound)

	online := live(43, 1)
	online.ReleaseState = definition.ReleaseOnline
	inTx(repo)
	repo.EXPECT().GetByCode(ctx, definition.Code(43)).Return(online, nil)
	_, err = svc.Update(ctx, 3, 43, UpdateInput{Name: "etl"})
	assert.ErrorIs(t, err, definition.ErrInvalidArgument)
}

func TestUpdateRenameCollision(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()

	inTx(repo)
	repo.EXPECT().GetByCode(ctx, definition.Code(42)).Return(live(42, 1), nil)
	repo.EXPECT().VerifyByName(ctx, definition.ProjectCode(7), "other").Return(live(77, 1), nil)

	_, err := svc.Update(ctx, 3, 42, UpdateInput{Name: "other"})
	assert.ErrorIs(t, err, definition.ErrConstraintViolation)
}

func TestSwitchVersion(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()

	snap := definition.NewLog(live(42, 2), 3, fixedNow)
	snap.Name = "etl-old"
	snap.Timeout = 60

	inTx(repo)
	repo.EXPECT().GetByCode(ctx, definition.Code(42)).Return(live(42, 5), nil)
	repo.EXPECT().GetLog(ctx, definition.Code(42), 2).Return(snap, nil)
	repo.EXPECT().VerifyByName(ctx, definition.ProjectCode(7), "etl-old").Return(nil, nil)
	repo.EXPECT().MaxLogVersion(ctx, definition.Code(42)).Return(5, nil)
	repo.EXPECT().CreateLog(ctx, gomock.Any()).Return(nil)
	repo.EXPECT().Update(ctx, gomock.Any()).Return(int64(1), nil)
	repo.EXPECT().UpdateVersionByID(ctx, definition.ID(9), 6).Return(nil)

	def, err := svc.SwitchVersion(ctx, 3, 42, 2)
	require.NoError(t, err)
	assert.Equal(t, 6, def.Version)
	assert.Equal(t, "etl-old", def.Name)
	assert.Equal(t, 60, def.Timeout)
}

func TestSwitchVersionMissingSnapshot(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()

	inTx(repo)
	repo.EXPECT().GetByCode(ctx, definition.Code(42)).Return(live(42, 5), nil)
	repo.EXPECT().GetLog(ctx, definition.Code(42), 9).Return(nil, nil)

	_, err := svc.SwitchVersion(ctx, 3, 42, 9)
	assert.ErrorIs(t, err, definition.ErrNotFound)
}

func TestRelease(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()

	inTx(repo)
	online := live(42, 2)
	online.ReleaseState = definition.ReleaseOnline
	gomock.InOrder(
		repo.EXPECT().GetByCode(ctx, definition.Code(42)).Return(live(42, 2), nil),
		repo.EXPECT().UpdateReleaseStateByID(ctx, definition.ID(9), definition.ReleaseOnline).Return(int64(1), nil),
		repo.EXPECT().GetByCode(ctx, definition.Code(42)).Return(online, nil),
	)

	def, err := svc.Release(ctx, 42, definition.ReleaseOnline)
	require.NoError(t, err)
	assert.Equal(t, 2, def.Version)
	assert.Equal(t, definition.ReleaseOnline, def.ReleaseState)

	_, err = svc.Release(ctx, 42, definition.ReleaseState(7))
	assert.ErrorIs(t, err, definition.ErrInvalidArgument)
}

// Release must never write content columns: an edit committed between its
// read and write would otherwise be rolled back under the new version.
func TestReleaseReturnsRowWrittenByConcurrentEdit(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()

	inTx(repo)
	stale := live(42, 1)
	stale.Name = "old"
	edited := live(42, 2)
	edited.Name = "new"
	edited.ReleaseState = definition.ReleaseOnline
	gomock.InOrder(
		repo.EXPECT().GetByCode(ctx, definition.Code(42)).Return(stale, nil),
		repo.EXPECT().UpdateReleaseStateByID(ctx, definition.ID(9), definition.ReleaseOnline).Return(int64(1), nil),
		repo.EXPECT().GetByCode(ctx, definition.Code(42)).Return(edited, nil),
	)

	def, err := svc.Release(ctx, 42, definition.ReleaseOnline)
	require.NoError(t, err)
	assert.Equal(t, "new", def.Name)
	assert.Equal(t, 2, def.Version)
}

func TestReleaseAlreadyInState(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()

	inTx(repo)
	repo.EXPECT().GetByCode(ctx, definition.Code(42)).Return(live(42, 2), nil).Times(2)

	def, err := svc.Release(ctx, 42, definition.ReleaseOffline)
	require.NoError(t, err)
	assert.Equal(t, definition.ReleaseOffline, def.ReleaseState)
}

func TestDelete(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()

	inTx(repo)
	repo.EXPECT().GetByCode(ctx, definition.Code(42)).Return(live(42, 2), nil)
	repo.EXPECT().DeleteByCode(ctx, definition.Code(42)).Return(int64(1), nil)
	require.NoError(t, svc.Delete(ctx, 42))

	inTx(repo)
	repo.EXPECT().GetByCode(ctx, definition.Code(43)).Return(nil, nil)
	assert.ErrorIs(t, svc.Delete(ctx, 43), definition.ErrNotFound)

	inTx(repo)
	online := live(44, 1)
	online.ReleaseState = definition.ReleaseOnline
	repo.EXPECT().GetByCode(ctx, definition.Code(44)).Return(online, nil)
	assert.ErrorIs(t, svc.Delete(ctx, 44), definition.ErrInvalidArgument)
}

func TestDeleteRunsInsideTransaction(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()

	repo.EXPECT().WithinTx(ctx, gomock.Any()).Return(definition.Unavailable(errors.New("tx begin failed")))
	assert.ErrorIs(t, svc.Delete(ctx, 42), definition.ErrStoreUnavailable)
}

func TestDeleteVersionGuardsCurrent(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()

	repo.EXPECT().GetByCode(ctx, definition.Code(42)).Return(live(42, 3), nil).Times(2)
	repo.EXPECT().HasAssociatedDefinition(ctx, definition.ID(9), 3).Return(definition.ID(9), true, nil)
	assert.ErrorIs(t, svc.DeleteVersion(ctx, 42, 3), definition.ErrInvalidArgument)

	repo.EXPECT().HasAssociatedDefinition(ctx, definition.ID(9), 1).Return(definition.ID(0), false, nil)
	repo.EXPECT().DeleteLog(ctx, definition.Code(42), 1).Return(int64(1), nil)
	require.NoError(t, svc.DeleteVersion(ctx, 42, 1))
}

func TestDeleteVersionOfDeletedDefinition(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()

	repo.EXPECT().GetByCode(ctx, definition.Code(42)).Return(nil, nil).Times(2)
	repo.EXPECT().DeleteLog(ctx, definition.Code(42), 1).Return(int64(1), nil)
	require.NoError(t, svc.DeleteVersion(ctx, 42, 1))

	repo.EXPECT().DeleteLog(ctx, definition.Code(42), 2).Return(int64(0), nil)
	assert.ErrorIs(t, svc.DeleteVersion(ctx, 42, 2), definition.ErrNotFound)
}

func TestGetNotFoundAndUnavailable(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()

	repo.EXPECT().GetByCode(ctx, definition.Code(1)).Return(nil, nil)
	_, err := svc.Get(ctx, 1)
	assert.ErrorIs(t, err, definition.ErrNotFound)

	repo.EXPECT().GetByCode(ctx, definition.Code(2)).Return(nil, definition.Unavailable(context.DeadlineExceeded))
	_, err = svc.Get(ctx, 2)
	assert.ErrorIs(t, err, definition.ErrStoreUnavailable)
	assert.NotErrorIs(t, err, definition.ErrNotFound)
}

func TestListAppliesScope(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()
	page := definition.PageSpec{PageNo: 1, PageSize: 10}

	repo.EXPECT().ListPaged(ctx, page, definition.ListFilter{ProjectCode: 7, SearchVal: "etl", Scope: definition.Owned(3)}).
		Return(definition.NewPage[*definition.ProcessDefinition](page, nil, 0), nil)
	_, err := svc.List(ctx, 3, false, 7, "etl", page)
	require.NoError(t, err)

	repo.EXPECT().ListPaged(ctx, page, definition.ListFilter{ProjectCode: 7, Scope: definition.AllInProject()}).
		Return(definition.NewPage[*definition.ProcessDefinition](page, nil, 0), nil)
	_, err = svc.List(ctx, 3, true, 7, "", page)
	require.NoError(t, err)

	_, err = svc.List(ctx, 3, true, 7, "", definition.PageSpec{PageNo: 0, PageSize: 10})
	assert.ErrorIs(t, err, definition.ErrInvalidArgument)
}

func TestCountByUserAppliesScope(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()
	projects := []definition.ProjectCode{7}

	repo.EXPECT().CountGroupByUser(ctx, definition.Owned(3), projects).
		Return([]definition.DefinitionGroupByUser{{UserID: 3, Count: 1}}, nil)
	got, err := svc.CountByUser(ctx, 3, false, projects)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestVerifyName(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()

	repo.EXPECT().VerifyByName(ctx, definition.ProjectCode(7), "free").Return(nil, nil)
	assert.NoError(t, svc.VerifyName(ctx, 7, "free"))

	repo.EXPECT().VerifyByName(ctx, definition.ProjectCode(7), "taken").Return(live(1, 1), nil)
	assert.ErrorIs(t, svc.VerifyName(ctx, 7, "taken"), definition.ErrConstraintViolation)
}

func TestGetVersion(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()

	repo.EXPECT().GetLog(ctx, definition.Code(42), 2).Return(nil, nil)
	_, err := svc.GetVersion(ctx, 42, 2)
	assert.ErrorIs(t, err, definition.ErrNotFound)
}
