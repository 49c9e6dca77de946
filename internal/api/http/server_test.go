package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	appDefinition "github.com/execution-hub/definition-registry/internal/application/definition"
	"github.com/execution-hub/definition-registry/internal/domain/definition"
	"github.com/execution-hub/definition-registry/internal/domain/definition/mocks"
)

type stubCodes struct{ next definition.Code }

func (s *stubCodes) NextCode() definition.Code {
	s.next++
	return s.next
}

func newTestServer(t *testing.T, metrics http.Handler, health func(context.Context) error) (http.Handler, *mocks.MockRepository) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockRepository(ctrl)
	svc := appDefinition.NewService(repo, &stubCodes{next: 500}, zerolog.Nop())
	return NewServer(svc, zerolog.Nop(), metrics, health).Router(), repo
}

func do(h http.Handler, method, target, body string, headers map[string]string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

var (
	asUser  = map[string]string{headerUserID: "5"}
	asAdmin = map[string]string{headerUserID: "1", headerUserAdmin: "true"}
)

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body["error"]
}

func TestHealthz(t *testing.T) {
	h, _ := newTestServer(t, nil, func(context.Context) error { return nil })
	rec := do(h, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	h, _ = newTestServer(t, nil, func(context.Context) error { return errors.New("down") })
	rec = do(h, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMetricsRouteIsOptional(t *testing.T) {
	metrics := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("# metrics"))
	})
	h, _ := newTestServer(t, metrics, nil)
	rec := do(h, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "# metrics", rec.Body.String())

	h, _ = newTestServer(t, nil, nil)
	rec = do(h, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCallerHeaders(t *testing.T) {
	h, _ := newTestServer(t, nil, nil)

	rec := do(h, http.MethodGet, "/v1/process-definitions/7", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(h, http.MethodGet, "/v1/process-definitions/7", "", map[string]string{headerUserID: "abc"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(h, http.MethodGet, "/v1/process-definitions/7", "", map[string]string{headerUserID: "5", headerUserAdmin: "maybe"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdminRoutes(t *testing.T) {
	h, repo := newTestServer(t, nil, nil)

	rec := do(h, http.MethodGet, "/v1/projects", "", asUser)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	repo.EXPECT().ListProjectCodes(gomock.Any()).Return([]definition.ProjectCode{3, 9}, nil)
	rec = do(h, http.MethodGet, "/v1/projects", "", asAdmin)
	require.Equal(t, http.StatusOK, rec.Code)
	var projects []definition.ProjectCode
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &projects))
	assert.Equal(t, []definition.ProjectCode{3, 9}, projects)
}

func TestListDefinitionsScopesNonAdmin(t *testing.T) {
	h, repo := newTestServer(t, nil, nil)

	repo.EXPECT().ListPaged(gomock.Any(), definition.PageSpec{PageNo: 2, PageSize: 5}, definition.ListFilter{
		ProjectCode: 7,
		SearchVal:   "etl",
		Scope:       definition.Owned(5),
	}).Return(definition.NewPage(definition.PageSpec{PageNo: 2, PageSize: 5},
		[]*definition.ProcessDefinition{{Code: 11, Name: "etl-a", Version: 1}}, 6), nil)

	rec := do(h, http.MethodGet, "/v1/projects/7/process-definitions?pageNo=2&pageSize=5&searchVal=etl", "", asUser)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Items      []definition.ProcessDefinition `json:"items"`
		Total      int64                          `json:"total"`
		TotalPages int                            `json:"totalPages"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, int64(6), body.Total)
	assert.Equal(t, 2, body.TotalPages)
	require.Len(t, body.Items, 1)
	assert.Equal(t, definition.Code(11), body.Items[0].Code)
}

func TestListDefinitionsAdminSeesProject(t *testing.T) {
	h, repo := newTestServer(t, nil, nil)

	repo.EXPECT().ListPaged(gomock.Any(), definition.PageSpec{PageNo: 1, PageSize: 10}, definition.ListFilter{
		ProjectCode: 7,
		Scope:       definition.AllInProject(),
	}).Return(definition.NewPage[*definition.ProcessDefinition](definition.PageSpec{PageNo: 1, PageSize: 10}, nil, 0), nil)

	rec := do(h, http.MethodGet, "/v1/projects/7/process-definitions", "", asAdmin)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestListDefinitionsRejectsBadPage(t *testing.T) {
	h, _ := newTestServer(t, nil, nil)

	rec := do(h, http.MethodGet, "/v1/projects/7/process-definitions?pageNo=0", "", asUser)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_ARGUMENT", errorCode(t, rec))

	rec = do(h, http.MethodGet, "/v1/projects/7/process-definitions?pageSize=x", "", asUser)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateDefinition(t *testing.T) {
	h, repo := newTestServer(t, nil, nil)

	repo.EXPECT().VerifyByName(gomock.Any(), definition.ProjectCode(7), "etl").Return(nil, nil)
	repo.EXPECT().WithinTx(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(definition.Repository) error) error {
			return fn(repo)
		})
	repo.EXPECT().Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, def *definition.ProcessDefinition) error {
			assert.Equal(t, definition.ProjectCode(7), def.ProjectCode)
			assert.Equal(t, definition.UserID(5), def.UserID)
			def.ID = 42
			return nil
		})
	repo.EXPECT().CreateLog(gomock.Any(), gomock.Any()).Return(nil)

	rec := do(h, http.MethodPost, "/v1/projects/7/process-definitions",
		`{"name":"etl","description":"nightly","resourceIds":[3,4],"timeout":60}`, asUser)
	require.Equal(t, http.StatusCreated, rec.Code)

	var def definition.ProcessDefinition
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &def))
	assert.Equal(t, definition.ID(42), def.ID)
	assert.Equal(t, definition.Code(501), def.Code)
	assert.Equal(t, 1, def.Version)
	assert.Equal(t, []definition.ResourceID{3, 4}, def.ResourceIDs)
}

func TestCreateDefinitionErrors(t *testing.T) {
	h, repo := newTestServer(t, nil, nil)

	rec := do(h, http.MethodPost, "/v1/projects/7/process-definitions", `{"name":"etl","bogus":1}`, asUser)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_JSON", errorCode(t, rec))

	rec = do(h, http.MethodPost, "/v1/projects/7/process-definitions", `{"name":""}`, asUser)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	repo.EXPECT().VerifyByName(gomock.Any(), definition.ProjectCode(7), "etl").
		Return(&definition.ProcessDefinition{Code: 1, Name: "etl"}, nil)
	rec = do(h, http.MethodPost, "/v1/projects/7/process-definitions", `{"name":"etl"}`, asUser)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "CONFLICT", errorCode(t, rec))
}

func TestGetDefinitionErrorMapping(t *testing.T) {
	h, repo := newTestServer(t, nil, nil)

	repo.EXPECT().GetByCode(gomock.Any(), definition.Code(7)).Return(nil, nil)
	rec := do(h, http.MethodGet, "/v1/process-definitions/7", "", asUser)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	repo.EXPECT().GetByCode(gomock.Any(), definition.Code(8)).
		Return(nil, definition.Unavailable(errors.New("connection refused")))
	rec = do(h, http.MethodGet, "/v1/process-definitions/8", "", asUser)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.NotContains(t, rec.Body.String(), "connection refused")

	repo.EXPECT().GetByCode(gomock.Any(), definition.Code(9)).Return(nil, errors.New("boom"))
	rec = do(h, http.MethodGet, "/v1/process-definitions/9", "", asUser)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	rec = do(h, http.MethodGet, "/v1/process-definitions/-1", "", asUser)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListDefinitionsByCodesEmpty(t *testing.T) {
	h, repo := newTestServer(t, nil, nil)

	repo.EXPECT().ListByCodes(gomock.Any(), []definition.Code{}).Return(nil, nil)
	rec := do(h, http.MethodGet, "/v1/process-definitions?codes=", "", asUser)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(h, http.MethodGet, "/v1/process-definitions?codes=1,x", "", asUser)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReleaseDefinition(t *testing.T) {
	h, repo := newTestServer(t, nil, nil)

	rec := do(h, http.MethodPost, "/v1/process-definitions/7/release", `{"releaseState":"PAUSED"}`, asUser)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	repo.EXPECT().WithinTx(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(definition.Repository) error) error {
			return fn(repo)
		})
	gomock.InOrder(
		repo.EXPECT().GetByCode(gomock.Any(), definition.Code(7)).
			Return(&definition.ProcessDefinition{ID: 1, Code: 7, Version: 3}, nil),
		repo.EXPECT().UpdateReleaseStateByID(gomock.Any(), definition.ID(1), definition.ReleaseOnline).
			Return(int64(1), nil),
		repo.EXPECT().GetByCode(gomock.Any(), definition.Code(7)).
			Return(&definition.ProcessDefinition{ID: 1, Code: 7, Version: 3, ReleaseState: definition.ReleaseOnline}, nil),
	)
	rec = do(h, http.MethodPost, "/v1/process-definitions/7/release", `{"releaseState":"online"}`, asUser)
	require.Equal(t, http.StatusOK, rec.Code)

	var def definition.ProcessDefinition
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &def))
	assert.Equal(t, 3, def.Version)
	assert.Equal(t, definition.ReleaseOnline, def.ReleaseState)
}

func TestDeleteVersionOfCurrentIsRejected(t *testing.T) {
	h, repo := newTestServer(t, nil, nil)

	repo.EXPECT().GetByCode(gomock.Any(), definition.Code(7)).
		Return(&definition.ProcessDefinition{ID: 1, Code: 7, Version: 3}, nil)
	repo.EXPECT().HasAssociatedDefinition(gomock.Any(), definition.ID(1), 3).Return(definition.ID(1), true, nil)

	rec := do(h, http.MethodDelete, "/v1/process-definitions/7/versions/3", "", asUser)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(h, http.MethodDelete, "/v1/process-definitions/7/versions/0", "", asUser)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListDefinitionVersions(t *testing.T) {
	h, repo := newTestServer(t, nil, nil)

	page := definition.PageSpec{PageNo: 1, PageSize: 2}
	logs := []*definition.ProcessDefinitionLog{
		{ProcessDefinition: definition.ProcessDefinition{Code: 7, Version: 3}},
		{ProcessDefinition: definition.ProcessDefinition{Code: 7, Version: 2}},
	}
	repo.EXPECT().ListVersionsPaged(gomock.Any(), page, definition.Code(7)).
		Return(definition.NewPage(page, logs, 3), nil)

	rec := do(h, http.MethodGet, "/v1/process-definitions/7/versions?pageSize=2", "", asUser)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Items      []definition.ProcessDefinitionLog `json:"items"`
		TotalPages int                               `json:"totalPages"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Items, 2)
	assert.Equal(t, 3, body.Items[0].Version)
	assert.Equal(t, 2, body.TotalPages)
}

func TestCountDefinitionsByUser(t *testing.T) {
	h, repo := newTestServer(t, nil, nil)

	repo.EXPECT().CountGroupByUser(gomock.Any(), definition.Owned(5), []definition.ProjectCode{7, 8}).
		Return([]definition.DefinitionGroupByUser{{UserID: 5, Count: 4}}, nil)

	rec := do(h, http.MethodGet, "/v1/stats/definitions-by-user?projectCodes=7,8", "", asUser)
	require.Equal(t, http.StatusOK, rec.Code)

	var counts []definition.DefinitionGroupByUser
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &counts))
	assert.Equal(t, []definition.DefinitionGroupByUser{{UserID: 5, Count: 4}}, counts)
}

func TestListUserResources(t *testing.T) {
	h, repo := newTestServer(t, nil, nil)

	rec := do(h, http.MethodGet, "/v1/users/6/resources", "", asUser)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	repo.EXPECT().ListResourcesByUser(gomock.Any(), definition.UserID(5)).
		Return(map[definition.ResourceID]definition.ResourceUsage{
			9: {ResourceID: 9, DefinitionCodes: []definition.Code{1}},
			2: {ResourceID: 2, DefinitionCodes: []definition.Code{1, 3}},
		}, nil)
	rec = do(h, http.MethodGet, "/v1/users/5/resources", "", asUser)
	require.Equal(t, http.StatusOK, rec.Code)

	var usage []definition.ResourceUsage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &usage))
	require.Len(t, usage, 2)
	assert.Equal(t, definition.ResourceID(2), usage[0].ResourceID)
	assert.Equal(t, definition.ResourceID(9), usage[1].ResourceID)
}
