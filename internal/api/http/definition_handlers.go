package httpapi

import (
	"net/http"
	"sort"

	appDefinition "github.com/execution-hub/definition-registry/internal/application/definition"
	"github.com/execution-hub/definition-registry/internal/domain/definition"
)

type releaseRequest struct {
	ReleaseState string `json:"releaseState"`
}

type verifyNameResponse struct {
	Available bool `json:"available"`
}

type pageResponse[T any] struct {
	*definition.Page[T]
	TotalPages int `json:"totalPages"`
}

func newPageResponse[T any](p *definition.Page[T]) pageResponse[T] {
	return pageResponse[T]{Page: p, TotalPages: p.TotalPages()}
}

// resourceList renders the resource mapping in resource id order.
func resourceList(m map[definition.ResourceID]definition.ResourceUsage) []definition.ResourceUsage {
	out := make([]definition.ResourceUsage, 0, len(m))
	for _, usage := range m {
		out = append(out, usage)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ResourceID < out[j].ResourceID })
	return out
}

func (s *Server) listDefinitions(w http.ResponseWriter, r *http.Request) {
	caller := callerFromContext(r.Context())
	projectCode, err := parseProjectCode(r)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	page, err := parsePage(r)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	result, err := s.definitionSvc.List(r.Context(), caller.UserID, caller.IsAdmin, projectCode, r.URL.Query().Get("searchVal"), page)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, newPageResponse(result))
}

func (s *Server) createDefinition(w http.ResponseWriter, r *http.Request) {
	caller := callerFromContext(r.Context())
	projectCode, err := parseProjectCode(r)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	var in appDefinition.CreateInput
	if err := decodeBody(r, &in); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return
	}
	in.ProjectCode = projectCode
	def, err := s.definitionSvc.Create(r.Context(), caller.UserID, in)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, def)
}

func (s *Server) listProjectDefinitions(w http.ResponseWriter, r *http.Request) {
	projectCode, err := parseProjectCode(r)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	defs, err := s.definitionSvc.ListAll(r.Context(), projectCode)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, defs)
}

func (s *Server) verifyDefinitionName(w http.ResponseWriter, r *http.Request) {
	projectCode, err := parseProjectCode(r)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	if err := s.definitionSvc.VerifyName(r.Context(), projectCode, r.URL.Query().Get("name")); err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, verifyNameResponse{Available: true})
}

func (s *Server) getDefinitionByName(w http.ResponseWriter, r *http.Request) {
	projectCode, err := parseProjectCode(r)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	def, err := s.definitionSvc.GetByName(r.Context(), projectCode, r.URL.Query().Get("name"))
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, def)
}

func (s *Server) listDefinitionsByCodes(w http.ResponseWriter, r *http.Request) {
	nums, err := parseInt64s(r.URL.Query().Get("codes"))
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	codes := make([]definition.Code, 0, len(nums))
	for _, n := range nums {
		codes = append(codes, definition.Code(n))
	}
	defs, err := s.definitionSvc.ListByCodes(r.Context(), codes)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, defs)
}

func (s *Server) listDefinitionsByIDs(w http.ResponseWriter, r *http.Request) {
	nums, err := parseInt64s(r.URL.Query().Get("ids"))
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	ids := make([]definition.ID, 0, len(nums))
	for _, n := range nums {
		ids = append(ids, definition.ID(n))
	}
	defs, err := s.definitionSvc.ListByIDs(r.Context(), ids)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, defs)
}

func (s *Server) getDefinitionByID(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	def, err := s.definitionSvc.GetByID(r.Context(), definition.ID(id))
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, def)
}

func (s *Server) getDefinition(w http.ResponseWriter, r *http.Request) {
	code, err := parseCode(r)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	def, err := s.definitionSvc.Get(r.Context(), code)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, def)
}

func (s *Server) updateDefinition(w http.ResponseWriter, r *http.Request) {
	caller := callerFromContext(r.Context())
	code, err := parseCode(r)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	var in appDefinition.UpdateInput
	if err := decodeBody(r, &in); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return
	}
	def, err := s.definitionSvc.Update(r.Context(), caller.UserID, code, in)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, def)
}

func (s *Server) deleteDefinition(w http.ResponseWriter, r *http.Request) {
	code, err := parseCode(r)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	if err := s.definitionSvc.Delete(r.Context(), code); err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) releaseDefinition(w http.ResponseWriter, r *http.Request) {
	code, err := parseCode(r)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	var req releaseRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return
	}
	state, err := definition.ParseReleaseState(req.ReleaseState)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	def, err := s.definitionSvc.Release(r.Context(), code, state)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, def)
}

func (s *Server) listDefinitionVersions(w http.ResponseWriter, r *http.Request) {
	code, err := parseCode(r)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	page, err := parsePage(r)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	result, err := s.definitionSvc.Versions(r.Context(), code, page)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, newPageResponse(result))
}

func (s *Server) getDefinitionVersion(w http.ResponseWriter, r *http.Request) {
	code, version, err := parseCodeVersion(r)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	log, err := s.definitionSvc.GetVersion(r.Context(), code, version)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, log)
}

func (s *Server) deleteDefinitionVersion(w http.ResponseWriter, r *http.Request) {
	code, version, err := parseCodeVersion(r)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	if err := s.definitionSvc.DeleteVersion(r.Context(), code, version); err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) switchDefinitionVersion(w http.ResponseWriter, r *http.Request) {
	caller := callerFromContext(r.Context())
	code, version, err := parseCodeVersion(r)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	def, err := s.definitionSvc.SwitchVersion(r.Context(), caller.UserID, code, version)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, def)
}

func parseCodeVersion(r *http.Request) (definition.Code, int, error) {
	code, err := parseCode(r)
	if err != nil {
		return 0, 0, err
	}
	version, err := parseIntParam(r, "version")
	if err != nil {
		return 0, 0, err
	}
	if version < 1 {
		return 0, 0, definition.InvalidArgumentf("version must be >= 1")
	}
	return code, version, nil
}

func (s *Server) countDefinitionsByUser(w http.ResponseWriter, r *http.Request) {
	caller := callerFromContext(r.Context())
	nums, err := parseInt64s(r.URL.Query().Get("projectCodes"))
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	projects := make([]definition.ProjectCode, 0, len(nums))
	for _, n := range nums {
		projects = append(projects, definition.ProjectCode(n))
	}
	counts, err := s.definitionSvc.CountByUser(r.Context(), caller.UserID, caller.IsAdmin, projects)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, counts)
}

func (s *Server) listUserResources(w http.ResponseWriter, r *http.Request) {
	caller := callerFromContext(r.Context())
	userID, err := parseIntParam(r, "userId")
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	if !caller.IsAdmin && definition.UserID(userID) != caller.UserID {
		respondError(w, http.StatusForbidden, "FORBIDDEN", "cannot read another user's resources")
		return
	}
	resources, err := s.definitionSvc.ResourcesByUser(r.Context(), definition.UserID(userID))
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, resourceList(resources))
}

func (s *Server) listTenantDefinitions(w http.ResponseWriter, r *http.Request) {
	tenantID, err := parseIntParam(r, "tenantId")
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	defs, err := s.definitionSvc.ListByTenant(r.Context(), definition.TenantID(tenantID))
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, defs)
}

func (s *Server) listResources(w http.ResponseWriter, r *http.Request) {
	resources, err := s.definitionSvc.Resources(r.Context())
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, resourceList(resources))
}

func (s *Server) listProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := s.definitionSvc.Projects(r.Context())
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, projects)
}
