package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	appDefinition "github.com/execution-hub/definition-registry/internal/application/definition"
	"github.com/execution-hub/definition-registry/internal/domain/definition"
)

const (
	defaultPageSize = 10
	requestTimeout  = 30 * time.Second
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	definitionSvc *appDefinition.Service
	logger        zerolog.Logger
	metrics       http.Handler
	health        func(context.Context) error
}

// NewServer creates the HTTP server. metrics and health are optional.
func NewServer(definitionSvc *appDefinition.Service, logger zerolog.Logger, metrics http.Handler, health func(context.Context) error) *Server {
	return &Server{
		definitionSvc: definitionSvc,
		logger:        logger.With().Str("component", "http").Logger(),
		metrics:       metrics,
		health:        health,
	}
}

// Router builds the HTTP router.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))

	r.Get("/healthz", s.healthz)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}

	r.Route("/v1", func(r chi.Router) {
		r.Use(s.requireCaller)

		r.Route("/projects/{projectCode}/process-definitions", func(r chi.Router) {
			r.Get("/", s.listDefinitions)
			r.Post("/", s.createDefinition)
			r.Get("/all", s.listProjectDefinitions)
			r.Get("/verify-name", s.verifyDefinitionName)
			r.Get("/by-name", s.getDefinitionByName)
		})

		r.Route("/process-definitions", func(r chi.Router) {
			r.Get("/", s.listDefinitionsByCodes)
			r.Get("/by-ids", s.listDefinitionsByIDs)
			r.Get("/by-id/{id}", s.getDefinitionByID)
			r.Get("/{code}", s.getDefinition)
			r.Put("/{code}", s.updateDefinition)
			r.Delete("/{code}", s.deleteDefinition)
			r.Post("/{code}/release", s.releaseDefinition)
			r.Get("/{code}/versions", s.listDefinitionVersions)
			r.Get("/{code}/versions/{version}", s.getDefinitionVersion)
			r.Delete("/{code}/versions/{version}", s.deleteDefinitionVersion)
			r.Post("/{code}/versions/{version}/switch", s.switchDefinitionVersion)
		})

		r.Get("/stats/definitions-by-user", s.countDefinitionsByUser)
		r.Get("/users/{userId}/resources", s.listUserResources)

		r.Group(func(r chi.Router) {
			r.Use(requireAdmin)
			r.Get("/tenants/{tenantId}/process-definitions", s.listTenantDefinitions)
			r.Get("/resources", s.listResources)
			r.Get("/projects", s.listProjects)
		})
	})

	return r
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	if s.health != nil {
		if err := s.health(r.Context()); err != nil {
			respondError(w, http.StatusServiceUnavailable, "UNAVAILABLE", err.Error())
			return
		}
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, map[string]interface{}{
		"error":   code,
		"message": message,
	})
}

// respondServiceError maps definition errors onto status codes.
func (s *Server) respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, definition.ErrInvalidArgument):
		respondError(w, http.StatusBadRequest, "INVALID_ARGUMENT", err.Error())
	case errors.Is(err, definition.ErrNotFound):
		respondError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, definition.ErrConstraintViolation):
		respondError(w, http.StatusConflict, "CONFLICT", err.Error())
	case errors.Is(err, definition.ErrStoreUnavailable):
		s.logger.Warn().Err(err).Str("request_id", middleware.GetReqID(r.Context())).Msg("store unavailable")
		respondError(w, http.StatusServiceUnavailable, "UNAVAILABLE", "process definition store unavailable")
	default:
		s.logger.Error().Err(err).Str("request_id", middleware.GetReqID(r.Context())).Msg("request failed")
		respondError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
	}
}

func decodeBody(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := []string{}
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseInt64s(s string) ([]int64, error) {
	parts := splitCSV(s)
	out := make([]int64, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return nil, definition.InvalidArgumentf("invalid number %q", p)
		}
		out = append(out, n)
	}
	return out, nil
}

func parseInt64Param(r *http.Request, key string) (int64, error) {
	val := chi.URLParam(r, key)
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, definition.InvalidArgumentf("invalid %s %q", key, val)
	}
	return n, nil
}

func parseIntParam(r *http.Request, key string) (int, error) {
	n, err := parseInt64Param(r, key)
	return int(n), err
}

func parseCode(r *http.Request) (definition.Code, error) {
	n, err := parseInt64Param(r, "code")
	if err != nil {
		return 0, err
	}
	code := definition.Code(n)
	if !code.Valid() {
		return 0, definition.InvalidArgumentf("code must be positive")
	}
	return code, nil
}

func parseProjectCode(r *http.Request) (definition.ProjectCode, error) {
	n, err := parseInt64Param(r, "projectCode")
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, definition.InvalidArgumentf("projectCode must be positive")
	}
	return definition.ProjectCode(n), nil
}

// parsePage reads pageNo and pageSize, defaulting to the first page of ten.
func parsePage(r *http.Request) (definition.PageSpec, error) {
	page := definition.PageSpec{PageNo: 1, PageSize: defaultPageSize}
	q := r.URL.Query()
	if v := q.Get("pageNo"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return page, definition.InvalidArgumentf("invalid pageNo %q", v)
		}
		page.PageNo = n
	}
	if v := q.Get("pageSize"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return page, definition.InvalidArgumentf("invalid pageSize %q", v)
		}
		page.PageSize = n
	}
	return page, page.Validate()
}
