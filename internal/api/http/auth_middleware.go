package httpapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/execution-hub/definition-registry/internal/domain/definition"
)

const (
	headerUserID    = "X-User-Id"
	headerUserAdmin = "X-User-Admin"
)

// requireCaller reads the gateway identity headers.
func (s *Server) requireCaller(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := strings.TrimSpace(r.Header.Get(headerUserID))
		id, err := strconv.Atoi(raw)
		if raw == "" || err != nil || id <= 0 {
			respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing or invalid "+headerUserID)
			return
		}
		isAdmin := false
		if v := strings.TrimSpace(r.Header.Get(headerUserAdmin)); v != "" {
			isAdmin, err = strconv.ParseBool(v)
			if err != nil {
				respondError(w, http.StatusBadRequest, "INVALID_ARGUMENT", "invalid "+headerUserAdmin)
				return
			}
		}
		ctx := withCaller(r.Context(), &Caller{UserID: definition.UserID(id), IsAdmin: isAdmin})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caller := callerFromContext(r.Context())
		if caller == nil {
			respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing caller")
			return
		}
		if !caller.IsAdmin {
			respondError(w, http.StatusForbidden, "FORBIDDEN", "admin only")
			return
		}
		next.ServeHTTP(w, r)
	})
}
