package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/pliu/unsent/internal/auth"
	"github.com/pliu/unsent/internal/models"
)

type contextKey string

const adminKey contextKey = "admin"

// AdminFromContext returns the authenticated admin, or nil when the
// request was not authenticated.
func AdminFromContext(ctx context.Context) *models.Admin {
	admin, _ := ctx.Value(adminKey).(*models.Admin)
	return admin
}

type Authenticator struct {
	Tokens *auth.TokenService
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(header, "Bearer ")
}

func (a *Authenticator) authenticate(r *http.Request) *models.Admin {
	token := bearerToken(r)
	if token == "" {
		return nil
	}
	admin, err := a.Tokens.Validate(token)
	if err != nil {
		return nil
	}
	return admin
}

// RequireAdmin rejects requests without a valid bearer token and puts
// the resolved admin in the request context.
func (a *Authenticator) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		admin := a.authenticate(r)
		if admin == nil {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), adminKey, admin)))
	})
}

// RequirePermission is RequireAdmin plus a capability check, e.g.:
//
//	auth.RequirePermission(func(p models.Permissions) bool { return p.ManageAdmins })
func (a *Authenticator) RequirePermission(allowed func(models.Permissions) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return a.RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			admin := AdminFromContext(r.Context())
			if !allowed(admin.Permissions) {
				writeError(w, http.StatusForbidden, "Insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		}))
	}
}

// OptionalAdmin puts a valid admin in the context when a bearer token is
// present, and passes the request through either way. Used by the public
// blog reads, where an admin token additionally reveals drafts.
func (a *Authenticator) OptionalAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if admin := a.authenticate(r); admin != nil {
			r = r.WithContext(context.WithValue(r.Context(), adminKey, admin))
		}
		next.ServeHTTP(w, r)
	})
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
