package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pliu/unsent/internal/auth"
	"github.com/pliu/unsent/internal/middleware"
	"github.com/pliu/unsent/internal/models"
	"github.com/pliu/unsent/internal/moderation"
	"github.com/pliu/unsent/internal/store"
	"github.com/pliu/unsent/internal/ws"
)

// NewRouter wires the full API surface. hub may be nil when the live
// feed is not running (tests, create-admin mode).
func NewRouter(db store.Store, tokens *auth.TokenService, hub *ws.Hub) http.Handler {
	authn := &middleware.Authenticator{Tokens: tokens}
	filter := &moderation.Filter{Source: db}

	lettersHandler := &LettersHandler{Store: db, Filter: filter, Hub: hub}
	adminHandler := &AdminHandler{Store: db, Tokens: tokens}
	adminUsersHandler := &AdminUsersHandler{Store: db}
	moderationHandler := &ModerationHandler{Store: db}
	blogHandler := &BlogHandler{Store: db}

	manageAdmins := authn.RequirePermission(func(p models.Permissions) bool { return p.ManageAdmins })
	manageModeration := authn.RequirePermission(func(p models.Permissions) bool { return p.ManageModeration })
	manageBlog := authn.RequirePermission(func(p models.Permissions) bool { return p.ManageBlog })

	r := mux.NewRouter()
	r.MethodNotAllowedHandler = http.HandlerFunc(MethodNotAllowed)

	api := r.PathPrefix("/api").Subrouter()
	// Subrouters do not inherit the parent's 405 handler.
	api.MethodNotAllowedHandler = http.HandlerFunc(MethodNotAllowed)
	api.HandleFunc("/letters", lettersHandler.List).Methods("GET")
	api.HandleFunc("/letters", lettersHandler.Create).Methods("POST")
	api.Handle("/letters", authn.RequireAdmin(http.HandlerFunc(lettersHandler.Delete))).Methods("DELETE")

	api.HandleFunc("/admin", adminHandler.Login).Methods("POST")

	api.Handle("/admin_users", manageAdmins(http.HandlerFunc(adminUsersHandler.List))).Methods("GET")
	api.Handle("/admin_users", manageAdmins(http.HandlerFunc(adminUsersHandler.Create))).Methods("POST")
	api.Handle("/admin_users", manageAdmins(http.HandlerFunc(adminUsersHandler.Update))).Methods("PUT")
	api.Handle("/admin_users", manageAdmins(http.HandlerFunc(adminUsersHandler.Delete))).Methods("DELETE")

	api.Handle("/moderation", authn.RequireAdmin(http.HandlerFunc(moderationHandler.List))).Methods("GET")
	api.Handle("/moderation", manageModeration(http.HandlerFunc(moderationHandler.Create))).Methods("POST")
	api.Handle("/moderation", manageModeration(http.HandlerFunc(moderationHandler.Delete))).Methods("DELETE")

	api.Handle("/blog", authn.OptionalAdmin(http.HandlerFunc(blogHandler.Get))).Methods("GET")
	api.Handle("/blog", manageBlog(http.HandlerFunc(blogHandler.Create))).Methods("POST")
	api.Handle("/blog", manageBlog(http.HandlerFunc(blogHandler.Update))).Methods("PUT")
	api.Handle("/blog", manageBlog(http.HandlerFunc(blogHandler.Delete))).Methods("DELETE")

	if hub != nil {
		r.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
			ws.ServeWs(hub, w, r)
		})
	}

	return r
}
