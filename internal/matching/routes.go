package matching

import (
	"github.com/gorilla/mux"

	"github.com/dogmatch/dogmatch-backend/internal/auth"
)

func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware *auth.Middleware) {
	// Public browse: no account needed to look for dogs near a point.
	public := router.PathPrefix("/api/v1/matching").Subrouter()
	public.HandleFunc("/nearby", handler.SearchNearby).Methods("GET")

	// Match discovery and stats are owner/admin only.
	api := router.PathPrefix("/api/v1/matching").Subrouter()
	api.Use(authMiddleware.Authenticate)

	api.HandleFunc("/dogs/{dogId}/matches", handler.FindMatches).Methods("GET")
	api.HandleFunc("/dogs/{dogId}/stats", handler.GetMatchStats).Methods("GET")
}
