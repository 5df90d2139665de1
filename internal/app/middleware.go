package app

import (
	"github.com/avtale/avtale/internal/auth"
	"github.com/avtale/avtale/internal/config"
	"github.com/gorilla/mux"
)

// SetupMiddleware wires all HTTP middlewares for the application.
func SetupMiddleware(r *mux.Router, deps *Dependencies, cfg config.Application) {
	// Resolve the Authorization bearer token into a user on the request
	// context. Anonymous requests pass through so the auth endpoints stay
	// reachable; everything else rejects them at the handler level.
	r.Use(auth.Middleware(deps.TokenIssuer, deps.UserService))
}
