package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/avtale/avtale/pkg/user"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

// Middleware resolves the Authorization bearer token into a user on the
// request context. Requests without the header pass through anonymously;
// handlers that need an identity reject them via user.CurrentUser.
func Middleware(issuer *TokenIssuer, users user.Service) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			header := req.Header.Get("Authorization")
			ctx := req.Context()

			if header != "" {
				tokenString, found := strings.CutPrefix(header, "Bearer ")
				if !found {
					http.Error(w, "invalid authorization header", http.StatusUnauthorized)
					return
				}

				claims, err := issuer.Validate(tokenString)
				if err != nil {
					log.Debugf("token rejected: %v", err)
					http.Error(w, "invalid token", http.StatusUnauthorized)
					return
				}

				u, err := users.GetByUid(ctx, claims.Uid)
				if err != nil {
					if errors.Is(err, user.ErrUserNotFound) {
						log.Debugf("user not found: %s", claims.Uid)
						http.Error(w, "user not found", http.StatusForbidden)
						return
					}
					log.Errorf("failed to get user: %v", err)
					http.Error(w, err.Error(), http.StatusBadRequest)
					return
				}
				ctx = user.WithUser(ctx, u)
			}

			next.ServeHTTP(w, req.WithContext(ctx))
		})
	}
}

// RequireUser guards endpoints that any authenticated user may call.
func RequireUser(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := user.CurrentUser(r.Context()); err != nil {
			http.Error(w, "authentication required", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

// RequireAdmin guards administrative endpoints.
func RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, err := user.CurrentUser(r.Context())
		if err != nil {
			http.Error(w, "authentication required", http.StatusUnauthorized)
			return
		}
		if !u.IsAdmin() {
			http.Error(w, "admin role required", http.StatusForbidden)
			return
		}
		next(w, r)
	}
}
