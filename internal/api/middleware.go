package api

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
)

// requireAdmin guards operational endpoints behind the shared admin token.
// When no token is configured the endpoints are disabled entirely.
func (h *Handler) requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.adminToken == "" {
			respondError(w, http.StatusUnauthorized, errCodeUnauthenticated, ErrUnauthenticated.Error())
			return
		}

		token := bearerToken(r)
		if token == "" || subtle.ConstantTimeCompare([]byte(token), []byte(h.adminToken)) != 1 {
			log.Warn().
				Str("event", "admin_auth_failed").
				Str("ip", clientIP(r)).
				Str("path", r.URL.Path).
				Msg("admin endpoint rejected")

			respondError(w, http.StatusUnauthorized, errCodeUnauthenticated, ErrUnauthenticated.Error())

			return
		}

		next.ServeHTTP(w, r)
	}
}

// isAdmin reports whether the request carries a valid admin token. Unlike
// requireAdmin it never rejects; callers use it to attribute changes.
func (h *Handler) isAdmin(r *http.Request) bool {
	if h.adminToken == "" {
		return false
	}

	token := bearerToken(r)

	return token != "" && subtle.ConstantTimeCompare([]byte(token), []byte(h.adminToken)) == 1
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")

	const prefix = "Bearer "
	if !strings.HasPrefix(auth, prefix) {
		return ""
	}

	return strings.TrimSpace(strings.TrimPrefix(auth, prefix))
}
