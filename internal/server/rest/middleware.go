package rest

import (
	"context"
	"net/http"
	"strings"

	"github.com/dkarlovs/cloudvault/internal/common"
	"github.com/dkarlovs/cloudvault/internal/server/auth"
)

type ctxKey string

const userIDKey ctxKey = "userID"

// userIDFromContext returns the authenticated user's id, set by withAuth.
func userIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok
}

// withAuth requires a bearer access token and stores the user id in the
// request context.
func (s *RESTServer) withAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		header := r.Header.Get(common.AuthorizationHeaderName)
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			writeJSON(rw, http.StatusUnauthorized, Response{Message: "missing token"})
			return
		}

		userID, err := auth.GetUserIDFromToken(token, s.jwtSecret)
		if err != nil {
			writeJSON(rw, http.StatusUnauthorized, Response{Message: "invalid token"})
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(rw, r.WithContext(ctx))
	})
}
