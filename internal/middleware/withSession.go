package middleware

import (
	"context"
	"net/http"
)

// ContextKey is a custom type used for keys in the context.
type ContextKey string

// UserIDKey is the key used to store and retrieve the user ID from the context.
const UserIDKey ContextKey = "userID"

// SessionCookieName is the cookie holding the authenticated user id.
const SessionCookieName = "session_user_id"

// InjectUserID adds the user ID to the request context, making it accessible
// for downstream handlers. Used by tests to simulate an authenticated request.
func InjectUserID(req *http.Request, userID string) *http.Request {
	ctx := context.WithValue(req.Context(), UserIDKey, userID)
	return req.WithContext(ctx)
}

// WithSession extracts the session cookie and injects its user id into the
// request context. The cookie value is the raw user id; its validity is
// re-checked against the credential store by every privileged handler, so a
// missing or stale cookie is not an error here.
func WithSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(SessionCookieName)
		if err != nil || cookie.Value == "" {
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, InjectUserID(r, cookie.Value))
	})
}

// UserIDFromContext returns the user id injected by WithSession, if any.
func UserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDKey).(string)
	return userID, ok && userID != ""
}
