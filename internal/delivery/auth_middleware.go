package delivery

import (
	"context"
	"net/http"

	"github.com/vetwriter/vetwriter/internal/ports"
)

type ctxKey int

const userKey ctxKey = iota

const sessionCookie = "sessionToken"

// SessionMiddleware resolves the session cookie to a user and puts it
// on the request context. An unresolvable cookie is not an error here:
// the request simply proceeds without an identity.
func SessionMiddleware(auth ports.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if c, err := r.Cookie(sessionCookie); err == nil {
				if user, err := auth.UserBySession(r.Context(), c.Value); err == nil {
					r = r.WithContext(context.WithValue(r.Context(), userKey, user))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireUser rejects requests that carry no identity.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if UserFrom(r.Context()) == nil {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func UserFrom(ctx context.Context) *ports.User {
	user, _ := ctx.Value(userKey).(*ports.User)
	return user
}
