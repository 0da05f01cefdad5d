package middleware

import (
	"context"
	"net/http"

	"github.com/zatekoja/lickingclean/internal/application/services"
)

// SessionCookieName is the cookie holding the visitor's session id
const SessionCookieName = "lc_session"

// SessionHeader carries the session id for clients that cannot send cookies,
// such as cross-origin JSON clients under a wildcard CORS policy. Every
// response echoes the id in this header.
const SessionHeader = "X-Session-ID"

type controllerKey struct{}

// WithController stores the visitor's controller in ctx
func WithController(ctx context.Context, controller *services.ProfileController) context.Context {
	return context.WithValue(ctx, controllerKey{}, controller)
}

// ControllerFromContext returns the controller set by SessionMiddleware
func ControllerFromContext(ctx context.Context) (*services.ProfileController, bool) {
	controller, ok := ctx.Value(controllerKey{}).(*services.ProfileController)
	return controller, ok && controller != nil
}

// SessionMiddleware resolves the visitor's ProfileController from the session
// cookie, falling back to SessionHeader. A missing or stale id creates a new session.
func SessionMiddleware(store *services.SessionStore, secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var id string
			if cookie, err := r.Cookie(SessionCookieName); err == nil {
				id = cookie.Value
			}
			if id == "" {
				id = r.Header.Get(SessionHeader)
			}

			controller, sessionID := store.Get(r.Context(), id)
			w.Header().Set(SessionHeader, sessionID)
			if sessionID != id {
				http.SetCookie(w, &http.Cookie{
					Name:     SessionCookieName,
					Value:    sessionID,
					Path:     "/",
					HttpOnly: true,
					Secure:   secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			next.ServeHTTP(w, r.WithContext(WithController(r.Context(), controller)))
		})
	}
}
