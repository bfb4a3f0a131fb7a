package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	handlers "microblog/internal/handler"
	"microblog/internal/service"
)

// Auth admits requests carrying a valid session token, from the Authorization
// header or the session cookie, and puts the session into the context.
func Auth(authService service.AuthService, cookieName string, log *logrus.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := tokenFromRequest(r, cookieName)
			if token == "" {
				handlers.WriteError(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			session, err := authService.VerifySession(r.Context(), token)
			if err != nil {
				if !errors.Is(err, service.ErrUnauthorized) {
					log.WithError(err).WithField("request_id", handlers.RequestIDFromContext(r.Context())).
						Error("session verification failed")
				}
				handlers.WriteError(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(handlers.WithSession(r.Context(), session)))
		})
	}
}

func tokenFromRequest(r *http.Request, cookieName string) string {
	if header := r.Header.Get("Authorization"); header != "" {
		scheme, token, ok := strings.Cut(header, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}

	if cookie, err := r.Cookie(cookieName); err == nil {
		return cookie.Value
	}
	return ""
}
