package server

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/klauspost/compress/gzhttp"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"microblog/internal/config"
	handlers "microblog/internal/handler"
	"microblog/internal/middleware"
)

// NewRouter builds the full HTTP handler. rdb may be nil; rate limiting is then off.
func NewRouter(h *handlers.Handlers, cfg *config.Config, rdb *redis.Client, log *logrus.Logger) http.Handler {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(handlers.NotFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(handlers.MethodNotAllowed)

	authRequired := middleware.Auth(h.AuthService, cfg.Session.CookieName, log)
	resolver, err := middleware.NewIPResolver(cfg.Server.TrustedProxies)
	if err != nil {
		log.WithError(err).Error("ignoring TRUSTED_PROXIES; rate limits key on the peer address")
		resolver = nil
	}
	limited := middleware.RateLimit(rdb, cfg.RateLimit.Requests, cfg.RateLimit.Window, middleware.KeyByIPAndPath(resolver), log)

	r.HandleFunc("/health", h.HealthHandler).Methods(http.MethodGet)
	r.HandleFunc("/feed", h.GetFeed).Methods(http.MethodGet)

	r.Handle("/auth/signup", limited(http.HandlerFunc(h.Signup))).Methods(http.MethodPost)
	r.Handle("/auth/signin", limited(http.HandlerFunc(h.Signin))).Methods(http.MethodPost)
	r.Handle("/auth/signout", authRequired(http.HandlerFunc(h.Signout))).Methods(http.MethodPost)
	r.Handle("/auth/session", authRequired(http.HandlerFunc(h.Session))).Methods(http.MethodGet)

	r.Handle("/posts", authRequired(http.HandlerFunc(h.GetPosts))).Methods(http.MethodGet)
	r.Handle("/posts", authRequired(http.HandlerFunc(h.CreatePost))).Methods(http.MethodPost)
	r.Handle("/posts/{id}", authRequired(http.HandlerFunc(h.UpdatePost))).Methods(http.MethodPut)
	r.Handle("/posts/{id}", authRequired(http.HandlerFunc(h.DeletePost))).Methods(http.MethodDelete)

	r.Handle("/profile", authRequired(http.HandlerFunc(h.UpdateProfile))).Methods(http.MethodPut)

	chain := middleware.Chain(
		r,
		middleware.Recover(log),
		middleware.CORS(cfg.Server.CORSOrigins),
		middleware.MaxBody(cfg.Server.MaxBodySize),
		middleware.Logging(log),
		middleware.RequestID,
	)

	return gzhttp.GzipHandler(chain)
}
