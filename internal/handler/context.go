package handlers

import (
	"context"

	"microblog/internal/service"
)

type ctxKey int

const (
	sessionKey ctxKey = iota
	requestIDKey
)

func WithSession(ctx context.Context, session *service.Session) context.Context {
	return context.WithValue(ctx, sessionKey, session)
}

// SessionFromContext returns the session placed by the auth middleware.
func SessionFromContext(ctx context.Context) (*service.Session, bool) {
	session, ok := ctx.Value(sessionKey).(*service.Session)
	return session, ok && session != nil
}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
