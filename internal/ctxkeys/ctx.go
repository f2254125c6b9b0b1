package ctxkeys

import (
	"context"

	"github.com/ringshq/rings/internal/model"
)

// contextKey is a type for context keys to avoid collisions
type contextKey string

const (
	SessionKey   contextKey = "session"
	RequestIDKey contextKey = "request_id"
)

func Session(ctx context.Context) *model.Session {
	session, _ := ctx.Value(SessionKey).(*model.Session)
	return session
}

func WithSession(ctx context.Context, session *model.Session) context.Context {
	return context.WithValue(ctx, SessionKey, session)
}

func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}
