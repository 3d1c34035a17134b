package auth

import (
	"context"
	"errors"
)

type ctxKey int

const ctxIdentity ctxKey = iota

// Identity is the authenticated viewer as seen by downstream handlers.
type Identity struct {
	Username   string
	Admin      bool
	Extensions []string
}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxIdentity, id)
}

func IdentityFrom(ctx context.Context) (Identity, error) {
	if id, ok := ctx.Value(ctxIdentity).(Identity); ok && id.Username != "" {
		return id, nil
	}
	return Identity{}, errors.New("identity not in context")
}
