package httpapi

import (
	"context"

	"github.com/execution-hub/definition-registry/internal/domain/definition"
)

type callerContextKey string

const callerKey callerContextKey = "caller"

// Caller is the identity asserted by the gateway in front of the registry.
type Caller struct {
	UserID  definition.UserID
	IsAdmin bool
}

func withCaller(ctx context.Context, c *Caller) context.Context {
	if c == nil {
		return ctx
	}
	return context.WithValue(ctx, callerKey, c)
}

func callerFromContext(ctx context.Context) *Caller {
	val := ctx.Value(callerKey)
	if v, ok := val.(*Caller); ok {
		return v
	}
	return nil
}
