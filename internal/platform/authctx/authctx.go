// Package authctx carries the authenticated actor through the request
// context. Components receive the actor explicitly instead of reading
// session state from ambient storage.
package authctx

import "context"

// Actor is the authenticated user for the current request.
type Actor struct {
	UserID string
	Role   string
}

type contextKey struct{}

// WithActor returns a context carrying the actor.
func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, contextKey{}, actor)
}

// FromContext extracts the actor, reporting whether one is present.
func FromContext(ctx context.Context) (Actor, bool) {
	actor, ok := ctx.Value(contextKey{}).(Actor)
	return actor, ok
}
