package ctxutil

import "context"

// Detached keeps the values of ctx (caller, trace ids) but drops its
// cancellation. A nil ctx yields context.Background().
func Detached(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return context.WithoutCancel(ctx)
}
