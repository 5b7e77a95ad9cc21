package domain

import "context"

type CtxKey string

const KeyRequestID CtxKey = "RequestID"

// RequestIDFrom returns the request id stored on ctx, if any.
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(KeyRequestID).(string)
	return id
}
