// Package identity carries the authenticated user's id on request contexts.
// It sits below auth and the feature packages so any handler can read the
// caller without importing the middleware.
package identity

import "context"

type ctxKey string

const ctxKeyUserID ctxKey = "userID"

func ContextWithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, ctxKeyUserID, userID)
}

func UserIDFromContext(ctx context.Context) (int64, bool) {
	v := ctx.Value(ctxKeyUserID)
	if v == nil {
		return 0, false
	}

	id, ok := v.(int64)
	return id, ok
}
