package auth

import "context"

type ctxKey string

const viewerKey ctxKey = "viewer"

// WithViewer stores the authenticated viewer's user id on the context.
func WithViewer(ctx context.Context, userID string) context.Context {
	if userID == "" {
		return ctx
	}
	return context.WithValue(ctx, viewerKey, userID)
}

// ViewerFromContext returns the authenticated viewer's user id, or an empty
// string when the request is anonymous. Projections treat the empty id as a
// viewer who is subscribed to nothing and has liked nothing.
func ViewerFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if id, ok := ctx.Value(viewerKey).(string); ok {
		return id
	}
	return ""
}
