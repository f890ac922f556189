package transport

import "context"

type contextKey string

const (
	contextSkipAuthKey  contextKey = "skipAuth"
	contextRequestIDKey contextKey = "requestID"
)

// WithoutAuth marks requests made with ctx as public: no bearer token is
// attached and a 401 response is returned as is.
func WithoutAuth(ctx context.Context) context.Context {
	return context.WithValue(ctx, contextSkipAuthKey, true)
}

// WithRequestID sets the X-Request-ID sent with requests made with ctx
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, contextRequestIDKey, requestID)
}

func requiresAuth(ctx context.Context) bool {
	skip, _ := ctx.Value(contextSkipAuthKey).(bool)
	return !skip
}

func getRequestID(ctx context.Context) string {
	if v, ok := ctx.Value(contextRequestIDKey).(string); ok {
		return v
	}
	return ""
}
