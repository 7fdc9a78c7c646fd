package context

import "context"

type requestIDKey struct{}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func GetRequestID(ctx context.Context) string {
	v := ctx.Value(requestIDKey{})
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

type bearerKey struct{}

// WithBearerToken carries a caller's token to outbound gateway requests.
func WithBearerToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, bearerKey{}, token)
}

func GetBearerToken(ctx context.Context) string {
	if s, ok := ctx.Value(bearerKey{}).(string); ok {
		return s
	}
	return ""
}

type userIDKey struct{}

// WithUserID records the authenticated caller.
func WithUserID(ctx context.Context, uid string) context.Context {
	return context.WithValue(ctx, userIDKey{}, uid)
}

func GetUserID(ctx context.Context) string {
	if s, ok := ctx.Value(userIDKey{}).(string); ok {
		return s
	}
	return ""
}
