package authctx

import "context"

type bearerKey struct{}

// WithBearer stores the caller's access token so outbound clients can
// forward it to the booking and payment services.
func WithBearer(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, bearerKey{}, token)
}

func BearerFrom(ctx context.Context) string {
	token, _ := ctx.Value(bearerKey{}).(string)
	return token
}
