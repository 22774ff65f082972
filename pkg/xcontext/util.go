package xcontext

import "context"

type (
	errorKey    struct{}
	responseKey struct{}
)

func WithError(ctx context.Context, err error) context.Context {
	return context.WithValue(ctx, errorKey{}, err)
}

func Error(ctx context.Context) error {
	if err, ok := ctx.Value(errorKey{}).(error); ok {
		return err
	}

	return nil
}

func WithResponse(ctx context.Context, resp any) context.Context {
	return context.WithValue(ctx, responseKey{}, resp)
}

func GetResponse(ctx context.Context) any {
	return ctx.Value(responseKey{})
}
