package kit

import "context"

// Transport names recorded with every call.
const (
	TransportHTTP  = "http"
	TransportMCP   = "mcp"
	TransportStdio = "stdio"
)

type (
	transportKey struct{}
	requestIDKey struct{}
	clientKey    struct{}
)

// WithTransport tags ctx with the surface the call arrived on.
func WithTransport(ctx context.Context, t string) context.Context {
	return context.WithValue(ctx, transportKey{}, t)
}

// GetTransport defaults to TransportHTTP for untagged contexts.
func GetTransport(ctx context.Context) string {
	if v, ok := transportOf(ctx); ok {
		return v
	}
	return TransportHTTP
}

func transportOf(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(transportKey{}).(string)
	return v, ok && v != ""
}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func GetRequestID(ctx context.Context) string {
	v, _ := ctx.Value(requestIDKey{}).(string)
	return v
}

// WithClient stores the rate-limiting identity of the caller (remote IP).
func WithClient(ctx context.Context, c string) context.Context {
	return context.WithValue(ctx, clientKey{}, c)
}

func GetClient(ctx context.Context) string {
	v, _ := ctx.Value(clientKey{}).(string)
	return v
}
