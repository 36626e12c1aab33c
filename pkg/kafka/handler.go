package kafka

import "context"

// JobHandler processes one consumed message. The key is the routing key the
// producer attached, the value is the raw payload.
type JobHandler interface {
	Handle(ctx context.Context, key string, value []byte) error
}

type HandlerFunc func(ctx context.Context, key string, value []byte) error

func (f HandlerFunc) Handle(ctx context.Context, key string, value []byte) error {
	return f(ctx, key, value)
}
