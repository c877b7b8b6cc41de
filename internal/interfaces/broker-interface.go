package interfaces

import "context"

// Notifier is the pub/sub fan-out contract. Delivery is best-effort: callers
// log a failed publish but never fail the mutation that triggered it.
type Notifier interface {
	Publish(ctx context.Context, channel, event string, payload interface{}) error
}

type ConsumerHandler interface {
	HandleMessage(key, value []byte) error
}
