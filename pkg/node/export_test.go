package node

import (
	"context"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Handle processes a single delivery the way Run does.
func (w *Worker) Handle(ctx context.Context, d amqp.Delivery) {
	w.handle(ctx, d)
}
