package utils

import (
	"context"
	"log/slog"

	amqp "github.com/rabbitmq/amqp091-go"
)

const ProtobufContentType = "application/x-protobuf"

// Publisher is the publishing half of *amqp.Channel.
type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

func DeclareQueue(name string, ch *amqp.Channel) (amqp.Queue, error) {
	q, err := ch.QueueDeclare(
		name,  // name
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return q, err
	}
	// One unacknowledged job per consumer
	return q, ch.Qos(1, 0, false)
}

// Publish sends a persistent protobuf message to queue through the default
// exchange.
func Publish(ctx context.Context, ch Publisher, queue, correlationID, replyTo string, body []byte) error {
	return ch.PublishWithContext(ctx,
		"",    // exchange
		queue, // routing key
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			DeliveryMode:  amqp.Persistent,
			ContentType:   ProtobufContentType,
			CorrelationId: correlationID,
			ReplyTo:       replyTo,
			Body:          body,
		})
}

// FailOnNack returns the delivery to the queue after a failure that may not
// happen on a retry.
func FailOnNack(logger *slog.Logger, d amqp.Delivery, err error) {
	logger.Error("Job failed, requeueing", "correlation_id", d.CorrelationId, "error", err)
	if nackErr := d.Nack(false, true); nackErr != nil {
		logger.Error("Could not nack job", "correlation_id", d.CorrelationId, "error", nackErr)
	}
}

// FailOnReject drops a delivery that can never succeed.
func FailOnReject(logger *slog.Logger, d amqp.Delivery, err error) {
	logger.Error("Job rejected", "correlation_id", d.CorrelationId, "error", err)
	if rejectErr := d.Reject(false); rejectErr != nil {
		logger.Error("Could not reject job", "correlation_id", d.CorrelationId, "error", rejectErr)
	}
}
