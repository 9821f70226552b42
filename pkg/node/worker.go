package node

import (
	"context"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/JimmyToluene/cs528-hw2-pagerank/pkg/utils"
	"github.com/JimmyToluene/cs528-hw2-pagerank/pkg/wire"
)

// ErrDeliveriesClosed is returned by Worker.Run when the broker closes the
// consumer's delivery channel.
var ErrDeliveriesClosed = errors.New("node: delivery channel closed")

// Channel is the part of *amqp.Channel the worker needs.
type Channel interface {
	utils.Publisher
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
}

// Worker ranks the graphs published on WorkQueue. Results go to the
// delivery's reply-to queue, or to ResultQueue when it has none.
type Worker struct {
	Node        *Node
	Channel     Channel
	WorkQueue   string
	ResultQueue string
}

// Run consumes jobs until ctx ends or the delivery channel closes, which is
// reported as ErrDeliveriesClosed.
func (w *Worker) Run(ctx context.Context) error {
	// Register consumer
	msgs, err := w.Channel.Consume(
		w.WorkQueue, // queue
		w.Node.Id,   // consumer
		false,       // auto-ack
		false,       // exclusive
		false,       // no-local
		false,       // no-wait
		nil,         // args
	)
	if err != nil {
		return fmt.Errorf("could not register a consumer: %w", err)
	}
	w.Node.Logger.Info("Waiting for jobs", "queue", w.WorkQueue)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				w.Node.Logger.Warn("Stopped consuming jobs", "queue", w.WorkQueue)
				return ErrDeliveriesClosed
			}
			w.handle(ctx, d)
		}
	}
}

func (w *Worker) handle(ctx context.Context, d amqp.Delivery) {
	logger := w.Node.Logger
	// Get data from bytes
	req, err := wire.UnmarshalRequest(d.Body)
	if err != nil {
		utils.FailOnReject(logger, d, err)
		return
	}
	if req.ID == "" {
		req.ID = d.CorrelationId
	}

	resp, err := w.Node.Rank(ctx, req)
	if err != nil {
		if !IsInvalid(err) {
			utils.FailOnNack(logger, d, err)
			return
		}
		// Report the rejection to the submitter instead of retrying forever
		resp.Error = err.Error()
	}

	// Publish result to the reply queue
	data, err := wire.MarshalResponse(resp)
	if err != nil {
		utils.FailOnNack(logger, d, err)
		return
	}
	replyTo := d.ReplyTo
	if replyTo == "" {
		replyTo = w.ResultQueue
	}
	if err := utils.Publish(ctx, w.Channel, replyTo, resp.ID, "", data); err != nil {
		utils.FailOnNack(logger, d, err)
		return
	}

	// Ack
	if err := d.Ack(false); err != nil {
		logger.Error("Could not ack job", "job", resp.ID, "error", err)
	}
}
