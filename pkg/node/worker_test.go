package node_test

import (
	"context"
	"sync"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JimmyToluene/cs528-hw2-pagerank/pkg/graph"
	"github.com/JimmyToluene/cs528-hw2-pagerank/pkg/node"
	"github.com/JimmyToluene/cs528-hw2-pagerank/pkg/wire"
)

type published struct {
	key string
	msg amqp.Publishing
}

type fakeChannel struct {
	mu         sync.Mutex
	deliveries chan amqp.Delivery
	published  []published
}

func (c *fakeChannel) Consume(string, string, bool, bool, bool, bool, amqp.Table) (<-chan amqp.Delivery, error) {
	return c.deliveries, nil
}

func (c *fakeChannel) PublishWithContext(_ context.Context, _, key string, _, _ bool, msg amqp.Publishing) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.published = append(c.published, published{key: key, msg: msg})
	return nil
}

// fakeAcknowledger records the outcome of every delivery tag.
type fakeAcknowledger struct {
	mu      sync.Mutex
	outcome map[uint64]string
}

func (a *fakeAcknowledger) set(tag uint64, outcome string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.outcome[tag] = outcome
	return nil
}

func (a *fakeAcknowledger) Ack(tag uint64, _ bool) error { return a.set(tag, "ack") }

func (a *fakeAcknowledger) Nack(tag uint64, _ bool, requeue bool) error {
	if requeue {
		return a.set(tag, "requeue")
	}
	return a.set(tag, "nack")
}

func (a *fakeAcknowledger) Reject(tag uint64, _ bool) error { return a.set(tag, "reject") }

func TestWorker_Run(t *testing.T) {
	ack := &fakeAcknowledger{outcome: map[uint64]string{}}
	ch := &fakeChannel{deliveries: make(chan amqp.Delivery, 4)}

	valid, err := wire.MarshalRequest(wire.Request{Graph: chain(), Top: 1})
	require.NoError(t, err)
	invalid, err := wire.MarshalRequest(wire.Request{ID: "bad", Graph: chain(), Damping: 3})
	require.NoError(t, err)

	ch.deliveries <- amqp.Delivery{Acknowledger: ack, DeliveryTag: 1, Body: valid, CorrelationId: "c1", ReplyTo: "replies"}
	ch.deliveries <- amqp.Delivery{Acknowledger: ack, DeliveryTag: 2, Body: valid, CorrelationId: "c2"}
	ch.deliveries <- amqp.Delivery{Acknowledger: ack, DeliveryTag: 3, Body: []byte{0xff, 0xff}}
	ch.deliveries <- amqp.Delivery{Acknowledger: ack, DeliveryTag: 4, Body: invalid}
	close(ch.deliveries)

	w := &node.Worker{
		Node:        newTestNode(t, 0),
		Channel:     ch,
		WorkQueue:   "work",
		ResultQueue: "result",
	}
	require.ErrorIs(t, w.Run(context.Background()), node.ErrDeliveriesClosed)

	assert.Equal(t, map[uint64]string{1: "ack", 2: "ack", 3: "reject", 4: "ack"}, ack.outcome)
	require.Len(t, ch.published, 3)

	assert.Equal(t, "replies", ch.published[0].key)
	assert.Equal(t, "c1", ch.published[0].msg.CorrelationId)
	assert.Equal(t, amqp.Persistent, ch.published[0].msg.DeliveryMode)
	first, err := wire.UnmarshalResponse(ch.published[0].msg.Body)
	require.NoError(t, err)
	assert.Equal(t, "c1", first.ID)
	assert.True(t, first.Converged)
	require.Len(t, first.Ranks, 1)
	assert.Equal(t, graph.NodeID("3"), first.Ranks[0].ID)

	assert.Equal(t, "result", ch.published[1].key)
	assert.Equal(t, "c2", ch.published[1].msg.CorrelationId)

	rejected, err := wire.UnmarshalResponse(ch.published[2].msg.Body)
	require.NoError(t, err)
	assert.Equal(t, "bad", rejected.ID)
	assert.Contains(t, rejected.Error, "damping")
	assert.Empty(t, rejected.Ranks)
}

func TestWorker_RunStopsWithContext(t *testing.T) {
	ch := &fakeChannel{deliveries: make(chan amqp.Delivery)}
	w := &node.Worker{Node: newTestNode(t, 0), Channel: ch, WorkQueue: "work"}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, w.Run(ctx), context.Canceled)
}

func TestWorker_CancelledJobIsRequeued(t *testing.T) {
	ack := &fakeAcknowledger{outcome: map[uint64]string{}}
	ch := &fakeChannel{}
	n := newTestNode(t, 8)
	w := &node.Worker{Node: n, Channel: ch, WorkQueue: "work", ResultQueue: "result"}

	body, err := wire.MarshalRequest(wire.Request{ID: "job", Graph: chain()})
	require.NoError(t, err)

	// Shutdown arrives while the job is being handled
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	w.Handle(ctx, amqp.Delivery{Acknowledger: ack, DeliveryTag: 7, Body: body})

	assert.Equal(t, map[uint64]string{7: "requeue"}, ack.outcome)
	assert.Empty(t, ch.published)
	assert.Zero(t, n.Jobs.Load())
	assert.Zero(t, n.Cache.Len())
}
