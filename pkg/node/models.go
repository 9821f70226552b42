package node

import (
	"log/slog"
	"sync/atomic"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/JimmyToluene/cs528-hw2-pagerank/pkg/utils"
)

// Role can be treated as an enum
// (iota: the constants in this group, of type Role, are auto-increment)
type Role int32

const (
	RoleServer Role = iota // Answers gRPC and HTTP requests
	RoleWorker             // Also consumes jobs from the work queue
)

type Node struct {
	Id       string       // Node identifier, used as consumer tag
	Role     Role         // What this node has to do
	Defaults utils.Config // Solver settings for fields a request leaves unset
	Logger   *slog.Logger // Node logger, every job logs with its id
	Cache    *Cache       // Rankings already computed (nil: no cache)
	Jobs     atomic.Int64 // Completed rankings
}

type Queue struct {
	Conn    *amqp.Connection
	Channel *amqp.Channel
	Work    *amqp.Queue
	Result  *amqp.Queue
}

// Close releases the channel and the connection. Fields left nil are skipped.
func (q Queue) Close() {
	if q.Channel != nil {
		_ = q.Channel.Close()
	}
	if q.Conn != nil {
		_ = q.Conn.Close()
	}
}

func RoleToString(role Role) string {
	switch role {
	case RoleServer:
		return "Server"
	case RoleWorker:
		return "Worker"
	}
	return "Undefined"
}
