package utils

import (
	"context"
	"log/slog"
	"os"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/JimmyToluene/cs528-hw2-pagerank/pkg/wire"
)

type Client[T interface{}] struct {
	Conn       *grpc.ClientConn
	Client     T
	Ctx        context.Context
	CancelFunc context.CancelFunc
}

// RankerCall connects to the Ranker service at url. The call context expires
// after timeout.
// User has to `defer CancelFunc()` and `defer Conn.Close()`
func RankerCall(url string, timeout time.Duration) (Client[wire.RankerClient], error) {
	var clientInfo Client[wire.RankerClient]
	conn, err := grpc.Dial(
		url,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return clientInfo, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	clientInfo.Conn = conn
	clientInfo.Client = wire.NewRankerClient(conn)
	clientInfo.Ctx = ctx
	clientInfo.CancelFunc = cancel
	return clientInfo, nil
}

// FailOnError logs msg with err and exits. Only for process setup.
func FailOnError(logger *slog.Logger, msg string, err error, args ...any) {
	if err != nil {
		logger.Error(msg, append([]any{"error", err}, args...)...)
		os.Exit(1)
	}
}
