package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	"github.com/JimmyToluene/cs528-hw2-pagerank/pkg/node"
	"github.com/JimmyToluene/cs528-hw2-pagerank/pkg/utils"
	"github.com/JimmyToluene/cs528-hw2-pagerank/pkg/wire"
)

func main() {
	// Read environment variables
	env := utils.ReadEnvVars()
	logger := utils.NewLogger(os.Stderr, env.LogLevel, env.LogFormat)

	config, err := utils.LoadConfiguration(env.Config)
	utils.FailOnError(logger, "Could not load configuration", err, "file", env.Config)

	n, err := node.NewNode(config, logger, env.CacheSize)
	utils.FailOnError(logger, "Could not create node", err)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	eg, ctx := errgroup.WithContext(ctx)

	// Create connection
	lis, err := net.Listen("tcp", fmt.Sprintf("%s:%d", env.Host, env.GrpcPort))
	utils.FailOnError(logger, "Failed to listen for gRPC server", err)
	server := grpc.NewServer()
	wire.RegisterRankerServer(server, &node.RankerServerImpl{Node: n})
	eg.Go(func() error {
		logger.Info("Starting gRPC server", "address", lis.Addr().String())
		return server.Serve(lis)
	})
	eg.Go(func() error {
		<-ctx.Done()
		server.GracefulStop()
		return nil
	})

	if env.HttpPort != 0 {
		api := node.NewHTTPServer(n)
		address := fmt.Sprintf("%s:%d", env.Host, env.HttpPort)
		eg.Go(func() error {
			logger.Info("Starting HTTP server", "address", address)
			if err := api.Start(address); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		eg.Go(func() error {
			<-ctx.Done()
			shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return api.Shutdown(shutdown)
		})
	}

	var queue node.Queue
	if env.RabbitHost != "" {
		queue, err = connectQueue(env)
		utils.FailOnError(logger, "Could not connect to RabbitMQ", err, "host", env.RabbitHost)

		n.Role = node.RoleWorker
		worker := &node.Worker{
			Node:        n,
			Channel:     queue.Channel,
			WorkQueue:   queue.Work.Name,
			ResultQueue: queue.Result.Name,
		}
		eg.Go(func() error {
			if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	}

	logger.Info("Node started", "role", node.RoleToString(n.Role))
	err = eg.Wait()
	// Closed here since os.Exit skips deferred calls
	queue.Close()
	if err != nil {
		logger.Error("Node stopped", "error", err)
		os.Exit(1)
	}
	logger.Info("Node stopped")
}

func connectQueue(env utils.EnvVars) (node.Queue, error) {
	var queue node.Queue
	conn, err := amqp.Dial(env.RabbitURL())
	if err != nil {
		return queue, err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return queue, fmt.Errorf("failed to open a channel: %w", err)
	}
	queue.Conn = conn
	queue.Channel = ch
	// Queue declaration
	work, err := utils.DeclareQueue(env.WorkQueue, ch)
	if err != nil {
		conn.Close()
		return queue, fmt.Errorf("failed to declare %q queue: %w", env.WorkQueue, err)
	}
	queue.Work = &work
	result, err := utils.DeclareQueue(env.ResultQueue, ch)
	if err != nil {
		conn.Close()
		return queue, fmt.Errorf("failed to declare %q queue: %w", env.ResultQueue, err)
	}
	queue.Result = &result
	return queue, nil
}
