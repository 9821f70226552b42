package utils

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type EnvVars struct {
	Host        string // Interface the servers bind to
	GrpcPort    int    // gRPC Ranker service port
	HttpPort    int    // HTTP API port (0: disabled)
	RabbitHost  string // RabbitMQ host (empty: no queue worker)
	RabbitPort  int
	RabbitUser  string
	RabbitPass  string
	WorkQueue   string // Queue the worker consumes rank jobs from
	ResultQueue string // Default queue for results without a reply-to
	Config      string // Solver configuration file (empty: defaults and env)
	CacheSize   int    // Cached rankings (0: no cache)
	LogLevel    string
	LogFormat   string
}

func ReadEnvVars() EnvVars {
	// Loading .env file if it exists
	// It will not override already existing env vars
	_ = godotenv.Load()
	return EnvVars{
		Host:        readStringEnvVarOr("HOST", ""),
		GrpcPort:    readIntEnvVarOr("GRPC_PORT", 1234),
		HttpPort:    readIntEnvVarOr("HTTP_PORT", 8080),
		RabbitHost:  readStringEnvVarOr("RABBIT_HOST", ""),
		RabbitPort:  readIntEnvVarOr("RABBIT_PORT", 5672),
		RabbitUser:  readStringEnvVarOr("RABBIT_USER", "guest"),
		RabbitPass:  readStringEnvVarOr("RABBIT_PASSWORD", "guest"),
		WorkQueue:   readStringEnvVarOr("WORK_QUEUE", "work"),
		ResultQueue: readStringEnvVarOr("RESULT_QUEUE", "result"),
		Config:      readStringEnvVarOr("CONFIG", ""),
		CacheSize:   readIntEnvVarOr("CACHE_SIZE", 64),
		LogLevel:    readStringEnvVarOr("LOG_LEVEL", "info"),
		LogFormat:   readStringEnvVarOr("LOG_FORMAT", "text"),
	}
}

// RabbitURL returns the AMQP connection string.
func (e EnvVars) RabbitURL() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%d/", e.RabbitUser, e.RabbitPass, e.RabbitHost, e.RabbitPort)
}

func readStringEnvVar(name string) (string, error) {
	value := os.Getenv(name)
	if value == "" {
		return "", fmt.Errorf("%s not set", name)
	}
	return value, nil
}

func readIntEnvVar(name string) (int, error) {
	valueStr, err := readStringEnvVar(name)
	if err != nil {
		return 0, err
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return 0, fmt.Errorf("could not convert %s to a number: %w", name, err)
	}
	return value, nil
}

func readStringEnvVarOr(name string, or string) string {
	value, err := readStringEnvVar(name)
	if err != nil {
		value = or
	}
	return value
}

func readIntEnvVarOr(name string, or int) int {
	value, err := readIntEnvVar(name)
	if err != nil {
		value = or
	}
	return value
}
