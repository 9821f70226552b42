package utils

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/JimmyToluene/cs528-hw2-pagerank/pkg/pagerank"
)

type ctxKey struct{}

// NewLogger returns a slog logger writing text or json records at the given
// level. Unknown levels fall back to info, unknown formats to text.
func NewLogger(w io.Writer, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}
	var handler slog.Handler
	if strings.EqualFold(format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

func ParseLevel(level string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo
	}
	return l
}

// WithLogger returns a context carrying logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// LoggerFrom returns the logger stored in ctx, or slog.Default.
func LoggerFrom(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && logger != nil {
		return logger
	}
	return slog.Default()
}

// LogObserver reports solve progress: one debug record per iteration and
// one info record per convergence milestone.
func LogObserver(logger *slog.Logger) pagerank.Observer {
	return func(e pagerank.Event) {
		switch e.Kind {
		case pagerank.IterationFinished:
			logger.Debug("Iteration finished",
				"iteration", e.Iteration,
				"diff", e.Step.Diff,
				"relative_change", e.Step.RelativeChange,
				"dangling_mass", e.Step.DanglingMass,
			)
		case pagerank.CoarseConverged:
			logger.Info("Coarse threshold reached",
				"iteration", e.Iteration,
				"relative_change", e.Step.RelativeChange,
			)
		case pagerank.Solved:
			logger.Info("Converged", "iteration", e.Iteration, "diff", e.Step.Diff)
		case pagerank.Exhausted:
			logger.Warn("Stopped before convergence", "iteration", e.Iteration, "state", e.State.String())
		}
	}
}
