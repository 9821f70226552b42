// Package node serves rankings over gRPC, HTTP and a RabbitMQ work queue.
// Every transport funnels into Node.Rank.
package node

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/JimmyToluene/cs528-hw2-pagerank/pkg/graph"
	"github.com/JimmyToluene/cs528-hw2-pagerank/pkg/pagerank"
	"github.com/JimmyToluene/cs528-hw2-pagerank/pkg/utils"
	"github.com/JimmyToluene/cs528-hw2-pagerank/pkg/wire"
)

func NewNode(defaults utils.Config, logger *slog.Logger, cacheSize int) (*Node, error) {
	if err := defaults.Validate(); err != nil {
		return nil, err
	}
	id, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("could not generate node id: %w", err)
	}
	n := &Node{
		Id:       id,
		Role:     RoleServer,
		Defaults: defaults,
		Logger:   logger.With("node", id),
	}
	if cacheSize > 0 {
		n.Cache, err = NewCache(cacheSize)
		if err != nil {
			return nil, err
		}
	}
	return n, nil
}

// Rank solves req with the node defaults filling its unset parameters.
// The response always carries the request id, generated when empty.
func (n *Node) Rank(ctx context.Context, req wire.Request) (wire.Response, error) {
	if req.ID == "" {
		id, err := gonanoid.New()
		if err != nil {
			return wire.Response{}, fmt.Errorf("could not generate job id: %w", err)
		}
		req.ID = id
	}
	logger := n.Logger.With("job", req.ID)

	config, err := n.configFor(req)
	if err != nil {
		return wire.Response{ID: req.ID}, err
	}
	key := Key(req.Graph, config)
	if resp, ok := n.Cache.Get(key); ok {
		logger.Info("Ranking served from cache", "nodes", resp.Nodes)
		resp.ID = req.ID
		return resp, nil
	}

	cfg := config.Solver()
	cfg.Observer = utils.LogObserver(logger)
	logger.Info("Ranking started", "pages", len(req.Graph), "policy", config.Policy, "damping", config.Damping)
	report, err := pagerank.Rank(utils.WithLogger(ctx, logger), req.Graph, cfg)
	if err != nil {
		logger.Warn("Ranking failed", "error", err)
		return wire.Response{ID: req.ID}, err
	}
	// The caller gave up: no ranking is owed, and a queued job must be retried
	if report.Result.State == pagerank.BudgetExhausted && ctx.Err() != nil {
		logger.Warn("Ranking cancelled", "iterations", report.Result.Iterations, "error", ctx.Err())
		return wire.Response{ID: req.ID}, ctx.Err()
	}
	resp := NewResponse(req.ID, report, config.Top)
	// A budget cut depends on timing, not on the input
	if report.Result.State != pagerank.BudgetExhausted {
		n.Cache.Add(key, resp)
	}
	n.Jobs.Add(1)
	logger.Info("Ranking finished",
		"state", resp.State,
		"iterations", resp.Iterations,
		"elapsed_ms", resp.ElapsedMs,
	)
	return resp, nil
}

func (n *Node) configFor(req wire.Request) (utils.Config, error) {
	config := n.Defaults
	if req.Damping != 0 {
		config.Damping = req.Damping
	}
	if req.MaxIterations != 0 {
		config.MaxIterations = req.MaxIterations
	}
	if req.Policy != "" {
		config.Policy = strings.ToLower(req.Policy)
	}
	if req.Top != 0 {
		config.Top = req.Top
	}
	if req.Workers != 0 {
		config.Workers = req.Workers
	}
	if req.BudgetMs != 0 {
		config.Budget = time.Duration(req.BudgetMs) * time.Millisecond
	}
	if req.CoarseThreshold != 0 {
		config.CoarseThreshold = req.CoarseThreshold
	}
	if req.FineTolerance != 0 {
		config.FineTolerance = req.FineTolerance
	}
	if err := config.Validate(); err != nil {
		return config, err
	}
	// Fail here rather than after the graph is built
	if _, err := pagerank.NewSolver(config.Solver()); err != nil {
		return config, err
	}
	return config, nil
}

// NewResponse summarizes report, keeping the top entries (all when top is 0).
func NewResponse(id string, report *pagerank.Report, top int) wire.Response {
	entries := report.Ranking.All()
	if top > 0 {
		entries = report.Ranking.Top(top)
	}
	ranks := make([]wire.Entry, len(entries))
	for i, e := range entries {
		ranks[i] = wire.Entry{ID: e.ID, Score: e.Score}
	}
	res := report.Result
	return wire.Response{
		ID:              id,
		State:           res.State.String(),
		Converged:       res.Converged(),
		Nodes:           report.Graph.Len(),
		Iterations:      res.Iterations,
		CoarseIteration: res.CoarseIteration,
		Diff:            res.Diff,
		ElapsedMs:       float64(res.Elapsed.Microseconds()) / 1000,
		Ranks:           ranks,
	}
}

// IsInvalid reports whether err was caused by the request itself, so that
// repeating it can never succeed.
func IsInvalid(err error) bool {
	for _, target := range []error{
		graph.ErrEmptyGraph,
		wire.ErrMalformed,
		pagerank.ErrInvalidDamping,
		pagerank.ErrInvalidMaxIterations,
		pagerank.ErrInvalidWorkers,
		pagerank.ErrInvalidBudget,
		utils.ErrUnknownPolicy,
		utils.ErrInvalidThreshold,
		utils.ErrInvalidTop,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
