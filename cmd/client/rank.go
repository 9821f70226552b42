package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/JimmyToluene/cs528-hw2-pagerank/pkg/graph"
	"github.com/JimmyToluene/cs528-hw2-pagerank/pkg/node"
	"github.com/JimmyToluene/cs528-hw2-pagerank/pkg/pagerank"
	"github.com/JimmyToluene/cs528-hw2-pagerank/pkg/utils"
)

var rankCmd = &cobra.Command{
	Use:   "rank <edge-list>",
	Short: "Rank an edge list on this machine (- reads stdin)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := loadConfig(cmd)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := applySolverFlags(cmd, &config); err != nil {
			return err
		}
		adjacency, err := graph.LoadEdgeList(args[0])
		if err != nil {
			return fmt.Errorf("failed to load graph: %w", err)
		}

		logger := commandLogger(cmd).With("graph", args[0])
		cfg := config.Solver()
		cfg.Observer = utils.LogObserver(logger)
		report, err := pagerank.Rank(cmd.Context(), adjacency, cfg)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		printGraph(out, report.Graph)
		printResponse(out, node.NewResponse(args[0], report, config.Top))
		return nil
	},
}

func init() {
	rankCmd.Flags().Float64("damping", pagerank.DefaultDamping, "probability of following a link")
	rankCmd.Flags().Int("max-iterations", pagerank.DefaultMaxIterations, "iteration cap")
	rankCmd.Flags().String("policy", utils.PolicyDual, "stopping policy: dual or single")
	rankCmd.Flags().Int("workers", 1, "concurrent partitions of the matrix-vector product")
	rankCmd.Flags().Duration("budget", 0, "wall time budget (0: none)")
	rootCmd.AddCommand(rankCmd)
}

// applySolverFlags overrides config with the flags set on the command line.
func applySolverFlags(cmd *cobra.Command, config *utils.Config) error {
	flags := cmd.Flags()
	if flags.Changed("damping") {
		config.Damping, _ = flags.GetFloat64("damping")
	}
	if flags.Changed("max-iterations") {
		config.MaxIterations, _ = flags.GetInt("max-iterations")
	}
	if flags.Changed("policy") {
		policy, _ := flags.GetString("policy")
		config.Policy = strings.ToLower(policy)
	}
	if flags.Changed("workers") {
		config.Workers, _ = flags.GetInt("workers")
	}
	if flags.Changed("budget") {
		config.Budget, _ = flags.GetDuration("budget")
	}
	return config.Validate()
}
