package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/JimmyToluene/cs528-hw2-pagerank/pkg/graph"
	"github.com/JimmyToluene/cs528-hw2-pagerank/pkg/utils"
	"github.com/JimmyToluene/cs528-hw2-pagerank/pkg/wire"
)

var submitCmd = &cobra.Command{
	Use:   "submit <edge-list>",
	Short: "Rank an edge list on a node over gRPC",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := newRequest(cmd, args[0])
		if err != nil {
			return err
		}
		api, _ := cmd.Flags().GetString("api")
		timeout, _ := cmd.Flags().GetDuration("timeout")

		server, err := utils.RankerCall(api, timeout)
		if err != nil {
			return fmt.Errorf("failed to call server: %w", err)
		}
		defer server.Conn.Close()
		defer server.CancelFunc()

		out, err := server.Client.Rank(server.Ctx, wire.EncodeRequest(req))
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		resp, err := wire.DecodeResponse(out)
		if err != nil {
			return err
		}
		printResponse(cmd.OutOrStdout(), resp)
		return nil
	},
}

func init() {
	submitCmd.Flags().String("api", "127.0.0.1:1234", "gRPC address of the node")
	submitCmd.Flags().Duration("timeout", time.Minute, "time to wait for the ranking")
	submitCmd.Flags().String("policy", "", "stopping policy: dual or single (default from node)")
	submitCmd.Flags().Float64("damping", 0, "probability of following a link (default from node)")
	submitCmd.Flags().Int("workers", 0, "concurrent partitions of the matrix-vector product (default from node)")
	submitCmd.Flags().Duration("budget", 0, "wall time budget (default from node)")
	rootCmd.AddCommand(submitCmd)
}

// newRequest loads the edge list and fills the parameters given as flags;
// the rest are left for the node to decide.
func newRequest(cmd *cobra.Command, resource string) (wire.Request, error) {
	adjacency, err := graph.LoadEdgeList(resource)
	if err != nil {
		return wire.Request{}, fmt.Errorf("failed to load graph: %w", err)
	}
	if len(adjacency) == 0 {
		return wire.Request{}, errors.New("graph has no pages")
	}
	req := wire.Request{Graph: adjacency}
	req.Top, _ = cmd.Flags().GetInt("top")
	req.Policy, _ = cmd.Flags().GetString("policy")
	req.Damping, _ = cmd.Flags().GetFloat64("damping")
	req.Workers, _ = cmd.Flags().GetInt("workers")
	budget, _ := cmd.Flags().GetDuration("budget")
	req.BudgetMs = budget.Milliseconds()
	return req, nil
}
