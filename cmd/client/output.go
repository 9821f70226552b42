package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/JimmyToluene/cs528-hw2-pagerank/pkg/graph"
	"github.com/JimmyToluene/cs528-hw2-pagerank/pkg/wire"
)

func printGraph(w io.Writer, g *graph.Graph) {
	fmt.Fprintf(w, "Graph: %d pages, %d links, %d dangling", g.Len(), len(g.Edges()), len(g.Dangling()))
	if g.Dropped() > 0 || g.Repeated() > 0 {
		fmt.Fprintf(w, " (%d links to unknown pages dropped, %d repeated)", g.Dropped(), g.Repeated())
	}
	fmt.Fprintln(w)
}

func printResponse(w io.Writer, resp wire.Response) {
	fmt.Fprintf(w, "State: %s after %d iterations", resp.State, resp.Iterations)
	if resp.CoarseIteration > 0 {
		fmt.Fprintf(w, " (coarse threshold at %d)", resp.CoarseIteration)
	}
	fmt.Fprintf(w, ", final L1 change %.3g, %.3f ms\n", resp.Diff, resp.ElapsedMs)

	fmt.Fprintf(w, "Top %d of %d pages:\n", len(resp.Ranks), resp.Nodes)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for i, e := range resp.Ranks {
		fmt.Fprintf(tw, "  %d.\t%s\t%.8f\n", i+1, e.ID, e.Score)
	}
	_ = tw.Flush()
}
