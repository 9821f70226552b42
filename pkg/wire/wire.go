// Package wire defines the messages exchanged with a ranking node and their
// encoding as google.protobuf.Struct, shared by the gRPC service and the
// job queue.
package wire

import (
	"errors"
	"fmt"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/JimmyToluene/cs528-hw2-pagerank/pkg/graph"
)

var ErrMalformed = errors.New("wire: malformed message")

// Request asks a node to rank a graph. Zero parameters select the node's
// configured defaults.
type Request struct {
	ID            string                          `json:"id,omitempty"`
	Graph         map[graph.NodeID][]graph.NodeID `json:"graph"`
	Damping       float64                         `json:"damping,omitempty"`
	MaxIterations int                             `json:"max_iterations,omitempty"`
	Policy        string                          `json:"policy,omitempty"`
	Top           int                             `json:"top,omitempty"`

	// Solver tuning
	Workers         int     `json:"workers,omitempty"`
	BudgetMs        int64   `json:"budget_ms,omitempty"`
	CoarseThreshold float64 `json:"coarse_threshold,omitempty"`
	FineTolerance   float64 `json:"fine_tolerance,omitempty"`
}

type Entry struct {
	ID    graph.NodeID `json:"id"`
	Score float64      `json:"score"`
}

// Response carries the outcome of a ranking. Ranks holds the highest
// scoring entries, best first.
type Response struct {
	ID              string  `json:"id"`
	State           string  `json:"state"`
	Converged       bool    `json:"converged"`
	Nodes           int     `json:"nodes"`
	Iterations      int     `json:"iterations"`
	CoarseIteration int     `json:"coarse_iteration"`
	Diff            float64 `json:"diff"`
	ElapsedMs       float64 `json:"elapsed_ms"`
	Ranks           []Entry `json:"ranks"`
	Error           string  `json:"error,omitempty"`
}

func EncodeRequest(r Request) *structpb.Struct {
	adjacency := make(map[string]*structpb.Value, len(r.Graph))
	for id, targets := range r.Graph {
		values := make([]*structpb.Value, len(targets))
		for i, t := range targets {
			values[i] = structpb.NewStringValue(string(t))
		}
		adjacency[string(id)] = structpb.NewListValue(&structpb.ListValue{Values: values})
	}
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"id":               structpb.NewStringValue(r.ID),
		"graph":            structpb.NewStructValue(&structpb.Struct{Fields: adjacency}),
		"damping":          structpb.NewNumberValue(r.Damping),
		"max_iterations":   structpb.NewNumberValue(float64(r.MaxIterations)),
		"policy":           structpb.NewStringValue(r.Policy),
		"top":              structpb.NewNumberValue(float64(r.Top)),
		"workers":          structpb.NewNumberValue(float64(r.Workers)),
		"budget_ms":        structpb.NewNumberValue(float64(r.BudgetMs)),
		"coarse_threshold": structpb.NewNumberValue(r.CoarseThreshold),
		"fine_tolerance":   structpb.NewNumberValue(r.FineTolerance),
	}}
}

func DecodeRequest(s *structpb.Struct) (Request, error) {
	var r Request
	if s == nil {
		return r, fmt.Errorf("%w: empty request", ErrMalformed)
	}
	value, ok := s.Fields["graph"]
	if !ok || value.GetStructValue() == nil {
		return r, fmt.Errorf("%w: missing graph", ErrMalformed)
	}
	adjacency := value.GetStructValue().GetFields()
	r.Graph = make(map[graph.NodeID][]graph.NodeID, len(adjacency))
	for id, targets := range adjacency {
		var links []graph.NodeID
		switch targets.GetKind().(type) {
		case *structpb.Value_NullValue:
		case *structpb.Value_ListValue:
			for _, t := range targets.GetListValue().GetValues() {
				target, ok := t.GetKind().(*structpb.Value_StringValue)
				if !ok {
					return Request{}, fmt.Errorf("%w: non-string link from %q", ErrMalformed, id)
				}
				links = append(links, graph.NodeID(target.StringValue))
			}
		default:
			return Request{}, fmt.Errorf("%w: links of %q are not a list", ErrMalformed, id)
		}
		r.Graph[graph.NodeID(id)] = links
	}
	r.ID = s.Fields["id"].GetStringValue()
	r.Damping = s.Fields["damping"].GetNumberValue()
	r.MaxIterations = int(s.Fields["max_iterations"].GetNumberValue())
	r.Policy = s.Fields["policy"].GetStringValue()
	r.Top = int(s.Fields["top"].GetNumberValue())
	r.Workers = int(s.Fields["workers"].GetNumberValue())
	r.BudgetMs = int64(s.Fields["budget_ms"].GetNumberValue())
	r.CoarseThreshold = s.Fields["coarse_threshold"].GetNumberValue()
	r.FineTolerance = s.Fields["fine_tolerance"].GetNumberValue()
	return r, nil
}

func EncodeResponse(r Response) *structpb.Struct {
	ranks := make([]*structpb.Value, len(r.Ranks))
	for i, e := range r.Ranks {
		ranks[i] = structpb.NewStructValue(&structpb.Struct{Fields: map[string]*structpb.Value{
			"id":    structpb.NewStringValue(string(e.ID)),
			"score": structpb.NewNumberValue(e.Score),
		}})
	}
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"id":               structpb.NewStringValue(r.ID),
		"state":            structpb.NewStringValue(r.State),
		"converged":        structpb.NewBoolValue(r.Converged),
		"nodes":            structpb.NewNumberValue(float64(r.Nodes)),
		"iterations":       structpb.NewNumberValue(float64(r.Iterations)),
		"coarse_iteration": structpb.NewNumberValue(float64(r.CoarseIteration)),
		"diff":             structpb.NewNumberValue(r.Diff),
		"elapsed_ms":       structpb.NewNumberValue(r.ElapsedMs),
		"ranks":            structpb.NewListValue(&structpb.ListValue{Values: ranks}),
		"error":            structpb.NewStringValue(r.Error),
	}}
}

func DecodeResponse(s *structpb.Struct) (Response, error) {
	var r Response
	if s == nil {
		return r, fmt.Errorf("%w: empty response", ErrMalformed)
	}
	f := s.GetFields()
	r.ID = f["id"].GetStringValue()
	r.State = f["state"].GetStringValue()
	r.Converged = f["converged"].GetBoolValue()
	r.Nodes = int(f["nodes"].GetNumberValue())
	r.Iterations = int(f["iterations"].GetNumberValue())
	r.CoarseIteration = int(f["coarse_iteration"].GetNumberValue())
	r.Diff = f["diff"].GetNumberValue()
	r.ElapsedMs = f["elapsed_ms"].GetNumberValue()
	r.Error = f["error"].GetStringValue()
	for _, v := range f["ranks"].GetListValue().GetValues() {
		entry := v.GetStructValue()
		if entry == nil {
			return Response{}, fmt.Errorf("%w: rank entry is not an object", ErrMalformed)
		}
		r.Ranks = append(r.Ranks, Entry{
			ID:    graph.NodeID(entry.Fields["id"].GetStringValue()),
			Score: entry.Fields["score"].GetNumberValue(),
		})
	}
	return r, nil
}

// MarshalRequest encodes r as a binary protobuf Struct for the job queue.
func MarshalRequest(r Request) ([]byte, error) {
	return proto.Marshal(EncodeRequest(r))
}

func UnmarshalRequest(data []byte) (Request, error) {
	var s structpb.Struct
	if err := proto.Unmarshal(data, &s); err != nil {
		return Request{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return DecodeRequest(&s)
}

func MarshalResponse(r Response) ([]byte, error) {
	return proto.Marshal(EncodeResponse(r))
}

func UnmarshalResponse(data []byte) (Response, error) {
	var s structpb.Struct
	if err := proto.Unmarshal(data, &s); err != nil {
		return Response{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return DecodeResponse(&s)
}
