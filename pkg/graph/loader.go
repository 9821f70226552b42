package graph

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
)

// LoadEdgeList reads an edge list from a local file, an http(s) URL, or
// stdin when resource is "-".
func LoadEdgeList(resource string) (map[NodeID][]NodeID, error) {
	var (
		bytes []byte
		err   error
	)
	// Check if it's a network resource or a local one
	switch {
	case resource == "-":
		bytes, err = io.ReadAll(os.Stdin)
	case strings.HasPrefix(resource, "http://") || strings.HasPrefix(resource, "https://"):
		bytes, err = download(resource)
	default:
		bytes, err = os.ReadFile(resource)
	}
	if err != nil {
		return nil, fmt.Errorf("could not read graph at %s: %w", resource, err)
	}
	// Parse graph file into graph representation
	adjacency, err := ParseEdgeList(bytes)
	if err != nil {
		return nil, fmt.Errorf("could not load graph from %s: %w", resource, err)
	}
	return adjacency, nil
}

func download(url string) ([]byte, error) {
	resp, err := http.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return io.ReadAll(resp.Body)
}

// ParseEdgeList parses one link per line ("from to" or "from,to"). A line
// holding a single identifier declares a node without links. Every endpoint
// becomes a node; link order per source is preserved, duplicates included.
func ParseEdgeList(contents []byte) (map[NodeID][]NodeID, error) {
	adjacency := make(map[NodeID][]NodeID)
	// Split file contents in lines (based on newline delimiter)
	lines := strings.Split(strings.ReplaceAll(string(contents), "\r\n", "\n"), "\n")
	for number, line := range lines {
		from, to, skip, err := convertLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", number+1, err)
		}
		// Comment or blank line
		if skip {
			continue
		}
		if _, ok := adjacency[from]; !ok {
			adjacency[from] = nil
		}
		if to == "" {
			continue
		}
		if _, ok := adjacency[to]; !ok {
			adjacency[to] = nil
		}
		adjacency[from] = append(adjacency[from], to)
	}
	return adjacency, nil
}

func convertLine(line string) (NodeID, NodeID, bool, error) {
	line = strings.TrimSpace(line)
	// Skip comment lines
	if strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") || line == "" {
		return "", "", true, nil
	}
	// Accept both csv and whitespace separated pairs
	tokens := strings.Fields(strings.ReplaceAll(line, ",", " "))
	switch len(tokens) {
	case 1:
		return NodeID(tokens[0]), "", false, nil
	case 2:
		return NodeID(tokens[0]), NodeID(tokens[1]), false, nil
	}
	return "", "", false, fmt.Errorf("could not convert %q: expected 1 or 2 fields, got %d", line, len(tokens))
}
