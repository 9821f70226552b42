package node

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/JimmyToluene/cs528-hw2-pagerank/pkg/graph"
	"github.com/JimmyToluene/cs528-hw2-pagerank/pkg/utils"
	"github.com/JimmyToluene/cs528-hw2-pagerank/pkg/wire"
)

// Cache keeps the most recently computed responses. A nil *Cache is valid
// and never hits.
type Cache struct {
	entries *lru.Cache[uint64, wire.Response]
}

func NewCache(size int) (*Cache, error) {
	entries, err := lru.New[uint64, wire.Response](size)
	if err != nil {
		return nil, fmt.Errorf("could not create cache: %w", err)
	}
	return &Cache{entries: entries}, nil
}

func (c *Cache) Get(key uint64) (wire.Response, bool) {
	if c == nil {
		return wire.Response{}, false
	}
	resp, ok := c.entries.Get(key)
	if !ok {
		return resp, false
	}
	resp.Ranks = append([]wire.Entry(nil), resp.Ranks...)
	return resp, true
}

func (c *Cache) Add(key uint64, resp wire.Response) {
	if c == nil {
		return
	}
	resp.Ranks = append([]wire.Entry(nil), resp.Ranks...)
	c.entries.Add(key, resp)
}

func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	return c.entries.Len()
}

// Key hashes the adjacency, pages in ascending order and links as given,
// together with every setting that changes the response. Workers is left
// out since it never does.
func Key(adjacency map[graph.NodeID][]graph.NodeID, config utils.Config) uint64 {
	ids := make([]graph.NodeID, 0, len(adjacency))
	for id := range adjacency {
		ids = append(ids, id)
	}
	graph.SortIDs(ids)

	d := xxhash.New()
	for _, id := range ids {
		_, _ = d.WriteString(string(id))
		_, _ = d.Write([]byte{0})
		for _, target := range adjacency[id] {
			_, _ = d.WriteString(string(target))
			_, _ = d.Write([]byte{0})
		}
		_, _ = d.Write([]byte{1})
	}
	_, _ = fmt.Fprintf(d, "%v|%d|%s|%v|%v|%s|%d",
		config.Damping,
		config.MaxIterations,
		config.Policy,
		config.CoarseThreshold,
		config.FineTolerance,
		config.Budget,
		config.Top,
	)
	return d.Sum64()
}
