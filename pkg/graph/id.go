package graph

import (
	"sort"
	"strings"
)

// NodeID is an external node identifier. In crawled corpora it is the
// decimal page number, but any token is accepted.
type NodeID string

// Compare orders identifiers: decimal numerals first, by numeric value,
// then everything else lexicographically. Different spellings of the same
// number ("7", "007") fall back to raw string order, so the order is total.
func Compare(a, b NodeID) int {
	an, bn := isNumeral(a), isNumeral(b)
	switch {
	case an && !bn:
		return -1
	case !an && bn:
		return 1
	case an && bn:
		as := strings.TrimLeft(string(a), "0")
		bs := strings.TrimLeft(string(b), "0")
		if len(as) != len(bs) {
			if len(as) < len(bs) {
				return -1
			}
			return 1
		}
		if c := strings.Compare(as, bs); c != 0 {
			return c
		}
	}
	return strings.Compare(string(a), string(b))
}

// Less reports whether a sorts before b.
func Less(a, b NodeID) bool {
	return Compare(a, b) < 0
}

// SortIDs sorts ids in place in Compare order.
func SortIDs(ids []NodeID) {
	sort.Slice(ids, func(i, j int) bool { return Less(ids[i], ids[j]) })
}

func isNumeral(id NodeID) bool {
	if id == "" {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] < '0' || id[i] > '9' {
			return false
		}
	}
	return true
}
