// Package hint assigns prefix-free selection codes to resolved matches and
// answers incremental-typing queries against them.
//
// Codes come from a K-ary Huffman tree over uniform weights, so every code is
// either the shortest possible length or one longer. Because no code is a
// prefix of another, a selection is final the moment the typed input equals
// a code.
package hint

import (
	"cmp"
	"slices"

	"github.com/bastiangx/hintserve/pkg/match"
	"github.com/bastiangx/hintserve/pkg/queue"
)

// Hint pairs a resolved match with the code that selects it.
type Hint struct {
	MatchID int
	Code    string
}

// Assign gives every match one code over alphabet. The result is in the
// order of matches, and matches earlier in reading order get codes that are
// no longer, and no later in the alphabet, than those of matches after them.
func Assign(matches []match.Resolved, alphabet Alphabet) ([]Hint, error) {
	if err := alphabet.Validate(); err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, nil
	}
	labels := Label(len(matches), alphabet.Size())
	hints := make([]Hint, len(matches))
	for i, m := range matches {
		hints[i] = Hint{MatchID: m.ID, Code: alphabet.spell(labels[i])}
	}
	return hints, nil
}

const (
	branch = -1
	dummy  = -2
)

// node lives in an arena; children index into the same arena.
type node struct {
	leaf     int // item index, branch, or dummy
	children []int
}

// Label returns prefix-free labels for n items as positions into an alphabet
// of size k. labels[i] belongs to item i. k must be at least 2.
func Label(n, k int) [][]int {
	if k < 2 {
		panic("alphabet must have at least two symbols")
	}
	switch n {
	case 0:
		return nil
	case 1:
		return [][]int{{0}}
	}

	arena, root := build(n, k)
	labels := make([][]int, 0, n)
	var walk func(idx int, prefix []int)
	walk = func(idx int, prefix []int) {
		nd := arena[idx]
		switch nd.leaf {
		case dummy:
			return
		case branch:
			// Children were stored lightest first; the heaviest child takes
			// the most preferred symbol so dummies end up on the last ones.
			last := len(nd.children) - 1
			for i, c := range nd.children {
				walk(c, append(prefix, last-i))
			}
		default:
			labels = append(labels, slices.Clone(prefix))
		}
	}
	walk(root, make([]int, 0, 8))

	slices.SortFunc(labels, func(a, b []int) int {
		if c := cmp.Compare(len(a), len(b)); c != 0 {
			return c
		}
		return slices.Compare(a, b)
	})
	return labels
}

// dummies returns how many weight-zero leaves make (leaves-1) divisible by (k-1).
func dummies(n, k int) int {
	return (k - 1 - (n-1)%(k-1)) % (k - 1)
}

// build runs the Huffman merge and returns the node arena and the root index.
func build(n, k int) ([]node, int) {
	pad := dummies(n, k)
	leaves := n + pad
	arena := make([]node, 0, leaves+(leaves-1)/(k-1))
	q := queue.New[int](leaves)

	for i := 0; i < n; i++ {
		arena = append(arena, node{leaf: i})
		q.Push(1, len(arena)-1)
	}
	for i := 0; i < pad; i++ {
		arena = append(arena, node{leaf: dummy})
		q.Push(0, len(arena)-1)
	}

	for q.Len() > 1 {
		children := make([]int, 0, k)
		weight := 0
		for i := 0; i < k; i++ {
			it, _ := q.Pop()
			children = append(children, it.Value)
			weight += it.Weight
		}
		arena = append(arena, node{leaf: branch, children: children})
		q.Push(weight, len(arena)-1)
	}

	root, _ := q.Pop()
	return arena, root.Value
}
