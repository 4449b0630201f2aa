package hint

import (
	"fmt"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

// Kind classifies typed input against the hint codes.
type Kind int

const (
	// NoMatch means no code starts with the input.
	NoMatch Kind = iota
	// Partial means the input is a strict prefix of one or more codes.
	Partial
	// Exact means the input equals a code.
	Exact
)

func (k Kind) String() string {
	switch k {
	case NoMatch:
		return "no_match"
	case Partial:
		return "partial"
	case Exact:
		return "exact"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Result is the answer to one Query. IDs holds the candidate match ids in
// ascending order; for Exact it holds exactly the selected id.
type Result struct {
	Kind Kind
	IDs  []int
}

// ID returns the selected match id when the result is Exact.
func (r Result) ID() (int, bool) {
	if r.Kind != Exact {
		return 0, false
	}
	return r.IDs[0], true
}

// Lookup is a read-only index of hint codes, built once per hint set and
// queried on every keystroke.
type Lookup struct {
	trie  *patricia.Trie
	codes map[int]string
}

// NewLookup indexes hints by code.
func NewLookup(hints []Hint) *Lookup {
	l := &Lookup{
		trie:  patricia.NewTrie(),
		codes: make(map[int]string, len(hints)),
	}
	for _, h := range hints {
		if !l.trie.Insert(patricia.Prefix(h.Code), h.MatchID) {
			log.Errorf("duplicate hint code %q for match %d", h.Code, h.MatchID)
			continue
		}
		l.codes[h.MatchID] = h.Code
	}
	return l
}

// Len returns the number of indexed hints.
func (l *Lookup) Len() int {
	return len(l.codes)
}

// Code returns the code assigned to a match id.
func (l *Lookup) Code(id int) (string, bool) {
	c, ok := l.codes[id]
	return c, ok
}

// Query classifies the symbols typed so far.
func (l *Lookup) Query(typed string) Result {
	if typed == "" {
		return l.all()
	}
	key := patricia.Prefix(typed)
	if item := l.trie.Get(key); item != nil {
		return Result{Kind: Exact, IDs: []int{item.(int)}}
	}

	var ids []int
	err := l.trie.VisitSubtree(key, func(_ patricia.Prefix, item patricia.Item) error {
		ids = append(ids, item.(int))
		return nil
	})
	if err != nil {
		log.Errorf("Error visiting hint subtree: %v", err)
		return Result{Kind: NoMatch}
	}
	if len(ids) == 0 {
		return Result{Kind: NoMatch}
	}
	slices.Sort(ids)
	return Result{Kind: Partial, IDs: ids}
}

func (l *Lookup) all() Result {
	if len(l.codes) == 0 {
		return Result{Kind: NoMatch}
	}
	ids := make([]int, 0, len(l.codes))
	for id := range l.codes {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return Result{Kind: Partial, IDs: ids}
}
