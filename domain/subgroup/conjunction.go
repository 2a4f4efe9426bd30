package subgroup

import (
	"sort"
	"strings"

	"github.com/bits-and-blooms/bitset"

	"gosubgroup/domain/dataset"
)

// Conjunction is the pattern describing a subgroup: the AND of its selectors.
// Selectors are kept sorted by their string form so that equal patterns share
// one Key regardless of construction order.
type Conjunction struct {
	selectors []Selector
	key       string
}

// NewConjunction creates a pattern; duplicate selectors are dropped
func NewConjunction(selectors ...Selector) *Conjunction {
	seen := make(map[string]bool, len(selectors))
	kept := make([]Selector, 0, len(selectors))
	for _, s := range selectors {
		if s == nil || seen[s.String()] {
			continue
		}
		seen[s.String()] = true
		kept = append(kept, s)
	}
	sort.Slice(kept, func(i, j int) bool { return kept[i].String() < kept[j].String() })

	names := make([]string, len(kept))
	for i, s := range kept {
		names[i] = s.String()
	}
	return &Conjunction{selectors: kept, key: strings.Join(names, " AND ")}
}

// Selectors returns a copy of the selectors
func (c *Conjunction) Selectors() []Selector {
	out := make([]Selector, len(c.selectors))
	copy(out, c.selectors)
	return out
}

// Depth is the number of selectors
func (c *Conjunction) Depth() int {
	return len(c.selectors)
}

// Key is the canonical identity of the pattern
func (c *Conjunction) Key() string {
	return c.key
}

func (c *Conjunction) String() string {
	if len(c.selectors) == 0 {
		return "Dataset"
	}
	return c.key
}

// Generalizations returns the immediate generalizations, one per dropped selector
func (c *Conjunction) Generalizations() []*Conjunction {
	if len(c.selectors) == 0 {
		return nil
	}
	out := make([]*Conjunction, 0, len(c.selectors))
	for skip := range c.selectors {
		rest := make([]Selector, 0, len(c.selectors)-1)
		rest = append(rest, c.selectors[:skip]...)
		rest = append(rest, c.selectors[skip+1:]...)
		out = append(out, NewConjunction(rest...))
	}
	return out
}

// Specialize returns a new pattern with one more selector
func (c *Conjunction) Specialize(s Selector) *Conjunction {
	return NewConjunction(append(c.Selectors(), s)...)
}

// Covers intersects the selector masks; the empty pattern covers every row
func (c *Conjunction) Covers(data *dataset.Table) (*bitset.BitSet, error) {
	n := uint(data.Rows())
	if len(c.selectors) == 0 {
		mask := bitset.New(n)
		for i := uint(0); i < n; i++ {
			mask.Set(i)
		}
		return mask, nil
	}

	mask, err := c.selectors[0].Covers(data)
	if err != nil {
		return nil, err
	}
	for _, s := range c.selectors[1:] {
		next, err := s.Covers(data)
		if err != nil {
			return nil, err
		}
		mask.InPlaceIntersection(next)
	}
	return mask, nil
}
