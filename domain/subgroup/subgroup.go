package subgroup

import (
	"fmt"
)

// Subgroup is a candidate: a pattern over the data plus the target it is judged
// against. Statistics is only written by the itemset target report.
type Subgroup struct {
	Description *Conjunction
	Target      Target
	Statistics  map[string]float64

	cover *Representation
}

// New creates a candidate; a nil description means the whole dataset
func New(target Target, description *Conjunction) *Subgroup {
	if description == nil {
		description = NewConjunction()
	}
	return &Subgroup{
		Description: description,
		Target:      target,
		Statistics:  make(map[string]float64),
	}
}

// Depth is the number of selectors in the description
func (s *Subgroup) Depth() int {
	return s.Description.Depth()
}

// WithCover attaches a precomputed cover, e.g. a mask shared between measures.
// The cover must describe the same rows as the description.
func (s *Subgroup) WithCover(rep Representation) *Subgroup {
	s.cover = &rep
	return s
}

// Representation returns the attached cover, or the predicate form of the
// description when none is attached
func (s *Subgroup) Representation() Representation {
	if s.cover != nil {
		return *s.cover
	}
	return FromPredicate(s.Description)
}

func (s *Subgroup) String() string {
	return fmt.Sprintf("<<%v --> %s>>", s.Target, s.Description)
}
