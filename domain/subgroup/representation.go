package subgroup

import (
	"fmt"
	"math"

	"github.com/bits-and-blooms/bitset"

	"gosubgroup/domain/core"
	"gosubgroup/domain/dataset"
)

// Kind tags how a Representation obtains its coverage.
type Kind uint8

const (
	// KindMask carries a precomputed coverage mask.
	KindMask Kind = iota
	// KindRange covers the contiguous rows [start, stop).
	KindRange
	// KindPredicate defers to a Coverer and materializes the mask on demand.
	KindPredicate
)

func (k Kind) String() string {
	switch k {
	case KindMask:
		return "mask"
	case KindRange:
		return "range"
	case KindPredicate:
		return "predicate"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Representation says how to get (coverage, size) for a candidate as cheaply as
// its form allows. The zero value is invalid.
type Representation struct {
	kind      Kind
	mask      *bitset.BitSet
	size      int
	start     int
	stop      int
	predicate Coverer
}

// FromMask wraps an existing coverage mask; its size is counted once here
func FromMask(mask *bitset.BitSet) Representation {
	r := Representation{kind: KindMask, mask: mask}
	if mask != nil {
		r.size = int(mask.Count())
	}
	return r
}

// FromRange covers rows [start, stop); bounds are clipped to the table
func FromRange(start, stop int) Representation {
	return Representation{kind: KindRange, start: start, stop: stop}
}

// All covers every row of whatever table it is applied to
func All() Representation {
	return FromRange(0, math.MaxInt)
}

// FromPredicate defers coverage to c
func FromPredicate(c Coverer) Representation {
	return Representation{kind: KindPredicate, predicate: c}
}

func (r Representation) Kind() Kind {
	return r.kind
}

// Bounds returns the clipped [start, stop) of a range representation over n rows
func (r Representation) Bounds(n int) (int, int) {
	start, stop := r.start, r.stop
	if start < 0 {
		start = 0
	}
	if stop > n {
		stop = n
	}
	if stop < start {
		stop = start
	}
	return start, stop
}

// Mask returns the coverage mask, materializing it when needed
func (r Representation) Mask(data *dataset.Table) (*bitset.BitSet, error) {
	switch r.kind {
	case KindMask:
		if r.mask == nil {
			return nil, fmt.Errorf("%w: nil mask", core.ErrInvalidRepresentation)
		}
		return r.mask, nil
	case KindRange:
		n := data.Rows()
		start, stop := r.Bounds(n)
		mask := bitset.New(uint(n))
		for i := start; i < stop; i++ {
			mask.Set(uint(i))
		}
		return mask, nil
	case KindPredicate:
		if r.predicate == nil {
			return nil, fmt.Errorf("%w: nil predicate", core.ErrInvalidRepresentation)
		}
		return r.predicate.Covers(data)
	}
	return nil, fmt.Errorf("%w: %s", core.ErrInvalidRepresentation, r.kind)
}

// Size returns the number of covered rows. Ranges never build a mask.
func (r Representation) Size(data *dataset.Table) (int, error) {
	switch r.kind {
	case KindMask:
		if r.mask == nil {
			return 0, fmt.Errorf("%w: nil mask", core.ErrInvalidRepresentation)
		}
		return r.size, nil
	case KindRange:
		start, stop := r.Bounds(data.Rows())
		return stop - start, nil
	}
	mask, err := r.Mask(data)
	if err != nil {
		return 0, err
	}
	return int(mask.Count()), nil
}
