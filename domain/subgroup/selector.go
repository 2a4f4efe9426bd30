package subgroup

import (
	"fmt"
	"math"
	"strconv"

	"github.com/bits-and-blooms/bitset"

	"gosubgroup/domain/core"
	"gosubgroup/domain/dataset"
)

// Coverer produces the coverage mask of something over a table.
type Coverer interface {
	Covers(data *dataset.Table) (*bitset.BitSet, error)
}

// Selector is a single membership predicate on one attribute.
type Selector interface {
	Coverer
	Attribute() core.VariableKey
	String() string
}

// EqualitySelector covers rows whose raw value equals Value.
type EqualitySelector struct {
	attribute core.VariableKey
	value     string
}

// NewEqualitySelector creates an attribute == value selector
func NewEqualitySelector(attribute core.VariableKey, value string) (*EqualitySelector, error) {
	if attribute == "" {
		return nil, fmt.Errorf("%w: empty attribute name", core.ErrInvalidSelector)
	}
	return &EqualitySelector{attribute: attribute, value: value}, nil
}

func (s *EqualitySelector) Attribute() core.VariableKey { return s.attribute }
func (s *EqualitySelector) Value() string               { return s.value }

func (s *EqualitySelector) String() string {
	return fmt.Sprintf("%s==%s", s.attribute, s.value)
}

// Covers evaluates the selector against every row
func (s *EqualitySelector) Covers(data *dataset.Table) (*bitset.BitSet, error) {
	column, err := data.Column(s.attribute)
	if err != nil {
		return nil, err
	}

	mask := bitset.New(uint(data.Rows()))
	for i, v := range column.Raw {
		if v == s.value {
			mask.Set(uint(i))
		}
	}
	return mask, nil
}

// IntervalSelector covers rows of a numeric column with Lower <= v < Upper.
// Infinite bounds are allowed; missing values are never covered.
type IntervalSelector struct {
	attribute core.VariableKey
	lower     float64
	upper     float64
}

// NewIntervalSelector creates a half-open interval selector
func NewIntervalSelector(attribute core.VariableKey, lower, upper float64) (*IntervalSelector, error) {
	if attribute == "" {
		return nil, fmt.Errorf("%w: empty attribute name", core.ErrInvalidSelector)
	}
	if math.IsNaN(lower) || math.IsNaN(upper) || lower >= upper {
		return nil, fmt.Errorf("%w: interval [%v, %v) is empty", core.ErrInvalidSelector, lower, upper)
	}
	return &IntervalSelector{attribute: attribute, lower: lower, upper: upper}, nil
}

func (s *IntervalSelector) Attribute() core.VariableKey { return s.attribute }

func (s *IntervalSelector) String() string {
	switch {
	case math.IsInf(s.lower, -1):
		return fmt.Sprintf("%s<%s", s.attribute, formatBound(s.upper))
	case math.IsInf(s.upper, 1):
		return fmt.Sprintf("%s>=%s", s.attribute, formatBound(s.lower))
	}
	return fmt.Sprintf("%s: [%s:%s[", s.attribute, formatBound(s.lower), formatBound(s.upper))
}

// Covers evaluates the interval against the numeric view of the column
func (s *IntervalSelector) Covers(data *dataset.Table) (*bitset.BitSet, error) {
	values, err := data.NumericColumn(s.attribute)
	if err != nil {
		return nil, err
	}

	mask := bitset.New(uint(data.Rows()))
	for i, v := range values {
		if v >= s.lower && v < s.upper {
			mask.Set(uint(i))
		}
	}
	return mask, nil
}

func formatBound(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
