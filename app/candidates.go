package app

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/montanaflynn/stats"

	"gosubgroup/domain/core"
	"gosubgroup/domain/dataset"
	"gosubgroup/domain/subgroup"
	"gosubgroup/internal/config"
)

// DefaultMaxValues skips nominal attributes with more distinct values
const DefaultMaxValues = 20

// SelectorOptions controls which selectors are generated from a table
type SelectorOptions struct {
	// Exclude lists attributes that never appear in selectors, such as the
	// target and weight columns
	Exclude   []core.VariableKey
	MaxValues int
}

// BuildSelectors returns one equality selector per distinct nominal value and
// four quartile intervals per numeric attribute
func BuildSelectors(data *dataset.Table, opts SelectorOptions) ([]subgroup.Selector, error) {
	maxValues := opts.MaxValues
	if maxValues <= 0 {
		maxValues = DefaultMaxValues
	}
	excluded := make(map[core.VariableKey]bool, len(opts.Exclude))
	for _, key := range opts.Exclude {
		excluded[key] = true
	}

	var selectors []subgroup.Selector
	for _, key := range data.Keys() {
		if excluded[key] {
			continue
		}
		column, err := data.Column(key)
		if err != nil {
			return nil, err
		}

		if column.Type == dataset.TypeNumeric {
			intervals, err := quartileSelectors(key, column.Numeric)
			if err != nil {
				return nil, err
			}
			selectors = append(selectors, intervals...)
			continue
		}

		values, err := data.DistinctValues(key)
		if err != nil {
			return nil, err
		}
		if len(values) > maxValues {
			continue
		}
		for _, v := range values {
			if v == "" {
				continue
			}
			sel, err := subgroup.NewEqualitySelector(key, v)
			if err != nil {
				return nil, err
			}
			selectors = append(selectors, sel)
		}
	}
	return selectors, nil
}

func quartileSelectors(key core.VariableKey, values []float64) ([]subgroup.Selector, error) {
	present := make(stats.Float64Data, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			present = append(present, v)
		}
	}
	if len(present) < 4 {
		return nil, nil
	}

	q, err := stats.Quartile(present)
	if err != nil {
		return nil, fmt.Errorf("quartiles of %s: %w", key, err)
	}
	bounds := []float64{math.Inf(-1), q.Q1, q.Q2, q.Q3, math.Inf(1)}

	var selectors []subgroup.Selector
	for i := 0; i+1 < len(bounds); i++ {
		if bounds[i] >= bounds[i+1] {
			continue
		}
		sel, err := subgroup.NewIntervalSelector(key, bounds[i], bounds[i+1])
		if err != nil {
			return nil, err
		}
		selectors = append(selectors, sel)
	}
	return selectors, nil
}

// EnumerateConjunctions returns every conjunction of 1 to depth selectors
// where no attribute appears twice
func EnumerateConjunctions(selectors []subgroup.Selector, depth int) []*subgroup.Conjunction {
	var out []*subgroup.Conjunction
	var chosen []subgroup.Selector

	var extend func(start int)
	extend = func(start int) {
		if len(chosen) > 0 {
			out = append(out, subgroup.NewConjunction(chosen...))
		}
		if len(chosen) == depth {
			return
		}
		for i := start; i < len(selectors); i++ {
			if usesAttribute(chosen, selectors[i].Attribute()) {
				continue
			}
			chosen = append(chosen, selectors[i])
			extend(i + 1)
			chosen = chosen[:len(chosen)-1]
		}
	}
	extend(0)

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Depth() != out[j].Depth() {
			return out[i].Depth() < out[j].Depth()
		}
		return out[i].Key() < out[j].Key()
	})
	return out
}

func usesAttribute(selectors []subgroup.Selector, attr core.VariableKey) bool {
	for _, s := range selectors {
		if s.Attribute() == attr {
			return true
		}
	}
	return false
}

// ParseDescription reads "attr=value,attr=value" into a conjunction of
// equality selectors. An empty string is the whole dataset.
func ParseDescription(s string) (*subgroup.Conjunction, error) {
	var selectors []subgroup.Selector
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		attr, value, err := config.ParseTarget(part)
		if err != nil {
			return nil, err
		}
		sel, err := subgroup.NewEqualitySelector(core.VariableKey(attr), value)
		if err != nil {
			return nil, err
		}
		selectors = append(selectors, sel)
	}
	return subgroup.NewConjunction(selectors...), nil
}
