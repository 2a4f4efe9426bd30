package target

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"

	"gosubgroup/domain/core"
	"gosubgroup/domain/dataset"
	"gosubgroup/domain/subgroup"
	apperrors "gosubgroup/internal/errors"
)

// TargetOptions configures a BinaryTarget. Either Selector or the
// Attribute/Value pair must be set, never both.
type TargetOptions struct {
	Attribute core.VariableKey
	Value     string
	Selector  subgroup.Selector
}

// BinaryTarget marks the rows covered by its selector as positives.
type BinaryTarget struct {
	selector subgroup.Selector
}

// NewBinaryTarget creates the target of classic subgroup discovery
func NewBinaryTarget(opts TargetOptions) (*BinaryTarget, error) {
	hasPair := opts.Attribute != "" || opts.Value != ""
	switch {
	case hasPair && opts.Selector != nil:
		return nil, invalidTarget("construct either from a selector or from an attribute/value pair")
	case opts.Selector != nil:
		return &BinaryTarget{selector: opts.Selector}, nil
	case opts.Attribute != "":
		sel, err := subgroup.NewEqualitySelector(opts.Attribute, opts.Value)
		if err != nil {
			return nil, invalidTarget(err.Error())
		}
		return &BinaryTarget{selector: sel}, nil
	}
	return nil, invalidTarget("no target selector given")
}

func invalidTarget(reason string) error {
	return apperrors.WithCode(apperrors.CodeConfigInvalid, fmt.Errorf("%w: %s", core.ErrInvalidTarget, reason))
}

// Selector returns the positives predicate
func (t *BinaryTarget) Selector() subgroup.Selector {
	return t.selector
}

func (t *BinaryTarget) String() string {
	return "T: " + t.selector.String()
}

// Equal compares targets structurally
func (t *BinaryTarget) Equal(other *BinaryTarget) bool {
	if t == nil || other == nil {
		return t == other
	}
	return t.selector.String() == other.selector.String()
}

// Less orders targets by their string form
func (t *BinaryTarget) Less(other *BinaryTarget) bool {
	return t.String() < other.String()
}

// Covers returns the positives mask
func (t *BinaryTarget) Covers(data *dataset.Table) (*bitset.BitSet, error) {
	return t.selector.Covers(data)
}

func (t *BinaryTarget) Attributes() []core.VariableKey {
	return []core.VariableKey{t.selector.Attribute()}
}

// BaseStatistics reduces a candidate's coverage and the positives mask to the
// four sufficient counts.
func (t *BinaryTarget) BaseStatistics(rep subgroup.Representation, data *dataset.Table) (BaseStatistics, error) {
	positives, err := t.Covers(data)
	if err != nil {
		return BaseStatistics{}, err
	}
	size, covered, err := CountPositives(rep, data, positives)
	if err != nil {
		return BaseStatistics{}, err
	}

	return BaseStatistics{
		InstancesDataset:  data.Rows(),
		PositivesDataset:  int(positives.Count()),
		InstancesSubgroup: size,
		PositivesSubgroup: covered,
	}, nil
}

// BaseStatisticsWeighted is BaseStatistics with every row counted by its weight.
func (t *BinaryTarget) BaseStatisticsWeighted(rep subgroup.Representation, data *dataset.Table, weightAttr core.VariableKey) (WeightedBaseStatistics, error) {
	weights, err := data.NumericColumn(weightAttr)
	if err != nil {
		return WeightedBaseStatistics{}, err
	}
	positives, err := t.Covers(data)
	if err != nil {
		return WeightedBaseStatistics{}, err
	}
	mask, err := rep.Mask(data)
	if err != nil {
		return WeightedBaseStatistics{}, err
	}

	var stats WeightedBaseStatistics
	for i, w := range weights {
		row := uint(i)
		stats.InstancesDataset += w
		if positives.Test(row) {
			stats.PositivesDataset += w
		}
		if mask.Test(row) {
			stats.InstancesSubgroup += w
			if positives.Test(row) {
				stats.PositivesSubgroup += w
			}
		}
	}
	return stats, nil
}

// CalculateStatistics produces the reporting view of a candidate
func (t *BinaryTarget) CalculateStatistics(rep subgroup.Representation, data *dataset.Table) (Report, error) {
	base, err := t.BaseStatistics(rep, data)
	if err != nil {
		return nil, err
	}
	return base.Report(), nil
}

// CountPositives returns the candidate size and how many of its rows are set in
// positives, choosing the cheapest path for the representation.
func CountPositives(rep subgroup.Representation, data *dataset.Table, positives *bitset.BitSet) (int, int, error) {
	switch rep.Kind() {
	case subgroup.KindRange:
		start, stop := rep.Bounds(data.Rows())
		covered := 0
		for i, ok := positives.NextSet(uint(start)); ok && i < uint(stop); i, ok = positives.NextSet(i + 1) {
			covered++
		}
		return stop - start, covered, nil
	case subgroup.KindMask:
		size, err := rep.Size(data)
		if err != nil {
			return 0, 0, err
		}
		mask, err := rep.Mask(data)
		if err != nil {
			return 0, 0, err
		}
		return size, int(mask.IntersectionCardinality(positives)), nil
	default:
		mask, err := rep.Mask(data)
		if err != nil {
			return 0, 0, err
		}
		return int(mask.Count()), int(mask.IntersectionCardinality(positives)), nil
	}
}
