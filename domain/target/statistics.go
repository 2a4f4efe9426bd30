package target

import (
	"fmt"
	"math"
	"sort"

	"gosubgroup/domain/core"
)

// BaseStatistics are the sufficient counts every ratio measure is derived from.
type BaseStatistics struct {
	InstancesDataset  int
	PositivesDataset  int
	InstancesSubgroup int
	PositivesSubgroup int
}

// WeightedBaseStatistics are BaseStatistics summed over instance weights.
type WeightedBaseStatistics struct {
	InstancesDataset  float64
	PositivesDataset  float64
	InstancesSubgroup float64
	PositivesSubgroup float64
}

// Validate checks 0 <= ps <= is <= id and ps <= pd <= id
func (s BaseStatistics) Validate() error {
	switch {
	case s.PositivesSubgroup < 0:
		return fmt.Errorf("%w: negative subgroup positives %d", core.ErrInvalidStatistics, s.PositivesSubgroup)
	case s.PositivesSubgroup > s.InstancesSubgroup:
		return fmt.Errorf("%w: subgroup positives %d exceed subgroup size %d", core.ErrInvalidStatistics, s.PositivesSubgroup, s.InstancesSubgroup)
	case s.InstancesSubgroup > s.InstancesDataset:
		return fmt.Errorf("%w: subgroup size %d exceeds dataset size %d", core.ErrInvalidStatistics, s.InstancesSubgroup, s.InstancesDataset)
	case s.PositivesSubgroup > s.PositivesDataset:
		return fmt.Errorf("%w: subgroup positives %d exceed dataset positives %d", core.ErrInvalidStatistics, s.PositivesSubgroup, s.PositivesDataset)
	case s.PositivesDataset > s.InstancesDataset:
		return fmt.Errorf("%w: dataset positives %d exceed dataset size %d", core.ErrInvalidStatistics, s.PositivesDataset, s.InstancesDataset)
	}
	return nil
}

func (s BaseStatistics) InstancesComplement() int {
	return s.InstancesDataset - s.InstancesSubgroup
}

func (s BaseStatistics) PositivesComplement() int {
	return s.PositivesDataset - s.PositivesSubgroup
}

func (s BaseStatistics) NegativesSubgroup() int {
	return s.InstancesSubgroup - s.PositivesSubgroup
}

func (s BaseStatistics) NegativesComplement() int {
	return (s.InstancesDataset - s.PositivesDataset) - s.NegativesSubgroup()
}

// TargetShareSubgroup is p/n, NaN for an empty subgroup
func (s BaseStatistics) TargetShareSubgroup() float64 {
	return ratio(s.PositivesSubgroup, s.InstancesSubgroup)
}

// TargetShareDataset is P/N, NaN for an empty dataset
func (s BaseStatistics) TargetShareDataset() float64 {
	return ratio(s.PositivesDataset, s.InstancesDataset)
}

// Lift is the subgroup target share over the dataset target share
func (s BaseStatistics) Lift() float64 {
	return s.TargetShareSubgroup() / s.TargetShareDataset()
}

// Report keys
const (
	KeySizeSubgroup           = "size_sg"
	KeySizeDataset            = "size_dataset"
	KeyPositivesSubgroup      = "positives_sg"
	KeyPositivesDataset       = "positives_dataset"
	KeySizeComplement         = "size_complement"
	KeyRelativeSizeSubgroup   = "relative_size_sg"
	KeyRelativeSizeComplement = "relative_size_complement"
	KeyCoverageSubgroup       = "coverage_sg"
	KeyCoverageComplement     = "coverage_complement"
	KeyTargetShareSubgroup    = "target_share_sg"
	KeyTargetShareComplement  = "target_share_complement"
	KeyTargetShareDataset     = "target_share_dataset"
	KeyLift                   = "lift"
)

// Report is the human-readable statistics of a candidate. It is for result
// presentation, not for the evaluation hot path.
type Report map[string]float64

// Report derives every reporting field; 0/0 style cases are NaN
func (s BaseStatistics) Report() Report {
	return Report{
		KeySizeSubgroup:           float64(s.InstancesSubgroup),
		KeySizeDataset:            float64(s.InstancesDataset),
		KeyPositivesSubgroup:      float64(s.PositivesSubgroup),
		KeyPositivesDataset:       float64(s.PositivesDataset),
		KeySizeComplement:         float64(s.InstancesComplement()),
		KeyRelativeSizeSubgroup:   ratio(s.InstancesSubgroup, s.InstancesDataset),
		KeyRelativeSizeComplement: ratio(s.InstancesComplement(), s.InstancesDataset),
		KeyCoverageSubgroup:       ratio(s.PositivesSubgroup, s.PositivesDataset),
		KeyCoverageComplement:     ratio(s.PositivesComplement(), s.PositivesDataset),
		KeyTargetShareSubgroup:    s.TargetShareSubgroup(),
		KeyTargetShareComplement:  ratio(s.PositivesComplement(), s.InstancesComplement()),
		KeyTargetShareDataset:     s.TargetShareDataset(),
		KeyLift:                   s.Lift(),
	}
}

// Keys returns the report keys in sorted order
func (r Report) Keys() []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func ratio(num, den int) float64 {
	if den == 0 {
		return math.NaN()
	}
	return float64(num) / float64(den)
}
