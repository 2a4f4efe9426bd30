// Package quality implements the interestingness measures that rank subgroups
// during a search, together with the caching contract they share: run-constant
// statistics are computed once per task, per-candidate statistics once per
// candidate, and both can be handed between measures of the same shape.
package quality

import (
	"fmt"

	"gosubgroup/domain/core"
	"gosubgroup/domain/dataset"
	"gosubgroup/domain/subgroup"
	apperrors "gosubgroup/internal/errors"
)

// Statistic attribute names
const (
	AttrSize                = "size"
	AttrPositivesCount      = "positives_count"
	AttrSubgroupSize        = "subgroup_size"
	AttrSubgroupStats       = "subgroup_stats"
	AttrGeneralisationStats = "generalisation_stats"
)

// Statistics is a per-candidate sufficient statistic. StatAttrs names the
// fields it carries so that measures with the same needs can share one value.
type Statistics interface {
	StatAttrs() []string
}

// Measure is a plain quality function.
type Measure interface {
	Name() string

	// CalculateConstantStatistics computes the run constants for task. Calling
	// it again with the same task is a no-op.
	CalculateConstantStatistics(task *subgroup.Task) error
	HasConstantStatistics() bool

	// CalculateStatistics computes the candidate's statistics. A nil data uses
	// the table of the current task.
	CalculateStatistics(sg *subgroup.Subgroup, data *dataset.Table) (Statistics, error)

	// Evaluate scores the candidate. Supplied statistics are reused when they
	// fit the measure, otherwise they are computed.
	Evaluate(sg *subgroup.Subgroup, stats Statistics) (float64, error)

	IsApplicable(sg *subgroup.Subgroup) bool
	SupportsWeights() bool
	RequiredStatAttrs() []string
}

// BoundedMeasure can bound the quality of a candidate and of all its
// specializations from above.
type BoundedMeasure interface {
	Measure
	OptimisticEstimate(sg *subgroup.Subgroup, stats Statistics) (float64, error)
}

// EnsureStatistics returns stats if they carry every attribute m requires, and
// computes fresh statistics otherwise.
func EnsureStatistics(m Measure, sg *subgroup.Subgroup, stats Statistics) (Statistics, error) {
	required := m.RequiredStatAttrs()
	if stats != nil && hasAttrs(stats, required) {
		return stats, nil
	}
	if len(required) == 0 {
		return nil, configError(fmt.Errorf("%w: %s received no statistics", core.ErrStatAttrsUndeclared, m.Name()))
	}
	return m.CalculateStatistics(sg, nil)
}

// ensureStatistics is EnsureStatistics narrowed to the concrete type a measure
// works with. Statistics of the right attributes but another type are recomputed.
func ensureStatistics[S Statistics](m Measure, sg *subgroup.Subgroup, stats Statistics) (S, error) {
	var zero S
	if typed, ok := stats.(S); ok && hasAttrs(stats, m.RequiredStatAttrs()) {
		return typed, nil
	}
	computed, err := EnsureStatistics(m, sg, nil)
	if err != nil {
		return zero, err
	}
	typed, ok := computed.(S)
	if !ok {
		return zero, fmt.Errorf("%s: unexpected statistics type %T", m.Name(), computed)
	}
	return typed, nil
}

func hasAttrs(stats Statistics, required []string) bool {
	have := stats.StatAttrs()
	for _, r := range required {
		found := false
		for _, h := range have {
			if h == r {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func configError(err error) error {
	return apperrors.WithCode(apperrors.CodeConfigInvalid, err)
}

// PositivesStats is the (size, positives_count) statistic of binary targets.
type PositivesStats struct {
	Size           int
	PositivesCount int
}

func (PositivesStats) StatAttrs() []string {
	return []string{AttrSize, AttrPositivesCount}
}

// Ratio is PositivesCount/Size; callers must check Size first
func (s PositivesStats) Ratio() float64 {
	return float64(s.PositivesCount) / float64(s.Size)
}

// CountStats is the subgroup size statistic of itemset targets.
type CountStats struct {
	SubgroupSize int
}

func (CountStats) StatAttrs() []string {
	return []string{AttrSubgroupSize}
}

// GAStats pairs a candidate's own statistics with those of its best
// generalization.
type GAStats struct {
	Subgroup       PositivesStats
	Generalisation PositivesStats
}

func (GAStats) StatAttrs() []string {
	return []string{AttrSubgroupStats, AttrGeneralisationStats}
}
