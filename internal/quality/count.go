package quality

import (
	"fmt"

	"go.uber.org/zap"

	"gosubgroup/domain/core"
	"gosubgroup/domain/dataset"
	"gosubgroup/domain/subgroup"
	"gosubgroup/domain/target"
)

// simpleCount is the shared base of the itemset measures. Their only run
// constant is the table, so they are ready as soon as they are built.
type simpleCount struct {
	name        string
	task        *subgroup.Task
	hasConstant bool
	logger      *zap.Logger
}

func newSimpleCount(name string, o options) simpleCount {
	return simpleCount{
		name:        name,
		hasConstant: true,
		logger:      o.logger.With(zap.String("quality_function", name)),
	}
}

func (q *simpleCount) Name() string {
	return q.name
}

func (q *simpleCount) CalculateConstantStatistics(task *subgroup.Task) error {
	if q.task == task {
		return nil
	}
	if _, ok := task.Target.(*target.FITarget); !ok {
		return fmt.Errorf("%w: %s needs an itemset target, got %v", core.ErrTargetNotApplicable, q.name, task.Target)
	}
	q.task = task
	q.logger.Debug("task attached", zap.Int("size", task.Data.Rows()))
	return nil
}

func (q *simpleCount) HasConstantStatistics() bool {
	return q.hasConstant
}

func (q *simpleCount) CalculateStatistics(sg *subgroup.Subgroup, data *dataset.Table) (Statistics, error) {
	if data == nil {
		if q.task == nil {
			return nil, fmt.Errorf("%w: %s has no table", core.ErrConstantsMissing, q.name)
		}
		data = q.task.Data
	}
	size, err := sg.Representation().Size(data)
	if err != nil {
		return nil, err
	}
	return CountStats{SubgroupSize: size}, nil
}

func (q *simpleCount) IsApplicable(sg *subgroup.Subgroup) bool {
	_, ok := sg.Target.(*target.FITarget)
	return ok
}

func (q *simpleCount) SupportsWeights() bool {
	return false
}

func (q *simpleCount) RequiredStatAttrs() []string {
	return CountStats{}.StatAttrs()
}

// CountQF scores a candidate by its size.
type CountQF struct {
	simpleCount
}

func NewCountQF(opts ...Option) *CountQF {
	return &CountQF{simpleCount: newSimpleCount("count", buildOptions(opts))}
}

func (q *CountQF) Evaluate(sg *subgroup.Subgroup, stats Statistics) (float64, error) {
	s, err := ensureStatistics[CountStats](q, sg, stats)
	if err != nil {
		return 0, err
	}
	return float64(s.SubgroupSize), nil
}

// OptimisticEstimate is the candidate's own size, since refinements only shrink
func (q *CountQF) OptimisticEstimate(sg *subgroup.Subgroup, stats Statistics) (float64, error) {
	return q.Evaluate(sg, stats)
}

// AreaQF scores a candidate by size times depth, the number of cells its
// itemset covers.
type AreaQF struct {
	simpleCount
}

func NewAreaQF(opts ...Option) *AreaQF {
	return &AreaQF{simpleCount: newSimpleCount("area", buildOptions(opts))}
}

func (q *AreaQF) Evaluate(sg *subgroup.Subgroup, stats Statistics) (float64, error) {
	s, err := ensureStatistics[CountStats](q, sg, stats)
	if err != nil {
		return 0, err
	}
	return float64(s.SubgroupSize * sg.Depth()), nil
}
