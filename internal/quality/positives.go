package quality

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"
	"go.uber.org/zap"

	"gosubgroup/domain/core"
	"gosubgroup/domain/dataset"
	"gosubgroup/domain/subgroup"
	"gosubgroup/domain/target"
)

// simplePositives holds the run constants shared by all binary-target measures:
// the dataset (size, positives) pair and the positives mask.
type simplePositives struct {
	name         string
	task         *subgroup.Task
	target       *target.BinaryTarget
	datasetStats PositivesStats
	positives    *bitset.BitSet
	hasConstant  bool
	logger       *zap.Logger
}

func newSimplePositives(name string, o options) simplePositives {
	return simplePositives{name: name, logger: o.logger.With(zap.String("quality_function", name))}
}

func (q *simplePositives) Name() string {
	return q.name
}

func (q *simplePositives) CalculateConstantStatistics(task *subgroup.Task) error {
	if q.hasConstant && q.task == task {
		return nil
	}
	bt, ok := task.Target.(*target.BinaryTarget)
	if !ok {
		return fmt.Errorf("%w: %s needs a binary target, got %v", core.ErrTargetNotApplicable, q.name, task.Target)
	}
	positives, err := bt.Covers(task.Data)
	if err != nil {
		return err
	}

	q.task = task
	q.target = bt
	q.positives = positives
	q.datasetStats = PositivesStats{Size: task.Data.Rows(), PositivesCount: int(positives.Count())}
	q.hasConstant = true

	q.logger.Debug("constant statistics computed",
		zap.Int("size", q.datasetStats.Size),
		zap.Int("positives", q.datasetStats.PositivesCount))
	return nil
}

func (q *simplePositives) HasConstantStatistics() bool {
	return q.hasConstant
}

// DatasetStatistics returns the run-constant (size, positives) pair
func (q *simplePositives) DatasetStatistics() PositivesStats {
	return q.datasetStats
}

func (q *simplePositives) CalculateStatistics(sg *subgroup.Subgroup, data *dataset.Table) (Statistics, error) {
	return q.positivesStats(sg.Representation(), data)
}

func (q *simplePositives) positivesStats(rep subgroup.Representation, data *dataset.Table) (PositivesStats, error) {
	if !q.hasConstant {
		return PositivesStats{}, fmt.Errorf("%w: %s", core.ErrConstantsMissing, q.name)
	}
	if data == nil {
		data = q.task.Data
	}
	size, covered, err := target.CountPositives(rep, data, q.positives)
	if err != nil {
		return PositivesStats{}, err
	}
	return PositivesStats{Size: size, PositivesCount: covered}, nil
}

func (q *simplePositives) IsApplicable(sg *subgroup.Subgroup) bool {
	_, ok := sg.Target.(*target.BinaryTarget)
	return ok
}

func (q *simplePositives) RequiredStatAttrs() []string {
	return PositivesStats{}.StatAttrs()
}

func (q *simplePositives) baseStatistics(s PositivesStats) target.BaseStatistics {
	return target.BaseStatistics{
		InstancesDataset:  q.datasetStats.Size,
		PositivesDataset:  q.datasetStats.PositivesCount,
		InstancesSubgroup: s.Size,
		PositivesSubgroup: s.PositivesCount,
	}
}
