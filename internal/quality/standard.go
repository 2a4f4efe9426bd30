package quality

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"gosubgroup/domain/core"
	"gosubgroup/domain/subgroup"
)

// StandardScore is (n/N)^a * (p/n - P/N). An empty subgroup has no target
// share and scores NaN; callers must treat NaN as incomparable.
func StandardScore(a, instancesDataset, positivesDataset, instancesSubgroup, positivesSubgroup float64) float64 {
	if instancesSubgroup == 0 {
		return math.NaN()
	}
	pSubgroup := positivesSubgroup / instancesSubgroup
	pDataset := positivesDataset / instancesDataset
	return math.Pow(instancesSubgroup/instancesDataset, a) * (pSubgroup - pDataset)
}

// StandardScores evaluates StandardScore for many candidates at once. Entries
// with a zero size are NaN.
func StandardScores(a, instancesDataset, positivesDataset float64, instancesSubgroup, positivesSubgroup []float64) ([]float64, error) {
	if len(instancesSubgroup) != len(positivesSubgroup) {
		return nil, fmt.Errorf("%w: %d sizes, %d positive counts", core.ErrLengthMismatch, len(instancesSubgroup), len(positivesSubgroup))
	}

	scores := make([]float64, len(instancesSubgroup))
	floats.DivTo(scores, positivesSubgroup, instancesSubgroup)
	floats.AddConst(-positivesDataset/instancesDataset, scores)

	weights := make([]float64, len(instancesSubgroup))
	floats.ScaleTo(weights, 1/instancesDataset, instancesSubgroup)
	for i, w := range weights {
		weights[i] = math.Pow(w, a)
	}
	floats.Mul(scores, weights)

	for i, n := range instancesSubgroup {
		if n == 0 {
			scores[i] = math.NaN()
		}
	}
	return scores, nil
}

// StandardQF trades subgroup size, weighted by the exponent a, against the
// difference between subgroup and dataset target share. For different a it is
// order equivalent to many common measures.
type StandardQF struct {
	simplePositives
	a float64
}

// NewStandardQF creates the measure with exponent a
func NewStandardQF(a float64, opts ...Option) *StandardQF {
	return newStandardQF(fmt.Sprintf("standard(a=%g)", a), a, opts)
}

func newStandardQF(name string, a float64, opts []Option) *StandardQF {
	return &StandardQF{
		simplePositives: newSimplePositives(name, buildOptions(opts)),
		a:               a,
	}
}

// NewLiftQF ignores subgroup size: a = 0
func NewLiftQF(opts ...Option) *StandardQF {
	return newStandardQF("lift", 0, opts)
}

// NewSimpleBinomialQF is order equivalent to the binomial test when subgroups
// are much smaller than the dataset: a = 0.5
func NewSimpleBinomialQF(opts ...Option) *StandardQF {
	return newStandardQF("simple_binomial", 0.5, opts)
}

// NewWRAccQF is weighted relative accuracy: a = 1
func NewWRAccQF(opts ...Option) *StandardQF {
	return newStandardQF("wracc", 1, opts)
}

// A returns the size exponent
func (q *StandardQF) A() float64 {
	return q.a
}

func (q *StandardQF) score(n, p int) float64 {
	return StandardScore(q.a, float64(q.datasetStats.Size), float64(q.datasetStats.PositivesCount), float64(n), float64(p))
}

func (q *StandardQF) Evaluate(sg *subgroup.Subgroup, stats Statistics) (float64, error) {
	s, err := ensureStatistics[PositivesStats](q, sg, stats)
	if err != nil {
		return 0, err
	}
	return q.score(s.Size, s.PositivesCount), nil
}

// EvaluateAll scores many candidates from their statistics in one vectorized
// pass. Results match Evaluate entry by entry.
func (q *StandardQF) EvaluateAll(stats []PositivesStats) ([]float64, error) {
	if !q.hasConstant {
		return nil, fmt.Errorf("%w: %s", core.ErrConstantsMissing, q.name)
	}
	sizes := make([]float64, len(stats))
	positives := make([]float64, len(stats))
	for i, s := range stats {
		sizes[i] = float64(s.Size)
		positives[i] = float64(s.PositivesCount)
	}
	return StandardScores(q.a, float64(q.datasetStats.Size), float64(q.datasetStats.PositivesCount), sizes, positives)
}

// OptimisticEstimate bounds every specialization: the best a specialization can
// do is keep all positives and drop every negative, so size shrinks to p.
func (q *StandardQF) OptimisticEstimate(sg *subgroup.Subgroup, stats Statistics) (float64, error) {
	s, err := ensureStatistics[PositivesStats](q, sg, stats)
	if err != nil {
		return 0, err
	}
	return q.score(s.PositivesCount, s.PositivesCount), nil
}

// OptimisticGeneralisation bounds generalizations: all positives outside the
// subgroup are absorbed, growing the subgroup by exactly that many rows.
func (q *StandardQF) OptimisticGeneralisation(sg *subgroup.Subgroup, stats Statistics) (float64, error) {
	s, err := ensureStatistics[PositivesStats](q, sg, stats)
	if err != nil {
		return 0, err
	}
	remaining := q.datasetStats.PositivesCount - s.PositivesCount
	return q.score(s.Size+remaining, q.datasetStats.PositivesCount), nil
}

// EvaluateWeighted scores the candidate on summed instance weights instead of
// row counts
func (q *StandardQF) EvaluateWeighted(sg *subgroup.Subgroup, weightAttr core.VariableKey) (float64, error) {
	if !q.hasConstant {
		return 0, fmt.Errorf("%w: %s", core.ErrConstantsMissing, q.name)
	}
	s, err := q.target.BaseStatisticsWeighted(sg.Representation(), q.task.Data, weightAttr)
	if err != nil {
		return 0, err
	}
	return StandardScore(q.a, s.InstancesDataset, s.PositivesDataset, s.InstancesSubgroup, s.PositivesSubgroup), nil
}

func (q *StandardQF) SupportsWeights() bool {
	return true
}
