package quality

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"

	"gosubgroup/domain/core"
	"gosubgroup/domain/subgroup"
	"gosubgroup/domain/target"
	"gosubgroup/ports"
)

// Direction selects which deviation of the target share is interesting
type Direction string

const (
	DirectionBoth     Direction = "both"
	DirectionPositive Direction = "positive"
	DirectionNegative Direction = "negative"
)

// ParseDirection validates a direction name
func ParseDirection(s string) (Direction, error) {
	switch d := Direction(strings.ToLower(strings.TrimSpace(s))); d {
	case DirectionBoth, DirectionPositive, DirectionNegative:
		return d, nil
	}
	return "", configError(fmt.Errorf("%w: %q (want both, positive or negative)", core.ErrUnknownDirection, s))
}

// Stat selects what the chi-squared test reports
type Stat string

const (
	StatChi2 Stat = "chi2"
	StatP    Stat = "p"
)

// ParseStat validates a statistic name
func ParseStat(s string) (Stat, error) {
	switch st := Stat(strings.ToLower(strings.TrimSpace(s))); st {
	case StatChi2, StatP:
		return st, nil
	}
	return "", configError(fmt.Errorf("%w: %q (want chi2 or p)", core.ErrUnknownStat, s))
}

// DefaultMinInstances is the smallest subgroup and complement size a
// chi-squared score is trusted for
const DefaultMinInstances = 5

// ChiSquaredQF scores a subgroup by the chi-squared test of independence
// between subgroup membership and the target.
type ChiSquaredQF struct {
	simplePositives
	provider          ports.StatisticsProvider
	bidirect          bool
	directionPositive bool
	minInstances      int
	stat              Stat
}

// NewChiSquaredQF creates the measure. direction is both, positive or
// negative; stat is chi2 or p.
func NewChiSquaredQF(direction string, minInstances int, stat string, provider ports.StatisticsProvider, opts ...Option) (*ChiSquaredQF, error) {
	d, err := ParseDirection(direction)
	if err != nil {
		return nil, err
	}
	st, err := ParseStat(stat)
	if err != nil {
		return nil, err
	}
	if provider == nil {
		return nil, configError(errors.New("chi-squared quality function needs a statistics provider"))
	}

	return &ChiSquaredQF{
		simplePositives:   newSimplePositives("chi2", buildOptions(opts)),
		provider:          provider,
		bidirect:          d == DirectionBoth,
		directionPositive: d != DirectionNegative,
		minInstances:      minInstances,
		stat:              st,
	}, nil
}

// ChiSquaredScore runs the uncorrected 2x2 test on s, which must be
// consistent counts. Too few instances on
// either side score -Inf; a table with a zero expected frequency scores NaN.
// Unless bidirect, a deviation against the requested direction is negated.
func ChiSquaredScore(provider ports.StatisticsProvider, s target.BaseStatistics, minInstances int, bidirect, directionPositive bool, stat Stat) (float64, error) {
	if err := s.Validate(); err != nil {
		return 0, err
	}
	if s.InstancesSubgroup < minInstances || s.InstancesComplement() < minInstances {
		return math.Inf(-1), nil
	}

	table := [2][2]float64{
		{float64(s.PositivesSubgroup), float64(s.PositivesComplement())},
		{float64(s.NegativesSubgroup()), float64(s.NegativesComplement())},
	}
	chiSq, pValue, err := provider.ContingencyTest(table, false)
	if errors.Is(err, core.ErrZeroExpected) {
		return math.NaN(), nil
	}
	if err != nil {
		return 0, err
	}

	val := chiSq
	if stat == StatP {
		val = pValue
	}
	if bidirect {
		return val, nil
	}

	pSubgroup := s.TargetShareSubgroup()
	pDataset := s.TargetShareDataset()
	if directionPositive && pSubgroup > pDataset {
		return val, nil
	}
	if !directionPositive && pSubgroup < pDataset {
		return val, nil
	}
	return -val, nil
}

func (q *ChiSquaredQF) Evaluate(sg *subgroup.Subgroup, stats Statistics) (float64, error) {
	s, err := ensureStatistics[PositivesStats](q, sg, stats)
	if err != nil {
		return 0, err
	}
	return ChiSquaredScore(q.provider, q.baseStatistics(s), q.minInstances, q.bidirect, q.directionPositive, q.stat)
}

// EvaluateWeighted scores a candidate on instance weights: Yates-corrected
// statistic on weighted counts, rescaled to the effective sample size, reported
// as the chi2(1) survival probability. A non-positive effectiveSampleSize is
// computed from the weight column. Too few weighted instances on either side
// score -Inf, the same sentinel as Evaluate.
func (q *ChiSquaredQF) EvaluateWeighted(sg *subgroup.Subgroup, weightAttr core.VariableKey, effectiveSampleSize float64) (float64, error) {
	if !q.hasConstant {
		return 0, fmt.Errorf("%w: %s", core.ErrConstantsMissing, q.name)
	}
	data := q.task.Data
	s, err := q.target.BaseStatisticsWeighted(sg.Representation(), data, weightAttr)
	if err != nil {
		return 0, err
	}

	minInstances := float64(q.minInstances)
	if s.InstancesSubgroup < minInstances || s.InstancesDataset-s.InstancesSubgroup < minInstances {
		return math.Inf(-1), nil
	}
	if effectiveSampleSize <= 0 {
		weights, err := data.NumericColumn(weightAttr)
		if err != nil {
			return 0, err
		}
		effectiveSampleSize, err = q.provider.EffectiveSampleSize(weights)
		if err != nil {
			return 0, err
		}
	}

	negativesSubgroup := s.InstancesSubgroup - s.PositivesSubgroup
	negativesDataset := s.InstancesDataset - s.PositivesDataset
	table := [2][2]float64{
		{s.PositivesSubgroup, s.PositivesDataset - s.PositivesSubgroup},
		{negativesSubgroup, negativesDataset - negativesSubgroup},
	}
	chiSq, _, err := q.provider.ContingencyTest(table, true)
	if errors.Is(err, core.ErrZeroExpected) {
		return math.NaN(), nil
	}
	if err != nil {
		return 0, err
	}

	q.logger.Debug("weighted chi-squared",
		zap.Stringer("subgroup", sg.Description),
		zap.Float64("statistic", chiSq),
		zap.Float64("effective_sample_size", effectiveSampleSize))
	return q.provider.ChiSquaredSurvival(chiSq*effectiveSampleSize/s.InstancesDataset, 1), nil
}

func (q *ChiSquaredQF) SupportsWeights() bool {
	return true
}
