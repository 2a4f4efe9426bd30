package chisq

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat/distuv"

	"gosubgroup/domain/core"
	apperrors "gosubgroup/internal/errors"
)

// Provider implements ports.StatisticsProvider on gonum distributions.
type Provider struct{}

// NewProvider creates a chi-squared statistics provider
func NewProvider() *Provider {
	return &Provider{}
}

// ContingencyTest computes Pearson's statistic for a 2x2 table. With correction
// each observed cell moves towards its expected value by at most 0.5.
// A zero expected frequency makes the test undefined and returns ErrZeroExpected.
func (p *Provider) ContingencyTest(table [2][2]float64, correction bool) (float64, float64, error) {
	var rowTotals, colTotals [2]float64
	total := 0.0
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			v := table[i][j]
			if v < 0 || math.IsNaN(v) {
				return math.NaN(), math.NaN(), apperrors.ValidationError(
					fmt.Sprintf("contingency table cell [%d][%d] is %v", i, j, v))
			}
			rowTotals[i] += v
			colTotals[j] += v
			total += v
		}
	}

	chiSq := 0.0
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			expected := rowTotals[i] * colTotals[j] / total
			if expected == 0 || math.IsNaN(expected) {
				return math.NaN(), math.NaN(), fmt.Errorf("%w: cell [%d][%d]", core.ErrZeroExpected, i, j)
			}
			observed := table[i][j]
			if correction {
				diff := expected - observed
				observed += math.Copysign(math.Min(0.5, math.Abs(diff)), diff)
			}
			chiSq += (observed - expected) * (observed - expected) / expected
		}
	}

	return chiSq, p.ChiSquaredSurvival(chiSq, 1), nil
}

// ChiSquaredSurvival returns P(X > x) for X ~ chi2(df)
func (p *Provider) ChiSquaredSurvival(x, df float64) float64 {
	if x <= 0 {
		return 1
	}
	return distuv.ChiSquared{K: df}.Survival(x)
}

// EffectiveSampleSize is Kish's effective sample size of the weights
func (p *Provider) EffectiveSampleSize(weights []float64) (float64, error) {
	sum, err := stats.Sum(weights)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", core.ErrInsufficientData, err)
	}

	squares := make(stats.Float64Data, len(weights))
	for i, w := range weights {
		squares[i] = w * w
	}
	sumSq, err := squares.Sum()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", core.ErrInsufficientData, err)
	}
	if sumSq == 0 {
		return 0, fmt.Errorf("%w: all weights are zero", core.ErrInsufficientData)
	}
	return sum * sum / sumSq, nil
}
