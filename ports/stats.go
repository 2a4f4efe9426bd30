package ports

// StatisticsProvider supplies the numeric primitives the quality functions need.
// Implementations must be safe for concurrent use; they hold no per-run state.
type StatisticsProvider interface {
	// ContingencyTest runs Pearson's chi-squared independence test on a 2x2
	// table, optionally with Yates' continuity correction, and returns the
	// statistic and its p-value.
	ContingencyTest(table [2][2]float64, correction bool) (statistic, pValue float64, err error)

	// ChiSquaredSurvival is the upper tail probability of a chi-squared
	// distribution with df degrees of freedom.
	ChiSquaredSurvival(x, df float64) float64

	// EffectiveSampleSize is (sum w)^2 / sum(w^2) for instance weights w.
	EffectiveSampleSize(weights []float64) (float64, error)
}
