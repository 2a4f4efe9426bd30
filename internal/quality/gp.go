package quality

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bits-and-blooms/bitset"
)

// GPVector is the per-node aggregate a pattern tree keeps for a measure. Row
// vectors are summed bottom-up and turned back into Statistics at the end.
type GPVector []float64

// GPMeasure lets a pattern-growth search aggregate a measure's statistics
// without materializing cover arrays.
type GPMeasure interface {
	Measure

	// GPRowStats is the vector contributed by a single row
	GPRowStats(row uint) GPVector
	GPNullVector() GPVector

	// GPMerge adds r into l
	GPMerge(l, r GPVector)

	// GPParams turns an aggregate into the measure's Statistics. cover is only
	// read when GPRequiresCoverArr is true.
	GPParams(cover *bitset.BitSet, v GPVector) (Statistics, error)
	GPString(v GPVector) string
	GPRequiresCoverArr() bool
}

func mergeVectors(l, r GPVector) {
	for i := range l {
		l[i] += r[i]
	}
}

func formatVector(v GPVector) string {
	parts := make([]string, len(v))
	for i, x := range v {
		parts[i] = strconv.FormatFloat(x, 'g', -1, 64)
	}
	return strings.Join(parts, " ")
}

func checkVector(v GPVector, want int) error {
	if len(v) != want {
		return fmt.Errorf("gp vector has %d entries, want %d", len(v), want)
	}
	return nil
}

// GPRowStats is (1, 1) for a positive row and (1, 0) otherwise
func (q *simplePositives) GPRowStats(row uint) GPVector {
	if q.positives != nil && q.positives.Test(row) {
		return GPVector{1, 1}
	}
	return GPVector{1, 0}
}

func (q *simplePositives) GPNullVector() GPVector {
	return GPVector{0, 0}
}

func (q *simplePositives) GPMerge(l, r GPVector) {
	mergeVectors(l, r)
}

func (q *simplePositives) GPParams(_ *bitset.BitSet, v GPVector) (Statistics, error) {
	if err := checkVector(v, 2); err != nil {
		return nil, err
	}
	return PositivesStats{Size: int(v[0]), PositivesCount: int(v[1])}, nil
}

func (q *simplePositives) GPString(v GPVector) string {
	return formatVector(v)
}

func (q *simplePositives) GPRequiresCoverArr() bool {
	return false
}

func (q *simpleCount) GPRowStats(uint) GPVector {
	return GPVector{1}
}

func (q *simpleCount) GPNullVector() GPVector {
	return GPVector{0}
}

func (q *simpleCount) GPMerge(l, r GPVector) {
	mergeVectors(l, r)
}

func (q *simpleCount) GPParams(_ *bitset.BitSet, v GPVector) (Statistics, error) {
	if err := checkVector(v, 1); err != nil {
		return nil, err
	}
	return CountStats{SubgroupSize: int(v[0])}, nil
}

func (q *simpleCount) GPString(v GPVector) string {
	return formatVector(v)
}

func (q *simpleCount) GPRequiresCoverArr() bool {
	return false
}

var (
	_ GPMeasure      = (*StandardQF)(nil)
	_ GPMeasure      = (*ChiSquaredQF)(nil)
	_ GPMeasure      = (*CountQF)(nil)
	_ GPMeasure      = (*AreaQF)(nil)
	_ BoundedMeasure = (*StandardQF)(nil)
	_ BoundedMeasure = (*CountQF)(nil)
	_ Measure        = (*GeneralizationAwareQF)(nil)
)
