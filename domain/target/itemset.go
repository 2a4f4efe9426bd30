package target

import (
	"github.com/bits-and-blooms/bitset"

	"gosubgroup/domain/core"
	"gosubgroup/domain/dataset"
	"gosubgroup/domain/subgroup"
	apperrors "gosubgroup/internal/errors"
)

// FITarget is the trivial target of frequent itemset mining: every row counts,
// quality depends on subgroup size alone.
type FITarget struct{}

// NewFITarget creates the frequent itemset target
func NewFITarget() *FITarget {
	return &FITarget{}
}

func (t *FITarget) String() string {
	return "T: Frequent Itemsets"
}

// Equal reports whether other is also an itemset target
func (t *FITarget) Equal(other *FITarget) bool {
	return other != nil
}

func (t *FITarget) Less(other *FITarget) bool {
	return t.String() < other.String()
}

func (t *FITarget) Attributes() []core.VariableKey {
	return []core.VariableKey{}
}

// Covers marks every row
func (t *FITarget) Covers(data *dataset.Table) (*bitset.BitSet, error) {
	n := uint(data.Rows())
	mask := bitset.New(n)
	for i := uint(0); i < n; i++ {
		mask.Set(i)
	}
	return mask, nil
}

// BaseStatistics returns the subgroup size. Weighted sizes are not supported.
func (t *FITarget) BaseStatistics(rep subgroup.Representation, data *dataset.Table, weightAttr core.VariableKey) (int, error) {
	if weightAttr != "" {
		return 0, errWeightsNotImplemented()
	}
	return rep.Size(data)
}

// CalculateStatistics attaches size_sg and size_dataset to the candidate
func (t *FITarget) CalculateStatistics(sg *subgroup.Subgroup, data *dataset.Table, weightAttr core.VariableKey) error {
	if weightAttr != "" {
		return errWeightsNotImplemented()
	}
	size, err := sg.Representation().Size(data)
	if err != nil {
		return err
	}
	if sg.Statistics == nil {
		sg.Statistics = make(map[string]float64)
	}
	sg.Statistics[KeySizeSubgroup] = float64(size)
	sg.Statistics[KeySizeDataset] = float64(data.Rows())
	return nil
}

func errWeightsNotImplemented() error {
	return apperrors.WithCode(apperrors.CodeNotImplemented,
		core.NewNotImplementedError("attribute weights with frequent itemset targets"))
}
