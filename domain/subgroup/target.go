package subgroup

import (
	"github.com/bits-and-blooms/bitset"

	"gosubgroup/domain/core"
	"gosubgroup/domain/dataset"
)

// Target defines what a quality function measures a subgroup against.
type Target interface {
	Coverer
	Attributes() []core.VariableKey
	String() string
}

// Task bundles what a search run evaluates: the data, the target and an
// optional instance weight column.
type Task struct {
	Data            *dataset.Table
	Target          Target
	WeightAttribute core.VariableKey
}

// NewTask creates a task
func NewTask(data *dataset.Table, target Target) *Task {
	return &Task{Data: data, Target: target}
}

// TargetMask is a convenience for Target.Covers on the task data
func (t *Task) TargetMask() (*bitset.BitSet, error) {
	return t.Target.Covers(t.Data)
}
