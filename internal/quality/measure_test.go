package quality

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gosubgroup/domain/core"
	"gosubgroup/domain/dataset"
	"gosubgroup/domain/subgroup"
	"gosubgroup/domain/target"
	apperrors "gosubgroup/internal/errors"
)

// countsTable builds n rows inside the "in" pattern with p positives among
// them, and P-p positives outside, N rows in total.
func countsTable(t *testing.T, N, P, n, p int) *dataset.Table {
	t.Helper()
	require.True(t, p <= n && p <= P && P-p <= N-n, "inconsistent counts")

	in := make([]string, N)
	label := make([]string, N)
	weight := make([]float64, N)
	for i := 0; i < N; i++ {
		in[i], label[i], weight[i] = "no", "no", 1
		if i < n {
			in[i] = "yes"
			if i < p {
				label[i] = "yes"
			}
		} else if i < n+P-p {
			label[i] = "yes"
		}
	}

	table := dataset.NewTable()
	require.NoError(t, table.AddColumn("in", in))
	require.NoError(t, table.AddColumn("label", label))
	require.NoError(t, table.AddNumericColumn("weight", weight))
	return table
}

func binaryTask(t *testing.T, table *dataset.Table) *subgroup.Task {
	t.Helper()
	bt, err := target.NewBinaryTarget(target.TargetOptions{Attribute: "label", Value: "yes"})
	require.NoError(t, err)
	return subgroup.NewTask(table, bt)
}

func candidate(t *testing.T, task *subgroup.Task, pairs ...string) *subgroup.Subgroup {
	t.Helper()
	require.True(t, len(pairs)%2 == 0)
	selectors := make([]subgroup.Selector, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		sel, err := subgroup.NewEqualitySelector(core.VariableKey(pairs[i]), pairs[i+1])
		require.NoError(t, err)
		selectors = append(selectors, sel)
	}
	return subgroup.New(task.Target, subgroup.NewConjunction(selectors...))
}

// MockMeasure records statistics computations
type MockMeasure struct {
	mock.Mock
}

func (m *MockMeasure) Name() string                                     { return "mock" }
func (m *MockMeasure) CalculateConstantStatistics(*subgroup.Task) error { return nil }
func (m *MockMeasure) HasConstantStatistics() bool                      { return true }
func (m *MockMeasure) IsApplicable(*subgroup.Subgroup) bool             { return true }
func (m *MockMeasure) SupportsWeights() bool                            { return false }

func (m *MockMeasure) CalculateStatistics(sg *subgroup.Subgroup, data *dataset.Table) (Statistics, error) {
	args := m.Called(sg, data)
	stats, _ := args.Get(0).(Statistics)
	return stats, args.Error(1)
}

func (m *MockMeasure) Evaluate(sg *subgroup.Subgroup, stats Statistics) (float64, error) {
	args := m.Called(sg, stats)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockMeasure) RequiredStatAttrs() []string {
	args := m.Called()
	attrs, _ := args.Get(0).([]string)
	return attrs
}

func TestEnsureStatistics_ReusesSuppliedStatistics(t *testing.T) {
	m := new(MockMeasure)
	m.On("RequiredStatAttrs").Return([]string{AttrSize, AttrPositivesCount})
	sg := subgroup.New(nil, nil)

	supplied := PositivesStats{Size: 20, PositivesCount: 15}
	got, err := EnsureStatistics(m, sg, supplied)
	require.NoError(t, err)
	assert.Equal(t, supplied, got)
	m.AssertNotCalled(t, "CalculateStatistics", mock.Anything, mock.Anything)
}

func TestEnsureStatistics_ComputesMissingStatistics(t *testing.T) {
	m := new(MockMeasure)
	m.On("RequiredStatAttrs").Return([]string{AttrSize, AttrPositivesCount})
	computed := PositivesStats{Size: 3, PositivesCount: 1}
	m.On("CalculateStatistics", mock.Anything, mock.Anything).Return(computed, nil)
	sg := subgroup.New(nil, nil)

	got, err := EnsureStatistics(m, sg, nil)
	require.NoError(t, err)
	assert.Equal(t, computed, got)

	// statistics lacking the required attributes are replaced
	got, err = EnsureStatistics(m, sg, CountStats{SubgroupSize: 3})
	require.NoError(t, err)
	assert.Equal(t, computed, got)

	m.AssertNumberOfCalls(t, "CalculateStatistics", 2)
}

func TestEnsureStatistics_UndeclaredAttributes(t *testing.T) {
	m := new(MockMeasure)
	m.On("RequiredStatAttrs").Return(nil)

	_, err := EnsureStatistics(m, subgroup.New(nil, nil), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrStatAttrsUndeclared))
	assert.Equal(t, apperrors.CodeConfigInvalid, apperrors.GetCode(err))
	m.AssertNotCalled(t, "CalculateStatistics", mock.Anything, mock.Anything)
}

func TestEnsureStatistics_SharedBetweenMeasures(t *testing.T) {
	task := binaryTask(t, countsTable(t, 100, 50, 20, 15))
	wracc := NewWRAccQF()
	lift := NewLiftQF()
	require.NoError(t, wracc.CalculateConstantStatistics(task))
	require.NoError(t, lift.CalculateConstantStatistics(task))

	sg := candidate(t, task, "in", "yes")
	stats, err := wracc.CalculateStatistics(sg, nil)
	require.NoError(t, err)

	// lift reuses what wracc computed
	score, err := lift.Evaluate(sg, stats)
	require.NoError(t, err)
	assert.InDelta(t, 0.25, score, 1e-12)
}
