package subgroup

import (
	"errors"
	"math"
	"testing"

	"github.com/bits-and-blooms/bitset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gosubgroup/domain/core"
	"gosubgroup/domain/dataset"
)

func sampleTable(t *testing.T) *dataset.Table {
	t.Helper()
	table, err := dataset.FromRecords(
		[]string{"color", "size", "label"},
		[][]string{
			{"red", "1", "yes"},
			{"blue", "2", "no"},
			{"red", "3", "yes"},
			{"green", "4", "no"},
			{"red", "5", "no"},
			{"blue", "", "yes"},
		},
	)
	require.NoError(t, err)
	return table
}

func mustEq(t *testing.T, attr core.VariableKey, value string) *EqualitySelector {
	t.Helper()
	s, err := NewEqualitySelector(attr, value)
	require.NoError(t, err)
	return s
}

func members(mask *bitset.BitSet) []uint {
	var out []uint
	for i, ok := mask.NextSet(0); ok; i, ok = mask.NextSet(i + 1) {
		out = append(out, i)
	}
	return out
}

func TestEqualitySelector_Covers(t *testing.T) {
	table := sampleTable(t)
	mask, err := mustEq(t, "color", "red").Covers(table)
	require.NoError(t, err)
	assert.Equal(t, []uint{0, 2, 4}, members(mask))

	_, err = mustEq(t, "missing", "x").Covers(table)
	assert.True(t, errors.Is(err, core.ErrVariableNotFound))
}

func TestIntervalSelector(t *testing.T) {
	table := sampleTable(t)

	s, err := NewIntervalSelector("size", 2, 4)
	require.NoError(t, err)
	mask, err := s.Covers(table)
	require.NoError(t, err)
	assert.Equal(t, []uint{1, 2}, members(mask))
	assert.Equal(t, "size: [2:4[", s.String())

	open, err := NewIntervalSelector("size", 4, math.Inf(1))
	require.NoError(t, err)
	mask, err = open.Covers(table)
	require.NoError(t, err)
	assert.Equal(t, []uint{3, 4}, members(mask), "missing values are never covered")
	assert.Equal(t, "size>=4", open.String())

	_, err = NewIntervalSelector("size", 3, 3)
	assert.True(t, errors.Is(err, core.ErrInvalidSelector))
}

func TestConjunction_CanonicalKey(t *testing.T) {
	a := mustEq(t, "color", "red")
	b := mustEq(t, "label", "yes")

	ab := NewConjunction(a, b)
	ba := NewConjunction(b, a, a)

	assert.Equal(t, ab.Key(), ba.Key())
	assert.Equal(t, 2, ba.Depth())
	assert.Equal(t, "Dataset", NewConjunction().String())
}

func TestConjunction_Generalizations(t *testing.T) {
	a := mustEq(t, "color", "red")
	b := mustEq(t, "label", "yes")
	c := mustEq(t, "size", "1")

	gens := NewConjunction(a, b, c).Generalizations()
	require.Len(t, gens, 3)

	keys := map[string]bool{}
	for _, g := range gens {
		assert.Equal(t, 2, g.Depth())
		keys[g.Key()] = true
	}
	assert.True(t, keys[NewConjunction(a, b).Key()])
	assert.True(t, keys[NewConjunction(a, c).Key()])
	assert.True(t, keys[NewConjunction(b, c).Key()])

	assert.Empty(t, NewConjunction().Generalizations())
	assert.Equal(t, NewConjunction(a, b).Key(), NewConjunction(a).Specialize(b).Key())
}

func TestConjunction_Covers(t *testing.T) {
	table := sampleTable(t)

	mask, err := NewConjunction(mustEq(t, "color", "red"), mustEq(t, "label", "yes")).Covers(table)
	require.NoError(t, err)
	assert.Equal(t, []uint{0, 2}, members(mask))

	all, err := NewConjunction().Covers(table)
	require.NoError(t, err)
	assert.Equal(t, uint(6), all.Count())
}

func TestRepresentation_DispatchAgrees(t *testing.T) {
	table := sampleTable(t)
	pattern := NewConjunction(mustEq(t, "color", "red"))

	mask, err := pattern.Covers(table)
	require.NoError(t, err)

	for _, rep := range []Representation{FromMask(mask), FromPredicate(pattern)} {
		size, err := rep.Size(table)
		require.NoError(t, err)
		assert.Equal(t, 3, size, rep.Kind().String())

		m, err := rep.Mask(table)
		require.NoError(t, err)
		assert.True(t, m.Equal(mask), rep.Kind().String())
	}
}

func TestRepresentation_Range(t *testing.T) {
	table := sampleTable(t)

	size, err := FromRange(2, 100).Size(table)
	require.NoError(t, err)
	assert.Equal(t, 4, size)

	mask, err := FromRange(-3, 2).Mask(table)
	require.NoError(t, err)
	assert.Equal(t, []uint{0, 1}, members(mask))

	size, err = FromRange(5, 1).Size(table)
	require.NoError(t, err)
	assert.Equal(t, 0, size)

	size, err = All().Size(table)
	require.NoError(t, err)
	assert.Equal(t, table.Rows(), size)
}

func TestRepresentation_Invalid(t *testing.T) {
	table := sampleTable(t)

	_, err := Representation{}.Mask(table)
	assert.True(t, errors.Is(err, core.ErrInvalidRepresentation))

	_, err = FromPredicate(nil).Size(table)
	assert.True(t, errors.Is(err, core.ErrInvalidRepresentation))
}

func TestSubgroup_WithCover(t *testing.T) {
	table := sampleTable(t)
	pattern := NewConjunction(mustEq(t, "color", "red"))
	sg := New(nil, pattern)
	assert.Equal(t, KindPredicate, sg.Representation().Kind())

	mask, err := pattern.Covers(table)
	require.NoError(t, err)
	sg.WithCover(FromMask(mask))
	assert.Equal(t, KindMask, sg.Representation().Kind())

	size, err := sg.Representation().Size(table)
	require.NoError(t, err)
	assert.Equal(t, 3, size)
	assert.Equal(t, 1, sg.Depth())
}
