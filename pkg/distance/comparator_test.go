package distance

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yumyai/domcomb/pkg/model"
	"github.com/yumyai/domcomb/pkg/similarity"
)

func assertSymmetric(t *testing.T, m *Matrix) {
	t.Helper()
	for i := 0; i < m.Size(); i++ {
		assert.Equal(t, 0.0, m.Value(i, i))
		for j := 0; j < i; j++ {
			assert.Equal(t, m.Value(i, j), m.Value(j, i), "(%d, %d)", i, j)
		}
	}
}

func TestCompareAllTwoGenomes(t *testing.T) {
	a := build(t, "A", false, []string{"X", "Y"})
	b := build(t, "B", false, []string{"X", "Z"})

	res, err := CompareAll(context.Background(), []model.Species{"A", "B"},
		[]*model.GenomeWideCombinableDomains{a, b}, similarity.CombinationsBased, CompareOptions{})
	require.NoError(t, err)

	assert.InDelta(t, 1-1.0/3, res.SharedDomainsDistances.Value(1, 0), 1e-9)
	assert.InDelta(t, 1.0, res.SharedCombinationsDistances.Value(1, 0), 1e-9)
	// X partners {Y} and {Z}: nothing shared
	assert.InDelta(t, 1.0, res.MeanScoreDistances.Value(1, 0), 1e-9)
	assert.Nil(t, res.Pairs)
}

func TestCompareAllIdenticalAndDisjoint(t *testing.T) {
	proteins := [][]string{{"a", "b", "c"}, {"c", "d"}}
	a := build(t, "A", true, proteins...)
	copyOfA := build(t, "A2", true, proteins...)
	disjoint := build(t, "D", true, []string{"p", "q"}, []string{"r"})

	species := []model.Species{"A", "A2", "D"}
	genomes := []*model.GenomeWideCombinableDomains{a, copyOfA, disjoint}
	res, err := CompareAll(context.Background(), species, genomes, similarity.CombinationsBased,
		CompareOptions{KeepPairwise: true})
	require.NoError(t, err)

	assert.Equal(t, 0.0, res.SharedDomainsDistances.Value(0, 1))
	assert.Equal(t, 0.0, res.SharedCombinationsDistances.Value(0, 1))
	assert.InDelta(t, 0.0, res.MeanScoreDistances.Value(0, 1), 1e-12)

	for _, i := range []int{0, 1} {
		assert.Equal(t, 1.0, res.SharedDomainsDistances.Value(2, i))
		assert.Equal(t, 1.0, res.SharedCombinationsDistances.Value(2, i))
		assert.Equal(t, 1.0, res.MeanScoreDistances.Value(2, i))
	}

	for _, m := range []*Matrix{res.MeanScoreDistances, res.SharedDomainsDistances, res.SharedCombinationsDistances} {
		assertSymmetric(t, m)
		assert.Equal(t, []string{"A", "A2", "D"}, m.Identifiers())
	}

	require.Len(t, res.Pairs, 3)
	assert.Equal(t, model.Species("A2"), res.Pairs[0].Species0)
	assert.Equal(t, model.Species("A"), res.Pairs[0].Species1)
	assert.Len(t, res.Pairs[0].Similarities, 4)
	assert.Empty(t, res.Pairs[1].Similarities)
}

func TestCompareAllEmptyGenome(t *testing.T) {
	a := build(t, "A", false, []string{"X", "Y"})
	empty := build(t, "E", false)

	res, err := CompareAll(context.Background(), []model.Species{"A", "E"},
		[]*model.GenomeWideCombinableDomains{a, empty}, similarity.DomainCountsBased, CompareOptions{})
	require.NoError(t, err)
	assert.Equal(t, MaxDistance, res.MeanScoreDistances.Value(1, 0))
	assert.Equal(t, MaxDistance, res.SharedDomainsDistances.Value(1, 0))
	assert.Equal(t, MaxDistance, res.SharedCombinationsDistances.Value(1, 0))
}

func TestCompareAllWorkersMatchSequential(t *testing.T) {
	species := []model.Species{"eel", "rat", "A", "B"}
	genomes := []*model.GenomeWideCombinableDomains{
		eel(t, false),
		rat(t, false),
		build(t, "A", false, []string{"a", "b"}, []string{"f", "f", "x"}),
		build(t, "B", false, []string{"a", "c", "e"}),
	}

	seq, err := CompareAll(context.Background(), species, genomes, similarity.ProteinCountsBased, CompareOptions{})
	require.NoError(t, err)
	par, err := CompareAll(context.Background(), species, genomes, similarity.ProteinCountsBased, CompareOptions{Workers: 4})
	require.NoError(t, err)

	assert.Equal(t, seq.MeanScoreDistances, par.MeanScoreDistances)
	assert.Equal(t, seq.SharedDomainsDistances, par.SharedDomainsDistances)
	assert.Equal(t, seq.SharedCombinationsDistances, par.SharedCombinationsDistances)
	assertSymmetric(t, seq.MeanScoreDistances)
	assert.InDelta(t, 1-5.0/25, seq.SharedCombinationsDistances.Value(1, 0), 1e-9)
}

func TestCompareAllErrors(t *testing.T) {
	a := build(t, "A", false, []string{"X", "Y"})

	_, err := CompareAll(context.Background(), []model.Species{"A", "B"},
		[]*model.GenomeWideCombinableDomains{a}, similarity.CombinationsBased, CompareOptions{})
	assert.ErrorIs(t, err, ErrLengthMismatch)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = CompareAll(ctx, []model.Species{"A", "B"},
		[]*model.GenomeWideCombinableDomains{a, build(t, "B", false, []string{"X"})},
		similarity.CombinationsBased, CompareOptions{})
	assert.ErrorIs(t, err, context.Canceled)
}
