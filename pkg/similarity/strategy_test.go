package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yumyai/domcomb/pkg/model"
)

func partners(ids ...string) map[string]int {
	m := make(map[string]int, len(ids))
	for _, id := range ids {
		m[id]++
	}
	return m
}

func TestCombinationsBasedScore(t *testing.T) {
	two := model.NewCombinableDomains("bcl2", "rabbit", partners("A", "B", "C"), 1, 1)

	one := model.NewCombinableDomains("bcl2", "mouse", partners("A"), 1, 1)
	s := CombinationsBased.Score(one, two)
	assert.InDelta(t, 1.0/3, s.Score, 1e-9)
	assert.Equal(t, -2, s.DifferenceInCounts)
	assert.Equal(t, 2, s.NumberOfDifferentDomains)

	one = model.NewCombinableDomains("bcl2", "mouse", partners("A", "B", "C"), 1, 1)
	s = CombinationsBased.Score(one, two)
	assert.InDelta(t, 1.0, s.Score, 1e-9)
	assert.Equal(t, 0, s.DifferenceInCounts)
	assert.Equal(t, 0, s.NumberOfDifferentDomains)

	one = model.NewCombinableDomains("bcl2", "mouse", partners("A", "B", "C", "D", "E", "F"), 1, 1)
	s = CombinationsBased.Score(one, two)
	assert.InDelta(t, 0.5, s.Score, 1e-9)
	assert.Equal(t, 3, s.DifferenceInCounts)
	assert.Equal(t, 3, s.NumberOfDifferentDomains)

	three := model.NewCombinableDomains("bcl2", "mouse", partners("aaa"), 1, 1)
	four := model.NewCombinableDomains("bcl2", "rabbit", partners("bbb"), 1, 1)
	assert.InDelta(t, 0.0, CombinationsBased.Score(three, four).Score, 1e-9)

	four = model.NewCombinableDomains("bcl2", "rabbit", partners("bbb", "aaa"), 1, 1)
	assert.InDelta(t, 0.5, CombinationsBased.Score(three, four).Score, 1e-9)
}

func TestCombinationsBasedScoreWithoutPartners(t *testing.T) {
	a := model.NewCombinableDomains("X", "mouse", nil, 1, 1)
	b := model.NewCombinableDomains("X", "rabbit", nil, 4, 2)
	s := CombinationsBased.Score(a, b)
	assert.Equal(t, 1.0, s.Score)
	assert.Equal(t, 0, s.DifferenceInCounts)
}

func TestCountsBasedScore(t *testing.T) {
	tests := []struct {
		ca, cb int
		score  float64
		diff   int
	}{
		{2, 3, 1 - 1.0/5, -1},
		{1, 1, 1.0, 0},
		{1, 1000, 1 - 999.0/1001, -999},
	}
	for _, tt := range tests {
		a := model.NewCombinableDomains("bcl2", "mouse", nil, tt.ca, 1)
		b := model.NewCombinableDomains("bcl2", "rabbit", nil, tt.cb, 1)
		s := DomainCountsBased.Score(a, b)
		assert.InDelta(t, tt.score, s.Score, 1e-9)
		assert.Equal(t, tt.diff, s.DifferenceInCounts)

		// the same numbers through the distinct-protein counts
		a = model.NewCombinableDomains("bcl2", "mouse", nil, 7, tt.ca)
		b = model.NewCombinableDomains("bcl2", "rabbit", nil, 7, tt.cb)
		p := ProteinCountsBased.Score(a, b)
		assert.InDelta(t, tt.score, p.Score, 1e-9)
		assert.Equal(t, tt.diff, p.DifferenceInCounts)
	}
}

func TestScoreDifferentKeysPanics(t *testing.T) {
	a := model.NewCombinableDomains("A", "mouse", nil, 1, 1)
	b := model.NewCombinableDomains("B", "rabbit", nil, 1, 1)
	assert.Panics(t, func() { CombinationsBased.Score(a, b) })
}

func TestParseStrategy(t *testing.T) {
	for _, s := range []Strategy{CombinationsBased, DomainCountsBased, ProteinCountsBased} {
		got, err := ParseStrategy(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}
	_, err := ParseStrategy("bogus")
	assert.ErrorIs(t, err, ErrUnknownStrategy)
}
