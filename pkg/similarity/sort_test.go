package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yumyai/domcomb/pkg/model"
)

func sim(id string, mean, sd float64, countsDiff int, species ...model.Species) *DomainSimilarity {
	data := make(map[model.Species]SpeciesData, len(species))
	for _, sp := range species {
		data[sp] = SpeciesData{}
	}
	return &DomainSimilarity{
		DomainID:                  id,
		MeanSimilarityScore:       mean,
		MinimalSimilarityScore:    mean,
		MaximalSimilarityScore:    mean,
		StandardDeviation:         sd,
		MaximalDifferenceInCounts: countsDiff,
		MaximalDifference:         countsDiff,
		SpeciesData:               data,
	}
}

func ids(sims []*DomainSimilarity) []string {
	out := make([]string, len(sims))
	for i, s := range sims {
		out[i] = s.DomainID
	}
	return out
}

func TestSortFields(t *testing.T) {
	sims := func() []*DomainSimilarity {
		return []*DomainSimilarity{
			sim("b", 0.5, 0.1, -5, "x", "y"),
			sim("A", 0.9, 0.3, 2, "x", "y", "z"),
			sim("c", 0.1, 0.2, 3, "x", "y"),
		}
	}

	tests := []struct {
		field             SortField
		speciesCountFirst bool
		want              []string
	}{
		{SortDomainID, false, []string{"A", "b", "c"}},
		{SortMean, false, []string{"c", "b", "A"}},
		{SortMin, false, []string{"c", "b", "A"}},
		{SortSD, false, []string{"A", "c", "b"}},
		{SortMaxCountsDifference, false, []string{"c", "A", "b"}},
		{SortAbsMaxCountsDifference, false, []string{"b", "c", "A"}},
		{SortSpeciesCount, false, []string{"A", "b", "c"}},
		{SortMean, true, []string{"A", "c", "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.field.String(), func(t *testing.T) {
			s := sims()
			Sort(s, tt.field, tt.speciesCountFirst)
			assert.Equal(t, tt.want, ids(s))
		})
	}
}

func TestCompareIsStrict(t *testing.T) {
	sims := []*DomainSimilarity{
		sim("abc", 0.5, 0, 0, "x"),
		sim("ABC", 0.5, 0, 0, "x"),
		sim("Abc", 0.5, 0, 0, "x"),
		sim("abd", 0.5, 0, 0, "x"),
	}
	for _, field := range []SortField{SortDomainID, SortMean, SortSD, SortSpeciesCount, SortAbsMaxCountsDifference} {
		for i, a := range sims {
			assert.Equal(t, 0, Compare(a, a, field, true))
			for j, b := range sims {
				if i == j {
					continue
				}
				ab, ba := Compare(a, b, field, false), Compare(b, a, field, false)
				assert.NotZero(t, ab, "%s vs %s", a.DomainID, b.DomainID)
				assert.Equal(t, -ab, ba)
			}
		}
	}
}

func TestParseSortField(t *testing.T) {
	for f := SortDomainID; f <= SortSpeciesCount; f++ {
		got, err := ParseSortField(f.String())
		require.NoError(t, err)
		assert.Equal(t, f, got)
	}
	_, err := ParseSortField("colour")
	assert.ErrorIs(t, err, ErrUnknownSortField)
}
