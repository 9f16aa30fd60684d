package db

import (
	"context"
	"math"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yumyai/domcomb/pkg/distance"
	"github.com/yumyai/domcomb/pkg/model"
	"github.com/yumyai/domcomb/pkg/similarity"
)

const annotationTable = `# species	protein	domain	from	to	evalue
RAT	p1	kinase	10	200	1e-30
RAT	p1	SH2	220	300	2.5e-12
RAT	p2	SH2	5	80	0.001
EEL	q1	kinase	1	150	1e-20

EEL	q1	SH3	160	210	0.02
`

func openTestDB(t *testing.T) *AnalysisDB {
	t.Helper()
	adb, err := Open(context.Background(), filepath.Join(t.TempDir(), "domcomb.db"))
	require.NoError(t, err)
	t.Cleanup(func() { adb.Close() })
	return adb
}

func TestImportAndLoadProteins(t *testing.T) {
	ctx := context.Background()
	adb := openTestDB(t)

	n, err := adb.ImportTable(ctx, strings.NewReader(annotationTable))
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	species, err := adb.ListSpecies(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.Species{"EEL", "RAT"}, species)

	proteins, err := adb.LoadProteins(ctx, "RAT")
	require.NoError(t, err)
	require.Len(t, proteins, 2)
	assert.Equal(t, "p1", proteins[0].ID)
	assert.Equal(t, model.Species("RAT"), proteins[0].Species)
	assert.Equal(t, []model.Domain{
		{ID: "kinase", From: 10, To: 200, Evalue: 1e-30},
		{ID: "SH2", From: 220, To: 300, Evalue: 2.5e-12},
	}, proteins[0].Domains)
	assert.Equal(t, 1, proteins[1].NumberOfDomains())

	none, err := adb.LoadProteins(ctx, "FROG")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestImportRejectsMalformedTable(t *testing.T) {
	ctx := context.Background()
	adb := openTestDB(t)

	for _, table := range []string{
		"RAT\tp1\tkinase\t10\t200\n",
		"RAT\tp1\tkinase\tten\t200\t0.1\n",
		"RAT\tp1\tkinase\t10\t200\tsmall\n",
		"RAT\t\tkinase\t10\t200\t0.1\n",
	} {
		_, err := adb.ImportTable(ctx, strings.NewReader("EEL\tq1\tSH3\t1\t50\t0.1\n"+table))
		assert.ErrorIs(t, err, ErrMalformedRecord, table)
	}

	// the valid first line of each table was rolled back
	species, err := adb.ListSpecies(ctx)
	require.NoError(t, err)
	assert.Empty(t, species)
}

func TestRuns(t *testing.T) {
	ctx := context.Background()
	adb := openTestDB(t)

	older := &Run{
		CreatedAt:       time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		CombinationType: "basic",
		Strategy:        "combinations",
		Species:         []model.Species{"EEL", "RAT"},
		Params:          RunParams{Resamplings: 100, Ratio: 0.5, Seed: 7},
	}
	id, err := adb.CreateRun(ctx, older)
	require.NoError(t, err)
	assert.Equal(t, id, older.ID)

	newer := &Run{CombinationType: "directed", Strategy: "domain_counts", Species: []model.Species{"A", "B"}}
	_, err = adb.CreateRun(ctx, newer)
	require.NoError(t, err)
	assert.NotEqual(t, older.ID, newer.ID)

	got, err := adb.GetRun(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, older.Species, got.Species)
	assert.Equal(t, older.Params, got.Params)
	assert.True(t, older.CreatedAt.Equal(got.CreatedAt))

	runs, err := adb.ListRuns(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, newer.ID, runs[0].ID)

	_, err = adb.GetRun(ctx, "missing")
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestSimilaritiesAndMatrices(t *testing.T) {
	ctx := context.Background()
	adb := openTestDB(t)

	id, err := adb.CreateRun(ctx, &Run{CombinationType: "basic", Strategy: "combinations"})
	require.NoError(t, err)

	sims := []*similarity.DomainSimilarity{
		{DomainID: "SH2", MeanSimilarityScore: 0.25, N: 1, SpeciesData: map[model.Species]similarity.SpeciesData{
			"EEL": {KeyDomainCount: 2, CombinationCounts: map[string]int{"kinase": 1}},
			"RAT": {KeyDomainCount: 1, CombinationCounts: map[string]int{}},
		}},
		{DomainID: "kinase", MeanSimilarityScore: 1, N: 1},
	}
	require.NoError(t, adb.SaveSimilarities(ctx, id, sims))

	back, err := adb.LoadSimilarities(ctx, id)
	require.NoError(t, err)
	require.Len(t, back, 2)
	assert.Equal(t, "SH2", back[0].DomainID)
	assert.Equal(t, sims[0].SpeciesData, back[0].SpeciesData)
	assert.Equal(t, 1.0, back[1].MeanSimilarityScore)

	_, err = adb.LoadSimilarities(ctx, "missing")
	assert.ErrorIs(t, err, ErrRunNotFound)

	m := distance.NewMatrix([]string{"EEL", "RAT"})
	m.Set(1, 0, 0.6)
	require.NoError(t, adb.SaveMatrix(ctx, id, distance.MetricSharedDomains, 0, m))
	require.NoError(t, adb.SaveMatrix(ctx, id, distance.MetricSharedDomains, 1, m))
	require.NoError(t, adb.SaveMatrix(ctx, id, distance.MetricSharedDomains, 2, m))

	loaded, err := adb.LoadMatrix(ctx, id, distance.MetricSharedDomains, 0)
	require.NoError(t, err)
	assert.Equal(t, m, loaded)

	n, err := adb.CountResamplings(ctx, id, distance.MetricSharedDomains)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = adb.LoadMatrix(ctx, id, distance.MetricMeanScore, 0)
	assert.ErrorIs(t, err, ErrMatrixNotFound)
}

func TestSaveRun(t *testing.T) {
	ctx := context.Background()
	adb := openTestDB(t)

	m := distance.NewMatrix([]string{"EEL", "RAT"})
	m.Set(1, 0, 0.4)
	sims := []*similarity.DomainSimilarity{{DomainID: "SH2", MeanSimilarityScore: 0.5, N: 1}}
	matrices := []RunMatrix{
		{Metric: distance.MetricSharedDomains, Matrix: m},
		{Metric: distance.MetricSharedDomains, Resampling: 1, Matrix: m},
	}

	id, err := adb.SaveRun(ctx, &Run{CombinationType: "basic", Strategy: "combinations"}, sims, matrices)
	require.NoError(t, err)
	back, err := adb.LoadSimilarities(ctx, id)
	require.NoError(t, err)
	assert.Len(t, back, 1)
	n, err := adb.CountResamplings(ctx, id, distance.MetricSharedDomains)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	sims[0].MeanSimilarityScore = math.NaN()
	_, err = adb.SaveRun(ctx, &Run{CombinationType: "basic", Strategy: "combinations"}, sims, matrices)
	assert.Error(t, err)

	runs, err := adb.ListRuns(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, id, runs[0].ID)
}
