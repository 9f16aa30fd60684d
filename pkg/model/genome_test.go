package model

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dom(id string, from, to int) Domain {
	return Domain{ID: id, From: from, To: to, Evalue: 1e-10}
}

func TestBuildBasic(t *testing.T) {
	proteins := []*Protein{
		NewProtein("p1", "MOUSE", dom("A", 1, 10), dom("B", 20, 30), dom("C", 40, 50)),
		NewProtein("p2", "MOUSE", dom("A", 1, 10), dom("A", 20, 30), dom("B", 40, 50)),
		NewProtein("p3", "MOUSE", dom("D", 1, 10)),
	}

	genome, err := Build(proteins, "MOUSE", CombinationBasic, false)
	require.NoError(t, err)

	assert.Equal(t, Species("MOUSE"), genome.Species())
	assert.Equal(t, 4, genome.Size())
	assert.Equal(t, []string{"A", "B", "C", "D"}, genome.KeyDomainIDs())

	a, ok := genome.Get("A")
	require.True(t, ok)
	assert.Equal(t, 3, a.KeyDomainCount())
	assert.Equal(t, 2, a.KeyDomainProteinsCount())
	assert.Equal(t, map[string]int{"A": 1, "B": 2, "C": 1}, a.CombinationCounts())
	assert.Equal(t, 3, a.ConfidenceStatistics().N())

	b, _ := genome.Get("B")
	assert.Equal(t, map[string]int{"A": 2, "C": 1}, b.CombinationCounts())

	d, _ := genome.Get("D")
	assert.Equal(t, 0, d.NumberOfCombinableDomains())
	assert.Empty(t, d.BinaryDomainCombinations())

	assert.Equal(t, []BinaryDomainCombination{
		{ID0: "A", ID1: "A"},
		{ID0: "A", ID1: "B"},
		{ID0: "A", ID1: "C"},
		{ID0: "B", ID1: "C"},
	}, genome.BinaryDomainCombinations())
}

func TestBuildIgnoreSelfCombination(t *testing.T) {
	proteins := []*Protein{
		NewProtein("p1", "MOUSE", dom("A", 1, 10), dom("A", 20, 30), dom("B", 40, 50)),
	}
	genome, err := Build(proteins, "MOUSE", CombinationBasic, true)
	require.NoError(t, err)

	a, _ := genome.Get("A")
	assert.Equal(t, map[string]int{"B": 1}, a.CombinationCounts())
	assert.Equal(t, 2, a.KeyDomainCount())
	assert.Equal(t, 1, a.KeyDomainProteinsCount())
	assert.Equal(t, []BinaryDomainCombination{{ID0: "A", ID1: "B"}}, genome.BinaryDomainCombinations())
}

func TestBuildSpeciesMismatch(t *testing.T) {
	proteins := []*Protein{
		NewProtein("p1", "MOUSE", dom("A", 1, 10)),
		NewProtein("p2", "RAT", dom("A", 1, 10)),
	}
	_, err := Build(proteins, "MOUSE", CombinationBasic, false)
	require.ErrorIs(t, err, ErrSpeciesMismatch)
}

func TestBuildDirectedAdjacentSinglePair(t *testing.T) {
	proteins := []*Protein{
		NewProtein("p1", "HUMAN", dom("D1", 1, 50), dom("D2", 60, 100)),
	}
	genome, err := Build(proteins, "HUMAN", CombinationDirectedAdjacent, false)
	require.NoError(t, err)

	assert.Equal(t, []BinaryDomainCombination{NewDirectedCombination("D1", "D2")}, genome.BinaryDomainCombinations())
	d2, _ := genome.Get("D2")
	assert.Equal(t, 0, d2.NumberOfCombinableDomains())
}

func TestBuildDirectedAndAdjacent(t *testing.T) {
	proteins := func() []*Protein {
		// Z listed first to show that coordinates, not list order, decide direction
		return []*Protein{
			NewProtein("p1", "HUMAN", dom("Z", 200, 250), dom("X", 1, 50), dom("Y", 100, 150)),
		}
	}

	directed, err := Build(proteins(), "HUMAN", CombinationDirected, false)
	require.NoError(t, err)
	assert.Equal(t, []BinaryDomainCombination{
		{ID0: "X", ID1: "Y"},
		{ID0: "X", ID1: "Z"},
		{ID0: "Y", ID1: "Z"},
	}, directed.BinaryDomainCombinations())

	adjacent, err := Build(proteins(), "HUMAN", CombinationDirectedAdjacent, false)
	require.NoError(t, err)
	assert.Equal(t, []BinaryDomainCombination{
		{ID0: "X", ID1: "Y"},
		{ID0: "Y", ID1: "Z"},
	}, adjacent.BinaryDomainCombinations())
}

func TestBuildDirectedRepeatedDomain(t *testing.T) {
	// every occurrence of a repeated domain searches for its own partners
	proteins := []*Protein{
		NewProtein("p1", "HUMAN", dom("A", 1, 10), dom("B", 20, 30), dom("A", 40, 50), dom("C", 60, 70)),
	}
	genome, err := Build(proteins, "HUMAN", CombinationDirected, false)
	require.NoError(t, err)

	a, _ := genome.Get("A")
	assert.Equal(t, map[string]int{"A": 1, "B": 1, "C": 2}, a.CombinationCounts())
	b, _ := genome.Get("B")
	assert.Equal(t, map[string]int{"A": 1, "C": 1}, b.CombinationCounts())
}

func TestPromiscuity(t *testing.T) {
	proteins := []*Protein{
		NewProtein("p1", "RAT", dom("A", 1, 10), dom("B", 20, 30)),
		NewProtein("p2", "RAT", dom("A", 1, 10), dom("C", 20, 30)),
		NewProtein("p3", "RAT", dom("E", 1, 10), dom("C", 20, 30)),
		NewProtein("p4", "RAT", dom("F", 1, 10)),
	}
	genome, err := Build(proteins, "RAT", CombinationBasic, false)
	require.NoError(t, err)

	s := genome.PromiscuityStatistics()
	assert.Equal(t, 5, s.N())
	assert.Equal(t, 2.0, s.Max())
	assert.Equal(t, 0.0, s.Min())
	assert.Equal(t, []string{"A", "C"}, genome.MostPromiscuousDomains())
}

func TestEmptyGenome(t *testing.T) {
	genome, err := Build(nil, "RAT", CombinationBasic, false)
	require.NoError(t, err)
	assert.Equal(t, 0, genome.Size())
	assert.Empty(t, genome.DomainIDs())
	assert.Empty(t, genome.BinaryDomainCombinations())
	assert.Nil(t, genome.MostPromiscuousDomains())
}

func TestWriteTable(t *testing.T) {
	proteins := []*Protein{
		NewProtein("p1", "RAT", dom("A", 1, 10), dom("B", 20, 30)),
		NewProtein("p2", "RAT", dom("B", 1, 10)),
		NewProtein("p3", "RAT", dom("B", 1, 10)),
	}
	genome, err := Build(proteins, "RAT", CombinationBasic, false)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, genome.WriteTable(&buf, SortKeyDomainCount))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "B "))
	assert.Contains(t, lines[0], "A [1]")
	assert.True(t, strings.HasPrefix(lines[1], "A "))

	a, _ := genome.Get("A")
	assert.Equal(t, "A [1, 1, 1]: B [1]", a.String())
}

func TestWriteDOT(t *testing.T) {
	proteins := []*Protein{
		NewProtein("p1", "RAT", dom("A", 1, 10), dom("B", 20, 30)),
	}
	basic, _ := Build(proteins, "RAT", CombinationBasic, false)
	var buf bytes.Buffer
	require.NoError(t, basic.WriteDOT(&buf))
	assert.Equal(t, "graph \"RAT\" {\n  \"A\" -- \"B\";\n}\n", buf.String())

	directed, _ := Build(proteins, "RAT", CombinationDirected, false)
	buf.Reset()
	require.NoError(t, directed.WriteDOT(&buf))
	assert.Contains(t, buf.String(), "digraph")
	assert.Contains(t, buf.String(), "\"A\" -> \"B\"")
}
