package distance

import (
	"maps"
	"slices"

	"github.com/yumyai/domcomb/pkg/model"
)

// GenomePairComparison compares the domain and combination content of two
// genomes. Domains in the ignore set, and every combination touching one,
// are left out of all views.
type GenomePairComparison struct {
	genome0 *model.GenomeWideCombinableDomains
	genome1 *model.GenomeWideCombinableDomains
	ignore  map[string]bool
}

func NewGenomePairComparison(genome0, genome1 *model.GenomeWideCombinableDomains) *GenomePairComparison {
	return &GenomePairComparison{genome0: genome0, genome1: genome1}
}

// Ignoring returns a comparison of the same genomes that leaves ids out.
func (c *GenomePairComparison) Ignoring(ids ...string) *GenomePairComparison {
	ignore := make(map[string]bool, len(c.ignore)+len(ids))
	maps.Copy(ignore, c.ignore)
	for _, id := range ids {
		ignore[id] = true
	}
	return &GenomePairComparison{genome0: c.genome0, genome1: c.genome1, ignore: ignore}
}

// Ignored ids, ascending.
func (c *GenomePairComparison) Ignored() []string {
	return slices.Sorted(maps.Keys(c.ignore))
}

func (c *GenomePairComparison) domains(g *model.GenomeWideCombinableDomains) map[string]bool {
	set := make(map[string]bool)
	for _, id := range g.DomainIDs() {
		if !c.ignore[id] {
			set[id] = true
		}
	}
	return set
}

func (c *GenomePairComparison) combinations(g *model.GenomeWideCombinableDomains) map[model.BinaryDomainCombination]bool {
	set := make(map[model.BinaryDomainCombination]bool)
	for _, bc := range g.BinaryDomainCombinations() {
		if !c.ignore[bc.ID0] && !c.ignore[bc.ID1] {
			set[bc] = true
		}
	}
	return set
}

func union[K comparable](a, b map[K]bool) map[K]bool {
	out := make(map[K]bool, len(a)+len(b))
	maps.Copy(out, a)
	maps.Copy(out, b)
	return out
}

func intersection[K comparable](a, b map[K]bool) map[K]bool {
	out := make(map[K]bool)
	for k := range a {
		if b[k] {
			out[k] = true
		}
	}
	return out
}

func difference[K comparable](a, b map[K]bool) map[K]bool {
	out := make(map[K]bool)
	for k := range a {
		if !b[k] {
			out[k] = true
		}
	}
	return out
}

func sortedIDs(set map[string]bool) []string {
	return slices.Sorted(maps.Keys(set))
}

func sortedCombinations(set map[model.BinaryDomainCombination]bool) []model.BinaryDomainCombination {
	out := slices.Collect(maps.Keys(set))
	model.SortCombinations(out)
	return out
}

func (c *GenomePairComparison) AllDomains() []string {
	return sortedIDs(union(c.domains(c.genome0), c.domains(c.genome1)))
}

func (c *GenomePairComparison) SharedDomains() []string {
	return sortedIDs(intersection(c.domains(c.genome0), c.domains(c.genome1)))
}

func (c *GenomePairComparison) DomainsSpecificToGenome0() []string {
	return sortedIDs(difference(c.domains(c.genome0), c.domains(c.genome1)))
}

func (c *GenomePairComparison) DomainsSpecificToGenome1() []string {
	return sortedIDs(difference(c.domains(c.genome1), c.domains(c.genome0)))
}

func (c *GenomePairComparison) AllCombinations() []model.BinaryDomainCombination {
	return sortedCombinations(union(c.combinations(c.genome0), c.combinations(c.genome1)))
}

func (c *GenomePairComparison) SharedCombinations() []model.BinaryDomainCombination {
	return sortedCombinations(intersection(c.combinations(c.genome0), c.combinations(c.genome1)))
}

func (c *GenomePairComparison) CombinationsSpecificToGenome0() []model.BinaryDomainCombination {
	return sortedCombinations(difference(c.combinations(c.genome0), c.combinations(c.genome1)))
}

func (c *GenomePairComparison) CombinationsSpecificToGenome1() []model.BinaryDomainCombination {
	return sortedCombinations(difference(c.combinations(c.genome1), c.combinations(c.genome0)))
}

// jaccard is |a ∩ b| / |a ∪ b|, 0 when both are empty.
func jaccard[K comparable](a, b map[K]bool) float64 {
	all := len(union(a, b))
	if all == 0 {
		return 0
	}
	return float64(len(intersection(a, b))) / float64(all)
}

// SharedDomainsSimilarity is the fraction of all domain ids found in both
// genomes.
func (c *GenomePairComparison) SharedDomainsSimilarity() float64 {
	return jaccard(c.domains(c.genome0), c.domains(c.genome1))
}

// SharedCombinationsSimilarity is the fraction of all binary combinations
// found in both genomes.
func (c *GenomePairComparison) SharedCombinationsSimilarity() float64 {
	return jaccard(c.combinations(c.genome0), c.combinations(c.genome1))
}

func (c *GenomePairComparison) SharedDomainsDistance() float64 {
	return MaxDistance - c.SharedDomainsSimilarity()
}

func (c *GenomePairComparison) SharedCombinationsDistance() float64 {
	return MaxDistance - c.SharedCombinationsSimilarity()
}
