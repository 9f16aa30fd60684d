package similarity

import (
	"fmt"
	"maps"
	"slices"

	"github.com/yumyai/domcomb/pkg/model"
)

// SpeciesData is what one genome contributes to a DomainSimilarity.
type SpeciesData struct {
	KeyDomainCount         int            `json:"key_domain_count"`
	KeyDomainProteinsCount int            `json:"key_domain_proteins_count"`
	CombinableDomainsCount int            `json:"combinable_domains_count"`
	CombinationCounts      map[string]int `json:"combination_counts"`
}

func newSpeciesData(cd *model.CombinableDomains) SpeciesData {
	return SpeciesData{
		KeyDomainCount:         cd.KeyDomainCount(),
		KeyDomainProteinsCount: cd.KeyDomainProteinsCount(),
		CombinableDomainsCount: cd.NumberOfCombinableDomains(),
		CombinationCounts:      cd.CombinationCounts(),
	}
}

// DomainSimilarity summarises the pairwise scores of one domain over all
// genomes holding it. N is the number of pairs scored, so for k genomes
// 2N == k*k - k.
type DomainSimilarity struct {
	DomainID                  string                        `json:"domain_id"`
	MinimalSimilarityScore    float64                       `json:"min"`
	MaximalSimilarityScore    float64                       `json:"max"`
	MeanSimilarityScore       float64                       `json:"mean"`
	MedianSimilarityScore     float64                       `json:"median"`
	StandardDeviation         float64                       `json:"sd"`
	N                         int                           `json:"n"`
	MaximalDifferenceInCounts int                           `json:"max_difference_in_counts"`
	MaximalDifference         int                           `json:"max_difference"`
	SpeciesData               map[model.Species]SpeciesData `json:"species_data"`
}

// newDomainSimilarity panics if the pair count does not match the number of
// holders.
func newDomainSimilarity(domainID string, data map[model.Species]SpeciesData, n int) *DomainSimilarity {
	k := len(data)
	if k < 1 {
		panic(fmt.Sprintf("similarity: domain %q has no species data", domainID))
	}
	if k*k-k != 2*n {
		panic(fmt.Sprintf("similarity: domain %q held by %d species but %d pairs scored", domainID, k, n))
	}
	return &DomainSimilarity{DomainID: domainID, SpeciesData: data, N: n}
}

// Species holding the domain, ascending.
func (s *DomainSimilarity) Species() []model.Species {
	return slices.Sorted(maps.Keys(s.SpeciesData))
}

func (s *DomainSimilarity) SpeciesCount() int {
	return len(s.SpeciesData)
}

func (s *DomainSimilarity) String() string {
	return fmt.Sprintf("%s: mean=%.3f sd=%.3f n=%d species=%d",
		s.DomainID, s.MeanSimilarityScore, s.StandardDeviation, s.N, s.SpeciesCount())
}
