package model

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/yumyai/domcomb/internal/stats"
)

// CombinableDomains records, for one key domain of one genome, which domains it
// combines with and in how many proteins. Records are read-only once built.
type CombinableDomains struct {
	keyDomain              string
	species                Species
	combinationType        DomainCombinationType
	keyDomainCount         int
	keyDomainProteinsCount int
	combining              map[string]int
	confidence             *stats.DescriptiveStatistics
}

// NewCombinableDomains builds a finished record. partners maps partner domain
// id to the number of proteins exhibiting the pairing; it is copied.
func NewCombinableDomains(keyDomain string, species Species, partners map[string]int, keyDomainCount, keyDomainProteinsCount int) *CombinableDomains {
	cd := newCombinableDomains(keyDomain, species, CombinationBasic)
	for id, n := range partners {
		cd.combining[id] = n
	}
	cd.keyDomainCount = keyDomainCount
	cd.keyDomainProteinsCount = keyDomainProteinsCount
	return cd
}

func newCombinableDomains(keyDomain string, species Species, t DomainCombinationType) *CombinableDomains {
	return &CombinableDomains{
		keyDomain:       keyDomain,
		species:         species,
		combinationType: t,
		combining:       make(map[string]int),
		confidence:      &stats.DescriptiveStatistics{},
	}
}

func (cd *CombinableDomains) addCombinableDomain(id string) {
	cd.combining[id]++
}

func (cd *CombinableDomains) KeyDomain() string {
	return cd.keyDomain
}

func (cd *CombinableDomains) Species() Species {
	return cd.species
}

// Total number of occurrences of the key domain in the genome.
func (cd *CombinableDomains) KeyDomainCount() int {
	return cd.keyDomainCount
}

// Number of distinct proteins containing the key domain.
func (cd *CombinableDomains) KeyDomainProteinsCount() int {
	return cd.keyDomainProteinsCount
}

// Number of distinct partner domains, the promiscuity of the key domain.
func (cd *CombinableDomains) NumberOfCombinableDomains() int {
	return len(cd.combining)
}

// Partner ids in ascending order.
func (cd *CombinableDomains) CombinableDomainIDs() []string {
	return slices.Sorted(maps.Keys(cd.combining))
}

// Partner ids plus the key domain itself, ascending.
func (cd *CombinableDomains) AllDomainIDs() []string {
	ids := cd.CombinableDomainIDs()
	if _, ok := cd.combining[cd.keyDomain]; !ok {
		ids = append(ids, cd.keyDomain)
		slices.Sort(ids)
	}
	return ids
}

func (cd *CombinableDomains) IsCombinable(id string) bool {
	_, ok := cd.combining[id]
	return ok
}

// Number of proteins exhibiting the key domain together with id.
func (cd *CombinableDomains) NumberOfProteinsExhibitingCombination(id string) int {
	return cd.combining[id]
}

// Copy of the partner to protein-count map.
func (cd *CombinableDomains) CombinationCounts() map[string]int {
	return maps.Clone(cd.combining)
}

// Distribution of the per-occurrence E-values of the key domain.
func (cd *CombinableDomains) ConfidenceStatistics() *stats.DescriptiveStatistics {
	return stats.New(cd.confidence.Values()...)
}

func (cd *CombinableDomains) BinaryDomainCombinations() []BinaryDomainCombination {
	ids := cd.CombinableDomainIDs()
	combinations := make([]BinaryDomainCombination, 0, len(ids))
	for _, id := range ids {
		combinations = append(combinations, NewCombination(cd.combinationType, cd.keyDomain, id))
	}
	return combinations
}

// Partners as "A [2], B [1]".
func (cd *CombinableDomains) CombiningDomainsString() string {
	var sb strings.Builder
	for i, id := range cd.CombinableDomainIDs() {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%s [%d]", id, cd.combining[id])
	}
	return sb.String()
}

func (cd *CombinableDomains) String() string {
	return fmt.Sprintf("%s [%d, %d, %d]: %s", cd.keyDomain, cd.keyDomainCount,
		cd.keyDomainProteinsCount, cd.NumberOfCombinableDomains(), cd.CombiningDomainsString())
}
