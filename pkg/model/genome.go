package model

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/yumyai/domcomb/internal/stats"
)

var ErrSpeciesMismatch = errors.New("protein species does not match genome species")

// GenomeWideCombinableDomains holds the combinable domains of every domain id
// found in one genome. Built once by Build and read-only afterwards.
type GenomeWideCombinableDomains struct {
	species         Species
	combinationType DomainCombinationType
	domains         map[string]*CombinableDomains
	keys            []string
}

// Build turns the proteins of one genome into its domain combination graph.
func Build(proteins []*Protein, species Species, t DomainCombinationType, ignoreSelfCombination bool) (*GenomeWideCombinableDomains, error) {
	genome := &GenomeWideCombinableDomains{
		species:         species,
		combinationType: t,
		domains:         make(map[string]*CombinableDomains),
	}

	domainCounts := make(map[string]int)
	proteinCounts := make(map[string]int)
	confidence := make(map[string]*stats.DescriptiveStatistics)

	for _, protein := range proteins {
		if protein.Species != species {
			return nil, fmt.Errorf("%w: protein %s is %s, genome is %s",
				ErrSpeciesMismatch, protein.ID, protein.Species, species)
		}

		sawKey := make(map[string]bool)
		sawInProtein := make(map[string]bool)

		for i, current := range protein.Domains {
			id := current.ID

			domainCounts[id]++
			if !sawInProtein[id] {
				proteinCounts[id]++
				sawInProtein[id] = true
			}
			if confidence[id] == nil {
				confidence[id] = &stats.DescriptiveStatistics{}
			}
			confidence[id].AddValue(current.Evalue)

			if sawKey[id] {
				continue
			}
			// Directed semantics search partners again for every occurrence.
			if t == CombinationBasic {
				sawKey[id] = true
			}

			cd, ok := genome.domains[id]
			if !ok {
				cd = newCombinableDomains(id, species, t)
				genome.domains[id] = cd
			}

			sawPartner := make(map[string]bool)
			if ignoreSelfCombination {
				sawPartner[id] = true
			}
			var closest *Domain
			for j := range protein.Domains {
				candidate := &protein.Domains[j]
				if t != CombinationBasic && current.From >= candidate.From {
					continue
				}
				if i == j || sawPartner[candidate.ID] {
					continue
				}
				sawPartner[candidate.ID] = true
				if t != CombinationDirectedAdjacent {
					cd.addCombinableDomain(candidate.ID)
				} else if closest == nil || candidate.From < closest.From {
					closest = candidate
				}
			}
			if t == CombinationDirectedAdjacent && closest != nil {
				cd.addCombinableDomain(closest.ID)
			}
		}
	}

	for id, cd := range genome.domains {
		cd.keyDomainCount = domainCounts[id]
		cd.keyDomainProteinsCount = proteinCounts[id]
		cd.confidence = confidence[id]
	}
	genome.keys = slices.Sorted(maps.Keys(genome.domains))
	return genome, nil
}

func (g *GenomeWideCombinableDomains) Species() Species {
	return g.species
}

func (g *GenomeWideCombinableDomains) CombinationType() DomainCombinationType {
	return g.combinationType
}

// Number of key domains.
func (g *GenomeWideCombinableDomains) Size() int {
	return len(g.keys)
}

func (g *GenomeWideCombinableDomains) Contains(id string) bool {
	_, ok := g.domains[id]
	return ok
}

func (g *GenomeWideCombinableDomains) Get(id string) (*CombinableDomains, bool) {
	cd, ok := g.domains[id]
	return cd, ok
}

// Key domain ids in ascending order.
func (g *GenomeWideCombinableDomains) KeyDomainIDs() []string {
	return slices.Clone(g.keys)
}

// Records in alphabetical order of their key domain.
func (g *GenomeWideCombinableDomains) CombinableDomains() []*CombinableDomains {
	out := make([]*CombinableDomains, 0, len(g.keys))
	for _, k := range g.keys {
		out = append(out, g.domains[k])
	}
	return out
}

// All distinct domain ids, key domains and partners, ascending.
func (g *GenomeWideCombinableDomains) DomainIDs() []string {
	set := make(map[string]bool, len(g.keys))
	for _, k := range g.keys {
		for _, id := range g.domains[k].AllDomainIDs() {
			set[id] = true
		}
	}
	return slices.Sorted(maps.Keys(set))
}

// Every key domain x partner pair, de-duplicated and sorted.
func (g *GenomeWideCombinableDomains) BinaryDomainCombinations() []BinaryDomainCombination {
	set := make(map[BinaryDomainCombination]bool)
	for _, k := range g.keys {
		for _, c := range g.domains[k].BinaryDomainCombinations() {
			set[c] = true
		}
	}
	out := slices.Collect(maps.Keys(set))
	SortCombinations(out)
	return out
}

// Distribution of partner-set sizes over all domains of the genome.
func (g *GenomeWideCombinableDomains) PromiscuityStatistics() *stats.DescriptiveStatistics {
	s := &stats.DescriptiveStatistics{}
	for _, k := range g.keys {
		s.AddValue(float64(g.domains[k].NumberOfCombinableDomains()))
	}
	return s
}

// Domains with the largest number of partners, ties included.
func (g *GenomeWideCombinableDomains) MostPromiscuousDomains() []string {
	s := g.PromiscuityStatistics()
	if s.N() == 0 {
		return nil
	}
	most := int(s.Max())
	var out []string
	for _, k := range g.keys {
		if g.domains[k].NumberOfCombinableDomains() == most {
			out = append(out, k)
		}
	}
	return out
}

// Orderings for the genome-wide table.
type SortOrder int

const (
	SortAlphabetical SortOrder = iota
	SortKeyDomainCount
	SortKeyDomainProteinsCount
	SortCombinationsCount
)

func (o SortOrder) String() string {
	switch o {
	case SortAlphabetical:
		return "alphabetical"
	case SortKeyDomainCount:
		return "key_domain_count"
	case SortKeyDomainProteinsCount:
		return "key_domain_proteins_count"
	case SortCombinationsCount:
		return "combinations_count"
	default:
		return "alphabetical"
	}
}

func ParseSortOrder(name string) SortOrder {
	switch name {
	case "key_domain_count":
		return SortKeyDomainCount
	case "key_domain_proteins_count":
		return SortKeyDomainProteinsCount
	case "combinations_count":
		return SortCombinationsCount
	default:
		return SortAlphabetical
	}
}

// descending by the count, then by key domain
func byCountDescending(count func(*CombinableDomains) int) func(a, b *CombinableDomains) int {
	return func(a, b *CombinableDomains) int {
		if x, y := count(a), count(b); x != y {
			if x > y {
				return -1
			}
			return 1
		}
		return strings.Compare(a.keyDomain, b.keyDomain)
	}
}

// WriteTable writes one line per key domain:
// id, occurrences, proteins, partners, median E-value, partner list.
func (g *GenomeWideCombinableDomains) WriteTable(w io.Writer, order SortOrder) error {
	records := g.CombinableDomains()
	switch order {
	case SortKeyDomainCount:
		slices.SortStableFunc(records, byCountDescending((*CombinableDomains).KeyDomainCount))
	case SortKeyDomainProteinsCount:
		slices.SortStableFunc(records, byCountDescending((*CombinableDomains).KeyDomainProteinsCount))
	case SortCombinationsCount:
		slices.SortStableFunc(records, byCountDescending((*CombinableDomains).NumberOfCombinableDomains))
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, cd := range records {
		median := 0.0
		if cd.confidence.N() > 0 {
			median = cd.confidence.Median()
		}
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%.1E\t%s\n", cd.keyDomain, cd.keyDomainCount,
			cd.keyDomainProteinsCount, cd.NumberOfCombinableDomains(), median, cd.CombiningDomainsString())
	}
	return tw.Flush()
}

// WriteDOT writes the genome's combinations as a graphviz graph.
func (g *GenomeWideCombinableDomains) WriteDOT(w io.Writer) error {
	return WriteDOT(w, g.species.String(), g.BinaryDomainCombinations(), g.combinationType.IsDirected())
}

func (g *GenomeWideCombinableDomains) String() string {
	var sb strings.Builder
	_ = g.WriteTable(&sb, SortAlphabetical)
	return sb.String()
}
