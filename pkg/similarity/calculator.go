// Package similarity compares each domain across genomes: per-pair strategy
// scores are summarised into one DomainSimilarity per domain id.
package similarity

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"go.uber.org/zap"

	"github.com/yumyai/domcomb/internal/stats"
	"github.com/yumyai/domcomb/logger"
	"github.com/yumyai/domcomb/pkg/model"
)

var (
	ErrTooFewGenomes       = errors.New("at least two genomes are required")
	ErrDuplicateSpecies    = errors.New("species occurs in more than one genome")
	ErrNotBinaryComparison = errors.New("binary comparison requires exactly two genomes holding the domain")
)

type Options struct {
	SortField               SortField
	SortBySpeciesCountFirst bool
	// Only valid when every domain is held by at most two genomes.
	TreatAsBinary       bool
	CalcSimilarityScore bool
}

type Calculator struct {
	opts Options
}

func NewCalculator(opts Options) *Calculator {
	return &Calculator{opts: opts}
}

func (c *Calculator) Options() Options {
	return c.opts
}

// CalculateSimilarities returns one DomainSimilarity per domain id found in
// genomes, ordered by the calculator's sort options.
func (c *Calculator) CalculateSimilarities(strategy Strategy, genomes []*model.GenomeWideCombinableDomains,
	ignoreDomainsWithNoCombinations, ignoreDomainsPrivateToOneGenome bool) ([]*DomainSimilarity, error) {

	if len(genomes) < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrTooFewGenomes, len(genomes))
	}

	seen := make(map[model.Species]bool, len(genomes))
	ids := make(map[string]bool)
	for _, g := range genomes {
		if seen[g.Species()] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateSpecies, g.Species())
		}
		seen[g.Species()] = true
		for _, id := range g.KeyDomainIDs() {
			ids[id] = true
		}
	}

	var similarities []*DomainSimilarity
	for _, id := range slices.Sorted(maps.Keys(ids)) {
		holders := make([]*model.CombinableDomains, 0, len(genomes))
		for _, g := range genomes {
			if cd, ok := g.Get(id); ok {
				holders = append(holders, cd)
			}
		}

		if ignoreDomainsWithNoCombinations && !anyCombinations(holders) {
			continue
		}
		if ignoreDomainsPrivateToOneGenome && len(holders) == 1 {
			continue
		}

		s, err := c.calculateSimilarity(strategy, id, holders)
		if err != nil {
			return nil, err
		}
		similarities = append(similarities, s)
	}

	Sort(similarities, c.opts.SortField, c.opts.SortBySpeciesCountFirst)
	logger.Debug("calculated domain similarities",
		zap.String("strategy", strategy.String()),
		zap.Int("genomes", len(genomes)),
		zap.Int("domains", len(ids)),
		zap.Int("similarities", len(similarities)))
	return similarities, nil
}

func anyCombinations(holders []*model.CombinableDomains) bool {
	for _, cd := range holders {
		if cd.NumberOfCombinableDomains() > 0 {
			return true
		}
	}
	return false
}

func (c *Calculator) calculateSimilarity(strategy Strategy, id string, holders []*model.CombinableDomains) (*DomainSimilarity, error) {
	data := make(map[model.Species]SpeciesData, len(holders))
	for _, cd := range holders {
		data[cd.Species()] = newSpeciesData(cd)
	}

	if len(holders) == 1 {
		s := newDomainSimilarity(id, data, 0)
		if c.opts.CalcSimilarityScore {
			s.MinimalSimilarityScore = 1
			s.MaximalSimilarityScore = 1
			s.MeanSimilarityScore = 1
			s.MedianSimilarityScore = 1
		}
		return s, nil
	}

	scores := &stats.DescriptiveStatistics{}
	maxDifferenceInCounts, maxDifference := 0, 0
	for i := 1; i < len(holders); i++ {
		for j := 0; j < i; j++ {
			p := strategy.Score(holders[i], holders[j])
			difference := p.DifferenceInCounts
			if strategy.IsCombinationBased() {
				difference = p.NumberOfDifferentDomains
			}
			if abs(p.DifferenceInCounts) > abs(maxDifferenceInCounts) {
				maxDifferenceInCounts = p.DifferenceInCounts
			}
			if abs(difference) > abs(maxDifference) {
				maxDifference = difference
			}
			scores.AddValue(p.Score)
		}
	}

	if c.opts.TreatAsBinary && scores.N() != 1 {
		return nil, fmt.Errorf("%w: %s is held by %d genomes", ErrNotBinaryComparison, id, len(holders))
	}
	if !c.opts.TreatAsBinary && maxDifferenceInCounts < 0 {
		maxDifferenceInCounts = -maxDifferenceInCounts
		if !strategy.IsCombinationBased() {
			maxDifference = abs(maxDifference)
		}
	}

	s := newDomainSimilarity(id, data, scores.N())
	s.MaximalDifferenceInCounts = maxDifferenceInCounts
	s.MaximalDifference = maxDifference
	if c.opts.CalcSimilarityScore {
		s.MinimalSimilarityScore = scores.Min()
		s.MaximalSimilarityScore = scores.Max()
		s.MeanSimilarityScore = scores.Mean()
		s.MedianSimilarityScore = scores.Median()
		s.StandardDeviation = scores.SampleStandardDeviation()
	}
	return s, nil
}
