package similarity

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Primary key used to order domain similarities.
type SortField int

const (
	SortDomainID SortField = iota
	SortMin
	SortMax
	SortMean
	SortSD
	SortMaxDifference
	SortMaxCountsDifference
	SortAbsMaxCountsDifference
	SortSpeciesCount
)

func (f SortField) String() string {
	switch f {
	case SortDomainID:
		return "domain_id"
	case SortMin:
		return "min"
	case SortMax:
		return "max"
	case SortMean:
		return "mean"
	case SortSD:
		return "sd"
	case SortMaxDifference:
		return "max_difference"
	case SortMaxCountsDifference:
		return "max_counts_difference"
	case SortAbsMaxCountsDifference:
		return "abs_max_counts_difference"
	case SortSpeciesCount:
		return "species_count"
	default:
		return "domain_id"
	}
}

var ErrUnknownSortField = errors.New("unknown sort field")

func ParseSortField(name string) (SortField, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "domain_id", "":
		return SortDomainID, nil
	case "min":
		return SortMin, nil
	case "max":
		return SortMax, nil
	case "mean":
		return SortMean, nil
	case "sd":
		return SortSD, nil
	case "max_difference":
		return SortMaxDifference, nil
	case "max_counts_difference":
		return SortMaxCountsDifference, nil
	case "abs_max_counts_difference":
		return SortAbsMaxCountsDifference, nil
	case "species_count":
		return SortSpeciesCount, nil
	default:
		return SortDomainID, fmt.Errorf("%w: %q", ErrUnknownSortField, name)
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Compare orders a and b by field. Scores sort ascending, spreads and
// differences descending. With speciesCountFirst the number of species is
// compared (descending) before field. Distinct domain ids never compare equal.
func Compare(a, b *DomainSimilarity, field SortField, speciesCountFirst bool) int {
	if speciesCountFirst {
		if c := cmp.Compare(b.SpeciesCount(), a.SpeciesCount()); c != 0 {
			return c
		}
	}
	if c := compareField(a, b, field); c != 0 {
		return c
	}
	return compareDomainIDs(a.DomainID, b.DomainID)
}

func compareField(a, b *DomainSimilarity, field SortField) int {
	switch field {
	case SortMin:
		return cmp.Compare(a.MinimalSimilarityScore, b.MinimalSimilarityScore)
	case SortMax:
		return cmp.Compare(a.MaximalSimilarityScore, b.MaximalSimilarityScore)
	case SortMean:
		return cmp.Compare(a.MeanSimilarityScore, b.MeanSimilarityScore)
	case SortSD:
		return cmp.Compare(b.StandardDeviation, a.StandardDeviation)
	case SortMaxDifference:
		return cmp.Compare(b.MaximalDifference, a.MaximalDifference)
	case SortMaxCountsDifference:
		return cmp.Compare(b.MaximalDifferenceInCounts, a.MaximalDifferenceInCounts)
	case SortAbsMaxCountsDifference:
		return cmp.Compare(abs(b.MaximalDifferenceInCounts), abs(a.MaximalDifferenceInCounts))
	case SortSpeciesCount:
		return cmp.Compare(b.SpeciesCount(), a.SpeciesCount())
	default:
		return 0
	}
}

func compareDomainIDs(a, b string) int {
	if c := strings.Compare(strings.ToLower(a), strings.ToLower(b)); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}

// Sort orders similarities in place.
func Sort(similarities []*DomainSimilarity, field SortField, speciesCountFirst bool) {
	slices.SortFunc(similarities, func(a, b *DomainSimilarity) int {
		return Compare(a, b, field, speciesCountFirst)
	})
}
