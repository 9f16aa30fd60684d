package similarity

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/yumyai/domcomb/pkg/model"
)

// Strategy scores how similar one domain is in two genomes.
type Strategy int

const (
	// Overlap of the partner sets.
	CombinationsBased Strategy = iota
	// Occurrence counts of the key domain.
	DomainCountsBased
	// Number of distinct proteins holding the key domain.
	ProteinCountsBased
)

func (s Strategy) String() string {
	switch s {
	case CombinationsBased:
		return "combinations"
	case DomainCountsBased:
		return "domain_counts"
	case ProteinCountsBased:
		return "protein_counts"
	default:
		return "unknown"
	}
}

var ErrUnknownStrategy = errors.New("unknown similarity strategy")

func ParseStrategy(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "combinations", "combination", "":
		return CombinationsBased, nil
	case "domain_counts", "domains":
		return DomainCountsBased, nil
	case "protein_counts", "proteins":
		return ProteinCountsBased, nil
	default:
		return CombinationsBased, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
}

func (s Strategy) IsCombinationBased() bool {
	return s == CombinationsBased
}

// PairwiseSimilarity is the outcome of scoring one domain in two genomes.
// NumberOfDifferentDomains is only filled in by CombinationsBased.
type PairwiseSimilarity struct {
	Score                    float64
	DifferenceInCounts       int
	NumberOfDifferentDomains int
}

// Score compares the records of one key domain from two genomes.
// Both records must describe the same key domain.
func (s Strategy) Score(a, b *model.CombinableDomains) PairwiseSimilarity {
	if a.KeyDomain() != b.KeyDomain() {
		panic(fmt.Sprintf("similarity: comparing different key domains %q and %q", a.KeyDomain(), b.KeyDomain()))
	}
	switch s {
	case CombinationsBased:
		return scoreCombinations(a, b)
	case DomainCountsBased:
		return scoreCounts(a.KeyDomainCount(), b.KeyDomainCount())
	case ProteinCountsBased:
		return scoreCounts(a.KeyDomainProteinsCount(), b.KeyDomainProteinsCount())
	default:
		panic(fmt.Sprintf("similarity: unknown strategy %d", int(s)))
	}
}

func scoreCombinations(a, b *model.CombinableDomains) PairwiseSimilarity {
	same, different := 0, 0
	for _, id := range a.CombinableDomainIDs() {
		if b.IsCombinable(id) {
			same++
		} else {
			different++
		}
	}
	for _, id := range b.CombinableDomainIDs() {
		if !a.IsCombinable(id) {
			different++
		}
	}
	score := 1.0
	if same+different > 0 {
		score = float64(same) / float64(same+different)
	}
	return PairwiseSimilarity{
		Score:                    score,
		DifferenceInCounts:       a.NumberOfCombinableDomains() - b.NumberOfCombinableDomains(),
		NumberOfDifferentDomains: different,
	}
}

func scoreCounts(ca, cb int) PairwiseSimilarity {
	d := ca - cb
	score := 1.0
	if sum := ca + cb; sum > 0 {
		score = 1 - math.Abs(float64(d))/float64(sum)
	}
	return PairwiseSimilarity{Score: score, DifferenceInCounts: d}
}
