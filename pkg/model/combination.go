package model

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
)

// How co-occurring domains turn into combinations.
type DomainCombinationType int

const (
	// Unordered pairs, any two domains of a protein.
	CombinationBasic DomainCombinationType = iota
	// Ordered N->C pairs.
	CombinationDirected
	// Ordered pairs restricted to the nearest downstream neighbour.
	CombinationDirectedAdjacent
)

func (t DomainCombinationType) String() string {
	switch t {
	case CombinationBasic:
		return "basic"
	case CombinationDirected:
		return "directed"
	case CombinationDirectedAdjacent:
		return "directed_adjacent"
	default:
		return "unknown"
	}
}

func (t DomainCombinationType) IsDirected() bool {
	return t == CombinationDirected || t == CombinationDirectedAdjacent
}

var ErrUnknownCombinationType = errors.New("unknown domain combination type")

func ParseDomainCombinationType(name string) (DomainCombinationType, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "basic", "":
		return CombinationBasic, nil
	case "directed":
		return CombinationDirected, nil
	case "directed_adjacent", "directed-adjacent", "adjacent":
		return CombinationDirectedAdjacent, nil
	default:
		return CombinationBasic, fmt.Errorf("%w: %q", ErrUnknownCombinationType, name)
	}
}

// Separator used in the string form of a binary domain combination.
const CombinationSeparator = "="

// BinaryDomainCombination is a pair of domain ids. Values are comparable and
// can be used as map keys: basic combinations are canonicalised on
// construction, directed ones keep ID0 as the N-terminal domain.
type BinaryDomainCombination struct {
	ID0 string
	ID1 string
}

// NewBasicCombination returns the unordered combination of a and b, so
// NewBasicCombination(a, b) == NewBasicCombination(b, a).
func NewBasicCombination(a, b string) BinaryDomainCombination {
	if strings.ToLower(a) < strings.ToLower(b) {
		return BinaryDomainCombination{ID0: a, ID1: b}
	}
	if strings.EqualFold(a, b) && a < b {
		return BinaryDomainCombination{ID0: a, ID1: b}
	}
	return BinaryDomainCombination{ID0: b, ID1: a}
}

// NewDirectedCombination returns the ordered combination nTerminal -> cTerminal.
func NewDirectedCombination(nTerminal, cTerminal string) BinaryDomainCombination {
	return BinaryDomainCombination{ID0: nTerminal, ID1: cTerminal}
}

// NewCombination picks the constructor matching t.
func NewCombination(t DomainCombinationType, key, partner string) BinaryDomainCombination {
	if t.IsDirected() {
		return NewDirectedCombination(key, partner)
	}
	return NewBasicCombination(key, partner)
}

var ErrMalformedCombination = errors.New("malformed binary domain combination")

// ParseBinaryDomainCombination reads the "ID0=ID1" form.
func ParseBinaryDomainCombination(s string, t DomainCombinationType) (BinaryDomainCombination, error) {
	parts := strings.Split(s, CombinationSeparator)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return BinaryDomainCombination{}, fmt.Errorf("%w: %q", ErrMalformedCombination, s)
	}
	return NewCombination(t, parts[0], parts[1]), nil
}

func (c BinaryDomainCombination) String() string {
	return c.ID0 + CombinationSeparator + c.ID1
}

// Contains reports whether id is one of the two domains.
func (c BinaryDomainCombination) Contains(id string) bool {
	return c.ID0 == id || c.ID1 == id
}

func CompareCombinations(a, b BinaryDomainCombination) int {
	if x := strings.Compare(a.ID0, b.ID0); x != 0 {
		return x
	}
	return strings.Compare(a.ID1, b.ID1)
}

// SortCombinations sorts in place by ID0 then ID1.
func SortCombinations(combinations []BinaryDomainCombination) {
	slices.SortFunc(combinations, CompareCombinations)
}

// WriteDOT writes the combinations as a graphviz graph, a digraph when directed.
func WriteDOT(w io.Writer, name string, combinations []BinaryDomainCombination, directed bool) error {
	graph, edge := "graph", "--"
	if directed {
		graph, edge = "digraph", "->"
	}
	if _, err := fmt.Fprintf(w, "%s %q {\n", graph, name); err != nil {
		return err
	}
	for _, c := range combinations {
		if _, err := fmt.Fprintf(w, "  %q %s %q;\n", c.ID0, edge, c.ID1); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "}")
	return err
}
