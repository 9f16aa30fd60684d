package distance

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yumyai/domcomb/pkg/model"
)

// build makes a basic-combination genome with one protein per id list.
func build(t *testing.T, species model.Species, ignoreSelf bool, proteins ...[]string) *model.GenomeWideCombinableDomains {
	t.Helper()
	var list []*model.Protein
	for i, ids := range proteins {
		p := model.NewProtein(string(species)+"_"+string(rune('0'+i)), species)
		for j, id := range ids {
			p.AddDomain(model.Domain{ID: id, From: 10 * j, To: 10*j + 5, Evalue: 0.1})
		}
		list = append(list, p)
	}
	g, err := model.Build(list, species, model.CombinationBasic, ignoreSelf)
	require.NoError(t, err)
	return g
}

func eel(t *testing.T, ignoreSelf bool) *model.GenomeWideCombinableDomains {
	return build(t, "eel", ignoreSelf,
		[]string{},
		[]string{"a"},
		[]string{"a", "b"},
		[]string{"a", "a", "b"},
		[]string{"a", "b", "c", "d", "e"},
		[]string{"e", "e", "f", "f", "f", "f"},
		[]string{"g", "h"},
	)
}

func rat(t *testing.T, ignoreSelf bool) *model.GenomeWideCombinableDomains {
	return build(t, "rat", ignoreSelf,
		[]string{},
		[]string{"a"},
		[]string{"a", "b"},
		[]string{"a", "a", "b"},
		[]string{"a", "b", "c", "i", "l"},
		[]string{"i", "f", "f"},
		[]string{"j", "k"},
		[]string{"m", "n"},
	)
}
