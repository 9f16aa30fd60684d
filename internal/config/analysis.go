package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/yumyai/domcomb/pkg/analysis"
	"github.com/yumyai/domcomb/pkg/model"
	"github.com/yumyai/domcomb/pkg/similarity"
)

// Analysis is an analysis file. Fields left out keep the value they
// override.
type Analysis struct {
	Species         []string `yaml:"species"`
	CombinationType string   `yaml:"combination_type"`
	Strategy        string   `yaml:"strategy"`

	IgnoreSelfCombinations          *bool `yaml:"ignore_self_combinations"`
	IgnoreDomainsWithNoCombinations *bool `yaml:"ignore_domains_with_no_combinations"`
	IgnoreDomainsPrivateToOneGenome *bool `yaml:"ignore_domains_private_to_one_genome"`

	SortField               string `yaml:"sort_field"`
	SortBySpeciesCountFirst *bool  `yaml:"sort_by_species_count_first"`
	KeepPairwise            *bool  `yaml:"keep_pairwise"`

	Jackknife *Jackknife `yaml:"jackknife"`
	Workers   *int       `yaml:"workers"`
}

type Jackknife struct {
	Resamplings int      `yaml:"resamplings"`
	Ratio       *float64 `yaml:"ratio"`
	Seed        *uint64  `yaml:"seed"`
}

// LoadAnalysis reads an analysis file. Unknown keys are an error, an empty
// file overrides nothing.
func LoadAnalysis(path string) (*Analysis, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read analysis file: %w", err)
	}
	return ParseAnalysis(data)
}

func ParseAnalysis(data []byte) (*Analysis, error) {
	var a Analysis
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&a); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse analysis file: %w", err)
	}
	return &a, nil
}

// Apply overrides opts with every field set in a.
func (a *Analysis) Apply(opts *analysis.Options) error {
	if len(a.Species) > 0 {
		opts.Species = make([]model.Species, len(a.Species))
		for i, s := range a.Species {
			opts.Species[i] = model.Species(s)
		}
	}
	if a.CombinationType != "" {
		t, err := model.ParseDomainCombinationType(a.CombinationType)
		if err != nil {
			return err
		}
		opts.CombinationType = t
	}
	if a.Strategy != "" {
		s, err := similarity.ParseStrategy(a.Strategy)
		if err != nil {
			return err
		}
		opts.Strategy = s
	}
	if a.SortField != "" {
		f, err := similarity.ParseSortField(a.SortField)
		if err != nil {
			return err
		}
		opts.SortField = f
	}

	setBool(&opts.IgnoreSelfCombinations, a.IgnoreSelfCombinations)
	setBool(&opts.IgnoreDomainsWithNoCombinations, a.IgnoreDomainsWithNoCombinations)
	setBool(&opts.IgnoreDomainsPrivateToOneGenome, a.IgnoreDomainsPrivateToOneGenome)
	setBool(&opts.SortBySpeciesCountFirst, a.SortBySpeciesCountFirst)
	setBool(&opts.KeepPairwise, a.KeepPairwise)

	if a.Jackknife != nil {
		opts.Resamplings = a.Jackknife.Resamplings
		if a.Jackknife.Ratio != nil {
			opts.Ratio = *a.Jackknife.Ratio
		}
		if a.Jackknife.Seed != nil {
			opts.Seed = *a.Jackknife.Seed
		}
	}
	if a.Workers != nil {
		opts.Workers = *a.Workers
	}
	return nil
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}
