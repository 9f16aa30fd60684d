package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/yumyai/domcomb/internal/config"
	"github.com/yumyai/domcomb/pkg/analysis"
	"github.com/yumyai/domcomb/pkg/model"
	"github.com/yumyai/domcomb/pkg/similarity"
)

type analyzeFlags struct {
	configFile      string
	species         []string
	combinationType string
	strategy        string
	sortField       string
	outDir          string
	noReports       bool
}

// applyFlags overrides opts with the flags given on the command line.
func (f *analyzeFlags) applyFlags(flags *pflag.FlagSet, opts *analysis.Options) error {
	if flags.Changed("species") {
		opts.Species = make([]model.Species, len(f.species))
		for i, s := range f.species {
			opts.Species[i] = model.Species(s)
		}
	}
	if flags.Changed("type") {
		t, err := model.ParseDomainCombinationType(f.combinationType)
		if err != nil {
			return err
		}
		opts.CombinationType = t
	}
	if flags.Changed("strategy") {
		s, err := similarity.ParseStrategy(f.strategy)
		if err != nil {
			return err
		}
		opts.Strategy = s
	}
	if flags.Changed("sort") {
		s, err := similarity.ParseSortField(f.sortField)
		if err != nil {
			return err
		}
		opts.SortField = s
	}
	return nil
}

func newAnalyzeCommand(a *app) *cobra.Command {
	var f analyzeFlags
	// Flag targets; copied into the options only when set.
	flagOpts := analysis.DefaultOptions()

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Compare genomes and build distance matrices",
		Long: `Analyze builds the domain combination graph of every selected species,
computes the domain similarities across genomes, the three genome distance
matrices (mean_score, shared_domains, shared_combinations) and, with
--jackknife, resampled shared_domains and shared_combinations matrices.

The run is stored in the database and reports are written to --out.
Settings come from the defaults, then the --config file, then the flags.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := analysis.DefaultOptions()
			opts.Workers = a.cfg.Workers

			if f.configFile != "" {
				file, err := config.LoadAnalysis(f.configFile)
				if err != nil {
					return err
				}
				if err := file.Apply(&opts); err != nil {
					return fmt.Errorf("%s: %w", f.configFile, err)
				}
			}

			flags := cmd.Flags()
			if err := f.applyFlags(flags, &opts); err != nil {
				return err
			}
			copyChanged(flags, "ignore-self", &opts.IgnoreSelfCombinations, flagOpts.IgnoreSelfCombinations)
			copyChanged(flags, "ignore-no-combinations", &opts.IgnoreDomainsWithNoCombinations, flagOpts.IgnoreDomainsWithNoCombinations)
			copyChanged(flags, "ignore-private", &opts.IgnoreDomainsPrivateToOneGenome, flagOpts.IgnoreDomainsPrivateToOneGenome)
			copyChanged(flags, "species-count-first", &opts.SortBySpeciesCountFirst, flagOpts.SortBySpeciesCountFirst)
			copyChanged(flags, "pairwise", &opts.KeepPairwise, flagOpts.KeepPairwise)
			copyChanged(flags, "jackknife", &opts.Resamplings, flagOpts.Resamplings)
			copyChanged(flags, "ratio", &opts.Ratio, flagOpts.Ratio)
			copyChanged(flags, "seed", &opts.Seed, flagOpts.Seed)
			copyChanged(flags, "workers", &opts.Workers, flagOpts.Workers)

			ctx := cmd.Context()
			store, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			result, err := analysis.Run(ctx, store, opts)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "run %s: %d species, %d domains, %d resamplings\n",
				result.Run.ID, len(result.Species), len(result.Similarities), len(result.Resamples))

			if f.noReports {
				return nil
			}
			outDir := f.outDir
			if outDir == "" {
				outDir = a.cfg.OutputDir
			}
			return analysis.WriteReports(outDir, result)
		},
	}

	defaults := analysis.DefaultOptions()
	flags := cmd.Flags()
	flags.StringVarP(&f.configFile, "config", "c", "", "YAML analysis file")
	flags.StringSliceVarP(&f.species, "species", "s", nil, "Species to compare, in matrix order (default: all)")
	flags.StringVarP(&f.combinationType, "type", "t", defaults.CombinationType.String(), "Combination type: basic, directed, directed_adjacent")
	flags.StringVar(&f.strategy, "strategy", defaults.Strategy.String(), "Similarity strategy: combinations, domain_counts, protein_counts")
	flags.StringVar(&f.sortField, "sort", defaults.SortField.String(), "Similarity order: domain_id, min, max, mean, sd, max_difference, max_counts_difference, abs_max_counts_difference, species_count")
	flags.BoolVar(&flagOpts.IgnoreSelfCombinations, "ignore-self", defaults.IgnoreSelfCombinations, "Ignore combinations of a domain with itself")
	flags.BoolVar(&flagOpts.IgnoreDomainsWithNoCombinations, "ignore-no-combinations", false, "Skip domains without partners")
	flags.BoolVar(&flagOpts.IgnoreDomainsPrivateToOneGenome, "ignore-private", false, "Skip domains held by a single genome")
	flags.BoolVar(&flagOpts.SortBySpeciesCountFirst, "species-count-first", false, "Order similarities by species count first")
	flags.BoolVar(&flagOpts.KeepPairwise, "pairwise", false, "Write per genome pair similarity tables")
	flags.IntVar(&flagOpts.Resamplings, "jackknife", 0, "Jackknife resamplings, 0 disables")
	flags.Float64Var(&flagOpts.Ratio, "ratio", defaults.Ratio, "Fraction of domain ids left out per resampling")
	flags.Uint64Var(&flagOpts.Seed, "seed", defaults.Seed, "Jackknife random seed")
	flags.IntVarP(&flagOpts.Workers, "workers", "w", a.cfg.Workers, "Concurrent comparisons")
	flags.StringVarP(&f.outDir, "out", "o", "", "Report directory (default $DOMCOMB_OUTPUT_DIR)")
	flags.BoolVar(&f.noReports, "no-reports", false, "Only store the run in the database")

	return cmd
}

// copyChanged sets *dst to v when the flag name was given.
func copyChanged[T any](flags *pflag.FlagSet, name string, dst *T, v T) {
	if flags.Changed(name) {
		*dst = v
	}
}
