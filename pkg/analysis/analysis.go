// Package analysis runs the whole comparison of a set of genomes: building
// their domain combination graphs, the domain similarities, the genome
// distance matrices and their jackknife resamplings.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/yumyai/domcomb/logger"
	"github.com/yumyai/domcomb/pkg/db"
	"github.com/yumyai/domcomb/pkg/distance"
	"github.com/yumyai/domcomb/pkg/model"
	"github.com/yumyai/domcomb/pkg/similarity"
)

var ErrNoSpecies = errors.New("no species to analyse")

type Options struct {
	// Empty means every species in the store.
	Species         []model.Species
	CombinationType model.DomainCombinationType
	Strategy        similarity.Strategy

	IgnoreSelfCombinations          bool
	IgnoreDomainsWithNoCombinations bool
	IgnoreDomainsPrivateToOneGenome bool

	SortField               similarity.SortField
	SortBySpeciesCountFirst bool
	KeepPairwise            bool

	// Jackknife is skipped when Resamplings is 0, negative values are an error.
	Resamplings int
	Ratio       float64
	Seed        uint64

	Workers int
}

// DefaultOptions mirrors the command line defaults.
func DefaultOptions() Options {
	return Options{
		CombinationType:        model.CombinationBasic,
		Strategy:               similarity.CombinationsBased,
		IgnoreSelfCombinations: true,
		SortField:              similarity.SortMean,
		Ratio:                  0.3,
		Seed:                   1,
		Workers:                1,
	}
}

func (o Options) runParams() db.RunParams {
	return db.RunParams{
		IgnoreSelfCombinations:          o.IgnoreSelfCombinations,
		IgnoreDomainsWithNoCombinations: o.IgnoreDomainsWithNoCombinations,
		IgnoreDomainsPrivateToOneGenome: o.IgnoreDomainsPrivateToOneGenome,
		Resamplings:                     o.Resamplings,
		Ratio:                           o.Ratio,
		Seed:                            o.Seed,
	}
}

type Result struct {
	// Nil until the result is persisted.
	Run          *db.Run
	Options      Options
	Species      []model.Species
	Genomes      []*model.GenomeWideCombinableDomains
	Similarities []*similarity.DomainSimilarity
	Distances    *distance.Result
	Resamples    []*distance.Resample
}

// LoadGenomes builds the domain combination graph of every species from the
// annotations in store.
func LoadGenomes(ctx context.Context, store *db.AnalysisDB, species []model.Species,
	t model.DomainCombinationType, ignoreSelfCombinations bool, workers int) ([]*model.GenomeWideCombinableDomains, error) {

	genomes := make([]*model.GenomeWideCombinableDomains, len(species))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))
	for i, s := range species {
		g.Go(func() error {
			proteins, err := store.LoadProteins(gctx, s)
			if err != nil {
				return err
			}
			genome, err := model.Build(proteins, s, t, ignoreSelfCombinations)
			if err != nil {
				return err
			}
			logger.Debug("built domain combination graph",
				zap.String("species", s.String()),
				zap.Int("proteins", len(proteins)),
				zap.Int("key_domains", genome.Size()))
			genomes[i] = genome
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return genomes, nil
}

// Analyze compares already built genomes. Nothing is persisted.
func Analyze(ctx context.Context, species []model.Species, genomes []*model.GenomeWideCombinableDomains, opts Options) (*Result, error) {
	calc := similarity.NewCalculator(similarity.Options{
		SortField:               opts.SortField,
		SortBySpeciesCountFirst: opts.SortBySpeciesCountFirst,
		CalcSimilarityScore:     true,
	})
	sims, err := calc.CalculateSimilarities(opts.Strategy, genomes,
		opts.IgnoreDomainsWithNoCombinations, opts.IgnoreDomainsPrivateToOneGenome)
	if err != nil {
		return nil, fmt.Errorf("domain similarities: %w", err)
	}

	distances, err := distance.CompareAll(ctx, species, genomes, opts.Strategy, distance.CompareOptions{
		IgnoreDomainsWithNoCombinations: opts.IgnoreDomainsWithNoCombinations,
		KeepPairwise:                    opts.KeepPairwise,
		SortField:                       opts.SortField,
		Workers:                         opts.Workers,
	})
	if err != nil {
		return nil, fmt.Errorf("genome distances: %w", err)
	}

	var resamples []*distance.Resample
	if opts.Resamplings != 0 {
		resamples, err = distance.Jackknife(ctx, species, genomes, distance.JackknifeOptions{
			Resamplings: opts.Resamplings,
			Ratio:       opts.Ratio,
			Seed:        opts.Seed,
			Workers:     opts.Workers,
		})
		if err != nil {
			return nil, fmt.Errorf("jackknife: %w", err)
		}
	}

	return &Result{
		Options:      opts,
		Species:      species,
		Genomes:      genomes,
		Similarities: sims,
		Distances:    distances,
		Resamples:    resamples,
	}, nil
}

// Run loads the genomes from store, analyses them and stores the result as a
// new analysis run.
func Run(ctx context.Context, store *db.AnalysisDB, opts Options) (*Result, error) {
	start := time.Now()

	species := opts.Species
	if len(species) == 0 {
		var err error
		species, err = store.ListSpecies(ctx)
		if err != nil {
			return nil, err
		}
	}
	if len(species) == 0 {
		return nil, ErrNoSpecies
	}

	genomes, err := LoadGenomes(ctx, store, species, opts.CombinationType, opts.IgnoreSelfCombinations, opts.Workers)
	if err != nil {
		return nil, err
	}

	result, err := Analyze(ctx, species, genomes, opts)
	if err != nil {
		return nil, err
	}
	if err := Save(ctx, store, result); err != nil {
		return nil, err
	}

	logger.Info("analysis finished",
		zap.String("run_id", result.Run.ID),
		zap.Int("species", len(species)),
		zap.Int("domains", len(result.Similarities)),
		zap.Int("resamplings", len(result.Resamples)),
		zap.Duration("elapsed", time.Since(start)))
	return result, nil
}

// Save stores result as a new run and sets result.Run. The full data
// matrices are resampling 0, jackknife resamplings are numbered from 1.
// A failed save stores nothing.
func Save(ctx context.Context, store *db.AnalysisDB, result *Result) error {
	run := &db.Run{
		CombinationType: result.Options.CombinationType.String(),
		Strategy:        result.Options.Strategy.String(),
		Species:         result.Species,
		Params:          result.Options.runParams(),
	}

	var matrices []db.RunMatrix
	for _, metric := range distance.Metrics() {
		matrices = append(matrices, db.RunMatrix{Metric: metric, Matrix: result.Distances.Matrix(metric)})
		for r, resample := range result.Resamples {
			if m := resample.Matrix(metric); m != nil {
				matrices = append(matrices, db.RunMatrix{Metric: metric, Resampling: r + 1, Matrix: m})
			}
		}
	}

	runID, err := store.SaveRun(ctx, run, result.Similarities, matrices)
	if err != nil {
		return fmt.Errorf("save run: %w", err)
	}

	result.Run = run
	logger.Debug("analysis run stored", zap.String("run_id", runID), zap.Int("matrices", len(matrices)))
	return nil
}
