package distance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/yumyai/domcomb/internal/stats"
	"github.com/yumyai/domcomb/logger"
	"github.com/yumyai/domcomb/pkg/model"
	"github.com/yumyai/domcomb/pkg/similarity"
)

var ErrLengthMismatch = errors.New("number of species and genomes differ")

type CompareOptions struct {
	IgnoreDomainsWithNoCombinations bool
	// Keep the per-domain similarities of every pair in Result.Pairs.
	KeepPairwise bool
	// Order of the similarities kept per pair.
	SortField similarity.SortField
	// Pairs compared concurrently; 1 or less runs sequentially.
	Workers int
}

// PairResult is the comparison of genome I with genome J, J < I.
type PairResult struct {
	I, J                       int
	Species0, Species1         model.Species
	Similarities               []*similarity.DomainSimilarity
	MeanScoreDistance          float64
	SharedDomainsDistance      float64
	SharedCombinationsDistance float64
}

type Result struct {
	MeanScoreDistances          *Matrix
	SharedDomainsDistances      *Matrix
	SharedCombinationsDistances *Matrix
	// Lower triangle order: (1,0), (2,0), (2,1), ...
	Pairs []*PairResult
}

// Matrix returns the matrix of metric, nil for an unknown metric.
func (r *Result) Matrix(metric Metric) *Matrix {
	switch metric {
	case MetricMeanScore:
		return r.MeanScoreDistances
	case MetricSharedDomains:
		return r.SharedDomainsDistances
	case MetricSharedCombinations:
		return r.SharedCombinationsDistances
	default:
		return nil
	}
}

type pairIndex struct {
	i, j int
}

// lowerTriangle lists (i, j), j < i, row by row.
func lowerTriangle(n int) []pairIndex {
	pairs := make([]pairIndex, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := 0; j < i; j++ {
			pairs = append(pairs, pairIndex{i, j})
		}
	}
	return pairs
}

func identifiers(species []model.Species) []string {
	ids := make([]string, len(species))
	for i, s := range species {
		ids[i] = s.String()
	}
	return ids
}

func workerLimit(workers int) int {
	if workers < 1 {
		return 1
	}
	return workers
}

// CompareAll computes the three pairwise genome distance matrices: one minus
// the mean domain similarity score, and the Jaccard distances over domain ids
// and over binary domain combinations. species[i] labels genomes[i].
func CompareAll(ctx context.Context, species []model.Species, genomes []*model.GenomeWideCombinableDomains,
	strategy similarity.Strategy, opts CompareOptions) (*Result, error) {

	if len(species) != len(genomes) {
		return nil, fmt.Errorf("%w: %d species, %d genomes", ErrLengthMismatch, len(species), len(genomes))
	}

	start := time.Now()
	ids := identifiers(species)
	result := &Result{
		MeanScoreDistances:          NewMatrix(ids),
		SharedDomainsDistances:      NewMatrix(ids),
		SharedCombinationsDistances: NewMatrix(ids),
	}

	pairs := lowerTriangle(len(genomes))
	pairResults := make([]*PairResult, len(pairs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workerLimit(opts.Workers))
	for k, p := range pairs {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			pr, err := comparePair(p, species, genomes, strategy, opts)
			if err != nil {
				return err
			}
			result.MeanScoreDistances.Set(p.i, p.j, pr.MeanScoreDistance)
			result.SharedDomainsDistances.Set(p.i, p.j, pr.SharedDomainsDistance)
			result.SharedCombinationsDistances.Set(p.i, p.j, pr.SharedCombinationsDistance)
			pairResults[k] = pr
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if opts.KeepPairwise {
		result.Pairs = pairResults
	}
	logger.Info("pairwise genome comparison done",
		zap.Int("genomes", len(genomes)),
		zap.Int("pairs", len(pairs)),
		zap.String("strategy", strategy.String()),
		zap.Duration("elapsed", time.Since(start)))
	return result, nil
}

func comparePair(p pairIndex, species []model.Species, genomes []*model.GenomeWideCombinableDomains,
	strategy similarity.Strategy, opts CompareOptions) (*PairResult, error) {

	gi, gj := genomes[p.i], genomes[p.j]
	pr := &PairResult{I: p.i, J: p.j, Species0: species[p.i], Species1: species[p.j]}

	if gi.Size() < 1 || gj.Size() < 1 {
		pr.MeanScoreDistance = MaxDistance
		pr.SharedDomainsDistance = MaxDistance
		pr.SharedCombinationsDistance = MaxDistance
		return pr, nil
	}

	calc := similarity.NewCalculator(similarity.Options{
		SortField:           opts.SortField,
		TreatAsBinary:       true,
		CalcSimilarityScore: true,
	})
	sims, err := calc.CalculateSimilarities(strategy, []*model.GenomeWideCombinableDomains{gi, gj},
		opts.IgnoreDomainsWithNoCombinations, true)
	if err != nil {
		return nil, fmt.Errorf("compare %s with %s: %w", species[p.i], species[p.j], err)
	}

	means := &stats.DescriptiveStatistics{}
	for _, s := range sims {
		means.AddValue(s.MeanSimilarityScore)
	}
	pr.MeanScoreDistance = MaxDistance
	if means.N() > 0 {
		pr.MeanScoreDistance = max(0, 1-means.Mean())
	}
	if means.N() > 1 && means.Min() >= means.Max() {
		logger.Warn("score minimum is not below score maximum, a genome may be compared to itself",
			zap.String("species0", species[p.i].String()),
			zap.String("species1", species[p.j].String()),
			zap.Float64("min", means.Min()),
			zap.Float64("max", means.Max()))
	}

	comparison := NewGenomePairComparison(gi, gj)
	pr.SharedDomainsDistance = comparison.SharedDomainsDistance()
	pr.SharedCombinationsDistance = comparison.SharedCombinationsDistance()

	logger.Debug("compared genomes",
		zap.String("species0", species[p.i].String()),
		zap.String("species1", species[p.j].String()),
		zap.Int("shared_domains", means.N()),
		zap.Float64("mean_score_distance", pr.MeanScoreDistance),
		zap.Float64("shared_domains_distance", pr.SharedDomainsDistance),
		zap.Float64("shared_combinations_distance", pr.SharedCombinationsDistance))

	if opts.KeepPairwise {
		pr.Similarities = sims
	}
	return pr, nil
}
