package distance

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"math"
	"math/rand/v2"
	"slices"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/yumyai/domcomb/logger"
	"github.com/yumyai/domcomb/pkg/model"
)

var ErrInvalidResampling = errors.New("invalid jackknife parameters")

// Source draws uniform integers in [0, n).
type Source interface {
	IntN(n int) int
}

// NewSource returns a deterministic PCG-backed source.
func NewSource(seed uint64) Source {
	return rand.New(rand.NewPCG(seed, seed))
}

type JackknifeOptions struct {
	Resamplings int
	// Fraction of domain ids left out per resampling, in (0, 1).
	Ratio float64
	// Used when Source is nil.
	Seed   uint64
	Source Source
	// Resamplings computed concurrently; 1 or less runs sequentially.
	Workers int
}

// Resample holds the two Jaccard distance matrices recomputed with the
// Excluded domain ids left out.
type Resample struct {
	SharedDomains      *Matrix
	SharedCombinations *Matrix
	Excluded           []string
}

// Matrix returns the resampled matrix of metric, nil when metric is not
// resampled.
func (r *Resample) Matrix(metric Metric) *Matrix {
	switch metric {
	case MetricSharedDomains:
		return r.SharedDomains
	case MetricSharedCombinations:
		return r.SharedCombinations
	default:
		return nil
	}
}

func validateJackknife(opts JackknifeOptions) error {
	if opts.Resamplings < 2 {
		return fmt.Errorf("%w: %d resamplings, need at least 2", ErrInvalidResampling, opts.Resamplings)
	}
	if opts.Ratio <= 0 || opts.Ratio >= 1 || math.IsNaN(opts.Ratio) {
		return fmt.Errorf("%w: ratio %g outside (0, 1)", ErrInvalidResampling, opts.Ratio)
	}
	return nil
}

// allDomainIDs is the sorted union of the domain ids of all genomes.
func allDomainIDs(genomes []*model.GenomeWideCombinableDomains) []string {
	set := make(map[string]bool)
	for _, g := range genomes {
		for _, id := range g.DomainIDs() {
			set[id] = true
		}
	}
	return slices.Sorted(maps.Keys(set))
}

// pickDomainIDs draws round(ratio * len(ids)) distinct ids.
func pickDomainIDs(ids []string, ratio float64, src Source) []string {
	n := int(math.Round(ratio * float64(len(ids))))
	picked := make(map[string]bool, n)
	for len(picked) < n {
		picked[ids[src.IntN(len(ids))]] = true
	}
	return slices.Sorted(maps.Keys(picked))
}

// Jackknife recomputes the shared-domains and shared-combinations distance
// matrices opts.Resamplings times, each time leaving out a random fraction of
// the domain ids. The mean score distance is not resampled.
func Jackknife(ctx context.Context, species []model.Species, genomes []*model.GenomeWideCombinableDomains,
	opts JackknifeOptions) ([]*Resample, error) {

	if err := validateJackknife(opts); err != nil {
		return nil, err
	}
	if len(species) != len(genomes) {
		return nil, fmt.Errorf("%w: %d species, %d genomes", ErrLengthMismatch, len(species), len(genomes))
	}

	src := opts.Source
	if src == nil {
		src = NewSource(opts.Seed)
	}

	start := time.Now()
	ids := allDomainIDs(genomes)

	// all draws happen here, before any worker runs
	resamples := make([]*Resample, opts.Resamplings)
	for r := range resamples {
		resamples[r] = &Resample{Excluded: pickDomainIDs(ids, opts.Ratio, src)}
	}

	names := identifiers(species)
	pairs := lowerTriangle(len(genomes))
	base := make([]*GenomePairComparison, len(pairs))
	for k, p := range pairs {
		base[k] = NewGenomePairComparison(genomes[p.i], genomes[p.j])
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workerLimit(opts.Workers))
	for _, rs := range resamples {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rs.SharedDomains = NewMatrix(names)
			rs.SharedCombinations = NewMatrix(names)
			for k, p := range pairs {
				comparison := base[k].Ignoring(rs.Excluded...)
				rs.SharedDomains.Set(p.i, p.j, comparison.SharedDomainsDistance())
				rs.SharedCombinations.Set(p.i, p.j, comparison.SharedCombinationsDistance())
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	logger.Info("jackknife resampling done",
		zap.Int("resamplings", opts.Resamplings),
		zap.Float64("ratio", opts.Ratio),
		zap.Int("domains", len(ids)),
		zap.Int("excluded_per_resampling", len(resamples[0].Excluded)),
		zap.Duration("elapsed", time.Since(start)))
	return resamples, nil
}
