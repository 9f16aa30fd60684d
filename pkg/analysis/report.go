package analysis

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/yumyai/domcomb/internal/util"
	"github.com/yumyai/domcomb/logger"
	"github.com/yumyai/domcomb/pkg/distance"
	"github.com/yumyai/domcomb/pkg/model"
	"github.com/yumyai/domcomb/pkg/render"
)

const (
	SimilaritiesTSV  = "domain_similarities.tsv"
	SimilaritiesHTML = "domain_similarities.html"
	JackknifeDir     = "jackknife"
	PairsDir         = "pairs"
)

func writeFile(path string, write func(f *os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

// WriteReports writes the result of an analysis below dir:
//
//	domain_similarities.tsv and .html
//	<metric>.phylip and <metric>.html for every distance metric
//	jackknife/<metric>_<r>.phylip for every resampling
//	<species>_dc.txt and <species>_dc.dot for every genome
//	pairs/<species0>_<species1>.tsv when pairwise similarities were kept
func WriteReports(dir string, result *Result) error {
	if err := util.EnsureDir(dir); err != nil {
		return err
	}

	err := writeFile(filepath.Join(dir, SimilaritiesTSV), func(f *os.File) error {
		return render.WriteSimilarityTSV(f, result.Similarities, result.Species)
	})
	if err != nil {
		return err
	}
	err = writeFile(filepath.Join(dir, SimilaritiesHTML), func(f *os.File) error {
		return render.RenderSimilarityPage(f, "Domain similarities", result.Options.Strategy, result.Similarities, result.Species)
	})
	if err != nil {
		return err
	}

	for _, metric := range distance.Metrics() {
		m := result.Distances.Matrix(metric)
		base := filepath.Join(dir, util.SafeFileName(metric.String()))
		if err := writeFile(base+".phylip", func(f *os.File) error { return m.WritePhylip(f) }); err != nil {
			return err
		}
		err := writeFile(base+".html", func(f *os.File) error {
			return render.RenderMatrixHeatmapPage(f, "Genome distances", metric, 0, m)
		})
		if err != nil {
			return err
		}
	}

	if err := writeResamples(filepath.Join(dir, JackknifeDir), result.Resamples); err != nil {
		return err
	}

	for _, genome := range result.Genomes {
		if err := writeGenome(dir, genome); err != nil {
			return err
		}
	}

	if err := writePairs(filepath.Join(dir, PairsDir), result.Distances.Pairs); err != nil {
		return err
	}

	logger.Info("reports written", zap.String("dir", dir))
	return nil
}

func writeResamples(dir string, resamples []*distance.Resample) error {
	if len(resamples) == 0 {
		return nil
	}
	if err := util.EnsureDir(dir); err != nil {
		return err
	}
	for r, resample := range resamples {
		for _, metric := range distance.Metrics() {
			m := resample.Matrix(metric)
			if m == nil {
				continue
			}
			name := fmt.Sprintf("%s_%d.phylip", util.SafeFileName(metric.String()), r+1)
			if err := writeFile(filepath.Join(dir, name), func(f *os.File) error { return m.WritePhylip(f) }); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeGenome(dir string, genome *model.GenomeWideCombinableDomains) error {
	base := filepath.Join(dir, util.SafeFileName(genome.Species().String())+"_dc")
	err := writeFile(base+".txt", func(f *os.File) error {
		return genome.WriteTable(f, model.SortAlphabetical)
	})
	if err != nil {
		return err
	}
	return writeFile(base+".dot", func(f *os.File) error { return genome.WriteDOT(f) })
}

func writePairs(dir string, pairs []*distance.PairResult) error {
	if len(pairs) == 0 {
		return nil
	}
	if err := util.EnsureDir(dir); err != nil {
		return err
	}
	for _, p := range pairs {
		name := util.SafeFileName(fmt.Sprintf("%s_%s.tsv", p.Species0, p.Species1))
		species := []model.Species{p.Species0, p.Species1}
		err := writeFile(filepath.Join(dir, name), func(f *os.File) error {
			return render.WriteSimilarityTSV(f, p.Similarities, species)
		})
		if err != nil {
			return err
		}
	}
	return nil
}
