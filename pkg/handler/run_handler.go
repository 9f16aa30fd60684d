package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/yumyai/domcomb/logger"
	"github.com/yumyai/domcomb/pkg/db"
	"github.com/yumyai/domcomb/pkg/distance"
	"github.com/yumyai/domcomb/pkg/handler/params"
	"github.com/yumyai/domcomb/pkg/render"
	"github.com/yumyai/domcomb/pkg/similarity"
)

var ErrBadFormat = errors.New("unsupported format")

// statusOf maps store errors to HTTP statuses.
func statusOf(err error) int {
	switch {
	case errors.Is(err, db.ErrRunNotFound), errors.Is(err, db.ErrMatrixNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (dbctx *DBContext) failed(w http.ResponseWriter, r *http.Request, err error) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		logger.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
	}
	writeError(w, status, err)
}

// ListRuns lists the stored analysis runs, newest first.
func (dbctx *DBContext) ListRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := dbctx.Store.ListRuns(r.Context())
	if err != nil {
		dbctx.failed(w, r, err)
		return
	}
	if runs == nil {
		runs = []*db.Run{}
	}
	writeJSON(w, http.StatusOK, runs)
}

func (dbctx *DBContext) GetRun(w http.ResponseWriter, r *http.Request) {
	run, err := dbctx.Store.GetRun(r.Context(), r.PathValue("run_id"))
	if err != nil {
		dbctx.failed(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, run)
}

// SimilaritiesPage serves the domain similarities of a run as html
// (default), tsv or json.
func (dbctx *DBContext) SimilaritiesPage(w http.ResponseWriter, r *http.Request) {
	format := params.ParseOutputFormat(r.URL.Query().Get("format"), params.FormatHTML)
	if format != params.FormatHTML && format != params.FormatTSV && format != params.FormatJSON {
		writeError(w, http.StatusBadRequest, fmt.Errorf("%w: %q", ErrBadFormat, r.URL.Query().Get("format")))
		return
	}

	run, err := dbctx.Store.GetRun(r.Context(), r.PathValue("run_id"))
	if err != nil {
		dbctx.failed(w, r, err)
		return
	}
	sims, err := dbctx.Store.LoadSimilarities(r.Context(), run.ID)
	if err != nil {
		dbctx.failed(w, r, err)
		return
	}

	switch format {
	case params.FormatJSON:
		if sims == nil {
			sims = []*similarity.DomainSimilarity{}
		}
		writeJSON(w, http.StatusOK, sims)
		return
	case params.FormatTSV:
		w.Header().Set("Content-Type", format.ContentType())
		err = render.WriteSimilarityTSV(w, sims, run.Species)
	default:
		strategy, perr := similarity.ParseStrategy(run.Strategy)
		if perr != nil {
			dbctx.failed(w, r, perr)
			return
		}
		w.Header().Set("Content-Type", format.ContentType())
		err = render.RenderSimilarityPage(w, "Domain similarities of run "+run.ID, strategy, sims, run.Species)
	}
	if err != nil {
		logger.Error("render similarities", zap.String("run_id", run.ID), zap.Error(err))
	}
}

// MatrixPage serves one distance matrix of a run as phylip (default), html
// or json. The resampling query parameter picks a jackknife resampling, 0
// being the full data.
func (dbctx *DBContext) MatrixPage(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	format := params.ParseOutputFormat(query.Get("format"), params.FormatPhylip)
	if format != params.FormatPhylip && format != params.FormatHTML && format != params.FormatJSON {
		writeError(w, http.StatusBadRequest, fmt.Errorf("%w: %q", ErrBadFormat, query.Get("format")))
		return
	}

	metric, err := distance.ParseMetric(r.PathValue("metric"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	resampling := 0
	if raw := query.Get("resampling"); raw != "" {
		resampling, err = strconv.Atoi(raw)
		if err != nil || resampling < 0 {
			writeError(w, http.StatusBadRequest, fmt.Errorf("invalid resampling %q", raw))
			return
		}
	}

	runID := r.PathValue("run_id")
	if _, err := dbctx.Store.GetRun(r.Context(), runID); err != nil {
		dbctx.failed(w, r, err)
		return
	}
	m, err := dbctx.Store.LoadMatrix(r.Context(), runID, metric, resampling)
	if err != nil {
		dbctx.failed(w, r, err)
		return
	}

	switch format {
	case params.FormatJSON:
		writeJSON(w, http.StatusOK, m)
		return
	case params.FormatHTML:
		w.Header().Set("Content-Type", format.ContentType())
		err = render.RenderMatrixHeatmapPage(w, "Genome distances of run "+runID, metric, resampling, m)
	default:
		w.Header().Set("Content-Type", format.ContentType())
		err = m.WritePhylip(w)
	}
	if err != nil {
		logger.Error("render matrix", zap.String("run_id", runID), zap.String("metric", metric.String()), zap.Error(err))
	}
}
