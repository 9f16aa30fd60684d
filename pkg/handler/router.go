package handler

import (
	"net/http"

	"github.com/yumyai/domcomb/pkg/middle"
)

func NewRouter(dbctx *DBContext) http.Handler {
	mux := http.NewServeMux()

	// Error route
	mux.HandleFunc("GET /favicon.ico", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Not Found", http.StatusNotFound)
	})

	// Pages
	mux.HandleFunc("GET /runs/{run_id}/similarities", dbctx.SimilaritiesPage)
	mux.HandleFunc("GET /runs/{run_id}/matrix/{metric}", dbctx.MatrixPage)

	// API routes
	mux.HandleFunc("GET /api/v1/health", dbctx.HealthCheck)
	mux.HandleFunc("GET /api/v1/runs", dbctx.ListRuns)
	mux.HandleFunc("GET /api/v1/runs/{run_id}", dbctx.GetRun)

	if dbctx.HTTPLogger == nil {
		return mux
	}
	return middle.Chain(mux,
		middle.RequestIDMiddleware(dbctx.HTTPLogger),
		middle.LoggingMiddleware(dbctx.HTTPLogger))
}
