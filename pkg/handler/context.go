package handler

// DI for all handlers alike.

import (
	"go.uber.org/zap"

	"github.com/yumyai/domcomb/pkg/db"
)

type DBContext struct {
	Store *db.AnalysisDB
	// Request logging; nil disables the logging middleware.
	HTTPLogger *zap.Logger
}
