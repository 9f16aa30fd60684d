// Package cmd holds the domcomb command line.
package cmd

import (
	"context"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"

	"github.com/yumyai/domcomb/internal/config"
	"github.com/yumyai/domcomb/internal/util"
	"github.com/yumyai/domcomb/logger"
	"github.com/yumyai/domcomb/pkg/db"
)

// app is the state shared by all subcommands.
type app struct {
	cfg     config.Config
	dbPath  string
	verbose bool
}

func (a *app) openStore(ctx context.Context) (*db.AnalysisDB, error) {
	if err := util.EnsureDir(filepath.Dir(a.dbPath)); err != nil {
		return nil, err
	}
	return db.Open(ctx, a.dbPath)
}

// NewRootCommand creates the domcomb command with all subcommands. cfg
// supplies the flag defaults.
func NewRootCommand(cfg config.Config) *cobra.Command {
	a := &app{cfg: cfg}

	cmd := &cobra.Command{
		Use:   "domcomb",
		Short: "Protein domain combination analysis",
		Long: `domcomb builds the domain combination graphs of genomes from their
protein domain annotations, compares each domain across genomes and derives
genome distance matrices, optionally jackknifed.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if a.verbose {
				return logger.InitLogger(zapcore.DebugLevel)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().StringVar(&a.dbPath, "db", cfg.DBPath, "sqlite database file")

	cmd.AddCommand(
		newImportCommand(a),
		newGraphCommand(a),
		newAnalyzeCommand(a),
		newServeCommand(a),
	)
	return cmd
}
