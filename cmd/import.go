package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/yumyai/domcomb/logger"
	"github.com/yumyai/domcomb/pkg/db"
)

func newImportCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <table>...",
		Short: "Import protein domain annotation tables",
		Long: `Import loads tab-separated annotation tables into the database. Each
line holds: species, protein id, domain id, from, to, e-value. Lines starting
with # are comments. Use - to read standard input.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			for _, path := range args {
				n, err := importPath(ctx, store, path, cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("import %s: %w", path, err)
				}
				logger.Info("imported annotation table", zap.String("path", path), zap.Int("domains", n))
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %d domains\n", path, n)
			}
			return nil
		},
	}
}

// importPath imports one table, closing it before the next is opened.
func importPath(ctx context.Context, store *db.AnalysisDB, path string, stdin io.Reader) (int, error) {
	if path == "-" {
		return store.ImportTable(ctx, stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return store.ImportTable(ctx, f)
}
