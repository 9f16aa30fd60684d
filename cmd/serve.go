package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/yumyai/domcomb/logger"
	"github.com/yumyai/domcomb/pkg/handler"
	"github.com/yumyai/domcomb/pkg/middle"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve stored analysis runs over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			store, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			dbctx := &handler.DBContext{
				Store:      store,
				HTTPLogger: middle.CreateMiddlewareLogger(logger.ParseLevel(a.cfg.LogLevel)),
			}
			defer dbctx.HTTPLogger.Sync()

			srv := &http.Server{
				Addr:              addr,
				Handler:           handler.NewRouter(dbctx),
				ReadHeaderTimeout: 10 * time.Second,
			}

			errc := make(chan error, 1)
			go func() {
				logger.Info("Server starting", zap.String("addr", addr), zap.String("db", a.dbPath))
				errc <- srv.ListenAndServe()
			}()

			select {
			case err := <-errc:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
			}

			logger.Info("Server shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", a.cfg.Addr, "Listen address")
	return cmd
}
