package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/diligence-cli/internal/api"
	"github.com/sells-group/diligence-cli/internal/pipeline"
)

const shutdownTimeout = 5 * time.Minute

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the trigger server for diligence requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initPipeline(cfg)
		if err != nil {
			return err
		}

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		dispatcher := pipeline.NewDispatcher(env.Pipeline)
		srv := &http.Server{
			Addr: fmt.Sprintf(":%d", port),
			Handler: api.NewRouter(dispatcher, env.Store, api.Options{
				Version:        version,
				AllowedOrigins: cfg.Server.AllowedOrigins,
			}),
			ReadHeaderTimeout: 10 * time.Second,
		}

		return serve(ctx, srv, dispatcher)
	},
}

// serve runs srv until ctx is done, then stops accepting requests and waits
// for in-flight diligence runs to finish.
func serve(ctx context.Context, srv *http.Server, dispatcher *pipeline.Dispatcher) error {
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		zap.L().Info("starting server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		zap.L().Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gCtx), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return eris.Wrap(err, "server shutdown")
		}
		if err := dispatcher.Wait(shutdownCtx); err != nil {
			zap.L().Warn("diligence runs still in flight at shutdown", zap.Error(err))
		}
		return nil
	})

	return g.Wait()
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
