package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	_ "jobstream/docs"
	"jobstream/internal/config"
	"jobstream/internal/httpapi"
	"jobstream/internal/jobregistry"
	"jobstream/internal/jobservice"
	"jobstream/internal/logging"
	"jobstream/internal/runtime"
	"jobstream/internal/topology"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "serve",
		Short:   "Run the HTTP API",
		Example: "  jobstreamd serve --addr :8080 --jobs ingest,export",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}
	cmd.Flags().String("addr", envOr("JOBSTREAM_ADDR", ""), "HTTP listen address (defaults JOBSTREAM_ADDR or :8080)")
	cmd.Flags().String("cors-origins", "", "Comma-separated allowed CORS origins; enables CORS")
	cmd.Flags().Int("event-buffer", 0, "Per-client /events queue length")
	return cmd
}

func serve(parent context.Context, cfg config.Config) error {
	log, err := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	if err != nil {
		return err
	}
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	reg := jobregistry.New()
	reg.SetLogger(log)
	provider := topology.NewProvider(runtime.NewServices())
	provider.SetLogger(log)
	svc := jobservice.New(reg, provider)
	svc.SetLogger(log)

	httpapi.SetLogger(log)
	httpapi.SetMaxBodyBytes(cfg.MaxBodyBytes)
	httpapi.SetEventBuffer(cfg.EventBuffer)
	httpapi.SetCORSOptions(cfg.CORSEnabled, cfg.CORSOrigins, nil, nil)
	httpapi.SetBaseContext(ctx)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpapi.NewMux(svc),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Addr).Int("jobs", len(cfg.Jobs)).Msg("jobstreamd listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	if err := svc.Seed(cfg.Jobs); err != nil {
		_ = srv.Close()
		return err
	}

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	log.Info().Msg("shutting down")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown error")
		return err
	}
	return nil
}
