package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"swapd/internal/config"
	"swapd/internal/httpapi"
	"swapd/internal/manager"
	"swapd/internal/predictor"
	"swapd/internal/resource/linear"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	f := &serveFlags{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Load the newest model version and serve predictions",
		Example: "  swapd serve --parent-dir /data/models/ctr --fleet-index 2 --fleet-size 8\n" +
			"  swapd serve -c /etc/swapd.yaml",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := opts.load(cmd)
			if err != nil {
				return err
			}
			cfg = f.merge(cfg, cmd.Flags()).WithDefaults()
			if err := cfg.Validate(); err != nil {
				return err
			}
			ln, err := net.Listen("tcp", cfg.Addr)
			if err != nil {
				return fmt.Errorf("listen: %w", err)
			}
			return serve(cmd.Context(), cfg, log, ln)
		},
	}
	f.register(cmd.Flags())
	return cmd
}

// serve loads the initial version, then runs the HTTP server and the reload
// loop until ctx is canceled or the server fails.
func serve(ctx context.Context, cfg config.Config, log zerolog.Logger, ln net.Listener) error {
	mcfg := managerConfig(cfg)
	mlog := log.With().Str("component", "manager").Logger()
	mcfg.Logger = &mlog
	mgr, err := manager.New(linear.Factory(cfg.ModelFile), mcfg)
	if err != nil {
		ln.Close()
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	if err := mgr.Start(gctx); err != nil {
		ln.Close()
		return err
	}
	svc := predictor.New(mgr, predictor.Options{
		FallbackScore:   cfg.FallbackScore,
		DisableFallback: cfg.DisableFallback,
		Logger:          log.With().Str("component", "predictor").Logger(),
	})

	httpapi.SetLogger(log.With().Str("component", "http").Logger())
	httpapi.SetDefaultLogLevel(cfg.LogLevel)
	httpapi.SetMaxBodyBytes(cfg.MaxBodyBytes)
	httpapi.SetCORSOptions(cfg.CORSEnabled, cfg.CORSOrigins, nil, nil)
	httpapi.SetBaseContext(gctx)
	srv := &http.Server{
		Handler:           httpapi.NewMux(svc),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g.Go(func() error {
		log.Info().Str("addr", ln.Addr().String()).Str("parent_dir", cfg.ParentDir).Str("version", mgr.CurrentVersion()).Msg("swapd listening")
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-mgr.Done()
		return nil
	})
	return g.Wait()
}
