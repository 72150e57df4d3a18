package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	router "github.com/dkeye/Podcast/internal/adapters/http"
	"github.com/dkeye/Podcast/internal/adapters/auth"
	"github.com/dkeye/Podcast/internal/app"
	"github.com/dkeye/Podcast/internal/app/orch"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the signaling server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()
		return serve(ctx)
	},
}

func serve(ctx context.Context) error {
	cfg, st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	audit := app.NewAuditor(st, cfg.Audit.Timeout)
	o := orch.New(orch.Options{
		Gate:             &app.Gate{Store: st, RequireActive: cfg.Admission.RequireActive},
		Audit:            audit,
		Policy:           app.SimplePolicy{},
		AdmissionTimeout: cfg.Admission.Timeout,
	})

	r := router.SetupRouter(ctx, cfg, router.Deps{
		Orch:     o,
		Sessions: st,
		Auth:     auth.NewJWTService(cfg.JWTSecret, cfg.TokenTTL),
	})
	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return o.Run(gctx)
	})
	g.Go(func() error {
		log.Info().Str("addr", addr).Msg("Podcast signaling server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("Shutting down")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Server forced to shutdown")
		}
		return nil
	})

	err = g.Wait()
	o.WaitPending()
	audit.Wait()
	log.Info().Msg("Server exited gracefully")
	return err
}
