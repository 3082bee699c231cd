package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/evisdrenova/zonaei-skill/internal/config"
	"github.com/evisdrenova/zonaei-skill/internal/ratelimit"
	"github.com/evisdrenova/zonaei-skill/internal/server"
)

func newServeCmd(loadConfig func() (config.Config, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the skill endpoint.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}
}

func serve(ctx context.Context, cfg config.Config) error {
	// ----------------------------------------------------------------
	// 1. Skill (catalog, answerer, transcripts)
	// ----------------------------------------------------------------
	skill, cleanup, err := buildSkill(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	// ----------------------------------------------------------------
	// 2. gRPC health server
	// ----------------------------------------------------------------
	var health *server.HealthServer
	var grpcLn net.Listener
	if cfg.Server.GRPCAddr != "" {
		health, err = server.NewHealthServer(cfg.Server.TLSCert, cfg.Server.TLSKey)
		if err != nil {
			return err
		}
		grpcLn, err = net.Listen("tcp", cfg.Server.GRPCAddr)
		if err != nil {
			return fmt.Errorf("listen grpc: %w", err)
		}
	}

	// ----------------------------------------------------------------
	// 3. HTTP endpoint
	// ----------------------------------------------------------------
	api := server.NewHTTPServer(skill, server.Options{
		ApplicationID:      cfg.Server.ApplicationID,
		VerifyTimestamp:    cfg.Server.VerifyTimestamp,
		TimestampTolerance: cfg.Server.TimestampTolerance,
		MaxBodyBytes:       cfg.Server.MaxBodyBytes,
		Limiter:            ratelimit.New(cfg.RateLimit.RPS, cfg.RateLimit.Burst, 10*time.Minute),
	})
	httpSrv := &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           api.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
	}
	if cfg.Server.TLSCert == "" {
		log.Warn().Msg("serving plain HTTP; put a TLS terminator in front for the voice platform")
	}

	// ----------------------------------------------------------------
	// 4. Listen and serve
	// ----------------------------------------------------------------
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", cfg.Server.HTTPAddr).Msg("skill endpoint listening")
		return server.ServeHTTP(gctx, httpSrv, cfg.Server.TLSCert, cfg.Server.TLSKey, cfg.Server.ShutdownTimeout)
	})
	if health != nil {
		health.SetServing(true)
		g.Go(func() error {
			log.Info().Str("addr", grpcLn.Addr().String()).Msg("gRPC health listening")
			return health.Serve(gctx, grpcLn)
		})
	}

	err = g.Wait()
	log.Info().Msg("shutdown complete")
	return err
}
