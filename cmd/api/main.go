package main

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"guest_reviews/internal/adapters/google"
	"guest_reviews/internal/adapters/hostaway"
	server "guest_reviews/internal/adapters/http_server"
	"guest_reviews/internal/adapters/observability"
	"guest_reviews/internal/app"
	"guest_reviews/internal/shared"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	// approval store
	store, closeStore, err := shared.OpenApprovalStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Str("store", cfg.ApprovalStore).Msg("approval store init failed")
	}
	defer func() {
		if err := closeStore(); err != nil {
			log.Warn().Err(err).Msg("approval store close failed")
		}
	}()

	// sources
	hc, err := hostaway.New(cfg.HostawayBase, cfg.HostawayToken, cfg.SourceRPS, cfg.RequestTimeout)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize Hostaway client")
	}
	gc, err := google.New(cfg.GoogleBase, cfg.GoogleKey, cfg.SourceRPS, cfg.RequestTimeout)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize Google client")
	}

	approvals := app.NewApprovalService(store)
	q := app.NewQueryService(hc, gc, approvals)

	// http
	srv := server.New(cfg.RequestTimeout)
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(server.NewHandlers(q, approvals, cfg.TrendMonths))

	log.Info().Str("addr", cfg.HTTPAddr).Str("store", cfg.ApprovalStore).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
