package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"musegate/internal/config"
	"musegate/internal/gateway"
	"musegate/internal/logger"
	"musegate/internal/museum"
	"musegate/internal/museum/chicago"
	"musegate/internal/museum/cleveland"
	"musegate/internal/relay"
	"musegate/internal/session"
)

func main() {
	cfg := config.Get()
	logger.SetDebug(cfg.Gateway.Debug)
	log := logrus.StandardLogger()

	client := museum.NewClient(museum.ClientConfig{
		Timeout:      cfg.HTTP.Timeout,
		RateLimitRPS: cfg.HTTP.RateLimitRPS,
		Burst:        cfg.HTTP.Burst,
	}, log)

	relayHandler := relay.New(client, cfg.Cleveland.BaseURL, log)

	clevOpts := cleveland.Options{BaseURL: cfg.Cleveland.BaseURL}
	if cfg.Cleveland.UseRelay {
		clevOpts.RelayURL = cfg.Gateway.FullURL()
	}
	clev := cleveland.New(client, clevOpts)
	chi := chicago.New(client, chicago.Options{
		BaseURL:     cfg.Chicago.BaseURL,
		IIIFBaseURL: cfg.Chicago.IIIFBaseURL,
	})

	sources := map[museum.SourceID]museum.Source{
		museum.Cleveland: clev,
		museum.Chicago:   chi,
	}

	sessions := session.NewManager(session.ManagerConfig{
		Sources: []museum.Source{clev, chi},
		PageSize: map[museum.SourceID]int{
			museum.Cleveland: cfg.Cleveland.PageSize,
			museum.Chicago:   cfg.Chicago.PageSize,
		},
		Debounce: cfg.Search.Debounce,
		TTL:      cfg.Session.TTL,
	}, log)
	defer sessions.Close()

	srv := gateway.New(log, sessions, sources, relayHandler, gateway.Config{
		BookmarkPageSize: cfg.Cleveland.PageSize,
	})

	// Metrics exporter on its own port.
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Metrics.Port)
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		log.WithField("addr", addr).Info("metrics listener started")
		if err := http.ListenAndServe(addr, mux); err != nil {
			log.WithError(err).Error("metrics listener stopped")
		}
	}()

	httpSrv := &http.Server{
		Addr:    cfg.Gateway.Address(),
		Handler: srv.Handler(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.WithField("addr", httpSrv.Addr).Info("gateway started")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("gateway listener failed")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("shutdown failed")
	}
}
