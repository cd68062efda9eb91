package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/GoSim-25-26J-441/photogrid-backend/config"
	"github.com/GoSim-25-26J-441/photogrid-backend/internal/adminauth"
	"github.com/GoSim-25-26J-441/photogrid-backend/internal/backup"
	"github.com/GoSim-25-26J-441/photogrid-backend/internal/bootstrap"
	"github.com/GoSim-25-26J-441/photogrid-backend/internal/logging"
	"github.com/GoSim-25-26J-441/photogrid-backend/internal/templates/repository"
	"github.com/GoSim-25-26J-441/photogrid-backend/internal/templates/service"
)

const serviceName = "photogrid-api"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.New("info", serviceName).WithError(err).Fatal("failed to load configuration")
	}

	log := logging.New(cfg.App.LogLevel, serviceName)
	bootstrap.SetGinMode(cfg.App.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	kv, err := bootstrap.OpenStore(ctx, cfg)
	if err != nil {
		log.WithError(err).Fatalf("failed to open %s storage", cfg.Storage.Backend)
	}
	defer kv.Close()

	repo := repository.NewCollectionRepository(kv, cfg.Storage.TemplatesKey)
	store := service.NewTemplateStore(ctx, repo, service.WithLogger(log.WithField("component", "template_store")))
	log.Infof("template store ready with %d templates (%s backend)", store.Len(), cfg.Storage.Backend)

	go bootstrap.WatchChanges(ctx, kv, repo.Key(), store, log)

	if cfg.Backup.Cron != "" {
		sink, err := backup.NewSink(ctx, cfg.Backup)
		if err != nil {
			log.WithError(err).Fatal("failed to configure backup sink")
		}
		scheduler := backup.NewScheduler(store, sink, log)
		if err := scheduler.Start(cfg.Backup.Cron); err != nil {
			log.WithError(err).Fatal("failed to start backup scheduler")
		}
		defer func() { <-scheduler.Stop().Done() }()
	}

	router := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName:    serviceName,
		Version:        cfg.App.Version,
		Backend:        cfg.Storage.Backend,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		KV:             kv,
		Store:          store,
		Credentials:    adminauth.NewCredentials(kv, cfg.Admin.DefaultPassword),
		Sessions:       adminauth.NewSessions(cfg.Admin.SessionTTL),
		Limiter:        adminauth.NewLoginLimiter(cfg.Admin.LoginRatePerMin, cfg.Admin.LoginBurst),
		Log:            log,
	})

	// Event streams only end when their request context does.
	streamCtx, cancelStreams := context.WithCancel(context.Background())
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return streamCtx },
	}
	srv.RegisterOnShutdown(cancelStreams)

	go func() {
		log.Infof("listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("http server failed")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("graceful shutdown failed")
	}
}
